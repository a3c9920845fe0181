package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bathcraft/washroom-api/internal/config"
	"github.com/bathcraft/washroom-api/internal/costing"
	"github.com/bathcraft/washroom-api/internal/domain"
	"github.com/bathcraft/washroom-api/internal/mapper"
	"github.com/bathcraft/washroom-api/internal/quotation"
	"github.com/bathcraft/washroom-api/internal/repository"
	"github.com/bathcraft/washroom-api/internal/storage"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// QuotationService generates quotation documents from costed projects.
// Generation reads project data only; it never changes the project.
type QuotationService struct {
	projectRepo   *repository.ProjectRepository
	quotationRepo *repository.QuotationRepository
	costing       *ProjectCostingService
	numbers       *NumberSequenceService
	storage       storage.Storage
	cfg           config.QuotationConfig
	now           func() time.Time
	logger        *zap.Logger
}

// NewQuotationService creates a new quotation service instance.
// store may be nil, in which case documents are kept in the database only.
func NewQuotationService(
	projectRepo *repository.ProjectRepository,
	quotationRepo *repository.QuotationRepository,
	costingService *ProjectCostingService,
	numbers *NumberSequenceService,
	store storage.Storage,
	cfg config.QuotationConfig,
	logger *zap.Logger,
) *QuotationService {
	return &QuotationService{
		projectRepo:   projectRepo,
		quotationRepo: quotationRepo,
		costing:       costingService,
		numbers:       numbers,
		storage:       store,
		cfg:           cfg,
		now:           time.Now,
		logger:        logger,
	}
}

// GenerateQuotation costs the project, renders the quotation, stores the
// rendered documents and records the quotation
func (s *QuotationService) GenerateQuotation(ctx context.Context, projectID uuid.UUID, req *domain.GenerateQuotationRequest) (*domain.GenerateQuotationResponse, error) {
	project, err := s.projectRepo.GetWithDetails(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	summary, book, err := s.costing.costProject(ctx, project, nil)
	if err != nil {
		return nil, err
	}

	number, err := s.numbers.GenerateQuotationNumber(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	validity := req.ValidityDays
	if validity == 0 {
		validity = s.cfg.DefaultValidityDays
	}
	terms := lo.CoalesceOrEmpty(strings.TrimSpace(req.Terms), project.Terms, s.cfg.DefaultTerms)

	q := &domain.Quotation{
		ProjectID:       project.ID,
		QuotationNumber: number,
		ProjectName:     project.Name,
		ClientName:      project.ClientName,
		Location:        project.Location,
		Terms:           terms,
		ValidUntil:      now.AddDate(0, 0, validity),
		Summary:         summary,
	}

	doc := quotation.NewDocument(s.header(q, now, book), summary, washroomAreas(project.Washrooms))
	html, err := quotation.RenderHTML(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render quotation: %w", err)
	}
	q.HTML = html
	q.TotalAmount = doc.Totals.GrandTotal
	q.StoragePath = s.store(ctx, q, doc)

	if err := s.quotationRepo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to save quotation: %w", err)
	}

	s.logger.Info("quotation generated",
		zap.String("project_id", project.ID.String()),
		zap.String("quotation_number", number),
		zap.Float64("total_amount", q.TotalAmount),
	)

	return &domain.GenerateQuotationResponse{
		ID:              q.ID,
		QuotationNumber: q.QuotationNumber,
		HTML:            q.HTML,
		TotalAmount:     q.TotalAmount,
	}, nil
}

func (s *QuotationService) header(q *domain.Quotation, date time.Time, book costing.RateBook) quotation.Header {
	names := make(map[string]string, len(book.ServiceRates)+len(book.TilingRates))
	for code, rate := range book.TilingRates {
		names[code] = rate.Name
	}
	for code, rate := range book.ServiceRates {
		names[code] = rate.Name
	}

	return quotation.Header{
		Number:       q.QuotationNumber,
		Date:         date,
		ValidUntil:   q.ValidUntil,
		CompanyName:  s.cfg.CompanyName,
		ProjectName:  q.ProjectName,
		ClientName:   q.ClientName,
		Location:     q.Location,
		Terms:        q.Terms,
		ServiceNames: names,
	}
}

func washroomAreas(washrooms []domain.Washroom) map[uuid.UUID]float64 {
	return lo.SliceToMap(washrooms, func(w domain.Washroom) (uuid.UUID, float64) {
		return w.ID, w.TotalArea
	})
}

func storageKey(number, ext string) string {
	return "quotations/" + number + ext
}

// store uploads the HTML and workbook. Storage failures are logged and the
// quotation is still recorded with its HTML in the database.
func (s *QuotationService) store(ctx context.Context, q *domain.Quotation, doc quotation.Document) string {
	if s.storage == nil {
		return ""
	}

	key := storageKey(q.QuotationNumber, ".html")
	if _, err := s.storage.Put(ctx, key, contentTypeHTML, strings.NewReader(q.HTML)); err != nil {
		s.logger.Warn("failed to store quotation html",
			zap.String("quotation_number", q.QuotationNumber),
			zap.Error(err),
		)
		return ""
	}

	workbook, err := quotation.ExportExcel(doc)
	if err != nil {
		s.logger.Warn("failed to build quotation workbook", zap.Error(err))
		return key
	}
	if _, err := s.storage.Put(ctx, storageKey(q.QuotationNumber, ".xlsx"), contentTypeXLSX, bytes.NewReader(workbook)); err != nil {
		s.logger.Warn("failed to store quotation workbook",
			zap.String("quotation_number", q.QuotationNumber),
			zap.Error(err),
		)
	}
	return key
}

func (s *QuotationService) get(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	q, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}
	return q, nil
}

// GetByID retrieves a quotation without its HTML
func (s *QuotationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuotationDTO, error) {
	q, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := mapper.ToQuotationDTO(q)
	return &dto, nil
}

// GetHTML returns the rendered quotation HTML
func (s *QuotationService) GetHTML(ctx context.Context, id uuid.UUID) (string, error) {
	q, err := s.get(ctx, id)
	if err != nil {
		return "", err
	}
	return q.HTML, nil
}

// ListByProject lists a project's quotations, newest first
func (s *QuotationService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.QuotationDTO, error) {
	quotations, err := s.quotationRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}

	dtos := make([]domain.QuotationDTO, len(quotations))
	for i := range quotations {
		dtos[i] = mapper.ToQuotationDTO(&quotations[i])
	}
	return dtos, nil
}

// ExportExcel returns the quotation workbook and a download file name. The
// stored workbook is served when present; otherwise it is rebuilt from the
// quotation snapshot.
func (s *QuotationService) ExportExcel(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	q, err := s.get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	filename := q.QuotationNumber + ".xlsx"

	if s.storage != nil && q.StoragePath != "" {
		data, err := s.readStored(ctx, storageKey(q.QuotationNumber, ".xlsx"))
		if err == nil {
			return data, filename, nil
		}
		if !errors.Is(err, storage.ErrObjectNotFound) {
			s.logger.Warn("failed to read stored workbook, rebuilding",
				zap.String("quotation_number", q.QuotationNumber),
				zap.Error(err),
			)
		}
	}

	var areas map[uuid.UUID]float64
	if project, err := s.projectRepo.GetWithDetails(ctx, q.ProjectID); err == nil {
		areas = washroomAreas(project.Washrooms)
	}

	book, err := s.costing.rates.LoadRateBook(ctx)
	if err != nil {
		return nil, "", err
	}

	doc := quotation.NewDocument(s.header(q, q.CreatedAt, book), q.Summary, areas)
	data, err := quotation.ExportExcel(doc)
	if err != nil {
		return nil, "", fmt.Errorf("failed to export quotation: %w", err)
	}
	return data, filename, nil
}

func (s *QuotationService) readStored(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.storage.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
