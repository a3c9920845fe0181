package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bathcraft/washroom-api/internal/costing"
	"github.com/bathcraft/washroom-api/internal/domain"
	"github.com/bathcraft/washroom-api/internal/mapper"
	"github.com/bathcraft/washroom-api/internal/repository"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// defaultGSTPercentage applies when neither the request nor settings carry one
const defaultGSTPercentage = 18.0

// ProjectService handles business logic for renovation projects, their
// washrooms and project-level cost items
type ProjectService struct {
	projectRepo  *repository.ProjectRepository
	washroomRepo *repository.WashroomRepository
	costItemRepo *repository.CostItemRepository
	catalogRepo  *repository.CatalogRepository
	estimateRepo *repository.EstimateRepository
	settingsRepo *repository.SettingsRepository
	logger       *zap.Logger
}

// NewProjectService creates a new project service instance
func NewProjectService(
	projectRepo *repository.ProjectRepository,
	washroomRepo *repository.WashroomRepository,
	costItemRepo *repository.CostItemRepository,
	catalogRepo *repository.CatalogRepository,
	estimateRepo *repository.EstimateRepository,
	settingsRepo *repository.SettingsRepository,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo:  projectRepo,
		washroomRepo: washroomRepo,
		costItemRepo: costItemRepo,
		catalogRepo:  catalogRepo,
		estimateRepo: estimateRepo,
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// validatePricing checks margin and GST when internal pricing is on.
// Values are ignored by costing otherwise.
func validatePricing(enabled bool, margin, gst float64) error {
	if !enabled {
		return nil
	}
	if _, err := costing.ValidateMargin(margin); err != nil {
		return err
	}
	return costing.ValidateTax(gst)
}

// Create creates a draft project. A linked estimate seeds the original
// estimate amount when the request leaves it at zero.
func (s *ProjectService) Create(ctx context.Context, req *domain.CreateProjectRequest) (*domain.ProjectDTO, error) {
	defaults, err := s.settingsRepo.GetValues(ctx, domain.SettingDefaultMarginPercentage, domain.SettingDefaultGSTPercentage)
	if err != nil {
		return nil, fmt.Errorf("failed to load pricing defaults: %w", err)
	}

	margin := lo.FromPtrOr(req.MarginPercentage, defaults[domain.SettingDefaultMarginPercentage])
	gst, ok := defaults[domain.SettingDefaultGSTPercentage]
	if !ok {
		gst = defaultGSTPercentage
	}
	gst = lo.FromPtrOr(req.GSTPercentage, gst)

	if err := validatePricing(req.InternalPricingEnabled, margin, gst); err != nil {
		return nil, err
	}

	project := &domain.Project{
		Name:                   strings.TrimSpace(req.Name),
		ClientName:             strings.TrimSpace(req.ClientName),
		ClientEmail:            req.ClientEmail,
		ClientMobile:           req.ClientMobile,
		Location:               req.Location,
		EstimateID:             req.EstimateID,
		OriginalEstimate:       req.OriginalEstimate,
		InternalPricingEnabled: req.InternalPricingEnabled,
		MarginPercentage:       margin,
		GSTPercentage:          gst,
		Terms:                  req.Terms,
		Status:                 domain.ProjectStatusDraft,
	}

	if req.EstimateID != nil {
		estimate, err := s.estimateRepo.GetByID(ctx, *req.EstimateID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrEstimateNotFound
			}
			return nil, fmt.Errorf("failed to get estimate: %w", err)
		}
		if project.OriginalEstimate == 0 {
			project.OriginalEstimate = estimate.Total
		}
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info("project created",
		zap.String("project_id", project.ID.String()),
		zap.String("name", project.Name),
	)

	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

// GetByID retrieves a project with its washrooms and selections
func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProjectDTO, error) {
	project, err := s.projectRepo.GetWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

// List returns a page of projects, newest first
func (s *ProjectService) List(ctx context.Context, page, pageSize int, search string, status *domain.ProjectStatus) (*domain.PaginatedResponse, error) {
	page, pageSize = normalizePage(page, pageSize)

	projects, total, err := s.projectRepo.List(ctx, page, pageSize, search, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	dtos := make([]domain.ProjectDTO, len(projects))
	for i := range projects {
		dtos[i] = mapper.ToProjectDTO(&projects[i])
	}
	return paginated(dtos, total, page, pageSize), nil
}

// Update replaces the editable project fields
func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateProjectRequest) (*domain.ProjectDTO, error) {
	project, err := s.getProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validatePricing(req.InternalPricingEnabled, req.MarginPercentage, req.GSTPercentage); err != nil {
		return nil, err
	}

	project.Name = strings.TrimSpace(req.Name)
	project.ClientName = strings.TrimSpace(req.ClientName)
	project.ClientEmail = req.ClientEmail
	project.ClientMobile = req.ClientMobile
	project.Location = req.Location
	project.OriginalEstimate = req.OriginalEstimate
	project.InternalPricingEnabled = req.InternalPricingEnabled
	project.MarginPercentage = req.MarginPercentage
	project.GSTPercentage = req.GSTPercentage
	project.Terms = req.Terms
	if req.Status != "" {
		project.Status = req.Status
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Delete removes a project with its washrooms and cost items. Issued
// quotations are kept.
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.logger.Info("project deleted", zap.String("project_id", id.String()))
	return nil
}

func (s *ProjectService) getProject(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) getWashroom(ctx context.Context, projectID, washroomID uuid.UUID) (*domain.Washroom, error) {
	washroom, err := s.washroomRepo.GetByID(ctx, projectID, washroomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWashroomNotFound
		}
		return nil, fmt.Errorf("failed to get washroom: %w", err)
	}
	return washroom, nil
}

// AddWashroom adds a washroom to a project. Areas are derived from the dimensions.
func (s *ProjectService) AddWashroom(ctx context.Context, projectID uuid.UUID, req *domain.WashroomRequest) (*domain.WashroomDTO, error) {
	if _, err := s.getProject(ctx, projectID); err != nil {
		return nil, err
	}

	washroom := &domain.Washroom{
		ProjectID:       projectID,
		Name:            strings.TrimSpace(req.Name),
		SelectedBrandID: req.SelectedBrandID,
	}
	washroom.SetDimensions(req.Dimensions.ToDimensions())

	if err := s.washroomRepo.Create(ctx, washroom); err != nil {
		return nil, fmt.Errorf("failed to create washroom: %w", err)
	}

	s.logger.Info("washroom added",
		zap.String("project_id", projectID.String()),
		zap.String("washroom_id", washroom.ID.String()),
		zap.Float64("total_area", washroom.TotalArea),
	)

	return s.GetWashroom(ctx, projectID, washroom.ID)
}

// GetWashroom retrieves a washroom with its selections
func (s *ProjectService) GetWashroom(ctx context.Context, projectID, washroomID uuid.UUID) (*domain.WashroomDTO, error) {
	washroom, err := s.getWashroom(ctx, projectID, washroomID)
	if err != nil {
		return nil, err
	}

	dto := mapper.ToWashroomDTO(washroom)
	return &dto, nil
}

// UpdateWashroom renames a washroom and replaces its dimensions. A nil
// ceiling area returns the ceiling to the floor area.
func (s *ProjectService) UpdateWashroom(ctx context.Context, projectID, washroomID uuid.UUID, req *domain.WashroomRequest) (*domain.WashroomDTO, error) {
	washroom, err := s.getWashroom(ctx, projectID, washroomID)
	if err != nil {
		return nil, err
	}

	washroom.Name = strings.TrimSpace(req.Name)
	washroom.SelectedBrandID = req.SelectedBrandID
	washroom.SetDimensions(req.Dimensions.ToDimensions())

	if err := s.washroomRepo.Update(ctx, washroom); err != nil {
		return nil, fmt.Errorf("failed to update washroom: %w", err)
	}

	return s.GetWashroom(ctx, projectID, washroomID)
}

// DeleteWashroom removes a washroom and its selections
func (s *ProjectService) DeleteWashroom(ctx context.Context, projectID, washroomID uuid.UUID) error {
	if err := s.washroomRepo.Delete(ctx, projectID, washroomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWashroomNotFound
		}
		return fmt.Errorf("failed to delete washroom: %w", err)
	}
	return nil
}

// SetService selects an execution service for a washroom, or updates the
// existing selection
func (s *ProjectService) SetService(ctx context.Context, projectID, washroomID uuid.UUID, code string, req *domain.SetWashroomServiceRequest) (*domain.WashroomDTO, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: service code is required", ErrInvalidInput)
	}

	washroom, err := s.getWashroom(ctx, projectID, washroomID)
	if err != nil {
		return nil, err
	}

	svc := &domain.WashroomService{
		WashroomID:   washroom.ID,
		ServiceCode:  code,
		Quantity:     req.Quantity,
		Area:         req.Area,
		RateOverride: req.RateOverride,
	}
	if err := s.washroomRepo.SetService(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to select service: %w", err)
	}

	return s.GetWashroom(ctx, projectID, washroomID)
}

// RemoveService deselects a service from a washroom
func (s *ProjectService) RemoveService(ctx context.Context, projectID, washroomID uuid.UUID, code string) error {
	if _, err := s.getWashroom(ctx, projectID, washroomID); err != nil {
		return err
	}

	if err := s.washroomRepo.RemoveService(ctx, washroomID, code); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrServiceNotSelected
		}
		return fmt.Errorf("failed to remove service: %w", err)
	}
	return nil
}

// SetFixture places a catalog item in a washroom, or updates its quantity
func (s *ProjectService) SetFixture(ctx context.Context, projectID, washroomID, catalogItemID uuid.UUID, req *domain.SetWashroomFixtureRequest) (*domain.WashroomDTO, error) {
	washroom, err := s.getWashroom(ctx, projectID, washroomID)
	if err != nil {
		return nil, err
	}

	if _, err := s.catalogRepo.GetByID(ctx, catalogItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCatalogItemNotFound
		}
		return nil, fmt.Errorf("failed to get catalog item: %w", err)
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	fixture := &domain.WashroomFixture{
		WashroomID:    washroom.ID,
		CatalogItemID: catalogItemID,
		Quantity:      quantity,
	}
	if err := s.washroomRepo.SetFixture(ctx, fixture); err != nil {
		return nil, fmt.Errorf("failed to place fixture: %w", err)
	}

	return s.GetWashroom(ctx, projectID, washroomID)
}

// RemoveFixture removes a catalog item from a washroom
func (s *ProjectService) RemoveFixture(ctx context.Context, projectID, washroomID, catalogItemID uuid.UUID) error {
	if _, err := s.getWashroom(ctx, projectID, washroomID); err != nil {
		return err
	}

	if err := s.washroomRepo.RemoveFixture(ctx, washroomID, catalogItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFixtureNotPlaced
		}
		return fmt.Errorf("failed to remove fixture: %w", err)
	}
	return nil
}

// CreateCostItem adds an execution, vendor or additional cost to a project
func (s *ProjectService) CreateCostItem(ctx context.Context, projectID uuid.UUID, req *domain.CreateCostItemRequest) (*domain.CostItemDTO, error) {
	if !lo.Contains(costing.CostCategories, req.Category) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCostCategory, req.Category)
	}
	if req.Amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	}

	if _, err := s.getProject(ctx, projectID); err != nil {
		return nil, err
	}

	item := &domain.CostItem{
		ProjectID:   projectID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
	}
	if err := s.costItemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create cost item: %w", err)
	}

	dto := mapper.ToCostItemDTO(item)
	return &dto, nil
}

// ListCostItems lists a project's cost items with per-category totals
func (s *ProjectService) ListCostItems(ctx context.Context, projectID uuid.UUID) (*domain.CostItemsResponse, error) {
	if _, err := s.getProject(ctx, projectID); err != nil {
		return nil, err
	}

	items, err := s.costItemRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cost items: %w", err)
	}

	resp := &domain.CostItemsResponse{
		Items:  make([]domain.CostItemDTO, len(items)),
		Totals: make(map[string]float64, len(costing.CostCategories)),
	}
	for _, c := range costing.CostCategories {
		resp.Totals[c] = 0
	}
	for i := range items {
		resp.Items[i] = mapper.ToCostItemDTO(&items[i])
		resp.Totals[items[i].Category] += items[i].Amount
	}
	return resp, nil
}

// DeleteCostItem removes a cost item from a project
func (s *ProjectService) DeleteCostItem(ctx context.Context, projectID, itemID uuid.UUID) error {
	if err := s.costItemRepo.Delete(ctx, projectID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCostItemNotFound
		}
		return fmt.Errorf("failed to delete cost item: %w", err)
	}
	return nil
}
