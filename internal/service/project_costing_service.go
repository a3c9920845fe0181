package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bathcraft/washroom-api/internal/costing"
	"github.com/bathcraft/washroom-api/internal/domain"
	"github.com/bathcraft/washroom-api/internal/mapper"
	"github.com/bathcraft/washroom-api/internal/repository"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProjectCostingService prices a project from its washrooms, the current
// rate cards and catalog, and its cost items
type ProjectCostingService struct {
	projectRepo *repository.ProjectRepository
	catalogRepo *repository.CatalogRepository
	rates       *RateCardService
	logger      *zap.Logger
}

// NewProjectCostingService creates a new project costing service instance
func NewProjectCostingService(
	projectRepo *repository.ProjectRepository,
	catalogRepo *repository.CatalogRepository,
	rates *RateCardService,
	logger *zap.Logger,
) *ProjectCostingService {
	return &ProjectCostingService{
		projectRepo: projectRepo,
		catalogRepo: catalogRepo,
		rates:       rates,
		logger:      logger,
	}
}

// CalculateProjectCosts costs a project. overrides replace the rate of a
// service in a single washroom for this calculation only.
func (s *ProjectCostingService) CalculateProjectCosts(ctx context.Context, projectID uuid.UUID, overrides costing.ExecutionOverrides) (*costing.ProjectCostSummary, error) {
	project, err := s.projectRepo.GetWithDetails(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	summary, _, err := s.costProject(ctx, project, overrides)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// costProject returns the summary and the rate book it was priced with
func (s *ProjectCostingService) costProject(ctx context.Context, project *domain.Project, overrides costing.ExecutionOverrides) (costing.ProjectCostSummary, costing.RateBook, error) {
	book, err := s.rates.LoadRateBook(ctx)
	if err != nil {
		s.logger.Error("failed to load rate cards", zap.Error(err))
		return costing.ProjectCostSummary{}, costing.RateBook{}, err
	}

	itemIDs := lo.FlatMap(project.Washrooms, func(w domain.Washroom, _ int) []uuid.UUID {
		return lo.Map(w.Fixtures, func(f domain.WashroomFixture, _ int) uuid.UUID { return f.CatalogItemID })
	})
	book.Catalog, err = s.catalogRepo.GetByIDs(ctx, itemIDs)
	if err != nil {
		return costing.ProjectCostSummary{}, costing.RateBook{}, fmt.Errorf("%w: catalog: %v", costing.ErrSettingsUnavailable, err)
	}

	in := costing.ProjectInput{
		OriginalEstimate:       project.OriginalEstimate,
		InternalPricingEnabled: project.InternalPricingEnabled,
		MarginPercentage:       project.MarginPercentage,
		GSTPercentage:          project.GSTPercentage,
		Washrooms: lo.Map(project.Washrooms, func(w domain.Washroom, _ int) costing.WashroomInput {
			return mapper.ToWashroomInput(&w)
		}),
		CostItems: lo.Map(project.CostItems, func(c domain.CostItem, _ int) costing.CostLine {
			return costing.CostLine{Category: c.Category, Amount: c.Amount}
		}),
	}

	summary, err := costing.CalculateProjectCosts(in, book, overrides)
	if err != nil {
		return costing.ProjectCostSummary{}, costing.RateBook{}, err
	}

	for _, cost := range summary.WashroomCosts {
		if len(cost.MissingItems) > 0 {
			s.logger.Debug("washroom fixtures missing from catalog",
				zap.String("washroom_id", cost.WashroomID.String()),
				zap.Int("missing", len(cost.MissingItems)),
			)
		}
	}

	s.logger.Info("project costs calculated",
		zap.String("project_id", project.ID.String()),
		zap.Bool("internal_pricing", project.InternalPricingEnabled),
		zap.Float64("final_amount", summary.FinalQuotationAmount),
	)
	return summary, book, nil
}
