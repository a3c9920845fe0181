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

// EstimateService prices customer calculator submissions and keeps the
// resulting estimates as leads
type EstimateService struct {
	settings     SettingsProvider
	catalog      CatalogProvider
	store        EstimateStore
	estimateRepo *repository.EstimateRepository
	logger       *zap.Logger
}

// NewEstimateService creates a new estimate service instance
func NewEstimateService(
	settings SettingsProvider,
	catalog CatalogProvider,
	estimateRepo *repository.EstimateRepository,
	logger *zap.Logger,
) *EstimateService {
	return &EstimateService{
		settings:     settings,
		catalog:      catalog,
		store:        estimateRepo,
		estimateRepo: estimateRepo,
		logger:       logger,
	}
}

// CalculateEstimate prices a completed calculator state. Settings and
// catalog data are read fresh on every call.
func (s *EstimateService) CalculateEstimate(ctx context.Context, state costing.CalculatorState) (*costing.EstimateResult, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}

	inputs, err := s.loadInputs(ctx, state)
	if err != nil {
		s.logger.Error("failed to load estimate inputs", zap.Error(err))
		return nil, err
	}

	result, err := costing.CalculateEstimate(state, inputs)
	if err != nil {
		return nil, err
	}

	if len(result.FixtureMisses) > 0 {
		s.logger.Debug("fixtures without catalog price",
			zap.Strings("flags", result.FixtureMisses),
		)
	}

	return &result, nil
}

func (s *EstimateService) loadInputs(ctx context.Context, state costing.CalculatorState) (costing.EstimateInputs, error) {
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, costing.ErrSettingsUnavailable) {
			return costing.EstimateInputs{}, err
		}
		return costing.EstimateInputs{}, fmt.Errorf("%w: %v", costing.ErrSettingsUnavailable, err)
	}

	mappings, err := s.catalog.GetFixtureMappings(ctx)
	if err != nil {
		return costing.EstimateInputs{}, fmt.Errorf("%w: fixture mappings: %v", costing.ErrSettingsUnavailable, err)
	}

	ids := lo.Uniq(lo.FilterMap(state.Fixtures.SelectedKeys(), func(key string, _ int) (uuid.UUID, bool) {
		id, ok := mappings[key]
		return id, ok
	}))
	found, err := s.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return costing.EstimateInputs{}, fmt.Errorf("%w: fixtures: %v", costing.ErrSettingsUnavailable, err)
	}
	fixtures := lo.Values(found)

	products, err := s.catalog.GetProductsByBrandID(ctx, state.BrandID)
	if err != nil {
		return costing.EstimateInputs{}, fmt.Errorf("%w: brand products: %v", costing.ErrSettingsUnavailable, err)
	}

	return costing.EstimateInputs{
		Settings:        settings,
		FixtureMappings: mappings,
		Fixtures:        fixtures,
		BrandProducts:   products,
	}, nil
}

// SaveEstimate stores a calculated estimate. Failures are wrapped in
// ErrPersistenceFailure.
func (s *EstimateService) SaveEstimate(ctx context.Context, state costing.CalculatorState, result costing.EstimateResult) (*domain.Estimate, error) {
	estimate := mapper.ToEstimateModel(state, result)
	if err := s.store.Create(ctx, estimate); err != nil {
		s.logger.Error("failed to save estimate",
			zap.String("customer_email", state.Customer.Email),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	s.logger.Info("estimate saved",
		zap.String("estimate_id", estimate.ID.String()),
		zap.Float64("total", estimate.Total),
	)
	return estimate, nil
}

// Submit calculates and saves an estimate. A save failure is reported in
// the response and never discards the calculated result.
func (s *EstimateService) Submit(ctx context.Context, state costing.CalculatorState) (*domain.SubmitEstimateResponse, error) {
	result, err := s.CalculateEstimate(ctx, state)
	if err != nil {
		return nil, err
	}

	resp := &domain.SubmitEstimateResponse{Result: *result}

	estimate, err := s.SaveEstimate(ctx, state, *result)
	if err != nil {
		resp.SaveStatus = domain.SaveStatusDatabaseError
		resp.SaveError = "The estimate could not be saved. Please try again or contact us."
		return resp, nil
	}

	dto := mapper.ToEstimateDTO(estimate)
	resp.Estimate = &dto
	resp.SaveStatus = domain.SaveStatusSaved
	return resp, nil
}

// GetByID retrieves a saved estimate
func (s *EstimateService) GetByID(ctx context.Context, id uuid.UUID) (*domain.EstimateDTO, error) {
	estimate, err := s.estimateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEstimateNotFound
		}
		return nil, fmt.Errorf("failed to get estimate: %w", err)
	}

	dto := mapper.ToEstimateDTO(estimate)
	return &dto, nil
}

// List returns a page of saved estimates, newest first unless sort says otherwise
func (s *EstimateService) List(ctx context.Context, page, pageSize int, search string, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	page, pageSize = normalizePage(page, pageSize)

	estimates, total, err := s.estimateRepo.List(ctx, page, pageSize, search, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list estimates: %w", err)
	}

	dtos := make([]domain.EstimateDTO, len(estimates))
	for i := range estimates {
		dtos[i] = mapper.ToEstimateDTO(&estimates[i])
	}

	return paginated(dtos, total, page, pageSize), nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > repository.MaxPageSize {
		pageSize = repository.MaxPageSize
	}
	return page, pageSize
}

func paginated(data interface{}, total int64, page, pageSize int) *domain.PaginatedResponse {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return &domain.PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
