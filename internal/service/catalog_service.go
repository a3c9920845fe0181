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
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CatalogService manages brands, catalog items and the fixture flag mappings
type CatalogService struct {
	brandRepo   *repository.BrandRepository
	catalogRepo *repository.CatalogRepository
	logger      *zap.Logger
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(
	brandRepo *repository.BrandRepository,
	catalogRepo *repository.CatalogRepository,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		brandRepo:   brandRepo,
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// isDuplicateKey reports unique constraint violations from postgres or sqlite
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

// CreateBrand creates a new active brand
func (s *CatalogService) CreateBrand(ctx context.Context, req *domain.CreateBrandRequest) (*domain.BrandDTO, error) {
	brand := &domain.Brand{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		IsActive:    true,
	}

	if err := s.brandRepo.Create(ctx, brand); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateBrand
		}
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}

	s.logger.Info("brand created", zap.String("brand_id", brand.ID.String()), zap.String("name", brand.Name))

	dto := mapper.ToBrandDTO(brand)
	return &dto, nil
}

// GetBrand retrieves a brand by ID
func (s *CatalogService) GetBrand(ctx context.Context, id uuid.UUID) (*domain.BrandDTO, error) {
	brand, err := s.brandRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}

	dto := mapper.ToBrandDTO(brand)
	return &dto, nil
}

// ListBrands lists brands by name. The public calculator only sees active ones.
func (s *CatalogService) ListBrands(ctx context.Context, activeOnly bool) ([]domain.BrandDTO, error) {
	brands, err := s.brandRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}

	dtos := make([]domain.BrandDTO, len(brands))
	for i := range brands {
		dtos[i] = mapper.ToBrandDTO(&brands[i])
	}
	return dtos, nil
}

// DeleteBrand deletes a brand
func (s *CatalogService) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	if err := s.brandRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBrandNotFound
		}
		return fmt.Errorf("failed to delete brand: %w", err)
	}

	s.logger.Info("brand deleted", zap.String("brand_id", id.String()))
	return nil
}

func (s *CatalogService) ensureBrand(ctx context.Context, brandID *uuid.UUID) error {
	if brandID == nil {
		return nil
	}
	_, err := s.brandRepo.GetByID(ctx, *brandID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBrandNotFound
		}
		return fmt.Errorf("failed to get brand: %w", err)
	}
	return nil
}

// CreateItem creates a catalog item. Margin is derived from the landing
// and quotation prices.
func (s *CatalogService) CreateItem(ctx context.Context, req *domain.CreateCatalogItemRequest) (*domain.CatalogItemDTO, error) {
	if err := s.ensureBrand(ctx, req.BrandID); err != nil {
		return nil, err
	}

	item := &domain.CatalogItem{}
	applyCatalogRequest(item, req)

	if err := s.catalogRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create catalog item: %w", err)
	}

	s.logger.Info("catalog item created",
		zap.String("item_id", item.ID.String()),
		zap.String("category", item.Category),
	)

	return s.GetItem(ctx, item.ID)
}

// UpdateItem replaces the editable fields of a catalog item
func (s *CatalogService) UpdateItem(ctx context.Context, id uuid.UUID, req *domain.UpdateCatalogItemRequest) (*domain.CatalogItemDTO, error) {
	item, err := s.catalogRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCatalogItemNotFound
		}
		return nil, fmt.Errorf("failed to get catalog item: %w", err)
	}

	if err := s.ensureBrand(ctx, req.BrandID); err != nil {
		return nil, err
	}

	applyCatalogRequest(item, req)
	item.Brand = nil

	if err := s.catalogRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update catalog item: %w", err)
	}

	return s.GetItem(ctx, id)
}

func applyCatalogRequest(item *domain.CatalogItem, req *domain.CreateCatalogItemRequest) {
	item.Name = strings.TrimSpace(req.Name)
	item.Category = strings.TrimSpace(req.Category)
	item.BrandID = req.BrandID
	item.MRP = req.MRP
	item.LandingPrice = req.LandingPrice
	item.ClientPrice = req.ClientPrice
	item.QuotationPrice = req.QuotationPrice
}

// GetItem retrieves a catalog item by ID
func (s *CatalogService) GetItem(ctx context.Context, id uuid.UUID) (*domain.CatalogItemDTO, error) {
	item, err := s.catalogRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCatalogItemNotFound
		}
		return nil, fmt.Errorf("failed to get catalog item: %w", err)
	}

	dto := mapper.ToCatalogItemDTO(item)
	return &dto, nil
}

// DeleteItem deletes a catalog item together with any flag mapping pointing at it
func (s *CatalogService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := s.catalogRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCatalogItemNotFound
		}
		return fmt.Errorf("failed to delete catalog item: %w", err)
	}

	s.logger.Info("catalog item deleted", zap.String("item_id", id.String()))
	return nil
}

// ListItems lists catalog items, optionally by category or brand
func (s *CatalogService) ListItems(ctx context.Context, filter repository.CatalogFilter) ([]domain.CatalogItemDTO, error) {
	items, err := s.catalogRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog items: %w", err)
	}

	dtos := make([]domain.CatalogItemDTO, len(items))
	for i := range items {
		dtos[i] = mapper.ToCatalogItemDTO(&items[i])
	}
	return dtos, nil
}

// ListFixtureMappings lists the calculator flag to catalog item mappings
func (s *CatalogService) ListFixtureMappings(ctx context.Context) ([]domain.FixtureMappingDTO, error) {
	mappings, err := s.catalogRepo.ListFixtureMappings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixture mappings: %w", err)
	}

	dtos := make([]domain.FixtureMappingDTO, len(mappings))
	for i := range mappings {
		dtos[i] = mapper.ToFixtureMappingDTO(&mappings[i])
	}
	return dtos, nil
}

// UpsertFixtureMappings creates or repoints flag mappings. Every target item must exist.
func (s *CatalogService) UpsertFixtureMappings(ctx context.Context, req *domain.UpsertFixtureMappingsRequest) ([]domain.FixtureMappingDTO, error) {
	ids := make([]uuid.UUID, len(req.Mappings))
	for i, m := range req.Mappings {
		if _, _, ok := costing.ParseFlagKey(strings.TrimSpace(m.FlagKey)); !ok {
			return nil, fmt.Errorf("%w: flag key %q must be <category>.<flag> with category one of %s",
				ErrInvalidInput, m.FlagKey, strings.Join(costing.FixtureCategories, ", "))
		}
		ids[i] = m.CatalogItemID
	}

	found, err := s.catalogRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to check catalog items: %w", err)
	}

	mappings := make([]domain.FixtureMapping, 0, len(req.Mappings))
	for _, m := range req.Mappings {
		if _, ok := found[m.CatalogItemID]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrCatalogItemNotFound, m.CatalogItemID)
		}
		mappings = append(mappings, domain.FixtureMapping{
			FlagKey:       strings.TrimSpace(m.FlagKey),
			CatalogItemID: m.CatalogItemID,
		})
	}

	if err := s.catalogRepo.UpsertFixtureMappings(ctx, mappings); err != nil {
		return nil, fmt.Errorf("failed to save fixture mappings: %w", err)
	}

	s.logger.Info("fixture mappings updated", zap.Int("count", len(mappings)))
	return s.ListFixtureMappings(ctx)
}

// DeleteFixtureMapping removes the mapping for a flag
func (s *CatalogService) DeleteFixtureMapping(ctx context.Context, flagKey string) error {
	if err := s.catalogRepo.DeleteFixtureMapping(ctx, flagKey); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFixtureMappingMissing
		}
		return fmt.Errorf("failed to delete fixture mapping: %w", err)
	}
	return nil
}

// ReconcileMargins recomputes cached margins that drifted from the prices
func (s *CatalogService) ReconcileMargins(ctx context.Context, batchSize int) (int, error) {
	if batchSize < 1 {
		batchSize = 200
	}

	fixed, err := s.catalogRepo.ReconcileMargins(ctx, batchSize)
	if err != nil {
		return fixed, fmt.Errorf("failed to reconcile catalog margins: %w", err)
	}

	if fixed > 0 {
		s.logger.Info("catalog margins reconciled", zap.Int("fixed", fixed))
	}
	return fixed, nil
}
