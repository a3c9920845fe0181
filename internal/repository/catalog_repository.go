package repository

import (
	"context"
	"time"

	"github.com/bathcraft/washroom-api/internal/costing"
	"github.com/bathcraft/washroom-api/internal/domain"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogFilter narrows catalog listings
type CatalogFilter struct {
	Category string
	BrandID  *uuid.UUID
}

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) Create(ctx context.Context, item *domain.CatalogItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

func (r *CatalogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error) {
	var item domain.CatalogItem
	err := r.db.WithContext(ctx).Preload("Brand").Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *CatalogRepository) Update(ctx context.Context, item *domain.CatalogItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error
}

func (r *CatalogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("catalog_item_id = ?", id).Delete(&domain.FixtureMapping{}).Error; err != nil {
			return err
		}
		return requireAffected(tx.Delete(&domain.CatalogItem{}, "id = ?", id))
	})
}

func (r *CatalogRepository) List(ctx context.Context, filter CatalogFilter) ([]domain.CatalogItem, error) {
	var items []domain.CatalogItem
	query := r.db.WithContext(ctx).Preload("Brand")
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.BrandID != nil {
		query = query.Where("brand_id = ?", *filter.BrandID)
	}
	err := query.Order("category ASC, name ASC").Find(&items).Error
	return items, err
}

// GetByIDs returns the pricing view of the given items keyed by ID.
// Unknown IDs are absent from the result.
func (r *CatalogRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]costing.CatalogItem, error) {
	result := make(map[uuid.UUID]costing.CatalogItem, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var items []domain.CatalogItem
	if err := r.db.WithContext(ctx).Where("id IN ?", lo.Uniq(ids)).Find(&items).Error; err != nil {
		return nil, err
	}
	for i := range items {
		result[items[i].ID] = items[i].Pricing()
	}
	return result, nil
}

func (r *CatalogRepository) GetProductsByBrandID(ctx context.Context, brandID uuid.UUID) ([]costing.CatalogItem, error) {
	items, err := r.List(ctx, CatalogFilter{BrandID: &brandID})
	if err != nil {
		return nil, err
	}
	return toPricing(items), nil
}

// GetFixtureMappings returns the flag key to catalog item lookup table
func (r *CatalogRepository) GetFixtureMappings(ctx context.Context) (map[string]uuid.UUID, error) {
	mappings, err := r.ListFixtureMappings(ctx)
	if err != nil {
		return nil, err
	}
	return lo.SliceToMap(mappings, func(m domain.FixtureMapping) (string, uuid.UUID) {
		return m.FlagKey, m.CatalogItemID
	}), nil
}

func (r *CatalogRepository) ListFixtureMappings(ctx context.Context) ([]domain.FixtureMapping, error) {
	var mappings []domain.FixtureMapping
	err := r.db.WithContext(ctx).Preload("CatalogItem").Order("flag_key ASC").Find(&mappings).Error
	return mappings, err
}

func (r *CatalogRepository) UpsertFixtureMappings(ctx context.Context, mappings []domain.FixtureMapping) error {
	if len(mappings) == 0 {
		return nil
	}
	now := time.Now()
	for i := range mappings {
		mappings[i].UpdatedAt = now
	}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "flag_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"catalog_item_id", "updated_at"}),
		}).
		Create(&mappings).Error
}

func (r *CatalogRepository) DeleteFixtureMapping(ctx context.Context, flagKey string) error {
	return requireAffected(r.db.WithContext(ctx).Delete(&domain.FixtureMapping{}, "flag_key = ?", flagKey))
}

// ReconcileMargins recomputes the cached margin of every catalog row and
// writes back the rows that drifted. Returns the number of rows fixed.
func (r *CatalogRepository) ReconcileMargins(ctx context.Context, batchSize int) (int, error) {
	fixed := 0
	var batch []domain.CatalogItem

	result := r.db.WithContext(ctx).Model(&domain.CatalogItem{}).
		FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
			for _, item := range batch {
				want := costing.CalculateMargin(item.LandingPrice, item.QuotationPrice)
				if marginsEqual(item.Margin, want) {
					continue
				}
				err := r.db.WithContext(ctx).Model(&domain.CatalogItem{}).
					Where("id = ?", item.ID).
					UpdateColumn("margin", want).Error
				if err != nil {
					return err
				}
				fixed++
			}
			return nil
		})
	return fixed, result.Error
}

// marginsEqual compares at the two decimal places the column stores
func marginsEqual(a, b float64) bool {
	d := a - b
	return d < 0.005 && d > -0.005
}

func toPricing(items []domain.CatalogItem) []costing.CatalogItem {
	return lo.Map(items, func(item domain.CatalogItem, _ int) costing.CatalogItem {
		return item.Pricing()
	})
}
