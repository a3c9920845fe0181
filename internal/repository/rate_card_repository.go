package repository

import (
	"context"

	"github.com/bathcraft/washroom-api/internal/costing"
	"github.com/bathcraft/washroom-api/internal/domain"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RateCardRepository stores vendor rates for execution services and tiling
type RateCardRepository struct {
	db *gorm.DB
}

func NewRateCardRepository(db *gorm.DB) *RateCardRepository {
	return &RateCardRepository{db: db}
}

func (r *RateCardRepository) ListServiceRates(ctx context.Context) ([]domain.ServiceRate, error) {
	var rates []domain.ServiceRate
	err := r.db.WithContext(ctx).Order("category ASC, code ASC").Find(&rates).Error
	return rates, err
}

func (r *RateCardRepository) GetServiceRate(ctx context.Context, code string) (*domain.ServiceRate, error) {
	var rate domain.ServiceRate
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&rate).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

// UpsertServiceRate creates or updates the rate identified by its code
func (r *RateCardRepository) UpsertServiceRate(ctx context.Context, rate *domain.ServiceRate) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "category", "unit", "rate", "updated_at"}),
		}).
		Create(rate).Error
}

func (r *RateCardRepository) DeleteServiceRate(ctx context.Context, code string) error {
	return requireAffected(r.db.WithContext(ctx).Delete(&domain.ServiceRate{}, "code = ?", code))
}

func (r *RateCardRepository) ListTilingRates(ctx context.Context) ([]domain.TilingRate, error) {
	var rates []domain.TilingRate
	err := r.db.WithContext(ctx).Order("code ASC").Find(&rates).Error
	return rates, err
}

func (r *RateCardRepository) GetTilingRate(ctx context.Context, code string) (*domain.TilingRate, error) {
	var rate domain.TilingRate
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&rate).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *RateCardRepository) UpsertTilingRate(ctx context.Context, rate *domain.TilingRate) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "unit", "rate", "updated_at"}),
		}).
		Create(rate).Error
}

func (r *RateCardRepository) DeleteTilingRate(ctx context.Context, code string) error {
	return requireAffected(r.db.WithContext(ctx).Delete(&domain.TilingRate{}, "code = ?", code))
}

// GetServiceRates returns the execution service rate card keyed by code
func (r *RateCardRepository) GetServiceRates(ctx context.Context) (map[string]costing.ServiceRate, error) {
	rates, err := r.ListServiceRates(ctx)
	if err != nil {
		return nil, err
	}
	return lo.SliceToMap(rates, func(rate domain.ServiceRate) (string, costing.ServiceRate) {
		return rate.Code, costing.ServiceRate{
			Code:     rate.Code,
			Name:     rate.Name,
			Category: rate.Category,
			Unit:     rate.Unit,
			Rate:     rate.Rate,
		}
	}), nil
}

// GetTilingRates returns the tiling rate card keyed by code
func (r *RateCardRepository) GetTilingRates(ctx context.Context) (map[string]costing.ServiceRate, error) {
	rates, err := r.ListTilingRates(ctx)
	if err != nil {
		return nil, err
	}
	return lo.SliceToMap(rates, func(rate domain.TilingRate) (string, costing.ServiceRate) {
		return rate.Code, costing.ServiceRate{
			Code:     rate.Code,
			Name:     rate.Name,
			Category: "tiling",
			Unit:     rate.Unit,
			Rate:     rate.Rate,
		}
	}), nil
}
