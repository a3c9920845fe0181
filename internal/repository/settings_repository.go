package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bathcraft/washroom-api/internal/costing"
	"github.com/bathcraft/washroom-api/internal/domain"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) List(ctx context.Context) ([]domain.Setting, error) {
	var settings []domain.Setting
	err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error
	return settings, err
}

// GetValues returns the requested settings keyed by name. Missing keys are
// simply absent from the result.
func (r *SettingsRepository) GetValues(ctx context.Context, keys ...string) (map[string]float64, error) {
	var settings []domain.Setting
	err := r.db.WithContext(ctx).Where("key IN ?", keys).Find(&settings).Error
	if err != nil {
		return nil, err
	}
	return lo.SliceToMap(settings, func(s domain.Setting) (string, float64) {
		return s.Key, s.Value
	}), nil
}

// GetSettings loads the estimate pricing parameters. Every required key must
// be present; there are no built-in defaults.
func (r *SettingsRepository) GetSettings(ctx context.Context) (costing.Settings, error) {
	values, err := r.GetValues(ctx, domain.RequiredSettingKeys...)
	if err != nil {
		return costing.Settings{}, fmt.Errorf("%w: %v", costing.ErrSettingsUnavailable, err)
	}

	missing := lo.Filter(domain.RequiredSettingKeys, func(key string, _ int) bool {
		_, ok := values[key]
		return !ok
	})
	if len(missing) > 0 {
		return costing.Settings{}, fmt.Errorf("%w: missing %v", costing.ErrSettingsUnavailable, missing)
	}

	return costing.Settings{
		PlumbingRatePerSqft: values[domain.SettingPlumbingRatePerSqft],
		TileCostPerUnit:     values[domain.SettingTileCostPerUnit],
		TilingLaborPerSqft:  values[domain.SettingTilingLaborPerSqft],
		BreakagePercentage:  values[domain.SettingBreakagePercentage],
	}, nil
}

// Upsert writes the given values, creating keys that do not exist yet
func (r *SettingsRepository) Upsert(ctx context.Context, values map[string]float64) error {
	now := time.Now()
	rows := make([]domain.Setting, 0, len(values))
	for _, key := range lo.Keys(values) {
		rows = append(rows, domain.Setting{Key: key, Value: values[key], UpdatedAt: now})
	}
	if len(rows) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rows).Error
}
