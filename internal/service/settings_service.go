package service

import (
	"context"
	"fmt"

	"github.com/bathcraft/washroom-api/internal/domain"
	"github.com/bathcraft/washroom-api/internal/mapper"
	"github.com/bathcraft/washroom-api/internal/repository"
	"go.uber.org/zap"
)

// SettingsService manages the pricing settings used by customer estimates
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
	logger       *zap.Logger
}

// NewSettingsService creates a new settings service instance
func NewSettingsService(settingsRepo *repository.SettingsRepository, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// List returns every stored setting
func (s *SettingsService) List(ctx context.Context) ([]domain.SettingDTO, error) {
	settings, err := s.settingsRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}

	dtos := make([]domain.SettingDTO, len(settings))
	for i := range settings {
		dtos[i] = mapper.ToSettingDTO(&settings[i])
	}
	return dtos, nil
}

// Update writes the given values. Negative values are rejected.
func (s *SettingsService) Update(ctx context.Context, req *domain.UpdateSettingsRequest) ([]domain.SettingDTO, error) {
	for key, value := range req.Values {
		if value < 0 {
			return nil, fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, key)
		}
	}

	if err := s.settingsRepo.Upsert(ctx, req.Values); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	s.logger.Info("settings updated", zap.Int("count", len(req.Values)))
	return s.List(ctx)
}
