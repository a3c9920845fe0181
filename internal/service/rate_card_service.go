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
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RateCardService manages the vendor rate cards used for execution costing
type RateCardService struct {
	rateRepo *repository.RateCardRepository
	logger   *zap.Logger
}

// NewRateCardService creates a new rate card service instance
func NewRateCardService(rateRepo *repository.RateCardRepository, logger *zap.Logger) *RateCardService {
	return &RateCardService{
		rateRepo: rateRepo,
		logger:   logger,
	}
}

// ListServiceRates lists execution service rates
func (s *RateCardService) ListServiceRates(ctx context.Context) ([]domain.RateDTO, error) {
	rates, err := s.rateRepo.ListServiceRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list service rates: %w", err)
	}

	dtos := make([]domain.RateDTO, len(rates))
	for i := range rates {
		dtos[i] = mapper.ToServiceRateDTO(&rates[i])
	}
	return dtos, nil
}

// UpsertServiceRate creates or replaces the service rate with the request code
func (s *RateCardService) UpsertServiceRate(ctx context.Context, req *domain.UpsertRateRequest) (*domain.RateDTO, error) {
	code := strings.TrimSpace(req.Code)
	rate := &domain.ServiceRate{
		Code:     code,
		Name:     req.Name,
		Category: req.Category,
		Unit:     req.Unit,
		Rate:     req.Rate,
	}

	if err := s.rateRepo.UpsertServiceRate(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to save service rate: %w", err)
	}

	// The conflict path keeps the stored ID, so read the row back
	saved, err := s.rateRepo.GetServiceRate(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get service rate: %w", err)
	}

	s.logger.Info("service rate saved",
		zap.String("code", code),
		zap.Float64("rate", saved.Rate),
	)

	dto := mapper.ToServiceRateDTO(saved)
	return &dto, nil
}

// DeleteServiceRate deletes the service rate with the given code
func (s *RateCardService) DeleteServiceRate(ctx context.Context, code string) error {
	if err := s.rateRepo.DeleteServiceRate(ctx, code); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRateNotFound
		}
		return fmt.Errorf("failed to delete service rate: %w", err)
	}
	return nil
}

// ListTilingRates lists tiling rates
func (s *RateCardService) ListTilingRates(ctx context.Context) ([]domain.RateDTO, error) {
	rates, err := s.rateRepo.ListTilingRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tiling rates: %w", err)
	}

	dtos := make([]domain.RateDTO, len(rates))
	for i := range rates {
		dtos[i] = mapper.ToTilingRateDTO(&rates[i])
	}
	return dtos, nil
}

// UpsertTilingRate creates or replaces the tiling rate with the request code
func (s *RateCardService) UpsertTilingRate(ctx context.Context, req *domain.UpsertRateRequest) (*domain.RateDTO, error) {
	code := strings.TrimSpace(req.Code)
	rate := &domain.TilingRate{
		Code: code,
		Name: req.Name,
		Unit: req.Unit,
		Rate: req.Rate,
	}

	if err := s.rateRepo.UpsertTilingRate(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to save tiling rate: %w", err)
	}

	saved, err := s.rateRepo.GetTilingRate(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get tiling rate: %w", err)
	}

	dto := mapper.ToTilingRateDTO(saved)
	return &dto, nil
}

// DeleteTilingRate deletes the tiling rate with the given code
func (s *RateCardService) DeleteTilingRate(ctx context.Context, code string) error {
	if err := s.rateRepo.DeleteTilingRate(ctx, code); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRateNotFound
		}
		return fmt.Errorf("failed to delete tiling rate: %w", err)
	}
	return nil
}

// SuggestRate returns the rate card entry for a code, checking service
// rates before tiling rates. ok is false when neither card has the code.
func (s *RateCardService) SuggestRate(ctx context.Context, code string) (costing.ServiceRate, bool, error) {
	book, err := s.LoadRateBook(ctx)
	if err != nil {
		return costing.ServiceRate{}, false, err
	}
	if rate, ok := book.ServiceRates[code]; ok {
		return rate, true, nil
	}
	rate, ok := book.TilingRates[code]
	return rate, ok, nil
}

// LoadRateBook loads both rate cards. Failures surface as ErrSettingsUnavailable.
func (s *RateCardService) LoadRateBook(ctx context.Context) (costing.RateBook, error) {
	serviceRates, err := s.rateRepo.GetServiceRates(ctx)
	if err != nil {
		return costing.RateBook{}, fmt.Errorf("%w: service rates: %v", costing.ErrSettingsUnavailable, err)
	}
	tilingRates, err := s.rateRepo.GetTilingRates(ctx)
	if err != nil {
		return costing.RateBook{}, fmt.Errorf("%w: tiling rates: %v", costing.ErrSettingsUnavailable, err)
	}
	return costing.RateBook{ServiceRates: serviceRates, TilingRates: tilingRates}, nil
}
