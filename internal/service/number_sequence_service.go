package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bathcraft/washroom-api/internal/repository"
	"go.uber.org/zap"
)

// NumberSequenceService generates unique quotation numbers.
//
// Format: {PREFIX}-{YEAR}-{SEQUENCE}
// Example: WR-2026-001, WR-2026-042
type NumberSequenceService struct {
	repo   *repository.NumberSequenceRepository
	prefix string
	now    func() time.Time
	logger *zap.Logger
}

// NewNumberSequenceService creates a new NumberSequenceService
func NewNumberSequenceService(
	repo *repository.NumberSequenceRepository,
	prefix string,
	logger *zap.Logger,
) *NumberSequenceService {
	if prefix == "" {
		prefix = "WR"
	}
	return &NumberSequenceService{
		repo:   repo,
		prefix: prefix,
		now:    time.Now,
		logger: logger,
	}
}

// GenerateQuotationNumber returns the next quotation number for the current
// year. Sequences restart at 001 each year.
func (s *NumberSequenceService) GenerateQuotationNumber(ctx context.Context) (string, error) {
	year := s.now().Year()

	nextSeq, err := s.repo.GetNextNumber(ctx, s.prefix, year)
	if err != nil {
		s.logger.Error("failed to get next sequence number",
			zap.String("prefix", s.prefix),
			zap.Int("year", year),
			zap.Error(err))
		return "", fmt.Errorf("failed to generate quotation number: %w", err)
	}

	// Zero-padded to 3 digits; wider sequences print in full
	number := fmt.Sprintf("%s-%d-%03d", s.prefix, year, nextSeq)

	s.logger.Info("generated quotation number",
		zap.String("number", number),
		zap.Int("sequence", nextSeq))

	return number, nil
}

// GetCurrentSequence returns the last issued sequence for a year without
// incrementing it. Returns 0 if no number was issued yet.
func (s *NumberSequenceService) GetCurrentSequence(ctx context.Context, year int) (int, error) {
	return s.repo.GetCurrentSequence(ctx, s.prefix, year)
}
