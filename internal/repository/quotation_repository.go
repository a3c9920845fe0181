package repository

import (
	"context"

	"github.com/bathcraft/washroom-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

func (r *QuotationRepository) Create(ctx context.Context, q *domain.Quotation) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *QuotationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	var q domain.Quotation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

// ListByProject returns quotations newest first without the rendered HTML
func (r *QuotationRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Quotation, error) {
	var quotations []domain.Quotation
	err := r.db.WithContext(ctx).
		Omit("html").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&quotations).Error
	return quotations, err
}
