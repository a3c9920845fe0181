package repository

import (
	"context"
	"strings"

	"github.com/bathcraft/washroom-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var estimateSortFields = map[string]string{
	"createdAt":    "created_at",
	"total":        "total",
	"customerName": "customer_name",
}

// EstimateRepository persists customer estimates. There is no update path:
// a saved estimate is a snapshot of what the customer was shown.
type EstimateRepository struct {
	db *gorm.DB
}

func NewEstimateRepository(db *gorm.DB) *EstimateRepository {
	return &EstimateRepository{db: db}
}

func (r *EstimateRepository) Create(ctx context.Context, estimate *domain.Estimate) error {
	return r.db.WithContext(ctx).Create(estimate).Error
}

func (r *EstimateRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Estimate, error) {
	var estimate domain.Estimate
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&estimate).Error; err != nil {
		return nil, err
	}
	return &estimate, nil
}

// List returns a page of estimates. search matches customer name, email,
// mobile or location.
func (r *EstimateRepository) List(ctx context.Context, page, pageSize int, search string, sort SortConfig) ([]domain.Estimate, int64, error) {
	var estimates []domain.Estimate
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Estimate{})
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(customer_name) LIKE ? OR LOWER(customer_email) LIKE ? OR customer_mobile LIKE ? OR LOWER(customer_location) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := Paginate(query, page, pageSize).
		Order(BuildOrderClause(sort, estimateSortFields, "created_at")).
		Find(&estimates).Error
	return estimates, total, err
}
