package repository

import (
	"context"

	"github.com/bathcraft/washroom-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CostItemRepository struct {
	db *gorm.DB
}

func NewCostItemRepository(db *gorm.DB) *CostItemRepository {
	return &CostItemRepository{db: db}
}

func (r *CostItemRepository) Create(ctx context.Context, item *domain.CostItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *CostItemRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.CostItem, error) {
	var items []domain.CostItem
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *CostItemRepository) Delete(ctx context.Context, projectID, id uuid.UUID) error {
	return requireAffected(r.db.WithContext(ctx).
		Delete(&domain.CostItem{}, "id = ? AND project_id = ?", id, projectID))
}
