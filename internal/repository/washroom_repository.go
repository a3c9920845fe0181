package repository

import (
	"context"

	"github.com/bathcraft/washroom-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WashroomRepository struct {
	db *gorm.DB
}

func NewWashroomRepository(db *gorm.DB) *WashroomRepository {
	return &WashroomRepository{db: db}
}

func (r *WashroomRepository) Create(ctx context.Context, washroom *domain.Washroom) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(washroom).Error
}

// GetByID loads a washroom scoped to its project, with its selections
func (r *WashroomRepository) GetByID(ctx context.Context, projectID, id uuid.UUID) (*domain.Washroom, error) {
	var washroom domain.Washroom
	err := r.db.WithContext(ctx).
		Preload("Services").
		Preload("Fixtures").
		Preload("Fixtures.CatalogItem").
		Where("id = ? AND project_id = ?", id, projectID).
		First(&washroom).Error
	if err != nil {
		return nil, err
	}
	return &washroom, nil
}

func (r *WashroomRepository) Update(ctx context.Context, washroom *domain.Washroom) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(washroom).Error
}

func (r *WashroomRepository) Delete(ctx context.Context, projectID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("washroom_id = ?", id).Delete(&domain.WashroomService{}).Error; err != nil {
			return err
		}
		if err := tx.Where("washroom_id = ?", id).Delete(&domain.WashroomFixture{}).Error; err != nil {
			return err
		}
		return requireAffected(tx.Delete(&domain.Washroom{}, "id = ? AND project_id = ?", id, projectID))
	})
}

// SetService selects a service for a washroom or updates its quantity,
// area and rate override
func (r *WashroomRepository) SetService(ctx context.Context, svc *domain.WashroomService) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "washroom_id"}, {Name: "service_code"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "area", "rate_override", "updated_at"}),
		}).
		Create(svc).Error
}

func (r *WashroomRepository) RemoveService(ctx context.Context, washroomID uuid.UUID, code string) error {
	return requireAffected(r.db.WithContext(ctx).
		Delete(&domain.WashroomService{}, "washroom_id = ? AND service_code = ?", washroomID, code))
}

// SetFixture places a catalog item in a washroom or updates its quantity
func (r *WashroomRepository) SetFixture(ctx context.Context, fixture *domain.WashroomFixture) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "washroom_id"}, {Name: "catalog_item_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(fixture).Error
}

func (r *WashroomRepository) RemoveFixture(ctx context.Context, washroomID, catalogItemID uuid.UUID) error {
	return requireAffected(r.db.WithContext(ctx).
		Delete(&domain.WashroomFixture{}, "washroom_id = ? AND catalog_item_id = ?", washroomID, catalogItemID))
}
