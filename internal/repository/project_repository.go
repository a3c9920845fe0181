package repository

import (
	"context"
	"strings"

	"github.com/bathcraft/washroom-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(project).Error
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetWithDetails loads a project with its washrooms, their service and
// fixture selections, and the project cost items
func (r *ProjectRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	err := r.db.WithContext(ctx).
		Preload("Washrooms", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Washrooms.Services", func(db *gorm.DB) *gorm.DB { return db.Order("service_code ASC") }).
		Preload("Washrooms.Fixtures").
		Preload("Washrooms.Fixtures.CatalogItem").
		Preload("CostItems", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(project).Error
}

func (r *ProjectRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProjectStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Project{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Delete removes a project together with its washrooms, selections and cost
// items. Quotations are kept as an audit trail.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		washroomIDs := tx.Model(&domain.Washroom{}).Select("id").Where("project_id = ?", id)
		if err := tx.Where("washroom_id IN (?)", washroomIDs).Delete(&domain.WashroomService{}).Error; err != nil {
			return err
		}
		if err := tx.Where("washroom_id IN (?)", washroomIDs).Delete(&domain.WashroomFixture{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&domain.Washroom{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&domain.CostItem{}).Error; err != nil {
			return err
		}
		return requireAffected(tx.Delete(&domain.Project{}, "id = ?", id))
	})
}

func (r *ProjectRepository) List(ctx context.Context, page, pageSize int, search string, status *domain.ProjectStatus) ([]domain.Project, int64, error) {
	var projects []domain.Project
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Project{})
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(client_name) LIKE ?", pattern, pattern)
	}
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := Paginate(query, page, pageSize).Order("created_at DESC").Find(&projects).Error
	return projects, total, err
}
