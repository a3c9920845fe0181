package service

import (
	"context"

	"github.com/bathcraft/washroom-api/internal/costing"
	"github.com/bathcraft/washroom-api/internal/domain"
	"github.com/google/uuid"
)

// SettingsProvider supplies the pricing settings for an estimate
type SettingsProvider interface {
	GetSettings(ctx context.Context) (costing.Settings, error)
}

// CatalogProvider supplies fixture and brand product prices. Fixtures are
// looked up by the catalog item IDs the mapping table points at.
type CatalogProvider interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]costing.CatalogItem, error)
	GetProductsByBrandID(ctx context.Context, brandID uuid.UUID) ([]costing.CatalogItem, error)
	GetFixtureMappings(ctx context.Context) (map[string]uuid.UUID, error)
}

// RateCardProvider supplies vendor rates for execution services and tiling
type RateCardProvider interface {
	GetServiceRates(ctx context.Context) (map[string]costing.ServiceRate, error)
	GetTilingRates(ctx context.Context) (map[string]costing.ServiceRate, error)
}

// EstimateStore persists calculated estimates
type EstimateStore interface {
	Create(ctx context.Context, estimate *domain.Estimate) error
}
