package domain

import (
	"time"

	"github.com/bathcraft/washroom-api/internal/costing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// BeforeCreate assigns an ID when the caller did not set one
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Setting keys used by the customer estimate
const (
	SettingPlumbingRatePerSqft     = "plumbing_rate_per_sqft"
	SettingTileCostPerUnit         = "tile_cost_per_unit"
	SettingTilingLaborPerSqft      = "tiling_labor_per_sqft"
	SettingBreakagePercentage      = "breakage_percentage"
	SettingDefaultMarginPercentage = "default_margin_percentage"
	SettingDefaultGSTPercentage    = "default_gst_percentage"
)

// RequiredSettingKeys must all be present before an estimate can be calculated
var RequiredSettingKeys = []string{
	SettingPlumbingRatePerSqft,
	SettingTileCostPerUnit,
	SettingTilingLaborPerSqft,
	SettingBreakagePercentage,
}

// Setting is a single numeric pricing parameter
type Setting struct {
	Key         string    `gorm:"type:varchar(100);primaryKey"`
	Value       float64   `gorm:"type:numeric(12,2);not null"`
	Description string    `gorm:"type:varchar(500)"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// Brand is a product manufacturer customers can choose in the calculator
type Brand struct {
	BaseModel
	Name        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	IsActive    bool   `gorm:"not null;default:true;column:is_active"`
}

// CatalogItem is a fixture or product with its price points
type CatalogItem struct {
	BaseModel
	Name           string     `gorm:"type:varchar(200);not null"`
	Category       string     `gorm:"type:varchar(50);not null;index"`
	BrandID        *uuid.UUID `gorm:"type:uuid;column:brand_id;index"`
	Brand          *Brand     `gorm:"foreignKey:BrandID"`
	MRP            float64    `gorm:"type:numeric(12,2);not null;default:0;column:mrp"`
	LandingPrice   float64    `gorm:"type:numeric(12,2);not null;default:0;column:landing_price"`
	ClientPrice    float64    `gorm:"type:numeric(12,2);not null;default:0;column:client_price"`
	QuotationPrice float64    `gorm:"type:numeric(12,2);not null;default:0;column:quotation_price"`
	Margin         float64    `gorm:"type:numeric(8,2);not null;default:0"`
}

// BeforeSave keeps Margin derived from landing and quotation price
func (c *CatalogItem) BeforeSave(tx *gorm.DB) error {
	c.Margin = costing.CalculateMargin(c.LandingPrice, c.QuotationPrice)
	return nil
}

// Pricing returns the calculator view of the item
func (c *CatalogItem) Pricing() costing.CatalogItem {
	return costing.CatalogItem{
		ID:             c.ID,
		Name:           c.Name,
		Category:       c.Category,
		BrandID:        c.BrandID,
		MRP:            c.MRP,
		LandingPrice:   c.LandingPrice,
		ClientPrice:    c.ClientPrice,
		QuotationPrice: c.QuotationPrice,
		Margin:         c.Margin,
	}
}

// FixtureMapping links a calculator flag ("electrical.ledMirror") to the
// catalog item that prices it
type FixtureMapping struct {
	FlagKey       string       `gorm:"type:varchar(100);primaryKey;column:flag_key"`
	CatalogItemID uuid.UUID    `gorm:"type:uuid;not null;column:catalog_item_id"`
	CatalogItem   *CatalogItem `gorm:"foreignKey:CatalogItemID"`
	UpdatedAt     time.Time    `gorm:"not null"`
}

// ServiceRate is a vendor rate for an execution service
type ServiceRate struct {
	BaseModel
	Code     string  `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name     string  `gorm:"type:varchar(200);not null"`
	Category string  `gorm:"type:varchar(100)"`
	Unit     string  `gorm:"type:varchar(50)"`
	Rate     float64 `gorm:"type:numeric(12,2);not null;default:0"`
}

// TilingRate is a vendor rate for a tiling job
type TilingRate struct {
	BaseModel
	Code string  `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name string  `gorm:"type:varchar(200);not null"`
	Unit string  `gorm:"type:varchar(50)"`
	Rate float64 `gorm:"type:numeric(12,2);not null;default:0"`
}

// Estimate is a saved customer estimate. Rows are never updated.
type Estimate struct {
	BaseModel
	ProjectType        string                   `gorm:"type:varchar(50);column:project_type"`
	Length             float64                  `gorm:"type:numeric(8,2)"`
	Width              float64                  `gorm:"type:numeric(8,2)"`
	Height             float64                  `gorm:"type:numeric(8,2)"`
	Timeline           string                   `gorm:"type:varchar(50)"`
	BrandID            uuid.UUID                `gorm:"type:uuid;not null;column:brand_id"`
	CustomerName       string                   `gorm:"type:varchar(200);not null;column:customer_name"`
	CustomerEmail      string                   `gorm:"type:varchar(255);not null;column:customer_email;index"`
	CustomerMobile     string                   `gorm:"type:varchar(50);not null;column:customer_mobile"`
	CustomerLocation   string                   `gorm:"type:varchar(200);not null;column:customer_location"`
	Fixtures           costing.FixtureSelection `gorm:"serializer:json;type:jsonb"`
	FloorArea          float64                  `gorm:"type:numeric(12,2);column:floor_area"`
	WallArea           float64                  `gorm:"type:numeric(12,2);column:wall_area"`
	TotalArea          float64                  `gorm:"type:numeric(12,2);column:total_area"`
	FixtureCost        float64                  `gorm:"type:numeric(14,2);column:fixture_cost"`
	PlumbingCost       float64                  `gorm:"type:numeric(14,2);column:plumbing_cost"`
	TileCount          int64                    `gorm:"column:tile_count"`
	TilingMaterialCost float64                  `gorm:"type:numeric(14,2);column:tiling_material_cost"`
	TilingLaborCost    float64                  `gorm:"type:numeric(14,2);column:tiling_labor_cost"`
	TilingTotal        float64                  `gorm:"type:numeric(14,2);column:tiling_total"`
	ProductCost        float64                  `gorm:"type:numeric(14,2);column:product_cost"`
	Total              float64                  `gorm:"type:numeric(14,2);not null"`
}

// ProjectStatus is the lifecycle state of a renovation project
type ProjectStatus string

const (
	ProjectStatusDraft      ProjectStatus = "draft"
	ProjectStatusQuoted     ProjectStatus = "quoted"
	ProjectStatusApproved   ProjectStatus = "approved"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
)

// Project is an internal renovation project with one or more washrooms
type Project struct {
	BaseModel
	Name                   string        `gorm:"type:varchar(200);not null"`
	ClientName             string        `gorm:"type:varchar(200);not null;column:client_name"`
	ClientEmail            string        `gorm:"type:varchar(255);column:client_email"`
	ClientMobile           string        `gorm:"type:varchar(50);column:client_mobile"`
	Location               string        `gorm:"type:varchar(200)"`
	EstimateID             *uuid.UUID    `gorm:"type:uuid;column:estimate_id"`
	OriginalEstimate       float64       `gorm:"type:numeric(14,2);not null;default:0;column:original_estimate"`
	InternalPricingEnabled bool          `gorm:"not null;default:false;column:internal_pricing_enabled"`
	MarginPercentage       float64       `gorm:"type:numeric(8,2);not null;default:0;column:margin_percentage"`
	GSTPercentage          float64       `gorm:"type:numeric(8,2);not null;default:18;column:gst_percentage"`
	Terms                  string        `gorm:"type:text"`
	Status                 ProjectStatus `gorm:"type:varchar(50);not null;default:'draft';index"`
	Washrooms              []Washroom    `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	CostItems              []CostItem    `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// Washroom is a room within a project. Area columns are derived from the
// dimensions and must only change through SetDimensions.
type Washroom struct {
	BaseModel
	ProjectID         uuid.UUID         `gorm:"type:uuid;not null;index;column:project_id"`
	Name              string            `gorm:"type:varchar(200);not null"`
	Length            float64           `gorm:"type:numeric(8,2);not null;default:0"`
	Width             float64           `gorm:"type:numeric(8,2);not null;default:0"`
	Height            float64           `gorm:"type:numeric(8,2);not null;default:0"`
	Area              float64           `gorm:"type:numeric(12,2);not null;default:0"`
	WallArea          float64           `gorm:"type:numeric(12,2);not null;default:0;column:wall_area"`
	CeilingArea       float64           `gorm:"type:numeric(12,2);not null;default:0;column:ceiling_area"`
	TotalArea         float64           `gorm:"type:numeric(12,2);not null;default:0;column:total_area"`
	CeilingOverridden bool              `gorm:"not null;default:false;column:ceiling_overridden"`
	SelectedBrandID   *uuid.UUID        `gorm:"type:uuid;column:selected_brand_id"`
	Services          []WashroomService `gorm:"foreignKey:WashroomID;constraint:OnDelete:CASCADE"`
	Fixtures          []WashroomFixture `gorm:"foreignKey:WashroomID;constraint:OnDelete:CASCADE"`
}

// SetDimensions updates the measurements and recomputes every derived area.
// A non-nil ceiling area pins the ceiling; nil returns it to the floor area.
func (w *Washroom) SetDimensions(d costing.Dimensions) {
	w.Length = d.Length
	w.Width = d.Width
	w.Height = d.Height
	w.CeilingOverridden = d.CeilingArea != nil
	if d.CeilingArea != nil {
		w.CeilingArea = *d.CeilingArea
	}
	w.recalculate()
}

// Dimensions returns the stored measurements
func (w *Washroom) Dimensions() costing.Dimensions {
	d := costing.Dimensions{Length: w.Length, Width: w.Width, Height: w.Height}
	if w.CeilingOverridden {
		ceiling := w.CeilingArea
		d.CeilingArea = &ceiling
	}
	return d
}

// Geometry returns the derived areas
func (w *Washroom) Geometry() costing.Geometry {
	return costing.Geometry{
		FloorArea:   w.Area,
		WallArea:    w.WallArea,
		CeilingArea: w.CeilingArea,
		TotalArea:   w.TotalArea,
	}
}

// BeforeSave recomputes derived areas so rows written without
// SetDimensions stay consistent
func (w *Washroom) BeforeSave(tx *gorm.DB) error {
	w.recalculate()
	return nil
}

func (w *Washroom) recalculate() {
	g := costing.CalculateGeometry(w.Dimensions())
	w.Area = g.FloorArea
	w.WallArea = g.WallArea
	w.CeilingArea = g.CeilingArea
	w.TotalArea = g.TotalArea
}

// WashroomService marks an execution service as selected for a washroom
type WashroomService struct {
	BaseModel
	WashroomID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_washroom_service;column:washroom_id"`
	ServiceCode  string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_washroom_service;column:service_code"`
	Quantity     float64   `gorm:"type:numeric(10,2);not null;default:0"`
	Area         float64   `gorm:"type:numeric(12,2);not null;default:0"`
	RateOverride *float64  `gorm:"type:numeric(12,2);column:rate_override"`
}

// WashroomFixture places a catalog item in a washroom
type WashroomFixture struct {
	BaseModel
	WashroomID    uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_washroom_fixture;column:washroom_id"`
	CatalogItemID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_washroom_fixture;column:catalog_item_id"`
	CatalogItem   *CatalogItem `gorm:"foreignKey:CatalogItemID"`
	Quantity      float64      `gorm:"type:numeric(10,2);not null;default:1"`
}

// CostItem is a project-level cost outside the washroom services
type CostItem struct {
	BaseModel
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index;column:project_id"`
	Name        string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text"`
	Amount      float64   `gorm:"type:numeric(14,2);not null;default:0"`
	Category    string    `gorm:"type:varchar(50);not null;index"`
}

// Quotation is a generated quotation document. The stored summary and
// client details are the snapshot the document was rendered from.
type Quotation struct {
	BaseModel
	ProjectID       uuid.UUID                  `gorm:"type:uuid;not null;index;column:project_id"`
	QuotationNumber string                     `gorm:"type:varchar(50);not null;uniqueIndex;column:quotation_number"`
	ProjectName     string                     `gorm:"type:varchar(200);not null;column:project_name"`
	ClientName      string                     `gorm:"type:varchar(200);not null;column:client_name"`
	Location        string                     `gorm:"type:varchar(200)"`
	TotalAmount     float64                    `gorm:"type:numeric(14,2);not null;column:total_amount"`
	Terms           string                     `gorm:"type:text"`
	ValidUntil      time.Time                  `gorm:"not null;column:valid_until"`
	HTML            string                     `gorm:"type:text;column:html"`
	StoragePath     string                     `gorm:"type:varchar(500);column:storage_path"`
	Summary         costing.ProjectCostSummary `gorm:"serializer:json;type:jsonb"`
}

// NumberSequence tracks the last issued sequence per prefix and year
type NumberSequence struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Prefix       string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_sequence_prefix_year"`
	Year         int       `gorm:"not null;uniqueIndex:idx_sequence_prefix_year"`
	LastSequence int       `gorm:"not null;default:0;column:last_sequence"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// BeforeCreate assigns an ID when the caller did not set one
func (s *NumberSequence) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
