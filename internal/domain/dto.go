package domain

import (
	"github.com/bathcraft/washroom-api/internal/costing"
	"github.com/google/uuid"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Pagination response wrapper
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// API Response wrapper
type APIResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
}

// Estimates

type DimensionsRequest struct {
	Length      float64  `json:"length" validate:"gte=0"`
	Width       float64  `json:"width" validate:"gte=0"`
	Height      float64  `json:"height" validate:"gte=0"`
	CeilingArea *float64 `json:"ceilingArea,omitempty" validate:"omitempty,gte=0"`
}

// ToDimensions converts the request into calculator dimensions
func (d DimensionsRequest) ToDimensions() costing.Dimensions {
	return costing.Dimensions{
		Length:      d.Length,
		Width:       d.Width,
		Height:      d.Height,
		CeilingArea: d.CeilingArea,
	}
}

type CustomerDetailsRequest struct {
	Name     string `json:"name" validate:"max=200"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Mobile   string `json:"mobile" validate:"max=50"`
	Location string `json:"location" validate:"max=200"`
}

// EstimateRequest is the completed customer calculator. Presence of the
// customer fields and brand is checked by the calculator itself.
type EstimateRequest struct {
	ProjectType string                   `json:"projectType" validate:"max=50"`
	Dimensions  DimensionsRequest        `json:"dimensions"`
	Fixtures    costing.FixtureSelection `json:"fixtures"`
	Timeline    string                   `json:"timeline" validate:"max=50"`
	BrandID     uuid.UUID                `json:"brandId"`
	Customer    CustomerDetailsRequest   `json:"customer"`
}

// State replays the request through the calculator steps
func (r EstimateRequest) State() costing.CalculatorState {
	return costing.NewCalculatorState().
		WithProjectType(r.ProjectType).
		WithDimensions(r.Dimensions.ToDimensions()).
		WithFixtures(r.Fixtures).
		WithTimeline(r.Timeline).
		WithBrand(r.BrandID).
		WithCustomer(costing.CustomerDetails{
			Name:     r.Customer.Name,
			Email:    r.Customer.Email,
			Mobile:   r.Customer.Mobile,
			Location: r.Customer.Location,
		})
}

// Save outcomes reported alongside a submitted estimate
const (
	SaveStatusSaved         = "SAVED"
	SaveStatusDatabaseError = "DATABASE_ERROR"
)

type EstimateDTO struct {
	ID               uuid.UUID                `json:"id"`
	ProjectType      string                   `json:"projectType"`
	Length           float64                  `json:"length"`
	Width            float64                  `json:"width"`
	Height           float64                  `json:"height"`
	Timeline         string                   `json:"timeline"`
	BrandID          uuid.UUID                `json:"brandId"`
	CustomerName     string                   `json:"customerName"`
	CustomerEmail    string                   `json:"customerEmail"`
	CustomerMobile   string                   `json:"customerMobile"`
	CustomerLocation string                   `json:"customerLocation"`
	Fixtures         costing.FixtureSelection `json:"fixtures"`
	FloorArea        float64                  `json:"floorArea"`
	WallArea         float64                  `json:"wallArea"`
	TotalArea        float64                  `json:"totalArea"`
	FixtureCost      float64                  `json:"fixtureCost"`
	PlumbingCost     float64                  `json:"plumbingCost"`
	TileCount        int64                    `json:"tileCount"`
	TilingCost       float64                  `json:"tilingCost"`
	ProductCost      float64                  `json:"productCost"`
	Total            float64                  `json:"total"`
	CreatedAt        string                   `json:"createdAt"` // ISO 8601
}

type SubmitEstimateResponse struct {
	Result     costing.EstimateResult `json:"result"`
	Estimate   *EstimateDTO           `json:"estimate,omitempty"`
	SaveStatus string                 `json:"saveStatus"`
	SaveError  string                 `json:"saveError,omitempty"`
}

// Settings

type SettingDTO struct {
	Key         string  `json:"key"`
	Value       float64 `json:"value"`
	Description string  `json:"description,omitempty"`
	UpdatedAt   string  `json:"updatedAt"`
}

type UpdateSettingsRequest struct {
	Values map[string]float64 `json:"values" validate:"required,min=1,dive,keys,required,max=100,endkeys,gte=0"`
}

// Brands and catalog

type BrandDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
}

type CreateBrandRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description,omitempty"`
}

type CatalogItemDTO struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	BrandID        *uuid.UUID `json:"brandId,omitempty"`
	BrandName      string     `json:"brandName,omitempty"`
	MRP            float64    `json:"mrp"`
	LandingPrice   float64    `json:"landingPrice"`
	ClientPrice    float64    `json:"clientPrice"`
	QuotationPrice float64    `json:"quotationPrice"`
	Margin         float64    `json:"margin"`
	UpdatedAt      string     `json:"updatedAt"`
}

type CreateCatalogItemRequest struct {
	Name           string     `json:"name" validate:"required,max=200"`
	Category       string     `json:"category" validate:"required,max=50"`
	BrandID        *uuid.UUID `json:"brandId,omitempty"`
	MRP            float64    `json:"mrp" validate:"gte=0"`
	LandingPrice   float64    `json:"landingPrice" validate:"gte=0"`
	ClientPrice    float64    `json:"clientPrice" validate:"gte=0"`
	QuotationPrice float64    `json:"quotationPrice" validate:"gte=0"`
}

type UpdateCatalogItemRequest = CreateCatalogItemRequest

type FixtureMappingDTO struct {
	FlagKey         string    `json:"flagKey"`
	CatalogItemID   uuid.UUID `json:"catalogItemId"`
	CatalogItemName string    `json:"catalogItemName,omitempty"`
}

type UpsertFixtureMappingsRequest struct {
	Mappings []FixtureMappingInput `json:"mappings" validate:"required,min=1,dive"`
}

type FixtureMappingInput struct {
	FlagKey       string    `json:"flagKey" validate:"required,max=100"`
	CatalogItemID uuid.UUID `json:"catalogItemId" validate:"required"`
}

// Rate cards

type RateDTO struct {
	ID       uuid.UUID `json:"id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Category string    `json:"category,omitempty"`
	Unit     string    `json:"unit"`
	UnitKind string    `json:"unitKind"`
	Rate     float64   `json:"rate"`
}

type UpsertRateRequest struct {
	Code     string  `json:"code" validate:"required,max=100"`
	Name     string  `json:"name" validate:"required,max=200"`
	Category string  `json:"category,omitempty" validate:"max=100"`
	Unit     string  `json:"unit" validate:"max=50"`
	Rate     float64 `json:"rate" validate:"gte=0"`
}

// Projects

type ProjectDTO struct {
	ID                     uuid.UUID     `json:"id"`
	Name                   string        `json:"name"`
	ClientName             string        `json:"clientName"`
	ClientEmail            string        `json:"clientEmail,omitempty"`
	ClientMobile           string        `json:"clientMobile,omitempty"`
	Location               string        `json:"location,omitempty"`
	EstimateID             *uuid.UUID    `json:"estimateId,omitempty"`
	OriginalEstimate       float64       `json:"originalEstimate"`
	InternalPricingEnabled bool          `json:"internalPricingEnabled"`
	MarginPercentage       float64       `json:"marginPercentage"`
	GSTPercentage          float64       `json:"gstPercentage"`
	Terms                  string        `json:"terms,omitempty"`
	Status                 ProjectStatus `json:"status"`
	Washrooms              []WashroomDTO `json:"washrooms,omitempty"`
	CreatedAt              string        `json:"createdAt"`
	UpdatedAt              string        `json:"updatedAt"`
}

type CreateProjectRequest struct {
	Name                   string     `json:"name" validate:"required,max=200"`
	ClientName             string     `json:"clientName" validate:"required,max=200"`
	ClientEmail            string     `json:"clientEmail,omitempty" validate:"omitempty,email,max=255"`
	ClientMobile           string     `json:"clientMobile,omitempty" validate:"max=50"`
	Location               string     `json:"location,omitempty" validate:"max=200"`
	EstimateID             *uuid.UUID `json:"estimateId,omitempty"`
	OriginalEstimate       float64    `json:"originalEstimate" validate:"gte=0"`
	InternalPricingEnabled bool       `json:"internalPricingEnabled"`
	MarginPercentage       *float64   `json:"marginPercentage,omitempty"`
	GSTPercentage          *float64   `json:"gstPercentage,omitempty"`
	Terms                  string     `json:"terms,omitempty"`
}

type UpdateProjectRequest struct {
	Name                   string        `json:"name" validate:"required,max=200"`
	ClientName             string        `json:"clientName" validate:"required,max=200"`
	ClientEmail            string        `json:"clientEmail,omitempty" validate:"omitempty,email,max=255"`
	ClientMobile           string        `json:"clientMobile,omitempty" validate:"max=50"`
	Location               string        `json:"location,omitempty" validate:"max=200"`
	OriginalEstimate       float64       `json:"originalEstimate" validate:"gte=0"`
	InternalPricingEnabled bool          `json:"internalPricingEnabled"`
	MarginPercentage       float64       `json:"marginPercentage"`
	GSTPercentage          float64       `json:"gstPercentage"`
	Terms                  string        `json:"terms,omitempty"`
	Status                 ProjectStatus `json:"status,omitempty" validate:"omitempty,oneof=draft quoted approved in_progress completed cancelled"`
}

type WashroomDTO struct {
	ID                uuid.UUID            `json:"id"`
	ProjectID         uuid.UUID            `json:"projectId"`
	Name              string               `json:"name"`
	Length            float64              `json:"length"`
	Width             float64              `json:"width"`
	Height            float64              `json:"height"`
	Area              float64              `json:"area"`
	WallArea          float64              `json:"wallArea"`
	CeilingArea       float64              `json:"ceilingArea"`
	TotalArea         float64              `json:"totalArea"`
	CeilingOverridden bool                 `json:"ceilingOverridden"`
	SelectedBrandID   *uuid.UUID           `json:"selectedBrandId,omitempty"`
	Services          []WashroomServiceDTO `json:"services"`
	Fixtures          []WashroomFixtureDTO `json:"fixtures"`
}

type WashroomRequest struct {
	Name            string            `json:"name" validate:"required,max=200"`
	Dimensions      DimensionsRequest `json:"dimensions"`
	SelectedBrandID *uuid.UUID        `json:"selectedBrandId,omitempty"`
}

type WashroomServiceDTO struct {
	ServiceCode  string   `json:"serviceCode"`
	Quantity     float64  `json:"quantity"`
	Area         float64  `json:"area"`
	RateOverride *float64 `json:"rateOverride,omitempty"`
}

type SetWashroomServiceRequest struct {
	Quantity     float64  `json:"quantity" validate:"gte=0"`
	Area         float64  `json:"area" validate:"gte=0"`
	RateOverride *float64 `json:"rateOverride,omitempty" validate:"omitempty,gte=0"`
}

type WashroomFixtureDTO struct {
	CatalogItemID uuid.UUID `json:"catalogItemId"`
	Name          string    `json:"name,omitempty"`
	Quantity      float64   `json:"quantity"`
}

type SetWashroomFixtureRequest struct {
	Quantity float64 `json:"quantity" validate:"gte=0"`
}

type CostItemDTO struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"projectId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	CreatedAt   string    `json:"createdAt"`
}

type CreateCostItemRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	Category    string  `json:"category" validate:"required,oneof=execution vendor additional"`
}

type CostItemsResponse struct {
	Items  []CostItemDTO      `json:"items"`
	Totals map[string]float64 `json:"totals"`
}

// CalculateProjectCostsRequest carries per-washroom, per-service rate overrides
type CalculateProjectCostsRequest struct {
	ExecutionOverrides costing.ExecutionOverrides `json:"executionOverrides,omitempty"`
}

// Quotations

type GenerateQuotationRequest struct {
	Terms        string `json:"terms,omitempty"`
	ValidityDays int    `json:"validityDays,omitempty" validate:"gte=0,lte=365"`
}

type GenerateQuotationResponse struct {
	ID              uuid.UUID `json:"id"`
	QuotationNumber string    `json:"quotationNumber"`
	HTML            string    `json:"html"`
	TotalAmount     float64   `json:"totalAmount"`
}

type QuotationDTO struct {
	ID              uuid.UUID                  `json:"id"`
	ProjectID       uuid.UUID                  `json:"projectId"`
	QuotationNumber string                     `json:"quotationNumber"`
	TotalAmount     float64                    `json:"totalAmount"`
	Terms           string                     `json:"terms,omitempty"`
	ValidUntil      string                     `json:"validUntil"`
	StoragePath     string                     `json:"storagePath,omitempty"`
	Summary         costing.ProjectCostSummary `json:"summary"`
	CreatedAt       string                     `json:"createdAt"`
}
