package costing

import (
	"strings"

	"github.com/google/uuid"
)

// Step is a stage of the customer calculator flow.
type Step string

const (
	StepProjectType     Step = "project_type"
	StepDimensions      Step = "dimensions"
	StepFixtures        Step = "fixtures"
	StepTimeline        Step = "timeline"
	StepBrand           Step = "brand"
	StepCustomerDetails Step = "customer_details"
)

// CustomerDetails identifies the person requesting an estimate.
type CustomerDetails struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Location string `json:"location"`
}

// CalculatorState is the full input of a customer estimate. It is a value:
// every setter returns an updated copy and advances Step, so the state passed
// to CalculateEstimate is the only source of truth.
type CalculatorState struct {
	Step        Step             `json:"step"`
	ProjectType string           `json:"projectType"`
	Dimensions  Dimensions       `json:"dimensions"`
	Fixtures    FixtureSelection `json:"fixtures"`
	Timeline    string           `json:"timeline"`
	BrandID     uuid.UUID        `json:"brandId"`
	Customer    CustomerDetails  `json:"customer"`
}

// NewCalculatorState starts a calculator at the project type step.
func NewCalculatorState() CalculatorState {
	return CalculatorState{Step: StepProjectType}
}

// WithProjectType records the project type and moves to the dimensions step.
func (s CalculatorState) WithProjectType(projectType string) CalculatorState {
	s.ProjectType = projectType
	s.Step = StepDimensions
	return s
}

// WithDimensions records the room size and moves to the fixtures step.
func (s CalculatorState) WithDimensions(d Dimensions) CalculatorState {
	s.Dimensions = d
	s.Step = StepFixtures
	return s
}

// WithFixtures stores a copy of the selection and moves to the timeline step.
func (s CalculatorState) WithFixtures(f FixtureSelection) CalculatorState {
	s.Fixtures = f.Clone()
	s.Step = StepTimeline
	return s
}

// WithTimeline records the timeline and moves to the brand step.
func (s CalculatorState) WithTimeline(timeline string) CalculatorState {
	s.Timeline = timeline
	s.Step = StepBrand
	return s
}

// WithBrand records the brand and moves to the customer details step.
func (s CalculatorState) WithBrand(brandID uuid.UUID) CalculatorState {
	s.BrandID = brandID
	s.Step = StepCustomerDetails
	return s
}

// WithCustomer records the contact details. Customer details is the last
// step; the state is ready for CalculateEstimate once Validate passes.
func (s CalculatorState) WithCustomer(c CustomerDetails) CalculatorState {
	s.Customer = c
	s.Step = StepCustomerDetails
	return s
}

// Validate reports the first missing required field, checked in the order
// customer name, email, mobile, location, brand.
func (s CalculatorState) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"customerName", s.Customer.Name},
		{"customerEmail", s.Customer.Email},
		{"customerMobile", s.Customer.Mobile},
		{"customerLocation", s.Customer.Location},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &MissingRequiredFieldError{Field: r.field}
		}
	}
	if s.BrandID == uuid.Nil {
		return &MissingRequiredFieldError{Field: "brand"}
	}
	return nil
}

// Settings are the process-wide pricing parameters.
type Settings struct {
	PlumbingRatePerSqft float64 `json:"plumbingRatePerSqft"`
	TileCostPerUnit     float64 `json:"tileCostPerUnit"`
	TilingLaborPerSqft  float64 `json:"tilingLaborPerSqft"`
	BreakagePercentage  float64 `json:"breakagePercentage"`
}

// EstimateInputs is the data snapshot an estimate is computed from.
type EstimateInputs struct {
	Settings        Settings
	FixtureMappings map[string]uuid.UUID
	Fixtures        []CatalogItem
	BrandProducts   []CatalogItem
}

// EstimateResult is an immutable customer estimate.
// Total == FixtureCost + PlumbingCost + TilingCost.Total + ProductCost.
type EstimateResult struct {
	Geometry      Geometry   `json:"geometry"`
	FixtureCost   float64    `json:"fixtureCost"`
	PlumbingCost  float64    `json:"plumbingCost"`
	TilingCost    TilingCost `json:"tilingCost"`
	ProductCost   float64    `json:"productCost"`
	Total         float64    `json:"total"`
	FixtureMisses []string   `json:"fixtureMisses,omitempty"`
}

// CalculateEstimate prices a completed calculator state.
func CalculateEstimate(state CalculatorState, in EstimateInputs) (EstimateResult, error) {
	if err := state.Validate(); err != nil {
		return EstimateResult{}, err
	}

	geometry := CalculateGeometry(state.Dimensions)
	fixtures := AggregateFixtureCost(state.Fixtures, in.FixtureMappings, in.Fixtures)
	plumbing := nonNegative(in.Settings.PlumbingRatePerSqft) * geometry.FloorArea
	tiling := CalculateTiling(TilingInput{
		TotalArea:          geometry.TotalArea,
		TileCostPerUnit:    in.Settings.TileCostPerUnit,
		LaborRatePerSqft:   in.Settings.TilingLaborPerSqft,
		BreakagePercentage: in.Settings.BreakagePercentage,
		TileCoverage:       TileCoverageSqft,
	})
	products := SumClientPrices(in.BrandProducts)

	return EstimateResult{
		Geometry:      geometry,
		FixtureCost:   fixtures.Total,
		PlumbingCost:  plumbing,
		TilingCost:    tiling,
		ProductCost:   products,
		Total:         fixtures.Total + plumbing + tiling.Total + products,
		FixtureMisses: fixtures.Misses,
	}, nil
}
