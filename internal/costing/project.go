package costing

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Cost item categories for project-level cost lines.
const (
	CostCategoryExecution  = "execution"
	CostCategoryVendor     = "vendor"
	CostCategoryAdditional = "additional"
)

// CostCategories lists the valid cost item categories.
var CostCategories = []string{CostCategoryExecution, CostCategoryVendor, CostCategoryAdditional}

// ServiceSelection is a selected execution service on a washroom.
// Area and Quantity fall back to the washroom total area and 1.
type ServiceSelection struct {
	Code         string   `json:"code"`
	Quantity     float64  `json:"quantity"`
	Area         float64  `json:"area"`
	RateOverride *float64 `json:"rateOverride,omitempty"`
}

// FixtureLine is a catalog item placed in a washroom.
type FixtureLine struct {
	CatalogItemID uuid.UUID `json:"catalogItemId"`
	Quantity      float64   `json:"quantity"`
}

// WashroomInput is one washroom to cost.
type WashroomInput struct {
	ID       uuid.UUID
	Name     string
	Geometry Geometry
	Services []ServiceSelection
	Fixtures []FixtureLine
}

// CostLine is a project-level execution, vendor or additional cost.
type CostLine struct {
	Category string
	Amount   float64
}

// ProjectInput is everything about a project that affects its price.
type ProjectInput struct {
	OriginalEstimate       float64
	InternalPricingEnabled bool
	MarginPercentage       float64
	GSTPercentage          float64
	Washrooms              []WashroomInput
	CostItems              []CostLine
}

// RateBook is the rate-card and catalog snapshot used to price a project.
type RateBook struct {
	ServiceRates map[string]ServiceRate
	TilingRates  map[string]ServiceRate
	Catalog      map[uuid.UUID]CatalogItem
}

// ExecutionOverrides are per-washroom, per-service rate overrides.
type ExecutionOverrides map[uuid.UUID]map[string]float64

// WashroomCost is the cost of one washroom.
type WashroomCost struct {
	WashroomID        uuid.UUID         `json:"washroomId"`
	Name              string            `json:"name"`
	ExecutionServices float64           `json:"executionServices"`
	ProductCosts      float64           `json:"productCosts"`
	TotalCost         float64           `json:"totalCost"`
	Lines             []ResolvedRate    `json:"lines"`
	MissingItems      []uuid.UUID       `json:"missingItems,omitempty"`
	Pricing           *PricingBreakdown `json:"pricing,omitempty"`
}

// ProjectCostSummary is the aggregated cost of a project.
type ProjectCostSummary struct {
	ExecutionServicesTotal float64                    `json:"executionServicesTotal"`
	ProductCostsTotal      float64                    `json:"productCostsTotal"`
	WashroomCosts          map[uuid.UUID]WashroomCost `json:"washroomCosts"`
	CostItemTotals         map[string]float64         `json:"costItemTotals"`
	OriginalEstimate       float64                    `json:"originalEstimate"`
	ExecutionTotal         float64                    `json:"executionTotal"`
	VendorTotal            float64                    `json:"vendorTotal"`
	AdditionalTotal        float64                    `json:"additionalTotal"`
	InternalPricingEnabled bool                       `json:"internalPricingEnabled"`
	Pricing                *PricingSummary            `json:"pricing,omitempty"`
	FinalQuotationAmount   float64                    `json:"finalQuotationAmount"`
	Warnings               []string                   `json:"warnings,omitempty"`
}

// OrderedWashroomCosts returns washroom costs sorted by name then id.
func (s ProjectCostSummary) OrderedWashroomCosts() []WashroomCost {
	costs := lo.Values(s.WashroomCosts)
	sort.Slice(costs, func(i, j int) bool {
		if costs[i].Name != costs[j].Name {
			return costs[i].Name < costs[j].Name
		}
		return costs[i].WashroomID.String() < costs[j].WashroomID.String()
	})
	return costs
}

// CostWashroom prices the services and fixtures of one washroom.
// Overrides for the washroom take precedence over rates stored on the
// selection, which take precedence over the rate book.
func CostWashroom(w WashroomInput, book RateBook, overrides map[string]float64) WashroomCost {
	cost := WashroomCost{WashroomID: w.ID, Name: w.Name}

	for _, svc := range w.Services {
		in := RateInput{
			Code:     svc.Code,
			Override: svc.RateOverride,
			Area:     svc.Area,
			Quantity: svc.Quantity,
		}
		if in.Area <= 0 {
			in.Area = w.Geometry.TotalArea
		}
		if v, ok := overrides[svc.Code]; ok {
			override := v
			in.Override = &override
		}
		if rate, ok := lookupRate(book, svc.Code); ok {
			suggested := rate.Rate
			in.Suggested = &suggested
			in.Unit = rate.Unit
		}
		line := ResolveRate(in)
		cost.Lines = append(cost.Lines, line)
		cost.ExecutionServices += line.EstimatedLineCost
	}

	for _, f := range w.Fixtures {
		item, ok := book.Catalog[f.CatalogItemID]
		if !ok {
			cost.MissingItems = append(cost.MissingItems, f.CatalogItemID)
			continue
		}
		qty := nonNegative(f.Quantity)
		if qty == 0 {
			qty = 1
		}
		cost.ProductCosts += nonNegative(item.ClientPrice) * qty
	}

	cost.TotalCost = cost.ExecutionServices + cost.ProductCosts
	return cost
}

func lookupRate(book RateBook, code string) (ServiceRate, bool) {
	if rate, ok := book.ServiceRates[code]; ok {
		return rate, true
	}
	rate, ok := book.TilingRates[code]
	return rate, ok
}

// CalculateProjectCosts aggregates washroom and project-level costs.
//
// Without internal pricing the final amount is the original estimate plus
// the execution, vendor and additional totals. With internal pricing every
// execution-side cost (washroom services and all cost items) carries margin
// then GST, and product costs are added unchanged.
func CalculateProjectCosts(in ProjectInput, book RateBook, overrides ExecutionOverrides) (ProjectCostSummary, error) {
	summary := ProjectCostSummary{
		WashroomCosts:          make(map[uuid.UUID]WashroomCost, len(in.Washrooms)),
		CostItemTotals:         make(map[string]float64, len(CostCategories)),
		OriginalEstimate:       nonNegative(in.OriginalEstimate),
		InternalPricingEnabled: in.InternalPricingEnabled,
	}
	for _, c := range CostCategories {
		summary.CostItemTotals[c] = 0
	}

	for _, item := range in.CostItems {
		if !lo.Contains(CostCategories, item.Category) {
			return ProjectCostSummary{}, fmt.Errorf("unknown cost category %q", item.Category)
		}
		summary.CostItemTotals[item.Category] += nonNegative(item.Amount)
	}

	for _, w := range in.Washrooms {
		cost := CostWashroom(w, book, overrides[w.ID])
		if in.InternalPricingEnabled {
			pricing, err := ApplyMarginAndTax(cost.ExecutionServices, in.MarginPercentage, in.GSTPercentage)
			if err != nil {
				return ProjectCostSummary{}, err
			}
			cost.Pricing = &pricing
			cost.TotalCost = pricing.TotalPrice + cost.ProductCosts
		}
		summary.WashroomCosts[w.ID] = cost
		summary.ExecutionServicesTotal += cost.ExecutionServices
		summary.ProductCostsTotal += cost.ProductCosts
	}

	summary.ExecutionTotal = summary.ExecutionServicesTotal + summary.CostItemTotals[CostCategoryExecution]
	summary.VendorTotal = summary.CostItemTotals[CostCategoryVendor]
	summary.AdditionalTotal = summary.CostItemTotals[CostCategoryAdditional]

	if !in.InternalPricingEnabled {
		summary.FinalQuotationAmount = summary.OriginalEstimate +
			summary.ExecutionTotal + summary.VendorTotal + summary.AdditionalTotal
		return summary, nil
	}

	executionBase := summary.ExecutionTotal + summary.VendorTotal + summary.AdditionalTotal
	pricing, err := SummarizePricing(executionBase, summary.ProductCostsTotal, in.MarginPercentage, in.GSTPercentage)
	if err != nil {
		return ProjectCostSummary{}, err
	}
	summary.Pricing = &pricing
	summary.Warnings = append(summary.Warnings, pricing.Pricing.Warnings...)
	summary.FinalQuotationAmount = pricing.GrandTotal
	return summary, nil
}
