package costing

import "strings"

// UnitKind is how a rate turns into a line cost.
type UnitKind string

const (
	UnitFixed       UnitKind = "fixed"
	UnitPerArea     UnitKind = "per_area"
	UnitPerQuantity UnitKind = "per_quantity"
)

// RateSource records where a resolved rate came from.
type RateSource string

const (
	RateSourceOverride  RateSource = "override"
	RateSourceSuggested RateSource = "suggested"
	RateSourceNone      RateSource = "none"
)

var (
	areaUnitMarkers     = []string{"sqft", "sft", "sq ft", "square"}
	quantityUnitMarkers = []string{"unit", "nos", "each", "piece", "point"}
)

// ServiceRate is a rate-card entry for an execution service or tiling job.
type ServiceRate struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Unit     string  `json:"unit"`
	Rate     float64 `json:"rate"`
}

// ClassifyUnit maps a free-text unit such as "per sq ft" or "Nos" to a UnitKind.
// Area markers win over quantity markers.
func ClassifyUnit(unit string) UnitKind {
	u := strings.ToLower(unit)
	for _, marker := range areaUnitMarkers {
		if strings.Contains(u, marker) {
			return UnitPerArea
		}
	}
	for _, marker := range quantityUnitMarkers {
		if strings.Contains(u, marker) {
			return UnitPerQuantity
		}
	}
	return UnitFixed
}

// RateInput describes one service line to price.
type RateInput struct {
	Code      string
	Override  *float64
	Suggested *float64
	Unit      string
	Area      float64
	Quantity  float64
}

// ResolvedRate is a priced service line.
type ResolvedRate struct {
	Code              string     `json:"code"`
	Source            RateSource `json:"source"`
	Unit              UnitKind   `json:"unit"`
	ResolvedRate      float64    `json:"resolvedRate"`
	EstimatedLineCost float64    `json:"estimatedLineCost"`
}

// ResolveRate picks the override, then the suggested rate, then zero, and
// applies the unit: per-area lines cost rate x area, per-quantity lines cost
// rate x quantity (at least one), fixed lines cost the rate itself.
func ResolveRate(in RateInput) ResolvedRate {
	out := ResolvedRate{
		Code:   in.Code,
		Source: RateSourceNone,
		Unit:   ClassifyUnit(in.Unit),
	}

	switch {
	case in.Override != nil:
		out.Source = RateSourceOverride
		out.ResolvedRate = nonNegative(*in.Override)
	case in.Suggested != nil:
		out.Source = RateSourceSuggested
		out.ResolvedRate = nonNegative(*in.Suggested)
	}

	switch out.Unit {
	case UnitPerArea:
		out.EstimatedLineCost = out.ResolvedRate * nonNegative(in.Area)
	case UnitPerQuantity:
		qty := nonNegative(in.Quantity)
		if qty == 0 {
			qty = 1
		}
		out.EstimatedLineCost = out.ResolvedRate * qty
	default:
		out.EstimatedLineCost = out.ResolvedRate
	}
	return out
}
