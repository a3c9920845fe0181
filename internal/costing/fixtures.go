package costing

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Fixture selection categories.
const (
	CategoryElectrical = "electrical"
	CategoryPlumbing   = "plumbing"
	CategoryAdditional = "additional"
)

// FixtureCategories lists the categories a FixtureSelection may carry.
var FixtureCategories = []string{CategoryElectrical, CategoryPlumbing, CategoryAdditional}

// FixtureSelection groups independent boolean flags by category,
// e.g. {"electrical": {"ledMirror": true}}.
type FixtureSelection map[string]map[string]bool

// FlagKey is the stable key used by the fixture mapping table.
func FlagKey(category, flag string) string {
	return category + "." + flag
}

// ParseFlagKey splits a mapping key into its category and flag. It reports
// false unless the category is one of FixtureCategories and the flag is set.
func ParseFlagKey(key string) (category, flag string, ok bool) {
	category, flag, found := strings.Cut(key, ".")
	if !found || flag == "" || strings.TrimSpace(flag) != flag {
		return "", "", false
	}
	if !lo.Contains(FixtureCategories, category) {
		return "", "", false
	}
	return category, flag, true
}

// SelectedKeys returns the flag keys set to true, sorted.
func (s FixtureSelection) SelectedKeys() []string {
	var keys []string
	for category, flags := range s {
		for flag, selected := range flags {
			if selected {
				keys = append(keys, FlagKey(category, flag))
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy.
func (s FixtureSelection) Clone() FixtureSelection {
	if s == nil {
		return nil
	}
	out := make(FixtureSelection, len(s))
	for category, flags := range s {
		copied := make(map[string]bool, len(flags))
		for flag, v := range flags {
			copied[flag] = v
		}
		out[category] = copied
	}
	return out
}

// CatalogItem is the pricing view of a fixture or product.
type CatalogItem struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	BrandID        *uuid.UUID `json:"brandId,omitempty"`
	MRP            float64    `json:"mrp"`
	LandingPrice   float64    `json:"landingPrice"`
	ClientPrice    float64    `json:"clientPrice"`
	QuotationPrice float64    `json:"quotationPrice"`
	Margin         float64    `json:"margin"`
}

// CalculateMargin returns the markup of quotation price over landing price
// as a percentage, or 0 when the landing price is not positive.
func CalculateMargin(landingPrice, quotationPrice float64) float64 {
	if landingPrice <= 0 {
		return 0
	}
	return ((quotationPrice - landingPrice) / landingPrice) * 100
}

// FixtureCost is the result of aggregating selected fixtures.
type FixtureCost struct {
	Total float64 `json:"total"`
	// Matched maps flag keys to the client price they contributed.
	Matched map[string]float64 `json:"matched"`
	// Misses lists selected flag keys with no mapping or no catalog item.
	Misses []string `json:"misses,omitempty"`
}

// AggregateFixtureCost sums the client price of the catalog item mapped to
// each selected flag. Unmapped flags and mappings pointing at items missing
// from the catalog contribute zero and are reported in Misses.
func AggregateFixtureCost(selection FixtureSelection, mappings map[string]uuid.UUID, catalog []CatalogItem) FixtureCost {
	byID := lo.KeyBy(catalog, func(item CatalogItem) uuid.UUID { return item.ID })

	result := FixtureCost{Matched: make(map[string]float64)}
	for _, key := range selection.SelectedKeys() {
		itemID, ok := mappings[key]
		if !ok {
			result.Misses = append(result.Misses, key)
			continue
		}
		item, ok := byID[itemID]
		if !ok {
			result.Misses = append(result.Misses, key)
			continue
		}
		price := nonNegative(item.ClientPrice)
		result.Matched[key] = price
		result.Total += price
	}
	return result
}

// SumClientPrices totals the client price of every item.
func SumClientPrices(items []CatalogItem) float64 {
	return lo.SumBy(items, func(item CatalogItem) float64 { return nonNegative(item.ClientPrice) })
}
