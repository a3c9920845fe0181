package costing

import (
	"math"

	"github.com/shopspring/decimal"
)

// TileCoverageSqft is the area covered by one 2x2 ft tile.
const TileCoverageSqft = 4.0

// TilingInput holds everything needed to price tiling for an area.
type TilingInput struct {
	TotalArea          float64
	TileCostPerUnit    float64
	LaborRatePerSqft   float64
	BreakagePercentage float64
	// TileCoverage defaults to TileCoverageSqft when zero or negative.
	TileCoverage float64
}

// TilingCost is the tiling portion of an estimate.
type TilingCost struct {
	InitialTileCount int64   `json:"initialTileCount"`
	FinalTileCount   int64   `json:"finalTileCount"`
	MaterialCost     float64 `json:"materialCost"`
	LaborCost        float64 `json:"laborCost"`
	Total            float64 `json:"total"`
}

// CalculateTiling converts an area into a tile order and labour cost.
//
// Rounding happens twice: the raw tile count is rounded up, then the
// breakage-inflated count is rounded up again. Labour is charged on the raw
// area and is not affected by breakage.
func CalculateTiling(in TilingInput) TilingCost {
	area := nonNegative(in.TotalArea)
	coverage := in.TileCoverage
	if coverage <= 0 || math.IsNaN(coverage) {
		coverage = TileCoverageSqft
	}

	initial := int64(math.Ceil(area / coverage))

	// Decimal arithmetic keeps 100 tiles at 10% breakage at 110, where
	// 100*1.1 in binary floating point would round up to 111.
	multiplier := decimal.NewFromInt(1).Add(
		decimal.NewFromFloat(nonNegative(in.BreakagePercentage)).Div(decimal.NewFromInt(100)),
	)
	final := decimal.NewFromInt(initial).Mul(multiplier).Ceil().IntPart()

	material := float64(final) * nonNegative(in.TileCostPerUnit)
	labor := area * nonNegative(in.LaborRatePerSqft)

	return TilingCost{
		InitialTileCount: initial,
		FinalTileCount:   final,
		MaterialCost:     material,
		LaborCost:        labor,
		Total:            material + labor,
	}
}
