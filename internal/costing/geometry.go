// Package costing holds the pure calculators behind customer estimates and
// project quotations. Nothing in this package performs I/O; callers supply
// settings, catalog and rate-card snapshots and receive fresh result values.
package costing

import "math"

// Dimensions are room measurements in feet. CeilingArea, when set, replaces
// the default ceiling area (equal to the floor footprint).
type Dimensions struct {
	Length      float64  `json:"length"`
	Width       float64  `json:"width"`
	Height      float64  `json:"height"`
	CeilingArea *float64 `json:"ceilingArea,omitempty"`
}

// Geometry holds the areas derived from Dimensions, in square feet.
type Geometry struct {
	FloorArea   float64 `json:"floorArea"`
	WallArea    float64 `json:"wallArea"`
	CeilingArea float64 `json:"ceilingArea"`
	TotalArea   float64 `json:"totalArea"`
}

// CalculateGeometry derives floor, wall, ceiling and total area for a
// rectangular room. Wall area is perimeter x height with no deduction for
// doors or windows. Total area is floor + wall; the ceiling is not part of it.
func CalculateGeometry(d Dimensions) Geometry {
	length := nonNegative(d.Length)
	width := nonNegative(d.Width)
	height := nonNegative(d.Height)

	floor := length * width
	ceiling := floor
	if d.CeilingArea != nil {
		ceiling = nonNegative(*d.CeilingArea)
	}
	wall := 2 * (length + width) * height

	return Geometry{
		FloorArea:   floor,
		WallArea:    wall,
		CeilingArea: ceiling,
		TotalArea:   floor + wall,
	}
}

// nonNegative coerces NaN, infinities and negative values to zero so partial
// input never poisons downstream sums.
func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
