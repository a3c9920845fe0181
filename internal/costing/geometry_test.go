package costing_test

import (
	"math"
	"testing"

	"github.com/bathcraft/washroom-api/internal/costing"
	"github.com/stretchr/testify/assert"
)

func TestCalculateGeometry(t *testing.T) {
	ceiling := 60.0

	tests := []struct {
		name     string
		dims     costing.Dimensions
		expected costing.Geometry
	}{
		{
			name:     "standard washroom",
			dims:     costing.Dimensions{Length: 8, Width: 6, Height: 9},
			expected: costing.Geometry{FloorArea: 48, WallArea: 252, CeilingArea: 48, TotalArea: 300},
		},
		{
			name:     "ceiling override does not change total",
			dims:     costing.Dimensions{Length: 8, Width: 6, Height: 9, CeilingArea: &ceiling},
			expected: costing.Geometry{FloorArea: 48, WallArea: 252, CeilingArea: 60, TotalArea: 300},
		},
		{
			name:     "zero height has no walls",
			dims:     costing.Dimensions{Length: 5, Width: 4},
			expected: costing.Geometry{FloorArea: 20, CeilingArea: 20, TotalArea: 20},
		},
		{
			name:     "negative values are treated as zero",
			dims:     costing.Dimensions{Length: -5, Width: 4, Height: 10},
			expected: costing.Geometry{WallArea: 80, TotalArea: 80},
		},
		{
			name:     "NaN and Inf are treated as zero",
			dims:     costing.Dimensions{Length: math.NaN(), Width: math.Inf(1), Height: 3},
			expected: costing.Geometry{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, costing.CalculateGeometry(tc.dims))
		})
	}
}

func TestCalculateGeometry_WallAreaIsPerimeterTimesHeight(t *testing.T) {
	for l := 0.0; l <= 12; l += 1.5 {
		for w := 0.0; w <= 10; w += 2.5 {
			for h := 0.0; h <= 10; h += 2 {
				g := costing.CalculateGeometry(costing.Dimensions{Length: l, Width: w, Height: h})
				assert.InDelta(t, 2*(l+w)*h, g.WallArea, 1e-9)
				assert.InDelta(t, g.FloorArea+g.WallArea, g.TotalArea, 1e-9)
				assert.GreaterOrEqual(t, g.TotalArea, 0.0)
			}
		}
	}
}
