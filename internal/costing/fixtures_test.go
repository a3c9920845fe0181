package costing_test

import (
	"testing"

	"github.com/bathcraft/washroom-api/internal/costing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateFixtureCost(t *testing.T) {
	mirror := costing.CatalogItem{ID: uuid.New(), Name: "LED Mirror 600mm", Category: costing.CategoryElectrical, ClientPrice: 4500}
	plumbing := costing.CatalogItem{ID: uuid.New(), Name: "Complete Plumbing Kit", Category: costing.CategoryPlumbing, ClientPrice: 12000}
	bathtub := costing.CatalogItem{ID: uuid.New(), Name: "Acrylic Bathtub", Category: costing.CategoryAdditional, ClientPrice: 30000}
	catalog := []costing.CatalogItem{mirror, plumbing, bathtub}

	mappings := map[string]uuid.UUID{
		"electrical.ledMirror":      mirror.ID,
		"plumbing.completePlumbing": plumbing.ID,
		"additional.bathtub":        bathtub.ID,
		"additional.jacuzzi":        uuid.New(), // mapped to an item no longer in the catalog
	}

	t.Run("sums selected flags", func(t *testing.T) {
		sel := costing.FixtureSelection{
			costing.CategoryElectrical: {"ledMirror": true},
			costing.CategoryPlumbing:   {"completePlumbing": true},
			costing.CategoryAdditional: {"bathtub": false},
		}
		got := costing.AggregateFixtureCost(sel, mappings, catalog)
		assert.Equal(t, 16500.0, got.Total)
		assert.Empty(t, got.Misses)
		assert.Equal(t, 4500.0, got.Matched["electrical.ledMirror"])
	})

	t.Run("unmapped flag contributes zero", func(t *testing.T) {
		base := costing.FixtureSelection{costing.CategoryElectrical: {"ledMirror": true}}
		withMiss := costing.FixtureSelection{costing.CategoryElectrical: {"ledMirror": true, "exhaustFan": true}}

		baseCost := costing.AggregateFixtureCost(base, mappings, catalog)
		missCost := costing.AggregateFixtureCost(withMiss, mappings, catalog)

		assert.Equal(t, baseCost.Total, missCost.Total)
		assert.Equal(t, []string{"electrical.exhaustFan"}, missCost.Misses)
	})

	t.Run("mapping to missing catalog item contributes zero", func(t *testing.T) {
		sel := costing.FixtureSelection{costing.CategoryAdditional: {"jacuzzi": true}}
		got := costing.AggregateFixtureCost(sel, mappings, catalog)
		assert.Zero(t, got.Total)
		assert.Equal(t, []string{"additional.jacuzzi"}, got.Misses)
	})

	t.Run("nil selection", func(t *testing.T) {
		got := costing.AggregateFixtureCost(nil, mappings, catalog)
		assert.Zero(t, got.Total)
	})
}

func TestFixtureSelection_Clone(t *testing.T) {
	original := costing.FixtureSelection{costing.CategoryElectrical: {"ledMirror": true}}
	clone := original.Clone()
	clone[costing.CategoryElectrical]["ledMirror"] = false

	require.True(t, original[costing.CategoryElectrical]["ledMirror"])
	assert.Nil(t, costing.FixtureSelection(nil).Clone())
}

func TestCalculateMargin(t *testing.T) {
	assert.InDelta(t, 25.0, costing.CalculateMargin(1000, 1250), 1e-9)
	assert.InDelta(t, -10.0, costing.CalculateMargin(1000, 900), 1e-9)
	assert.Zero(t, costing.CalculateMargin(0, 1250))
	assert.Zero(t, costing.CalculateMargin(-5, 1250))
}

func TestParseFlagKey(t *testing.T) {
	tests := []struct {
		key      string
		category string
		flag     string
		ok       bool
	}{
		{"electrical.ledMirror", "electrical", "ledMirror", true},
		{"plumbing.rainShower", "plumbing", "rainShower", true},
		{"additional.exhaustFan", "additional", "exhaustFan", true},
		{"ledMirror", "", "", false},
		{"lighting.ledMirror", "", "", false},
		{"electrical.", "", "", false},
		{"electrical. ledMirror", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			category, flag, ok := costing.ParseFlagKey(tt.key)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.category, category)
			assert.Equal(t, tt.flag, flag)
		})
	}

	category, flag, ok := costing.ParseFlagKey(costing.FlagKey(costing.CategoryElectrical, "ledMirror"))
	assert.True(t, ok)
	assert.Equal(t, costing.CategoryElectrical, category)
	assert.Equal(t, "ledMirror", flag)
}
