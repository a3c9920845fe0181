package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/bathcraft/washroom-api/internal/costing"
	"github.com/bathcraft/washroom-api/internal/domain"
	"github.com/bathcraft/washroom-api/internal/repository"
	"github.com/bathcraft/washroom-api/internal/service"
	"github.com/bathcraft/washroom-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_Brands(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	brand, err := s.catalog.CreateBrand(ctx, &domain.CreateBrandRequest{Name: "  Jaquar "})
	require.NoError(t, err)
	assert.Equal(t, "Jaquar", brand.Name)
	assert.True(t, brand.IsActive)

	_, err = s.catalog.CreateBrand(ctx, &domain.CreateBrandRequest{Name: "Jaquar"})
	assert.ErrorIs(t, err, service.ErrDuplicateBrand)

	got, err := s.catalog.GetBrand(ctx, brand.ID)
	require.NoError(t, err)
	assert.Equal(t, brand.ID, got.ID)

	require.NoError(t, s.db.Create(&domain.Brand{Name: "Retired Co"}).Error)
	require.NoError(t, s.db.Model(&domain.Brand{}).Where("name = ?", "Retired Co").Update("is_active", false).Error)

	all, err := s.catalog.ListBrands(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	active, err := s.catalog.ListBrands(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Jaquar", active[0].Name)

	require.NoError(t, s.catalog.DeleteBrand(ctx, brand.ID))
	_, err = s.catalog.GetBrand(ctx, brand.ID)
	assert.ErrorIs(t, err, service.ErrBrandNotFound)
	assert.ErrorIs(t, s.catalog.DeleteBrand(ctx, uuid.New()), service.ErrBrandNotFound)
}

func TestCatalogService_Items(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	brand := testutil.CreateTestBrand(t, s.db)

	item, err := s.catalog.CreateItem(ctx, &domain.CreateCatalogItemRequest{
		Name:           "Wall-hung WC",
		Category:       "brand_product",
		BrandID:        &brand.ID,
		MRP:            1500,
		LandingPrice:   1000,
		ClientPrice:    1400,
		QuotationPrice: 1250,
	})
	require.NoError(t, err)
	assert.Equal(t, 25.0, item.Margin)
	assert.Equal(t, brand.Name, item.BrandName)

	t.Run("update recomputes margin", func(t *testing.T) {
		updated, err := s.catalog.UpdateItem(ctx, item.ID, &domain.UpdateCatalogItemRequest{
			Name:           "Wall-hung WC",
			Category:       "brand_product",
			BrandID:        &brand.ID,
			LandingPrice:   1000,
			ClientPrice:    1400,
			QuotationPrice: 1500,
		})
		require.NoError(t, err)
		assert.Equal(t, 50.0, updated.Margin)
	})

	t.Run("unknown brand", func(t *testing.T) {
		missing := uuid.New()
		_, err := s.catalog.CreateItem(ctx, &domain.CreateCatalogItemRequest{Name: "Basin", Category: "brand_product", BrandID: &missing})
		assert.ErrorIs(t, err, service.ErrBrandNotFound)
	})

	t.Run("filter", func(t *testing.T) {
		testutil.CreateTestCatalogItem(t, s.db, "vanity", nil, 100, 150, 120)

		byBrand, err := s.catalog.ListItems(ctx, repository.CatalogFilter{BrandID: &brand.ID})
		require.NoError(t, err)
		assert.Len(t, byBrand, 1)

		vanities, err := s.catalog.ListItems(ctx, repository.CatalogFilter{Category: "vanity"})
		require.NoError(t, err)
		assert.Len(t, vanities, 1)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.catalog.DeleteItem(ctx, item.ID))
		_, err := s.catalog.GetItem(ctx, item.ID)
		assert.ErrorIs(t, err, service.ErrCatalogItemNotFound)
		assert.ErrorIs(t, s.catalog.DeleteItem(ctx, item.ID), service.ErrCatalogItemNotFound)
	})
}

func TestCatalogService_FixtureMappings(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	mirror := testutil.CreateTestCatalogItem(t, s.db, "electrical", nil, 3000, 4500, 4000)
	shower := testutil.CreateTestCatalogItem(t, s.db, "plumbing", nil, 5000, 7000, 6500)
	key := costing.FlagKey("electrical", "ledMirror")

	mappings, err := s.catalog.UpsertFixtureMappings(ctx, &domain.UpsertFixtureMappingsRequest{
		Mappings: []domain.FixtureMappingInput{{FlagKey: key, CatalogItemID: mirror.ID}},
	})
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, mirror.ID, mappings[0].CatalogItemID)

	// Repointing keeps a single mapping per flag
	mappings, err = s.catalog.UpsertFixtureMappings(ctx, &domain.UpsertFixtureMappingsRequest{
		Mappings: []domain.FixtureMappingInput{{FlagKey: key, CatalogItemID: shower.ID}},
	})
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, shower.ID, mappings[0].CatalogItemID)

	_, err = s.catalog.UpsertFixtureMappings(ctx, &domain.UpsertFixtureMappingsRequest{
		Mappings: []domain.FixtureMappingInput{{FlagKey: "plumbing.rainShower", CatalogItemID: uuid.New()}},
	})
	assert.ErrorIs(t, err, service.ErrCatalogItemNotFound)

	require.NoError(t, s.catalog.DeleteFixtureMapping(ctx, key))
	assert.ErrorIs(t, s.catalog.DeleteFixtureMapping(ctx, key), service.ErrFixtureMappingMissing)
}

func TestCatalogService_FixtureMappings_RejectsMalformedKeys(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	mirror := testutil.CreateTestCatalogItem(t, s.db, "electrical", nil, 3000, 4500, 4000)

	for _, key := range []string{"ledMirror", "lighting.ledMirror", "electrical.", ".ledMirror", "Electrical.ledMirror"} {
		t.Run(key, func(t *testing.T) {
			_, err := s.catalog.UpsertFixtureMappings(ctx, &domain.UpsertFixtureMappingsRequest{
				Mappings: []domain.FixtureMappingInput{{FlagKey: key, CatalogItemID: mirror.ID}},
			})
			assert.ErrorIs(t, err, service.ErrInvalidInput)
		})
	}

	mappings, err := s.catalog.ListFixtureMappings(ctx)
	require.NoError(t, err)
	assert.Empty(t, mappings)
}

func TestCatalogService_ReconcileMargins(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		testutil.CreateTestCatalogItem(t, s.db, "vanity", nil, 1000, 1300, 1250)
	}
	drifted := testutil.CreateTestCatalogItem(t, s.db, "vanity", nil, 1000, 1300, 1250)
	require.NoError(t, s.db.Model(&domain.CatalogItem{}).Where("id = ?", drifted.ID).UpdateColumn("margin", 99).Error)

	fixed, err := s.catalog.ReconcileMargins(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, fixed)

	item, err := s.catalog.GetItem(ctx, drifted.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, item.Margin)

	fixed, err = s.catalog.ReconcileMargins(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, fixed)
}

func TestSettingsService_Update(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	testutil.SeedSettings(t, s.db)

	settings, err := s.settings.Update(ctx, &domain.UpdateSettingsRequest{
		Values: map[string]float64{domain.SettingPlumbingRatePerSqft: 75},
	})
	require.NoError(t, err)

	values := make(map[string]float64, len(settings))
	for _, setting := range settings {
		values[setting.Key] = setting.Value
	}
	assert.Equal(t, 75.0, values[domain.SettingPlumbingRatePerSqft])
	assert.Len(t, values, len(testutil.DefaultSettings))

	_, err = s.settings.Update(ctx, &domain.UpdateSettingsRequest{
		Values: map[string]float64{domain.SettingDefaultGSTPercentage: -1},
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestRateCardService(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	rate, err := s.rates.UpsertServiceRate(ctx, &domain.UpsertRateRequest{Code: "waterproofing", Name: "Waterproofing", Unit: "per sqft", Rate: 40})
	require.NoError(t, err)
	assert.Equal(t, string(costing.UnitPerArea), rate.UnitKind)

	again, err := s.rates.UpsertServiceRate(ctx, &domain.UpsertRateRequest{Code: "waterproofing", Name: "Waterproofing", Unit: "per sqft", Rate: 45})
	require.NoError(t, err)
	assert.Equal(t, rate.ID, again.ID)
	assert.Equal(t, 45.0, again.Rate)

	_, err = s.rates.UpsertTilingRate(ctx, &domain.UpsertRateRequest{Code: "floor_tiling", Name: "Floor tiling", Unit: "per sqft", Rate: 60})
	require.NoError(t, err)

	suggested, ok, err := s.rates.SuggestRate(ctx, "floor_tiling")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 60.0, suggested.Rate)

	_, ok, err = s.rates.SuggestRate(ctx, "plastering")
	require.NoError(t, err)
	assert.False(t, ok)

	book, err := s.rates.LoadRateBook(ctx)
	require.NoError(t, err)
	assert.Len(t, book.ServiceRates, 1)
	assert.Len(t, book.TilingRates, 1)

	require.NoError(t, s.rates.DeleteServiceRate(ctx, "waterproofing"))
	assert.ErrorIs(t, s.rates.DeleteServiceRate(ctx, "waterproofing"), service.ErrRateNotFound)
	assert.ErrorIs(t, s.rates.DeleteTilingRate(ctx, "wall_tiling"), service.ErrRateNotFound)
}

func TestNumberSequenceService(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		number, err := s.numbers.GenerateQuotationNumber(ctx)
		require.NoError(t, err)
		assert.Regexp(t, fmt.Sprintf(`^WR-\d{4}-%03d$`, i), number)
	}
}
