package service_test

import (
	"context"
	"testing"

	"github.com/bathcraft/washroom-api/internal/costing"
	"github.com/bathcraft/washroom-api/internal/domain"
	"github.com/bathcraft/washroom-api/internal/service"
	"github.com/bathcraft/washroom-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createProject(t *testing.T, s *services, internalPricing bool) *domain.ProjectDTO {
	t.Helper()
	project, err := s.projects.Create(context.Background(), &domain.CreateProjectRequest{
		Name:                   "Villa 14",
		ClientName:             "Meera Iyer",
		Location:               "Pune",
		OriginalEstimate:       50000,
		InternalPricingEnabled: internalPricing,
		MarginPercentage:       lo.ToPtr(20.0),
		GSTPercentage:          lo.ToPtr(18.0),
	})
	require.NoError(t, err)
	return project
}

func TestProjectService_Create(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	t.Run("defaults from settings", func(t *testing.T) {
		testutil.SeedSettings(t, s.db)
		project, err := s.projects.Create(ctx, &domain.CreateProjectRequest{Name: "Flat 3B", ClientName: "Ravi"})
		require.NoError(t, err)
		assert.Equal(t, domain.ProjectStatusDraft, project.Status)
		assert.Equal(t, 20.0, project.MarginPercentage)
		assert.Equal(t, 18.0, project.GSTPercentage)
	})

	t.Run("negative margin rejected when pricing enabled", func(t *testing.T) {
		_, err := s.projects.Create(ctx, &domain.CreateProjectRequest{
			Name:                   "Flat 4C",
			ClientName:             "Ravi",
			InternalPricingEnabled: true,
			MarginPercentage:       lo.ToPtr(-5.0),
		})
		assert.ErrorIs(t, err, costing.ErrInvalidMarginValue)
	})

	t.Run("negative gst rejected when pricing enabled", func(t *testing.T) {
		_, err := s.projects.Create(ctx, &domain.CreateProjectRequest{
			Name:                   "Flat 4D",
			ClientName:             "Ravi",
			InternalPricingEnabled: true,
			GSTPercentage:          lo.ToPtr(-1.0),
		})
		assert.ErrorIs(t, err, costing.ErrInvalidTaxValue)
	})

	t.Run("linked estimate seeds original estimate", func(t *testing.T) {
		estimate := &domain.Estimate{
			BrandID:          uuid.New(),
			CustomerName:     "Ravi",
			CustomerEmail:    "ravi@example.com",
			CustomerMobile:   "9000000000",
			CustomerLocation: "Pune",
			Total:            38880,
		}
		require.NoError(t, s.db.Create(estimate).Error)

		project, err := s.projects.Create(ctx, &domain.CreateProjectRequest{
			Name:       "From lead",
			ClientName: "Ravi",
			EstimateID: &estimate.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, 38880.0, project.OriginalEstimate)

		missing := uuid.New()
		_, err = s.projects.Create(ctx, &domain.CreateProjectRequest{Name: "x", ClientName: "y", EstimateID: &missing})
		assert.ErrorIs(t, err, service.ErrEstimateNotFound)
	})
}

func TestProjectService_Washrooms(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	project := createProject(t, s, false)

	washroom, err := s.projects.AddWashroom(ctx, project.ID, &domain.WashroomRequest{
		Name:       "Master",
		Dimensions: domain.DimensionsRequest{Length: 8, Width: 6, Height: 9},
	})
	require.NoError(t, err)
	assert.Equal(t, 48.0, washroom.Area)
	assert.Equal(t, 252.0, washroom.WallArea)
	assert.Equal(t, 48.0, washroom.CeilingArea)
	assert.Equal(t, 300.0, washroom.TotalArea)

	ceiling := 40.0
	washroom, err = s.projects.UpdateWashroom(ctx, project.ID, washroom.ID, &domain.WashroomRequest{
		Name:       "Master",
		Dimensions: domain.DimensionsRequest{Length: 10, Width: 6, Height: 9, CeilingArea: &ceiling},
	})
	require.NoError(t, err)
	assert.Equal(t, 60.0, washroom.Area)
	assert.Equal(t, 288.0, washroom.WallArea)
	assert.Equal(t, 40.0, washroom.CeilingArea)
	assert.True(t, washroom.CeilingOverridden)
	assert.Equal(t, 348.0, washroom.TotalArea)

	washroom, err = s.projects.UpdateWashroom(ctx, project.ID, washroom.ID, &domain.WashroomRequest{
		Name:       "Master",
		Dimensions: domain.DimensionsRequest{Length: 10, Width: 6, Height: 9},
	})
	require.NoError(t, err)
	assert.Equal(t, 60.0, washroom.CeilingArea)
	assert.False(t, washroom.CeilingOverridden)

	_, err = s.projects.AddWashroom(ctx, uuid.New(), &domain.WashroomRequest{Name: "Ghost"})
	assert.ErrorIs(t, err, service.ErrProjectNotFound)

	_, err = s.projects.GetWashroom(ctx, uuid.New(), washroom.ID)
	assert.ErrorIs(t, err, service.ErrWashroomNotFound)

	require.NoError(t, s.projects.DeleteWashroom(ctx, project.ID, washroom.ID))
	assert.ErrorIs(t, s.projects.DeleteWashroom(ctx, project.ID, washroom.ID), service.ErrWashroomNotFound)
}

func TestProjectService_SelectionsAndCostItems(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	project := createProject(t, s, false)
	washroom := testutil.CreateTestWashroom(t, s.db, project.ID, "Guest", costing.Dimensions{Length: 6, Width: 4, Height: 7})
	vanity := testutil.CreateTestCatalogItem(t, s.db, "vanity", nil, 9000, 12000, 11500)

	override := 400.0
	dto, err := s.projects.SetService(ctx, project.ID, washroom.ID, "electrical_points", &domain.SetWashroomServiceRequest{Quantity: 4})
	require.NoError(t, err)
	require.Len(t, dto.Services, 1)
	assert.Nil(t, dto.Services[0].RateOverride)

	dto, err = s.projects.SetService(ctx, project.ID, washroom.ID, "electrical_points", &domain.SetWashroomServiceRequest{Quantity: 6, RateOverride: &override})
	require.NoError(t, err)
	require.Len(t, dto.Services, 1)
	assert.Equal(t, 6.0, dto.Services[0].Quantity)
	assert.Equal(t, &override, dto.Services[0].RateOverride)

	dto, err = s.projects.SetFixture(ctx, project.ID, washroom.ID, vanity.ID, &domain.SetWashroomFixtureRequest{})
	require.NoError(t, err)
	require.Len(t, dto.Fixtures, 1)
	assert.Equal(t, 1.0, dto.Fixtures[0].Quantity)
	assert.Equal(t, vanity.Name, dto.Fixtures[0].Name)

	_, err = s.projects.SetFixture(ctx, project.ID, washroom.ID, uuid.New(), &domain.SetWashroomFixtureRequest{Quantity: 1})
	assert.ErrorIs(t, err, service.ErrCatalogItemNotFound)

	require.NoError(t, s.projects.RemoveService(ctx, project.ID, washroom.ID, "electrical_points"))
	assert.ErrorIs(t, s.projects.RemoveService(ctx, project.ID, washroom.ID, "electrical_points"), service.ErrServiceNotSelected)
	require.NoError(t, s.projects.RemoveFixture(ctx, project.ID, washroom.ID, vanity.ID))
	assert.ErrorIs(t, s.projects.RemoveFixture(ctx, project.ID, washroom.ID, vanity.ID), service.ErrFixtureNotPlaced)

	for _, req := range []domain.CreateCostItemRequest{
		{Name: "Scaffolding", Amount: 2000, Category: costing.CostCategoryExecution},
		{Name: "Glass partition", Amount: 3000, Category: costing.CostCategoryVendor},
		{Name: "Debris removal", Amount: 1000, Category: costing.CostCategoryAdditional},
		{Name: "Night shift", Amount: 500, Category: costing.CostCategoryAdditional},
	} {
		_, err := s.projects.CreateCostItem(ctx, project.ID, &req)
		require.NoError(t, err)
	}

	_, err = s.projects.CreateCostItem(ctx, project.ID, &domain.CreateCostItemRequest{Name: "Taxi", Amount: 10, Category: "travel"})
	assert.ErrorIs(t, err, service.ErrInvalidCostCategory)

	items, err := s.projects.ListCostItems(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, items.Items, 4)
	assert.Equal(t, map[string]float64{"execution": 2000, "vendor": 3000, "additional": 1500}, items.Totals)

	require.NoError(t, s.projects.DeleteCostItem(ctx, project.ID, items.Items[0].ID))
	assert.ErrorIs(t, s.projects.DeleteCostItem(ctx, project.ID, items.Items[0].ID), service.ErrCostItemNotFound)
}

func TestProjectService_UpdateListDelete(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	project := createProject(t, s, false)
	testutil.CreateTestProject(t, s.db)

	updated, err := s.projects.Update(ctx, project.ID, &domain.UpdateProjectRequest{
		Name:                   "Villa 14 (revised)",
		ClientName:             project.ClientName,
		OriginalEstimate:       52000,
		InternalPricingEnabled: true,
		MarginPercentage:       25,
		GSTPercentage:          18,
		Status:                 domain.ProjectStatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, "Villa 14 (revised)", updated.Name)
	assert.Equal(t, domain.ProjectStatusApproved, updated.Status)

	status := domain.ProjectStatusApproved
	page, err := s.projects.List(ctx, 1, 20, "", &status)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	page, err = s.projects.List(ctx, 1, 20, "villa", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	require.NoError(t, s.projects.Delete(ctx, project.ID))
	_, err = s.projects.GetByID(ctx, project.ID)
	assert.ErrorIs(t, err, service.ErrProjectNotFound)
	assert.ErrorIs(t, s.projects.Delete(ctx, project.ID), service.ErrProjectNotFound)
}
