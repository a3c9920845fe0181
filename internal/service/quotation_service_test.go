package service_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/bathcraft/washroom-api/internal/costing"
	"github.com/bathcraft/washroom-api/internal/domain"
	"github.com/bathcraft/washroom-api/internal/service"
	"github.com/bathcraft/washroom-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type costedProject struct {
	project  *domain.ProjectDTO
	masterID uuid.UUID
	guestID  uuid.UUID
}

// seedCostedProject builds a two-washroom project whose non-margin total is
// 84400 without overrides (84600 with the guest electrical override at 400)
func seedCostedProject(t *testing.T, s *services, internalPricing bool) costedProject {
	t.Helper()
	ctx := context.Background()

	testutil.CreateTestServiceRate(t, s.db, "waterproofing", "per sqft", 45)
	testutil.CreateTestServiceRate(t, s.db, "demolition", "lumpsum", 8000)
	testutil.CreateTestServiceRate(t, s.db, "electrical_points", "per point", 350)
	testutil.CreateTestTilingRate(t, s.db, "wall_tiling", "per sqft", 55)

	project := createProject(t, s, internalPricing)
	master := testutil.CreateTestWashroom(t, s.db, project.ID, "Master", costing.Dimensions{Length: 8, Width: 6, Height: 9})
	guest := testutil.CreateTestWashroom(t, s.db, project.ID, "Guest", costing.Dimensions{Length: 6, Width: 4, Height: 7})

	vanity := testutil.CreateTestCatalogItem(t, s.db, "vanity", nil, 9000, 12000, 11500)
	retired := testutil.CreateTestCatalogItem(t, s.db, "vanity", nil, 1000, 2000, 1500)

	for _, code := range []string{"waterproofing", "demolition"} {
		_, err := s.projects.SetService(ctx, project.ID, master.ID, code, &domain.SetWashroomServiceRequest{})
		require.NoError(t, err)
	}
	_, err := s.projects.SetService(ctx, project.ID, guest.ID, "electrical_points", &domain.SetWashroomServiceRequest{Quantity: 4})
	require.NoError(t, err)
	_, err = s.projects.SetService(ctx, project.ID, guest.ID, "wall_tiling", &domain.SetWashroomServiceRequest{Area: 100})
	require.NoError(t, err)

	_, err = s.projects.SetFixture(ctx, project.ID, master.ID, vanity.ID, &domain.SetWashroomFixtureRequest{Quantity: 1})
	require.NoError(t, err)
	_, err = s.projects.SetFixture(ctx, project.ID, master.ID, retired.ID, &domain.SetWashroomFixtureRequest{Quantity: 2})
	require.NoError(t, err)
	require.NoError(t, s.catalog.DeleteItem(ctx, retired.ID))

	for _, req := range []domain.CreateCostItemRequest{
		{Name: "Scaffolding", Amount: 2000, Category: costing.CostCategoryExecution},
		{Name: "Glass partition", Amount: 3000, Category: costing.CostCategoryVendor},
		{Name: "Debris removal", Amount: 1000, Category: costing.CostCategoryAdditional},
	} {
		_, err := s.projects.CreateCostItem(ctx, project.ID, &req)
		require.NoError(t, err)
	}

	return costedProject{project: project, masterID: master.ID, guestID: guest.ID}
}

func TestProjectCostingService_WithoutInternalPricing(t *testing.T) {
	s := setupServices(t)
	p := seedCostedProject(t, s, false)
	ctx := context.Background()

	summary, err := s.costing.CalculateProjectCosts(ctx, p.project.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 21500.0, summary.WashroomCosts[p.masterID].ExecutionServices)
	assert.Equal(t, 12000.0, summary.WashroomCosts[p.masterID].ProductCosts)
	assert.Len(t, summary.WashroomCosts[p.masterID].MissingItems, 1)
	assert.Equal(t, 6900.0, summary.WashroomCosts[p.guestID].ExecutionServices)
	assert.Equal(t, 84400.0, summary.FinalQuotationAmount)

	summary, err = s.costing.CalculateProjectCosts(ctx, p.project.ID, costing.ExecutionOverrides{
		p.guestID: {"electrical_points": 400},
	})
	require.NoError(t, err)
	assert.Equal(t, 84600.0, summary.FinalQuotationAmount)
}

func TestProjectCostingService_WithInternalPricing(t *testing.T) {
	s := setupServices(t)
	p := seedCostedProject(t, s, true)

	summary, err := s.costing.CalculateProjectCosts(context.Background(), p.project.ID, costing.ExecutionOverrides{
		p.guestID: {"electrical_points": 400},
	})
	require.NoError(t, err)
	require.NotNil(t, summary.Pricing)
	assert.InDelta(t, 60993.6, summary.FinalQuotationAmount, 1e-6)
}

func TestProjectCostingService_ProjectNotFound(t *testing.T) {
	s := setupServices(t)
	_, err := s.costing.CalculateProjectCosts(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, service.ErrProjectNotFound)
}

func TestQuotationService_GenerateQuotation(t *testing.T) {
	s := setupServices(t)
	p := seedCostedProject(t, s, true)
	ctx := context.Background()

	var before domain.Project
	require.NoError(t, s.db.First(&before, "id = ?", p.project.ID).Error)
	var washroomsBefore, costItemsBefore int64
	s.db.Model(&domain.Washroom{}).Where("project_id = ?", p.project.ID).Count(&washroomsBefore)
	s.db.Model(&domain.CostItem{}).Where("project_id = ?", p.project.ID).Count(&costItemsBefore)

	first, err := s.quotations.GenerateQuotation(ctx, p.project.ID, &domain.GenerateQuotationRequest{})
	require.NoError(t, err)
	second, err := s.quotations.GenerateQuotation(ctx, p.project.ID, &domain.GenerateQuotationRequest{Terms: "Full payment on handover", ValidityDays: 15})
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("WR-%d-001", year), first.QuotationNumber)
	assert.Equal(t, fmt.Sprintf("WR-%d-002", year), second.QuotationNumber)

	// 60710.40 in margin mode rounds to the nearest rupee
	assert.Equal(t, 60710.0, first.TotalAmount)
	assert.Contains(t, first.HTML, "Sixty Thousand Seven Hundred and Ten Rupees Only")
	assert.Contains(t, first.HTML, "Bathcraft Interiors")
	assert.Contains(t, first.HTML, "50% advance")
	assert.Contains(t, second.HTML, "Full payment on handover")

	var after domain.Project
	require.NoError(t, s.db.First(&after, "id = ?", p.project.ID).Error)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	var washroomsAfter, costItemsAfter int64
	s.db.Model(&domain.Washroom{}).Where("project_id = ?", p.project.ID).Count(&washroomsAfter)
	s.db.Model(&domain.CostItem{}).Where("project_id = ?", p.project.ID).Count(&costItemsAfter)
	assert.Equal(t, washroomsBefore, washroomsAfter)
	assert.Equal(t, costItemsBefore, costItemsAfter)

	stored, err := s.store.Get(ctx, "quotations/"+first.QuotationNumber+".html")
	require.NoError(t, err)
	body, err := io.ReadAll(stored)
	stored.Close()
	require.NoError(t, err)
	assert.Equal(t, first.HTML, string(body))

	dto, err := s.quotations.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Full payment on handover", dto.Terms)
	assert.InDelta(t, 60710.4, dto.Summary.FinalQuotationAmount, 1e-6)

	list, err := s.quotations.ListByProject(ctx, p.project.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	html, err := s.quotations.GetHTML(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.HTML, html)
}

func TestQuotationService_ExportExcel(t *testing.T) {
	s := setupServices(t)
	p := seedCostedProject(t, s, false)
	ctx := context.Background()

	generated, err := s.quotations.GenerateQuotation(ctx, p.project.ID, &domain.GenerateQuotationRequest{})
	require.NoError(t, err)

	check := func(data []byte) {
		f, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer f.Close()
		title, err := f.GetCellValue("Quotation", "A1")
		require.NoError(t, err)
		assert.Equal(t, "Bathcraft Interiors", title)
	}

	data, filename, err := s.quotations.ExportExcel(ctx, generated.ID)
	require.NoError(t, err)
	assert.Equal(t, generated.QuotationNumber+".xlsx", filename)
	check(data)

	// Rebuilt from the stored snapshot once the project and stored file are gone
	require.NoError(t, s.store.Delete(ctx, "quotations/"+generated.QuotationNumber+".xlsx"))
	require.NoError(t, s.projects.Delete(ctx, p.project.ID))

	data, _, err = s.quotations.ExportExcel(ctx, generated.ID)
	require.NoError(t, err)
	check(data)

	_, _, err = s.quotations.ExportExcel(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrQuotationNotFound)
}

func TestQuotationService_ProjectNotFound(t *testing.T) {
	s := setupServices(t)
	_, err := s.quotations.GenerateQuotation(context.Background(), uuid.New(), &domain.GenerateQuotationRequest{})
	assert.ErrorIs(t, err, service.ErrProjectNotFound)
}
