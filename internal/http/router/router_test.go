package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/bathcraft/washroom-api/internal/auth"
	"github.com/bathcraft/washroom-api/internal/config"
	"github.com/bathcraft/washroom-api/internal/costing"
	"github.com/bathcraft/washroom-api/internal/domain"
	"github.com/bathcraft/washroom-api/internal/http/handler"
	"github.com/bathcraft/washroom-api/internal/http/middleware"
	"github.com/bathcraft/washroom-api/internal/http/router"
	"github.com/bathcraft/washroom-api/internal/repository"
	"github.com/bathcraft/washroom-api/internal/service"
	"github.com/bathcraft/washroom-api/internal/storage"
	"github.com/bathcraft/washroom-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testAPIKey = "router-test-key"

type testServer struct {
	db      *gorm.DB
	handler http.Handler
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.SetupTestDB(t)
	log := zap.NewNop()

	cfg := &config.Config{
		App:     config.AppConfig{Name: "washroom-api", Environment: "test"},
		Auth:    config.AuthConfig{ApiKey: testAPIKey, JWTSecret: "router-test-secret"},
		Storage: config.StorageConfig{Mode: "local"},
		Quotation: config.QuotationConfig{
			NumberPrefix:        "WR",
			CompanyName:         "Bathcraft Interiors",
			DefaultTerms:        "50% advance",
			DefaultValidityDays: 30,
		},
	}

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	settingsRepo := repository.NewSettingsRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	estimateRepo := repository.NewEstimateRepository(db)
	projectRepo := repository.NewProjectRepository(db)

	rateService := service.NewRateCardService(repository.NewRateCardRepository(db), log)
	costingService := service.NewProjectCostingService(projectRepo, catalogRepo, rateService, log)
	quotationService := service.NewQuotationService(
		projectRepo,
		repository.NewQuotationRepository(db),
		costingService,
		service.NewNumberSequenceService(repository.NewNumberSequenceRepository(db), "WR", log),
		store,
		cfg.Quotation,
		log,
	)
	projectService := service.NewProjectService(
		projectRepo,
		repository.NewWashroomRepository(db),
		repository.NewCostItemRepository(db),
		catalogRepo,
		estimateRepo,
		settingsRepo,
		log,
	)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		auth.NewMiddleware(cfg, log),
		middleware.NewRateLimiter(&cfg.RateLimit, log),
		handler.NewEstimateHandler(service.NewEstimateService(settingsRepo, catalogRepo, estimateRepo, log), log),
		handler.NewCatalogHandler(service.NewCatalogService(repository.NewBrandRepository(db), catalogRepo, log), log),
		handler.NewSettingsHandler(service.NewSettingsService(settingsRepo, log), rateService, log),
		handler.NewProjectHandler(projectService, costingService, log),
		handler.NewQuotationHandler(quotationService, log),
	)

	return &testServer{db: db, handler: rt.Setup()}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("x-api-key", testAPIKey)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dst), rr.Body.String())
}

func estimateBody(brandID uuid.UUID) domain.EstimateRequest {
	return domain.EstimateRequest{
		ProjectType: "renovation",
		Dimensions:  domain.DimensionsRequest{Length: 8, Width: 6, Height: 9},
		Fixtures: costing.FixtureSelection{
			costing.CategoryElectrical: {"ledMirror": true},
		},
		Timeline: "standard",
		BrandID:  brandID,
		Customer: domain.CustomerDetailsRequest{
			Name:     "Asha Rao",
			Email:    "asha@example.com",
			Mobile:   "9876543210",
			Location: "Bengaluru",
		},
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := setupServer(t)

	rr := s.do(t, http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())

	rr = s.do(t, http.MethodGet, "/health/db", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	var db map[string]interface{}
	decode(t, rr, &db)
	assert.Equal(t, "healthy", db["status"])
	assert.Contains(t, db, "stats")

	rr = s.do(t, http.MethodGet, "/health/ready", nil, false)
	require.Equal(t, http.StatusOK, rr.Code)
	var ready map[string]interface{}
	decode(t, rr, &ready)
	assert.Equal(t, "healthy", ready["status"])
}

func TestAdminRoutesRequireCredentials(t *testing.T) {
	s := setupServer(t)

	rr := s.do(t, http.MethodGet, "/api/v1/admin/projects", nil, false)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/settings", nil)
	req.Header.Set("x-api-key", "wrong")
	wrong := httptest.NewRecorder()
	s.handler.ServeHTTP(wrong, req)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)

	rr = s.do(t, http.MethodGet, "/api/v1/admin/settings", nil, true)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
}

func TestEstimateEndpoints(t *testing.T) {
	s := setupServer(t)
	testutil.SeedSettings(t, s.db)
	brand := testutil.CreateTestBrand(t, s.db)
	mirror := testutil.CreateTestCatalogItem(t, s.db, costing.CategoryElectrical, nil, 3000, 4500, 4200)
	testutil.MapFixture(t, s.db, "electrical.ledMirror", mirror.ID)
	testutil.CreateTestCatalogItem(t, s.db, "product", &brand.ID, 7000, 10000, 9500)

	t.Run("public brand list", func(t *testing.T) {
		rr := s.do(t, http.MethodGet, "/api/v1/brands", nil, false)
		require.Equal(t, http.StatusOK, rr.Code)
		var brands []domain.BrandDTO
		decode(t, rr, &brands)
		require.Len(t, brands, 1)
		assert.Equal(t, brand.ID, brands[0].ID)
	})

	t.Run("calculate does not save", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/v1/estimates/calculate", estimateBody(brand.ID), false)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var result costing.EstimateResult
		decode(t, rr, &result)
		assert.Equal(t, 4500.0, result.FixtureCost)
		assert.Equal(t, 10000.0, result.ProductCost)

		var count int64
		require.NoError(t, s.db.Model(&domain.Estimate{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("missing customer field", func(t *testing.T) {
		body := estimateBody(brand.ID)
		body.Customer.Mobile = ""
		rr := s.do(t, http.MethodPost, "/api/v1/estimates/calculate", body, false)
		require.Equal(t, http.StatusBadRequest, rr.Code)

		var problem domain.APIError
		decode(t, rr, &problem)
		assert.Equal(t, domain.ErrorTypeMissingField, problem.Type)
		assert.Contains(t, problem.Detail, "customerMobile")
	})

	t.Run("invalid email fails validation", func(t *testing.T) {
		body := estimateBody(brand.ID)
		body.Customer.Email = "not-an-email"
		rr := s.do(t, http.MethodPost, "/api/v1/estimates", body, false)
		require.Equal(t, http.StatusBadRequest, rr.Code)

		var problem domain.APIError
		decode(t, rr, &problem)
		assert.Equal(t, domain.ErrorTypeValidation, problem.Type)
	})

	var saved domain.SubmitEstimateResponse
	t.Run("submit saves a lead", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, "/api/v1/estimates", estimateBody(brand.ID), false)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		decode(t, rr, &saved)
		assert.Equal(t, domain.SaveStatusSaved, saved.SaveStatus)
		require.NotNil(t, saved.Estimate)
		assert.Equal(t, saved.Result.Total, saved.Estimate.Total)
	})

	t.Run("admin lists and reads estimates", func(t *testing.T) {
		rr := s.do(t, http.MethodGet, "/api/v1/admin/estimates?search=asha", nil, true)
		require.Equal(t, http.StatusOK, rr.Code)
		var page struct {
			Data  []domain.EstimateDTO `json:"data"`
			Total int64                `json:"total"`
		}
		decode(t, rr, &page)
		assert.Equal(t, int64(1), page.Total)

		rr = s.do(t, http.MethodGet, "/api/v1/admin/estimates/"+saved.Estimate.ID.String(), nil, true)
		require.Equal(t, http.StatusOK, rr.Code)

		rr = s.do(t, http.MethodGet, "/api/v1/admin/estimates/not-a-uuid", nil, true)
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = s.do(t, http.MethodGet, "/api/v1/admin/estimates/"+uuid.NewString(), nil, true)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestEstimate_SettingsUnavailable(t *testing.T) {
	s := setupServer(t)
	brand := testutil.CreateTestBrand(t, s.db)

	rr := s.do(t, http.MethodPost, "/api/v1/estimates/calculate", estimateBody(brand.ID), false)
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)

	var problem domain.APIError
	decode(t, rr, &problem)
	assert.Equal(t, domain.ErrorTypeSettingsUnavailable, problem.Type)
}

func TestCatalogAdminEndpoints(t *testing.T) {
	s := setupServer(t)

	rr := s.do(t, http.MethodPost, "/api/v1/admin/brands", domain.CreateBrandRequest{Name: "Aqua Line"}, true)
	require.Equal(t, http.StatusCreated, rr.Code)
	var brand domain.BrandDTO
	decode(t, rr, &brand)

	rr = s.do(t, http.MethodPost, "/api/v1/admin/brands", domain.CreateBrandRequest{Name: "Aqua Line"}, true)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/v1/admin/catalog", domain.CreateCatalogItemRequest{Category: "product"}, true)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var problem domain.APIError
	decode(t, rr, &problem)
	assert.Contains(t, problem.Errors, "name")

	rr = s.do(t, http.MethodPost, "/api/v1/admin/catalog", domain.CreateCatalogItemRequest{
		Name:           "Wall hung WC",
		Category:       "product",
		BrandID:        &brand.ID,
		LandingPrice:   8000,
		ClientPrice:    11000,
		QuotationPrice: 10000,
	}, true)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var item domain.CatalogItemDTO
	decode(t, rr, &item)
	assert.Equal(t, 25.0, item.Margin)
	assert.Equal(t, "Aqua Line", item.BrandName)

	rr = s.do(t, http.MethodGet, "/api/v1/admin/catalog?brandId="+brand.ID.String(), nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	var items []domain.CatalogItemDTO
	decode(t, rr, &items)
	assert.Len(t, items, 1)

	rr = s.do(t, http.MethodPut, "/api/v1/admin/fixture-mappings", domain.UpsertFixtureMappingsRequest{
		Mappings: []domain.FixtureMappingInput{{FlagKey: "plumbing.wallHungWc", CatalogItemID: item.ID}},
	}, true)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = s.do(t, http.MethodDelete, "/api/v1/admin/fixture-mappings/plumbing.wallHungWc", nil, true)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = s.do(t, http.MethodDelete, "/api/v1/admin/catalog/"+item.ID.String(), nil, true)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = s.do(t, http.MethodDelete, "/api/v1/admin/catalog/"+item.ID.String(), nil, true)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSettingsAndRatesEndpoints(t *testing.T) {
	s := setupServer(t)
	testutil.SeedSettings(t, s.db)

	rr := s.do(t, http.MethodPut, "/api/v1/admin/settings", domain.UpdateSettingsRequest{
		Values: map[string]float64{domain.SettingPlumbingRatePerSqft: 75},
	}, true)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = s.do(t, http.MethodPut, "/api/v1/admin/settings", domain.UpdateSettingsRequest{
		Values: map[string]float64{domain.SettingDefaultGSTPercentage: -1},
	}, true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodPut, "/api/v1/admin/rates/services", domain.UpsertRateRequest{
		Code: "demolition", Name: "Demolition", Unit: "lumpsum", Rate: 8000,
	}, true)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var rate domain.RateDTO
	decode(t, rr, &rate)
	assert.Equal(t, string(costing.UnitFixed), rate.UnitKind)

	rr = s.do(t, http.MethodPut, "/api/v1/admin/rates/tiling", domain.UpsertRateRequest{
		Code: "wall_tiling", Name: "Wall tiling", Unit: "per sqft", Rate: 55,
	}, true)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/v1/admin/rates/tiling", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	var rates []domain.RateDTO
	decode(t, rr, &rates)
	require.Len(t, rates, 1)
	assert.Equal(t, string(costing.UnitPerArea), rates[0].UnitKind)

	rr = s.do(t, http.MethodDelete, "/api/v1/admin/rates/services/demolition", nil, true)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = s.do(t, http.MethodDelete, "/api/v1/admin/rates/services/demolition", nil, true)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProjectCostingAndQuotationFlow(t *testing.T) {
	s := setupServer(t)
	testutil.SeedSettings(t, s.db)
	testutil.CreateTestServiceRate(t, s.db, "demolition", "lumpsum", 8000)
	vanity := testutil.CreateTestCatalogItem(t, s.db, "product", nil, 9000, 12000, 11500)

	rr := s.do(t, http.MethodPost, "/api/v1/admin/projects", domain.CreateProjectRequest{
		Name:             "Lake view villa",
		ClientName:       "Ravi Menon",
		Location:         "Kochi",
		OriginalEstimate: 10000,
	}, true)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var project domain.ProjectDTO
	decode(t, rr, &project)
	base := "/api/v1/admin/projects/" + project.ID.String()

	rr = s.do(t, http.MethodPost, base+"/washrooms", domain.WashroomRequest{
		Name:       "Master",
		Dimensions: domain.DimensionsRequest{Length: 8, Width: 6, Height: 9},
	}, true)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var washroom domain.WashroomDTO
	decode(t, rr, &washroom)
	assert.Equal(t, 48.0, washroom.Area)
	assert.Equal(t, 252.0, washroom.WallArea)
	washroomPath := base + "/washrooms/" + washroom.ID.String()

	rr = s.do(t, http.MethodPut, washroomPath+"/services/demolition", domain.SetWashroomServiceRequest{}, true)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = s.do(t, http.MethodPut, washroomPath+"/fixtures/"+vanity.ID.String(), domain.SetWashroomFixtureRequest{Quantity: 1}, true)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = s.do(t, http.MethodPost, base+"/cost-items", domain.CreateCostItemRequest{
		Name: "Debris removal", Amount: 3000, Category: costing.CostCategoryVendor,
	}, true)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = s.do(t, http.MethodPost, base+"/cost-items", domain.CreateCostItemRequest{
		Name: "Unknown", Amount: 10, Category: "misc",
	}, true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodGet, base+"/cost-items", nil, true)
	require.Equal(t, http.StatusOK, rr.Code)
	var costItems domain.CostItemsResponse
	decode(t, rr, &costItems)
	assert.Len(t, costItems.Items, 1)
	assert.Equal(t, 3000.0, costItems.Totals[costing.CostCategoryVendor])

	t.Run("costs", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, base+"/costs", nil, true)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var summary costing.ProjectCostSummary
		decode(t, rr, &summary)
		assert.Equal(t, 8000.0, summary.ExecutionServicesTotal)
		assert.Equal(t, 12000.0, summary.ProductCostsTotal)
		assert.Equal(t, 21000.0, summary.FinalQuotationAmount)
	})

	t.Run("costs with override", func(t *testing.T) {
		body := domain.CalculateProjectCostsRequest{
			ExecutionOverrides: costing.ExecutionOverrides{washroom.ID: {"demolition": 9000}},
		}
		rr := s.do(t, http.MethodPost, base+"/costs", body, true)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var summary costing.ProjectCostSummary
		decode(t, rr, &summary)
		assert.Equal(t, 22000.0, summary.FinalQuotationAmount)
	})

	var generated domain.GenerateQuotationResponse
	t.Run("generate quotation", func(t *testing.T) {
		rr := s.do(t, http.MethodPost, base+"/quotations", domain.GenerateQuotationRequest{Terms: "Full payment on handover"}, true)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		decode(t, rr, &generated)
		assert.Regexp(t, regexp.MustCompile(`^WR-\d{4}-001$`), generated.QuotationNumber)
		assert.Equal(t, "/api/v1/admin/quotations/"+generated.ID.String(), rr.Header().Get("Location"))
		assert.Contains(t, generated.HTML, "Full payment on handover")
		assert.Greater(t, generated.TotalAmount, 0.0)
	})

	t.Run("quotation documents", func(t *testing.T) {
		qPath := "/api/v1/admin/quotations/" + generated.ID.String()

		rr := s.do(t, http.MethodGet, qPath, nil, true)
		require.Equal(t, http.StatusOK, rr.Code)
		var dto domain.QuotationDTO
		decode(t, rr, &dto)
		assert.Equal(t, generated.QuotationNumber, dto.QuotationNumber)

		rr = s.do(t, http.MethodGet, qPath+"/html", nil, true)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/html"))
		assert.Equal(t, generated.HTML, rr.Body.String())

		rr = s.do(t, http.MethodGet, qPath+"/xlsx", nil, true)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t,
			fmt.Sprintf(`attachment; filename="%s.xlsx"`, generated.QuotationNumber),
			rr.Header().Get("Content-Disposition"))
		assert.NotZero(t, rr.Body.Len())

		rr = s.do(t, http.MethodGet, base+"/quotations", nil, true)
		require.Equal(t, http.StatusOK, rr.Code)
		var list []domain.QuotationDTO
		decode(t, rr, &list)
		assert.Len(t, list, 1)
	})

	t.Run("remove selections and delete", func(t *testing.T) {
		rr := s.do(t, http.MethodDelete, washroomPath+"/services/demolition", nil, true)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		rr = s.do(t, http.MethodDelete, washroomPath+"/services/demolition", nil, true)
		assert.Equal(t, http.StatusNotFound, rr.Code)

		rr = s.do(t, http.MethodDelete, washroomPath+"/fixtures/"+vanity.ID.String(), nil, true)
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = s.do(t, http.MethodDelete, washroomPath, nil, true)
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = s.do(t, http.MethodDelete, base, nil, true)
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = s.do(t, http.MethodGet, base, nil, true)
		assert.Equal(t, http.StatusNotFound, rr.Code)

		// quotations outlive the project
		rr = s.do(t, http.MethodGet, "/api/v1/admin/quotations/"+generated.ID.String(), nil, true)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
