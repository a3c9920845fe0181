package service_test

import (
	"testing"

	"github.com/bathcraft/washroom-api/internal/config"
	"github.com/bathcraft/washroom-api/internal/repository"
	"github.com/bathcraft/washroom-api/internal/service"
	"github.com/bathcraft/washroom-api/internal/storage"
	"github.com/bathcraft/washroom-api/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type services struct {
	db         *gorm.DB
	estimates  *service.EstimateService
	catalog    *service.CatalogService
	settings   *service.SettingsService
	rates      *service.RateCardService
	projects   *service.ProjectService
	costing    *service.ProjectCostingService
	numbers    *service.NumberSequenceService
	quotations *service.QuotationService
	store      *storage.LocalStorage
}

func setupServices(t *testing.T) *services {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	settingsRepo := repository.NewSettingsRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	rateRepo := repository.NewRateCardRepository(db)
	estimateRepo := repository.NewEstimateRepository(db)
	projectRepo := repository.NewProjectRepository(db)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	s := &services{db: db, store: store}
	s.estimates = service.NewEstimateService(settingsRepo, catalogRepo, estimateRepo, logger)
	s.catalog = service.NewCatalogService(brandRepo, catalogRepo, logger)
	s.settings = service.NewSettingsService(settingsRepo, logger)
	s.rates = service.NewRateCardService(rateRepo, logger)
	s.projects = service.NewProjectService(
		projectRepo,
		repository.NewWashroomRepository(db),
		repository.NewCostItemRepository(db),
		catalogRepo,
		estimateRepo,
		settingsRepo,
		logger,
	)
	s.costing = service.NewProjectCostingService(projectRepo, catalogRepo, s.rates, logger)
	s.numbers = service.NewNumberSequenceService(repository.NewNumberSequenceRepository(db), "WR", logger)
	s.quotations = service.NewQuotationService(
		projectRepo,
		repository.NewQuotationRepository(db),
		s.costing,
		s.numbers,
		store,
		config.QuotationConfig{
			NumberPrefix:        "WR",
			CompanyName:         "Bathcraft Interiors",
			DefaultTerms:        "50% advance",
			DefaultValidityDays: 30,
		},
		logger,
	)
	return s
}
