// Package testutil provides an in-memory database and fixture builders for tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bathcraft/washroom-api/internal/costing"
	"github.com/bathcraft/washroom-api/internal/database"
	"github.com/bathcraft/washroom-api/internal/domain"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an isolated shared-cache in-memory SQLite database
// with every model migrated. The database lives until the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open in-memory database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the in-memory database and its writes consistent
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db), "failed to migrate test database")

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// DefaultSettings are the pricing settings seeded by SeedSettings
var DefaultSettings = map[string]float64{
	domain.SettingPlumbingRatePerSqft:     50,
	domain.SettingTileCostPerUnit:         60,
	domain.SettingTilingLaborPerSqft:      40,
	domain.SettingBreakagePercentage:      10,
	domain.SettingDefaultMarginPercentage: 20,
	domain.SettingDefaultGSTPercentage:    18,
}

// SeedSettings writes the default settings
func SeedSettings(t *testing.T, db *gorm.DB) {
	t.Helper()
	for key, value := range DefaultSettings {
		require.NoError(t, db.Create(&domain.Setting{Key: key, Value: value}).Error)
	}
}

// CreateTestBrand creates an active brand with a random name
func CreateTestBrand(t *testing.T, db *gorm.DB) *domain.Brand {
	t.Helper()
	brand := &domain.Brand{
		Name:        gofakeit.Company() + " " + gofakeit.UUID()[:8],
		Description: gofakeit.Sentence(8),
		IsActive:    true,
	}
	require.NoError(t, db.Create(brand).Error)
	return brand
}

// CreateTestCatalogItem creates a catalog item with the given category and prices
func CreateTestCatalogItem(t *testing.T, db *gorm.DB, category string, brandID *uuid.UUID, landing, client, quotation float64) *domain.CatalogItem {
	t.Helper()
	item := &domain.CatalogItem{
		Name:           gofakeit.ProductName(),
		Category:       category,
		BrandID:        brandID,
		MRP:            quotation * 1.2,
		LandingPrice:   landing,
		ClientPrice:    client,
		QuotationPrice: quotation,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

// MapFixture maps a calculator flag to a catalog item
func MapFixture(t *testing.T, db *gorm.DB, flagKey string, itemID uuid.UUID) {
	t.Helper()
	require.NoError(t, db.Create(&domain.FixtureMapping{FlagKey: flagKey, CatalogItemID: itemID}).Error)
}

// CreateTestServiceRate creates a service rate card entry
func CreateTestServiceRate(t *testing.T, db *gorm.DB, code, unit string, rate float64) *domain.ServiceRate {
	t.Helper()
	sr := &domain.ServiceRate{
		Code:     code,
		Name:     strings.ReplaceAll(code, "_", " "),
		Category: "execution",
		Unit:     unit,
		Rate:     rate,
	}
	require.NoError(t, db.Create(sr).Error)
	return sr
}

// CreateTestTilingRate creates a tiling rate card entry
func CreateTestTilingRate(t *testing.T, db *gorm.DB, code, unit string, rate float64) *domain.TilingRate {
	t.Helper()
	tr := &domain.TilingRate{
		Code: code,
		Name: strings.ReplaceAll(code, "_", " "),
		Unit: unit,
		Rate: rate,
	}
	require.NoError(t, db.Create(tr).Error)
	return tr
}

// CreateTestProject creates a draft project for a random client
func CreateTestProject(t *testing.T, db *gorm.DB) *domain.Project {
	t.Helper()
	project := &domain.Project{
		Name:          gofakeit.Street() + " renovation",
		ClientName:    gofakeit.Name(),
		ClientEmail:   gofakeit.Email(),
		ClientMobile:  gofakeit.Phone(),
		Location:      gofakeit.City(),
		GSTPercentage: 18,
		Status:        domain.ProjectStatusDraft,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

// CreateTestWashroom creates a washroom in the project with the given dimensions
func CreateTestWashroom(t *testing.T, db *gorm.DB, projectID uuid.UUID, name string, d costing.Dimensions) *domain.Washroom {
	t.Helper()
	w := &domain.Washroom{ProjectID: projectID, Name: name}
	w.SetDimensions(d)
	require.NoError(t, db.Create(w).Error)
	return w
}
