package router

import (
	"encoding/json"
	"net/http"

	"github.com/bathcraft/washroom-api/internal/auth"
	"github.com/bathcraft/washroom-api/internal/config"
	"github.com/bathcraft/washroom-api/internal/database"
	"github.com/bathcraft/washroom-api/internal/http/handler"
	"github.com/bathcraft/washroom-api/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Router struct {
	cfg              *config.Config
	logger           *zap.Logger
	db               *gorm.DB
	authMiddleware   *auth.Middleware
	rateLimiter      *middleware.RateLimiter
	estimateHandler  *handler.EstimateHandler
	catalogHandler   *handler.CatalogHandler
	settingsHandler  *handler.SettingsHandler
	projectHandler   *handler.ProjectHandler
	quotationHandler *handler.QuotationHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	estimateHandler *handler.EstimateHandler,
	catalogHandler *handler.CatalogHandler,
	settingsHandler *handler.SettingsHandler,
	projectHandler *handler.ProjectHandler,
	quotationHandler *handler.QuotationHandler,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		db:               db,
		authMiddleware:   authMiddleware,
		rateLimiter:      rateLimiter,
		estimateHandler:  estimateHandler,
		catalogHandler:   catalogHandler,
		settingsHandler:  settingsHandler,
		projectHandler:   projectHandler,
		quotationHandler: quotationHandler,
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	if timeout := rt.cfg.Server.RequestTimeoutDuration(); timeout > 0 {
		r.Use(chimw.Timeout(timeout))
	}

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Database health check with pool stats
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Readiness: the estimate endpoints need the database for settings
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]interface{}{}
		status := http.StatusOK

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{"status": "unhealthy", "error": err.Error()}
			status = http.StatusServiceUnavailable
		} else {
			checks["database"] = map[string]interface{}{"status": "healthy"}
		}
		checks["storage"] = map[string]interface{}{"mode": rt.cfg.Storage.Mode}

		overall := "healthy"
		if status != http.StatusOK {
			overall = "unhealthy"
		}
		writeJSON(w, status, map[string]interface{}{"status": overall, "checks": checks})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public calculator routes
		r.Group(func(r chi.Router) {
			r.Use(rt.rateLimiter.LimitByIP)

			r.Get("/brands", rt.catalogHandler.ListActiveBrands)

			r.With(rt.rateLimiter.LimitEstimates).Route("/estimates", func(r chi.Router) {
				r.Post("/", rt.estimateHandler.Submit)
				r.Post("/calculate", rt.estimateHandler.Calculate)
			})
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.authMiddleware.RequireAdmin)
			r.Use(rt.rateLimiter.LimitAdmin)
			r.Use(middleware.NoStore)

			r.Route("/estimates", func(r chi.Router) {
				r.Get("/", rt.estimateHandler.List)
				r.Get("/{id}", rt.estimateHandler.GetByID)
			})

			r.Get("/settings", rt.settingsHandler.ListSettings)
			r.Put("/settings", rt.settingsHandler.UpdateSettings)

			r.Route("/brands", func(r chi.Router) {
				r.Get("/", rt.catalogHandler.ListBrands)
				r.Post("/", rt.catalogHandler.CreateBrand)
				r.Delete("/{id}", rt.catalogHandler.DeleteBrand)
			})

			r.Route("/catalog", func(r chi.Router) {
				r.Get("/", rt.catalogHandler.ListItems)
				r.Post("/", rt.catalogHandler.CreateItem)
				r.Put("/{id}", rt.catalogHandler.UpdateItem)
				r.Delete("/{id}", rt.catalogHandler.DeleteItem)
			})

			r.Route("/fixture-mappings", func(r chi.Router) {
				r.Get("/", rt.catalogHandler.ListFixtureMappings)
				r.Put("/", rt.catalogHandler.UpsertFixtureMappings)
				r.Delete("/{flagKey}", rt.catalogHandler.DeleteFixtureMapping)
			})

			r.Route("/rates", func(r chi.Router) {
				r.Get("/services", rt.settingsHandler.ListServiceRates)
				r.Put("/services", rt.settingsHandler.UpsertServiceRate)
				r.Delete("/services/{code}", rt.settingsHandler.DeleteServiceRate)
				r.Get("/tiling", rt.settingsHandler.ListTilingRates)
				r.Put("/tiling", rt.settingsHandler.UpsertTilingRate)
				r.Delete("/tiling/{code}", rt.settingsHandler.DeleteTilingRate)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", rt.projectHandler.List)
				r.Post("/", rt.projectHandler.Create)
				r.Get("/{id}", rt.projectHandler.GetByID)
				r.Put("/{id}", rt.projectHandler.Update)
				r.Delete("/{id}", rt.projectHandler.Delete)

				// Washrooms and their selections
				r.Post("/{id}/washrooms", rt.projectHandler.AddWashroom)
				r.Put("/{id}/washrooms/{washroomId}", rt.projectHandler.UpdateWashroom)
				r.Delete("/{id}/washrooms/{washroomId}", rt.projectHandler.DeleteWashroom)
				r.Put("/{id}/washrooms/{washroomId}/services/{code}", rt.projectHandler.SetService)
				r.Delete("/{id}/washrooms/{washroomId}/services/{code}", rt.projectHandler.RemoveService)
				r.Put("/{id}/washrooms/{washroomId}/fixtures/{itemId}", rt.projectHandler.SetFixture)
				r.Delete("/{id}/washrooms/{washroomId}/fixtures/{itemId}", rt.projectHandler.RemoveFixture)

				// Cost items
				r.Get("/{id}/cost-items", rt.projectHandler.ListCostItems)
				r.Post("/{id}/cost-items", rt.projectHandler.CreateCostItem)
				r.Delete("/{id}/cost-items/{itemId}", rt.projectHandler.DeleteCostItem)

				// Costing and quotations
				r.Post("/{id}/costs", rt.projectHandler.CalculateCosts)
				r.Get("/{id}/quotations", rt.quotationHandler.ListByProject)
				r.Post("/{id}/quotations", rt.quotationHandler.Generate)
			})

			r.Route("/quotations", func(r chi.Router) {
				r.Get("/{id}", rt.quotationHandler.GetByID)
				r.Get("/{id}/html", rt.quotationHandler.GetHTML)
				r.Get("/{id}/xlsx", rt.quotationHandler.ExportExcel)
			})
		})
	})

	return r
}
