package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bathcraft/washroom-api/internal/auth"
	"github.com/bathcraft/washroom-api/internal/config"
	"github.com/bathcraft/washroom-api/internal/database"
	"github.com/bathcraft/washroom-api/internal/http/handler"
	"github.com/bathcraft/washroom-api/internal/http/middleware"
	"github.com/bathcraft/washroom-api/internal/http/router"
	"github.com/bathcraft/washroom-api/internal/jobs"
	"github.com/bathcraft/washroom-api/internal/logger"
	"github.com/bathcraft/washroom-api/internal/repository"
	"github.com/bathcraft/washroom-api/internal/service"
	"github.com/bathcraft/washroom-api/internal/storage"
	"go.uber.org/zap"
)

// @title Washroom Estimation API
// @version 1.0
// @description Washroom renovation estimates, project costing and quotations
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token with the admin role

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// In development secrets come from the environment,
	// elsewhere from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		log.Warn("Running gorm AutoMigrate; use cmd/migrate outside development")
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize repositories
	settingsRepo := repository.NewSettingsRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	rateRepo := repository.NewRateCardRepository(db)
	estimateRepo := repository.NewEstimateRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	washroomRepo := repository.NewWashroomRepository(db)
	costItemRepo := repository.NewCostItemRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	numberSequenceRepo := repository.NewNumberSequenceRepository(db)

	// Initialize services
	settingsService := service.NewSettingsService(settingsRepo, log)
	catalogService := service.NewCatalogService(brandRepo, catalogRepo, log)
	rateCardService := service.NewRateCardService(rateRepo, log)
	estimateService := service.NewEstimateService(settingsRepo, catalogRepo, estimateRepo, log)
	projectService := service.NewProjectService(projectRepo, washroomRepo, costItemRepo, catalogRepo, estimateRepo, settingsRepo, log)
	costingService := service.NewProjectCostingService(projectRepo, catalogRepo, rateCardService, log)
	numberSequenceService := service.NewNumberSequenceService(numberSequenceRepo, cfg.Quotation.NumberPrefix, log)
	quotationService := service.NewQuotationService(
		projectRepo,
		quotationRepo,
		costingService,
		numberSequenceService,
		fileStorage,
		cfg.Quotation,
		log,
	)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	estimateHandler := handler.NewEstimateHandler(estimateService, log)
	catalogHandler := handler.NewCatalogHandler(catalogService, log)
	settingsHandler := handler.NewSettingsHandler(settingsService, rateCardService, log)
	projectHandler := handler.NewProjectHandler(projectService, costingService, log)
	quotationHandler := handler.NewQuotationHandler(quotationService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		estimateHandler,
		catalogHandler,
		settingsHandler,
		projectHandler,
		quotationHandler,
	)

	// Background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)
		if err := jobs.RegisterMarginReconcileJob(
			scheduler,
			catalogService,
			log,
			cfg.Jobs.MarginReconcileSchedule,
			cfg.Jobs.MarginReconcileBatchSize,
			true,
		); err != nil {
			log.Error("Failed to register margin reconcile job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started",
				zap.Strings("jobs", scheduler.GetJobNames()),
				zap.String("cron_expr", cfg.Jobs.MarginReconcileSchedule),
			)
		}
	} else {
		log.Info("Background jobs disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
