package main

import (
	"github.com/rateyourbarber/trustengine/internal/config"
	"github.com/rateyourbarber/trustengine/internal/handlers"
	"github.com/rateyourbarber/trustengine/internal/models"
	"github.com/rateyourbarber/trustengine/internal/services"
	"github.com/rateyourbarber/trustengine/internal/utils"
	"github.com/rateyourbarber/trustengine/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	enrichmentService *services.EnrichmentService
	schedulerService  *services.SchedulerService
	taskQueue         services.TaskQueue
	worker            *services.Worker
	authHandler       *handlers.AuthHandler
	enrichmentHandler *handlers.EnrichmentHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Seed default data
	if err := models.SeedDefaultData(); err != nil {
		logger.Warnf("Failed to seed default data: %v", err)
	}

	// Initialize system logger
	services.InitSystemLogger(models.GetDB())

	db := models.GetDB()
	store := services.NewStore(db)
	provider := services.SelectProvider(db, cfg)
	logger.Infof("Enrichment provider: %s (%s)", provider.Name(), provider.ModelID())

	enrichmentService := services.NewEnrichmentService(store, provider, cfg.Enrichment.BatchSize)
	trustService := services.NewTrustService(store)

	// Initialize task queue (uses Redis if enabled, otherwise sync mode)
	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(enrichmentService.ProcessItem)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(enrichmentService.ProcessItem)
			if err := worker.Start(); err != nil {
				logger.Errorf("Failed to start worker: %v", err)
			}
		}
	}

	// Start the cron scheduler (enrichment sweep, trust recompute, log cleanup)
	schedulerService := services.NewSchedulerService(db, enrichmentService, trustService, &cfg.Enrichment)
	schedulerService.Start()

	// Create default admin user
	authHandler := handlers.NewAuthHandler(db, cfg)
	if err := authHandler.CreateAdminIfNotExists(); err != nil {
		logger.Warnf("Failed to create admin user: %v", err)
	}

	return &appServices{
		enrichmentService: enrichmentService,
		schedulerService:  schedulerService,
		taskQueue:         taskQueue,
		worker:            worker,
		authHandler:       authHandler,
		enrichmentHandler: handlers.NewEnrichmentHandler(enrichmentService),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.schedulerService.Stop()

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
	logger.Infof("All background services stopped")
}
