package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rateyourbarber/trustengine/internal/handlers"
	"github.com/rateyourbarber/trustengine/internal/middleware"
	"github.com/rateyourbarber/trustengine/internal/models"
	"github.com/rateyourbarber/trustengine/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	db := models.GetDB()

	// Health check and Prometheus metrics
	healthHandler := handlers.NewHealthHandler()
	r.GET("/health", healthHandler.CheckHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Rate limiter for the public read API
	apiLimiter := middleware.NewRateLimiter(20, 40)

	// API routes
	api := r.Group("/api", apiLimiter.Middleware())
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", svc.authHandler.Login)
		}

		// Public read API
		dashboardHandler := handlers.NewDashboardHandler(db)
		api.GET("/dashboard/stats", dashboardHandler.GetStats)

		trustScoreHandler := handlers.NewTrustScoreHandler(db)
		api.GET("/trust-scores", trustScoreHandler.List)

		api.GET("/enrichment/status", svc.enrichmentHandler.Status)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)

			// Read listings
			listingHandler := handlers.NewListingHandler(db)
			protected.GET("/reviews", listingHandler.ListReviews)
			protected.GET("/images", listingHandler.ListImages)

			// Admin-only write operations, audited
			admin := protected.Group("")
			admin.Use(middleware.AdminRequired(), middleware.AuditLog())
			{
				admin.POST("/enrichment/run", svc.enrichmentHandler.Run)
				admin.POST("/enrichment/re-enrich", svc.enrichmentHandler.Reenrich)
				admin.POST("/trust-scores/recompute", trustScoreHandler.Recompute)

				// Provider configs
				providerConfigHandler := handlers.NewProviderConfigHandler(db)
				admin.GET("/providers", providerConfigHandler.List)
				admin.GET("/providers/:id", providerConfigHandler.GetByID)
				admin.POST("/providers", providerConfigHandler.Create)
				admin.PUT("/providers/:id", providerConfigHandler.Update)
				admin.DELETE("/providers/:id", providerConfigHandler.Delete)
				admin.POST("/providers/:id/set-default", providerConfigHandler.SetDefault)

				// System logs
				systemLogHandler := handlers.NewSystemLogHandler(db)
				admin.GET("/system-logs", systemLogHandler.List)
				admin.GET("/system-logs/modules", systemLogHandler.GetModules)
				admin.POST("/system-logs/cleanup", systemLogHandler.Cleanup)
			}
		}
	}
}
