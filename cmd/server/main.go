package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rateyourbarber/trustengine/internal/config"
	"github.com/rateyourbarber/trustengine/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logLevel := "info"
	if cfg.Server.Mode == "debug" {
		logLevel = "debug"
	}
	logger.Init(logLevel)

	svc := bootstrap(cfg)
	defer svc.shutdown()

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	registerRoutes(r, svc)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logger.Infof("Server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
