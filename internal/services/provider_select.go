package services

import (
	"github.com/rateyourbarber/trustengine/internal/config"
	"github.com/rateyourbarber/trustengine/internal/models"
	"github.com/rateyourbarber/trustengine/pkg/logger"
	"gorm.io/gorm"
)

// SelectProvider resolves the enrichment provider to run: the default
// active database row wins, the config fallback comes next, and the
// heuristic provider is the floor so enrichment always has a backend.
func SelectProvider(db *gorm.DB, cfg *config.Config) Provider {
	extraStops := cfg.Enrichment.ExtraStopWordList()
	trustedTag := cfg.Enrichment.TrustedImageTag

	var row models.ProviderConfig
	if err := db.Where("is_default = ? AND is_active = ?", true, true).First(&row).Error; err == nil {
		if row.Kind != "heuristic" {
			logger.Infof("[Provider] Using configured provider: %s (%s/%s)", row.Name, row.Kind, row.Model)
			return NewLLMProvider(row, cfg.Provider.Timeout, cfg.Provider.MaxRetries, trustedTag)
		}
		return NewHeuristicProvider(extraStops, trustedTag)
	}

	if cfg.Provider.Kind != "" && cfg.Provider.Kind != "heuristic" {
		logger.Infof("[Provider] Using config fallback provider: %s/%s", cfg.Provider.Kind, cfg.Provider.Model)
		return NewLLMProvider(models.ProviderConfig{
			Name:    "config-fallback",
			Kind:    cfg.Provider.Kind,
			BaseURL: cfg.Provider.BaseURL,
			APIKey:  cfg.Provider.APIKey,
			Model:   cfg.Provider.Model,
		}, cfg.Provider.Timeout, cfg.Provider.MaxRetries, trustedTag)
	}

	return NewHeuristicProvider(extraStops, trustedTag)
}
