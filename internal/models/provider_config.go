package models

import (
	"time"

	"gorm.io/gorm"
)

// ProviderConfig represents an enrichment provider configuration (stored in
// database). A provider is a named, versioned capability bundle; reviews and
// images record which provider+model produced their enrichment.
type ProviderConfig struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Kind        string         `gorm:"size:50;default:heuristic" json:"kind"` // heuristic, openai, azure, anthropic, ollama, gemini
	BaseURL     string         `gorm:"size:500" json:"base_url"`
	APIKey      string         `gorm:"size:500" json:"-"`
	APIKeyMask  string         `gorm:"-" json:"api_key_mask"` // For display only
	Model       string         `gorm:"size:100" json:"model"`
	MaxTokens   int            `gorm:"default:1024" json:"max_tokens"`
	Temperature float64        `gorm:"default:0.1" json:"temperature"`
	IsDefault   bool           `gorm:"default:false" json:"is_default"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ProviderConfig) TableName() string { return "provider_configs" }

// MaskAPIKey returns masked API key for display
func (p *ProviderConfig) MaskAPIKey() string {
	if len(p.APIKey) <= 8 {
		return "****"
	}
	return p.APIKey[:4] + "****" + p.APIKey[len(p.APIKey)-4:]
}
