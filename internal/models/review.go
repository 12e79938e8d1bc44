package models

import (
	"time"

	"gorm.io/gorm"
)

// Review represents a raw customer review plus its enrichment block.
// Raw fields are owned by ingestion; the enrichment block is written only by
// the enrichment orchestrator, through a conditional update on EnrichedAt.
type Review struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	ShopID         uint    `gorm:"index;not null" json:"shop_id"`
	Shop           *Shop   `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
	BarberID       *uint   `gorm:"index" json:"barber_id"`
	Barber         *Barber `gorm:"foreignKey:BarberID" json:"barber,omitempty"`
	Text           string  `gorm:"type:text" json:"text"`
	Rating         float64 `gorm:"not null" json:"rating"` // stars, 1-5
	HelpfulVotes   int     `gorm:"default:0" json:"helpful_votes"`
	UnhelpfulVotes int     `gorm:"default:0" json:"unhelpful_votes"`

	// Enrichment block
	Sentiment         *float64   `json:"sentiment"`          // word-class value in [0,1]
	AdjustedSentiment *float64   `json:"adjusted_sentiment"` // sentiment plus adjective bonus, clamped to [0,1]
	ExtractedNames    string     `gorm:"size:1000" json:"extracted_names"` // JSON array, all candidates
	BestName          string     `gorm:"size:255" json:"best_name"`        // context-pattern candidate preferred over fallback
	Summary           string     `gorm:"size:500" json:"summary"`
	Adjectives        string     `gorm:"size:1000" json:"adjectives"` // JSON array
	IsSpam            bool       `gorm:"default:false" json:"is_spam"`
	IsFake            bool       `gorm:"default:false" json:"is_fake"`
	IsAttack          bool       `gorm:"default:false" json:"is_attack"`
	IsInappropriate   bool       `gorm:"default:false" json:"is_inappropriate"`
	ModerationScore   float64    `gorm:"default:0" json:"moderation_confidence"`
	ModerationReason  string     `gorm:"size:500" json:"moderation_reason"`
	EnrichedAt        *time.Time `gorm:"index" json:"enriched_at"`
	EnrichedProvider  string     `gorm:"size:100" json:"enriched_provider"`
	EnrichedModel     string     `gorm:"size:100" json:"enriched_model"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Review) TableName() string { return "reviews" }

// Enriched reports whether the enrichment block has been written.
func (r *Review) Enriched() bool { return r.EnrichedAt != nil }

// TotalVotes returns the helpfulness vote total.
func (r *Review) TotalVotes() int { return r.HelpfulVotes + r.UnhelpfulVotes }
