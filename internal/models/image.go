package models

import (
	"time"

	"gorm.io/gorm"
)

// Image source tags. Directory-sourced photos carry more provenance weight
// than crawled ones.
const (
	ImageSourceDirectory = "directory-listing"
	ImageSourceCrawled   = "crawled"
)

// Image represents a photo attached to a shop or barber, plus the analysis
// block written by the enrichment orchestrator.
type Image struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	ShopID   *uint   `gorm:"index" json:"shop_id"`
	Shop     *Shop   `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
	BarberID *uint   `gorm:"index" json:"barber_id"`
	Barber   *Barber `gorm:"foreignKey:BarberID" json:"barber,omitempty"`
	URL      string  `gorm:"size:1000;not null" json:"url"`
	Source   string  `gorm:"size:50;default:crawled" json:"source"`

	// Analysis block
	ObjectWeights     string     `gorm:"size:2000" json:"object_weights"` // JSON label -> weight map
	FaceCount         int        `gorm:"default:0" json:"face_count"`
	FaceScore         float64    `gorm:"default:0" json:"face_score"`
	OCRText           string     `gorm:"size:2000" json:"ocr_text"`
	OCRScore          float64    `gorm:"default:0" json:"ocr_score"`
	PerceptualHash    string     `gorm:"size:100" json:"perceptual_hash"`
	RelevanceScore    *float64   `json:"relevance_score"`
	AuthenticityScore *float64   `json:"authenticity_score"`
	AnalyzedAt        *time.Time `gorm:"index" json:"analyzed_at"`
	AnalyzedProvider  string     `gorm:"size:100" json:"analyzed_provider"`
	AnalyzedModel     string     `gorm:"size:100" json:"analyzed_model"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Image) TableName() string { return "images" }

// Analyzed reports whether the analysis block has been written.
func (i *Image) Analyzed() bool { return i.AnalyzedAt != nil }
