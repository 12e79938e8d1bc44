package models

import "time"

// TrustScore is the derived trust record for a barber or shop. It is
// recomputed from scratch on every run and replaces the prior row for the
// entity, so partial updates can never drift.
type TrustScore struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	EntityType       string    `gorm:"size:20;not null;uniqueIndex:idx_trust_entity" json:"entity_type"` // barber, shop
	EntityID         uint      `gorm:"not null;uniqueIndex:idx_trust_entity" json:"entity_id"`
	Score            float64   `gorm:"not null" json:"score"` // [0,100]
	Bucket           string    `gorm:"size:20;not null" json:"bucket"`
	InsufficientData bool      `gorm:"default:false" json:"insufficient_data"`
	ReviewCount      int       `gorm:"default:0" json:"review_count"`
	ImageCount       int       `gorm:"default:0" json:"image_count"`
	ComputedAt       time.Time `json:"computed_at"`
}

func (TrustScore) TableName() string { return "trust_scores" }
