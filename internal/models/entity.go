package models

import (
	"time"

	"gorm.io/gorm"
)

// Entity types used by trust aggregation.
const (
	EntityTypeBarber = "barber"
	EntityTypeShop   = "shop"
)

// Shop represents a barbershop listing
type Shop struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Address   string         `gorm:"size:500" json:"address"`
	Verified  bool           `gorm:"default:false" json:"verified"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Shop) TableName() string { return "shops" }

// Barber represents an individual barber, usually attached to a shop
type Barber struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ShopID    *uint          `gorm:"index" json:"shop_id"`
	Shop      *Shop          `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Barber) TableName() string { return "barbers" }
