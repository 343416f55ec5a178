package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID            string          `gorm:"type:uuid;primaryKey" json:"id"`
	NameEN        string          `gorm:"not null" json:"name_en"`
	NameFR        string          `json:"name_fr"`
	DescriptionEN string          `json:"description_en"`
	DescriptionFR string          `json:"description_fr"`
	Category      string          `gorm:"index" json:"category"`
	Images        []string        `gorm:"serializer:json" json:"images"`
	Price         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Sizes         []string        `gorm:"serializer:json" json:"sizes,omitempty"`
	IsActive      bool            `gorm:"index" json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Kit is a bundled item billed to head office; it never carries a line price.
type Kit struct {
	ID            string       `gorm:"type:uuid;primaryKey" json:"id"`
	NameEN        string       `gorm:"not null" json:"name_en"`
	NameFR        string       `json:"name_fr"`
	DescriptionEN string       `json:"description_en"`
	DescriptionFR string       `json:"description_fr"`
	Category      string       `gorm:"index" json:"category"`
	Images        []string     `gorm:"serializer:json" json:"images"`
	Sizes         []string     `gorm:"serializer:json" json:"sizes,omitempty"`
	Products      []KitProduct `gorm:"foreignKey:KitID;constraint:OnDelete:CASCADE" json:"products"`
	IsActive      bool         `gorm:"index" json:"is_active"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// KitProduct describes one constituent of a kit, for display only.
type KitProduct struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	KitID    string `gorm:"type:uuid;index;not null" json:"kit_id"`
	Name     string `gorm:"not null" json:"name"`
	Quantity int    `gorm:"default:1" json:"quantity"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (k *Kit) BeforeCreate(tx *gorm.DB) error {
	if k.ID == "" {
		k.ID = uuid.NewString()
	}
	return nil
}

func (kp *KitProduct) BeforeCreate(tx *gorm.DB) error {
	if kp.ID == "" {
		kp.ID = uuid.NewString()
	}
	return nil
}
