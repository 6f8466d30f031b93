package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Category struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	ParentID  *int64    `json:"parent_id" gorm:"index"`
	Parent    *Category `json:"-" gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL"`
	CreatedAt time.Time `json:"created_at"`
}

// A catalog entry shared by every house. Barcodes and nutrition facts live in Metadata.
type Product struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string         `json:"name" gorm:"not null;index"`
	Description *string        `json:"description"`
	CategoryID  *int64         `json:"category" gorm:"column:category"`
	Category    *Category      `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Metadata    datatypes.JSON `json:"metadata" gorm:"type:jsonb"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
