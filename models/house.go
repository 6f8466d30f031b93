package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// A household sharing one inventory
type House struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (h *House) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// HouseMember links a profile to a house. Rows disappear with either side.
type HouseMember struct {
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;primaryKey"`
	HouseID   uuid.UUID `json:"house_id" gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `json:"created_at"`

	House   *House   `json:"houses,omitempty" gorm:"foreignKey:HouseID;constraint:OnDelete:CASCADE"`
	Profile *Profile `json:"profiles,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (HouseMember) TableName() string { return "user_houses" }
