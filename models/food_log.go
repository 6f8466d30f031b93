package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionAdded   = "added"
	ActionUpdated = "updated"
	ActionRemoved = "removed"
)

// FoodLog is the activity journal. FoodID is indexed but not constrained so history survives deletes.
type FoodLog struct {
	ID         int64      `json:"id" gorm:"primaryKey"`
	FoodID     uuid.UUID  `json:"food_id" gorm:"type:uuid;not null;index"`
	HouseID    uuid.UUID  `json:"house_id" gorm:"type:uuid;not null;index"`
	UserID     *uuid.UUID `json:"user_id" gorm:"type:uuid"`
	ActionType string     `json:"action_type" gorm:"size:16;not null;index"`
	Quantity   *float64   `json:"quantity"`
	Unit       *string    `json:"unit"`
	Notes      *string    `json:"notes"`
	Timestamp  time.Time  `json:"timestamp" gorm:"autoCreateTime;index"`

	House    *House    `json:"-" gorm:"foreignKey:HouseID;constraint:OnDelete:CASCADE"`
	Profile  *Profile  `json:"profiles,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	FoodItem *FoodItem `json:"food_item,omitempty" gorm:"-"`
}

func (FoodLog) TableName() string { return "food_log" }
