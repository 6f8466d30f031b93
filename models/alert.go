package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	AlertExpiring = "expiring"
	AlertExpired  = "expired"
)

// One alert per (food item, type); the unique index keeps the notifier idempotent.
type Alert struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	HouseID   uuid.UUID `json:"house_id" gorm:"type:uuid;not null;index"`
	FoodID    uuid.UUID `json:"food_id" gorm:"type:uuid;not null;uniqueIndex:idx_alerts_food_type"`
	Type      string    `json:"type" gorm:"size:20;uniqueIndex:idx_alerts_food_type"` // "expiring" | "expired"
	Message   string    `json:"message" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}
