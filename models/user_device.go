package models

import (
	"time"

	"github.com/google/uuid"
)

type UserDevice struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Platform    string    `json:"platform" gorm:"size:16"` // "android" | "ios"
	TokenHash   string    `json:"-" gorm:"size:64;index"`
	EndpointARN string    `json:"-" gorm:"size:256"`
	Enabled     bool      `json:"enabled" gorm:"default:true"`
	UpdatedAt   time.Time `json:"updated_at"`
	CreatedAt   time.Time `json:"created_at"`
}
