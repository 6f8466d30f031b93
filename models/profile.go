package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is keyed by the identity provider's subject, so the ID is always supplied by the caller.
type Profile struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Username  *string    `json:"username" gorm:"uniqueIndex"`
	FullName  *string    `json:"full_name"`
	AvatarURL *string    `json:"avatar_url"`
	Website   *string    `json:"website"`
	Birthday  *time.Time `json:"birthday" gorm:"type:date"`
	UpdatedAt *time.Time `json:"updated_at"`
}
