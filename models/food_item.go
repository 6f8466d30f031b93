package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FoodItem is one product sitting in one house.
type FoodItem struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	HouseID        uuid.UUID  `json:"house_id" gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID  `json:"product_id" gorm:"type:uuid;not null;index"`
	UserID         *uuid.UUID `json:"user_id" gorm:"type:uuid"`
	Quantity       *float64   `json:"quantity"`
	Unit           *string    `json:"unit"`
	ExpirationDate *time.Time `json:"expiration_date" gorm:"index"`
	CreatedAt      time.Time  `json:"created_at"`

	House   *House    `json:"-" gorm:"foreignKey:HouseID;constraint:OnDelete:CASCADE"`
	Product *Product  `json:"products,omitempty" gorm:"foreignKey:ProductID"`
	Owner   *Profile  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	Tags    []FoodTag `json:"food_tags,omitempty" gorm:"foreignKey:FoodID;constraint:OnDelete:CASCADE"`
}

func (FoodItem) TableName() string { return "food_item" }

func (f *FoodItem) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// FoodTag marks an item as available to one member, or to everyone when UserID is nil.
type FoodTag struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	FoodID    uuid.UUID  `json:"food_id" gorm:"type:uuid;not null;uniqueIndex:idx_food_tags_food_user;uniqueIndex:idx_food_tags_for_all,where:user_id IS NULL"`
	UserID    *uuid.UUID `json:"user_id" gorm:"type:uuid;uniqueIndex:idx_food_tags_food_user"`
	CreatedAt time.Time  `json:"created_at"`

	Profile *Profile `json:"profiles,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (t *FoodTag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// ForAll reports whether the tag applies to every member of the house.
func (t FoodTag) ForAll() bool { return t.UserID == nil }
