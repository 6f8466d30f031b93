package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pricejoshua/wehavefoodathome-backend/metrics"
	"github.com/pricejoshua/wehavefoodathome-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const EventFoodLogCreated = "food_log.created"

const (
	notesAdded   = "Item added to house"
	notesUpdated = "Item updated"
	notesRemoved = "Item removed from house"
)

// FoodItemService owns the house inventory. Every mutation writes its food_log row in
// the same transaction.
type FoodItemService struct {
	db *gorm.DB
	rt Broadcaster
}

func NewFoodItemService(db *gorm.DB, rt Broadcaster) *FoodItemService {
	return &FoodItemService{db: db, rt: rt}
}

type CreateFoodItemInput struct {
	HouseID        uuid.UUID  `json:"house_id"`
	ProductID      uuid.UUID  `json:"product_id"`
	UserID         *uuid.UUID `json:"user_id"`
	Quantity       *float64   `json:"quantity"`
	Unit           *string    `json:"unit"`
	ExpirationDate *time.Time `json:"expiration_date"`
}

// FoodItemUpdate is a partial update; nil fields are left alone.
type FoodItemUpdate struct {
	ProductID      *uuid.UUID `json:"product_id"`
	UserID         *uuid.UUID `json:"user_id"`
	Quantity       *float64   `json:"quantity"`
	Unit           *string    `json:"unit"`
	ExpirationDate *time.Time `json:"expiration_date"`
}

func (s *FoodItemService) List(ctx context.Context, houseID, requesterID uuid.UUID) ([]models.FoodItem, error) {
	if err := requireMember(ctx, s.db, houseID, requesterID); err != nil {
		return nil, err
	}
	var items []models.FoodItem
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("house_id = ?", houseID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, translate("list food items", err)
	}
	return items, nil
}

// Search matches the product name case-insensitively.
func (s *FoodItemService) Search(ctx context.Context, houseID uuid.UUID, query string, requesterID uuid.UUID) ([]models.FoodItem, error) {
	if err := requireMember(ctx, s.db, houseID, requesterID); err != nil {
		return nil, err
	}
	var items []models.FoodItem
	err := s.db.WithContext(ctx).
		Joins("Product").
		Where("food_item.house_id = ?", houseID).
		Where(`"Product"."name" ILIKE ?`, "%"+query+"%").
		Find(&items).Error
	if err != nil {
		return nil, translate("search food items", err)
	}
	return items, nil
}

func (s *FoodItemService) Get(ctx context.Context, id, requesterID uuid.UUID) (*models.FoodItem, error) {
	var item models.FoodItem
	if err := s.db.WithContext(ctx).Preload("Product").First(&item, "id = ?", id).Error; err != nil {
		return nil, translate("get food item", err)
	}
	if err := requireMember(ctx, s.db, item.HouseID, requesterID); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *FoodItemService) Create(ctx context.Context, in CreateFoodItemInput, requesterID uuid.UUID) (*models.FoodItem, error) {
	if err := requireMember(ctx, s.db, in.HouseID, requesterID); err != nil {
		return nil, err
	}
	item := &models.FoodItem{
		HouseID:        in.HouseID,
		ProductID:      in.ProductID,
		UserID:         in.UserID,
		Quantity:       in.Quantity,
		Unit:           in.Unit,
		ExpirationDate: in.ExpirationDate,
	}

	var entry *models.FoodLog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(item).Error; err != nil {
			return err
		}
		entry = newLog(item, models.ActionAdded, notesAdded, requesterID)
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		return tx.Preload("Product").First(item, "id = ?", item.ID).Error
	})
	if err != nil {
		return nil, translate("create food item", err)
	}
	s.published(entry)
	return item, nil
}

func (s *FoodItemService) Update(ctx context.Context, id uuid.UUID, in FoodItemUpdate, requesterID uuid.UUID) (*models.FoodItem, error) {
	var item models.FoodItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate("get food item", err)
	}
	if err := requireMember(ctx, s.db, item.HouseID, requesterID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.ProductID != nil {
		updates["product_id"] = *in.ProductID
	}
	if in.UserID != nil {
		updates["user_id"] = *in.UserID
	}
	if in.Quantity != nil {
		updates["quantity"] = *in.Quantity
	}
	if in.Unit != nil {
		updates["unit"] = *in.Unit
	}
	if in.ExpirationDate != nil {
		updates["expiration_date"] = *in.ExpirationDate
	}

	var entry *models.FoodLog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.FoodItem{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		// A new expiration date re-arms the expiry alerts for this item.
		if in.ExpirationDate != nil {
			if err := tx.Where("food_id = ?", id).Delete(&models.Alert{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Preload("Product").First(&item, "id = ?", id).Error; err != nil {
			return err
		}
		entry = newLog(&item, models.ActionUpdated, notesUpdated, requesterID)
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, translate("update food item", err)
	}
	s.published(entry)
	return &item, nil
}

// Delete journals the removal with the item's last quantity, then drops the row.
func (s *FoodItemService) Delete(ctx context.Context, id, requesterID uuid.UUID) error {
	var item models.FoodItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return translate("get food item", err)
	}
	if err := requireMember(ctx, s.db, item.HouseID, requesterID); err != nil {
		return err
	}

	entry := newLog(&item, models.ActionRemoved, notesRemoved, requesterID)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		return tx.Delete(&models.FoodItem{}, "id = ?", id).Error
	})
	if err != nil {
		return translate("delete food item", err)
	}
	s.published(entry)
	return nil
}

// History returns the item's journal newest first. It works after the item is gone.
func (s *FoodItemService) History(ctx context.Context, id, requesterID uuid.UUID) ([]models.FoodLog, error) {
	var logs []models.FoodLog
	err := s.db.WithContext(ctx).
		Preload("Profile").
		Where("food_id = ?", id).
		Order("timestamp DESC").
		Find(&logs).Error
	if err != nil {
		return nil, translate("food item history", err)
	}
	if len(logs) == 0 {
		return logs, nil
	}
	if err := requireMember(ctx, s.db, logs[0].HouseID, requesterID); err != nil {
		return nil, err
	}
	return logs, nil
}

func newLog(item *models.FoodItem, action, notes string, actor uuid.UUID) *models.FoodLog {
	n := notes
	return &models.FoodLog{
		FoodID:     item.ID,
		HouseID:    item.HouseID,
		UserID:     &actor,
		ActionType: action,
		Quantity:   item.Quantity,
		Unit:       item.Unit,
		Notes:      &n,
	}
}

func (s *FoodItemService) published(entry *models.FoodLog) {
	metrics.RecordFoodLog(entry.ActionType)
	if s.rt != nil {
		s.rt.Broadcast(entry.HouseID, EventFoodLogCreated, entry)
	}
}
