package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/pricejoshua/wehavefoodathome-backend/models"
	"gorm.io/gorm"
)

type FoodTagService struct{ db *gorm.DB }

func NewFoodTagService(db *gorm.DB) *FoodTagService { return &FoodTagService{db: db} }

// ItemTags summarises who an item is set aside for.
type ItemTags struct {
	FoodID          uuid.UUID        `json:"food_id"`
	AvailableForAll bool             `json:"available_for_all"`
	TaggedUsers     []models.Profile `json:"tagged_users"`
}

// VisibleTo reports whether an item with these tags is available to userID. Untagged
// items and items tagged for everyone are visible to all; a nil userID sees only those.
func VisibleTo(tags []models.FoodTag, userID *uuid.UUID) bool {
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if t.ForAll() {
			return true
		}
		if userID != nil && *t.UserID == *userID {
			return true
		}
	}
	return false
}

func whereTagUser(db *gorm.DB, userID *uuid.UUID) *gorm.DB {
	if userID == nil {
		return db.Where("user_id IS NULL")
	}
	return db.Where("user_id = ?", *userID)
}

func (s *FoodTagService) houseOf(ctx context.Context, foodID uuid.UUID) (uuid.UUID, error) {
	var item models.FoodItem
	if err := s.db.WithContext(ctx).Select("id", "house_id").First(&item, "id = ?", foodID).Error; err != nil {
		return uuid.Nil, translate("get food item", err)
	}
	return item.HouseID, nil
}

// Tag sets an item aside for userID, or for everyone when userID is nil.
func (s *FoodTagService) Tag(ctx context.Context, foodID uuid.UUID, userID *uuid.UUID, requesterID uuid.UUID) (*models.FoodTag, error) {
	houseID, err := s.houseOf(ctx, foodID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(ctx, s.db, houseID, requesterID); err != nil {
		return nil, err
	}

	var n int64
	q := s.db.WithContext(ctx).Model(&models.FoodTag{}).Where("food_id = ?", foodID)
	if err := whereTagUser(q, userID).Count(&n).Error; err != nil {
		return nil, translate("check tag", err)
	}
	if n > 0 {
		return nil, ErrConflict
	}

	tag := &models.FoodTag{FoodID: foodID, UserID: userID}
	if err := s.db.WithContext(ctx).Create(tag).Error; err != nil {
		return nil, translate("create tag", err)
	}
	return tag, nil
}

func (s *FoodTagService) Untag(ctx context.Context, foodID uuid.UUID, userID *uuid.UUID, requesterID uuid.UUID) error {
	houseID, err := s.houseOf(ctx, foodID)
	if err != nil {
		return err
	}
	if err := requireMember(ctx, s.db, houseID, requesterID); err != nil {
		return err
	}
	q := s.db.WithContext(ctx).Where("food_id = ?", foodID)
	return translate("delete tag", whereTagUser(q, userID).Delete(&models.FoodTag{}).Error)
}

// BulkTag tags every item for the same user in one insert. Any duplicate fails the batch.
func (s *FoodTagService) BulkTag(ctx context.Context, foodIDs []uuid.UUID, userID *uuid.UUID, requesterID uuid.UUID) ([]models.FoodTag, error) {
	var items []models.FoodItem
	if err := s.db.WithContext(ctx).Select("id", "house_id").Where("id IN ?", foodIDs).Find(&items).Error; err != nil {
		return nil, translate("load food items", err)
	}
	found := make(map[uuid.UUID]bool, len(items))
	houses := map[uuid.UUID]bool{}
	for _, it := range items {
		found[it.ID] = true
		houses[it.HouseID] = true
	}
	for _, id := range foodIDs {
		if !found[id] {
			return nil, ErrNotFound
		}
	}
	for h := range houses {
		if err := requireMember(ctx, s.db, h, requesterID); err != nil {
			return nil, err
		}
	}

	tags := make([]models.FoodTag, len(foodIDs))
	for i, id := range foodIDs {
		tags[i] = models.FoodTag{FoodID: id, UserID: userID}
	}
	if err := s.db.WithContext(ctx).Create(&tags).Error; err != nil {
		return nil, translate("bulk tag", err)
	}
	return tags, nil
}

func (s *FoodTagService) ItemTags(ctx context.Context, foodID, requesterID uuid.UUID) (*ItemTags, error) {
	houseID, err := s.houseOf(ctx, foodID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(ctx, s.db, houseID, requesterID); err != nil {
		return nil, err
	}

	var tags []models.FoodTag
	if err := s.db.WithContext(ctx).Preload("Profile").Where("food_id = ?", foodID).Find(&tags).Error; err != nil {
		return nil, translate("list tags", err)
	}

	out := &ItemTags{FoodID: foodID, TaggedUsers: []models.Profile{}}
	for _, t := range tags {
		if t.ForAll() {
			out.AvailableForAll = true
			continue
		}
		if t.Profile != nil {
			out.TaggedUsers = append(out.TaggedUsers, *t.Profile)
		}
	}
	return out, nil
}

// Visible lists the house's items that userID may take.
func (s *FoodTagService) Visible(ctx context.Context, houseID uuid.UUID, userID *uuid.UUID, requesterID uuid.UUID) ([]models.FoodItem, error) {
	if err := requireMember(ctx, s.db, houseID, requesterID); err != nil {
		return nil, err
	}
	var items []models.FoodItem
	err := s.db.WithContext(ctx).
		Preload("Product").
		Preload("Tags").
		Where("house_id = ?", houseID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, translate("list food items", err)
	}

	visible := make([]models.FoodItem, 0, len(items))
	for _, it := range items {
		if VisibleTo(it.Tags, userID) {
			visible = append(visible, it)
		}
	}
	return visible, nil
}
