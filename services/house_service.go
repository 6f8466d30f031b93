package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/pricejoshua/wehavefoodathome-backend/models"
	"gorm.io/gorm"
)

type HouseService struct{ db *gorm.DB }

func NewHouseService(db *gorm.DB) *HouseService { return &HouseService{db: db} }

type HouseUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (s *HouseService) IsMember(ctx context.Context, houseID, userID uuid.UUID) (bool, error) {
	return isMember(ctx, s.db, houseID, userID)
}

// ListForUser returns the user's memberships with the house embedded.
func (s *HouseService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.HouseMember, error) {
	var rows []models.HouseMember
	err := s.db.WithContext(ctx).
		Preload("House").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translate("list houses", err)
	}
	return rows, nil
}

// Create inserts the house and makes creatorID its first member.
func (s *HouseService) Create(ctx context.Context, house *models.House, creatorID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(house).Error; err != nil {
			return err
		}
		return tx.Create(&models.HouseMember{UserID: creatorID, HouseID: house.ID}).Error
	})
	return translate("create house", err)
}

func (s *HouseService) Get(ctx context.Context, houseID, requesterID uuid.UUID) (*models.House, error) {
	if err := requireMember(ctx, s.db, houseID, requesterID); err != nil {
		return nil, err
	}
	var h models.House
	if err := s.db.WithContext(ctx).First(&h, "id = ?", houseID).Error; err != nil {
		return nil, translate("get house", err)
	}
	return &h, nil
}

func (s *HouseService) Update(ctx context.Context, houseID, requesterID uuid.UUID, in HouseUpdate) (*models.House, error) {
	if err := requireMember(ctx, s.db, houseID, requesterID); err != nil {
		return nil, err
	}
	var h models.House
	if err := s.db.WithContext(ctx).First(&h, "id = ?", houseID).Error; err != nil {
		return nil, translate("get house", err)
	}

	updates := map[string]any{}
	if in.Name != nil {
		h.Name = *in.Name
		updates["name"] = h.Name
	}
	if in.Description != nil {
		h.Description = in.Description
		updates["description"] = *in.Description
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&h).Updates(updates).Error; err != nil {
			return nil, translate("update house", err)
		}
	}
	return &h, nil
}

func (s *HouseService) Delete(ctx context.Context, houseID, requesterID uuid.UUID) error {
	if err := requireMember(ctx, s.db, houseID, requesterID); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Delete(&models.House{}, "id = ?", houseID).Error
	return translate("delete house", err)
}

// Members returns the house's membership rows with the profile embedded.
func (s *HouseService) Members(ctx context.Context, houseID, requesterID uuid.UUID) ([]models.HouseMember, error) {
	if err := requireMember(ctx, s.db, houseID, requesterID); err != nil {
		return nil, err
	}
	var rows []models.HouseMember
	err := s.db.WithContext(ctx).
		Preload("Profile").
		Where("house_id = ?", houseID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translate("list members", err)
	}
	return rows, nil
}

func (s *HouseService) AddMember(ctx context.Context, houseID, userID, requesterID uuid.UUID) (*models.HouseMember, error) {
	if err := requireMember(ctx, s.db, houseID, requesterID); err != nil {
		return nil, err
	}
	m := &models.HouseMember{HouseID: houseID, UserID: userID}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, translate("add member", err)
	}
	return m, nil
}

// RemoveMember lets any member remove anyone, and anyone remove themself.
func (s *HouseService) RemoveMember(ctx context.Context, houseID, userID, requesterID uuid.UUID) error {
	if requesterID != userID {
		if err := requireMember(ctx, s.db, houseID, requesterID); err != nil {
			return err
		}
	}
	err := s.db.WithContext(ctx).
		Where("house_id = ? AND user_id = ?", houseID, userID).
		Delete(&models.HouseMember{}).Error
	return translate("remove member", err)
}
