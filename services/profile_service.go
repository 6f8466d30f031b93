package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pricejoshua/wehavefoodathome-backend/models"
	"gorm.io/gorm"
)

type ProfileService struct{ db *gorm.DB }

func NewProfileService(db *gorm.DB) *ProfileService { return &ProfileService{db: db} }

// ProfileInput carries writable profile fields. The id is never updatable.
type ProfileInput struct {
	Username  *string    `json:"username"`
	FullName  *string    `json:"full_name"`
	AvatarURL *string    `json:"avatar_url"`
	Website   *string    `json:"website"`
	Birthday  *time.Time `json:"birthday"`
}

func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate("get profile", err)
	}
	return &p, nil
}

func (s *ProfileService) ByUsername(ctx context.Context, username string) (*models.Profile, error) {
	var p models.Profile
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&p).Error; err != nil {
		return nil, translate("get profile by username", err)
	}
	return &p, nil
}

func (s *ProfileService) Search(ctx context.Context, query string) ([]models.Profile, error) {
	like := "%" + query + "%"
	var out []models.Profile
	err := s.db.WithContext(ctx).
		Select("id", "username", "full_name", "avatar_url").
		Where("username ILIKE ? OR full_name ILIKE ?", like, like).
		Limit(50).
		Find(&out).Error
	if err != nil {
		return nil, translate("search profiles", err)
	}
	return out, nil
}

func (s *ProfileService) Create(ctx context.Context, id uuid.UUID, in ProfileInput) (*models.Profile, error) {
	p := &models.Profile{
		ID:        id,
		Username:  in.Username,
		FullName:  in.FullName,
		AvatarURL: in.AvatarURL,
		Website:   in.Website,
		Birthday:  in.Birthday,
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, translate("create profile", err)
	}
	return p, nil
}

// Update applies the set fields and stamps updated_at.
func (s *ProfileService) Update(ctx context.Context, id uuid.UUID, in ProfileInput) (*models.Profile, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	updates := map[string]any{"updated_at": now}
	p.UpdatedAt = &now
	if in.Username != nil {
		p.Username = in.Username
		updates["username"] = *in.Username
	}
	if in.FullName != nil {
		p.FullName = in.FullName
		updates["full_name"] = *in.FullName
	}
	if in.AvatarURL != nil {
		p.AvatarURL = in.AvatarURL
		updates["avatar_url"] = *in.AvatarURL
	}
	if in.Website != nil {
		p.Website = in.Website
		updates["website"] = *in.Website
	}
	if in.Birthday != nil {
		p.Birthday = in.Birthday
		updates["birthday"] = *in.Birthday
	}
	if err := s.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, translate("update profile", err)
	}
	return p, nil
}

func (s *ProfileService) Delete(ctx context.Context, id uuid.UUID) error {
	return translate("delete profile", s.db.WithContext(ctx).Delete(&models.Profile{}, "id = ?", id).Error)
}
