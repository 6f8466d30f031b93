package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pricejoshua/wehavefoodathome-backend/models"
	"gorm.io/gorm"
)

type FoodLogService struct{ db *gorm.DB }

func NewFoodLogService(db *gorm.DB) *FoodLogService { return &FoodLogService{db: db} }

type ActivitySummary struct {
	HouseID      uuid.UUID        `json:"house_id"`
	PeriodDays   int              `json:"period_days"`
	TotalActions int64            `json:"total_actions"`
	ByActionType map[string]int64 `json:"by_action_type"`
}

// Activity returns the house journal newest first. Entries whose item still exists
// carry it, with its product.
func (s *FoodLogService) Activity(ctx context.Context, houseID uuid.UUID, limit int, actionType string, requesterID uuid.UUID) ([]models.FoodLog, error) {
	if err := requireMember(ctx, s.db, houseID, requesterID); err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).
		Preload("Profile").
		Where("house_id = ?", houseID)
	if actionType != "" {
		q = q.Where("action_type = ?", actionType)
	}
	var logs []models.FoodLog
	if err := q.Order("timestamp DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, translate("house activity", err)
	}
	if len(logs) == 0 {
		return logs, nil
	}

	ids := make([]uuid.UUID, 0, len(logs))
	for _, l := range logs {
		ids = append(ids, l.FoodID)
	}
	var items []models.FoodItem
	if err := s.db.WithContext(ctx).Preload("Product").Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, translate("load logged items", err)
	}
	byID := make(map[uuid.UUID]*models.FoodItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	for i := range logs {
		logs[i].FoodItem = byID[logs[i].FoodID]
	}
	return logs, nil
}

// Summary counts journal entries by action type over the last days days.
func (s *FoodLogService) Summary(ctx context.Context, houseID uuid.UUID, days int, requesterID uuid.UUID) (*ActivitySummary, error) {
	if err := requireMember(ctx, s.db, houseID, requesterID); err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -days)
	var rows []struct {
		ActionType string
		Count      int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.FoodLog{}).
		Select("action_type, COUNT(*) AS count").
		Where("house_id = ? AND timestamp >= ?", houseID, since).
		Group("action_type").
		Scan(&rows).Error
	if err != nil {
		return nil, translate("activity summary", err)
	}

	out := &ActivitySummary{HouseID: houseID, PeriodDays: days, ByActionType: map[string]int64{}}
	for _, r := range rows {
		out.ByActionType[r.ActionType] = r.Count
		out.TotalActions += r.Count
	}
	return out, nil
}
