package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pricejoshua/wehavefoodathome-backend/logger"
	"github.com/pricejoshua/wehavefoodathome-backend/metrics"
	"github.com/pricejoshua/wehavefoodathome-backend/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const EventAlertCreated = "alert.created"

type Pusher interface {
	PushToUsers(ctx context.Context, userIDs []uuid.UUID, title, body string, data map[string]string)
}

// AlertService records expiry alerts and fans them out over websockets and push.
type AlertService struct {
	db   *gorm.DB
	rt   Broadcaster
	push Pusher
}

// NewAlertService wires the alert bus; rt and push may be nil.
func NewAlertService(db *gorm.DB, rt Broadcaster, push Pusher) *AlertService {
	return &AlertService{db: db, rt: rt, push: push}
}

func (s *AlertService) List(ctx context.Context, houseID, requesterID uuid.UUID) ([]models.Alert, error) {
	if err := requireMember(ctx, s.db, houseID, requesterID); err != nil {
		return nil, err
	}
	var out []models.Alert
	err := s.db.WithContext(ctx).
		Where("house_id = ?", houseID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, translate("list alerts", err)
	}
	return out, nil
}

// Emit stores the alert unless one already exists for the same item and type, then
// broadcasts and pushes it. It reports whether a new alert was stored.
func (s *AlertService) Emit(ctx context.Context, a *models.Alert) (bool, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "food_id"}, {Name: "type"}},
			DoNothing: true,
		}).
		Create(a)
	if res.Error != nil {
		return false, translate("create alert", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	metrics.RecordAlert(a.Type)
	if s.rt != nil {
		s.rt.Broadcast(a.HouseID, EventAlertCreated, a)
	}
	if s.push != nil {
		var members []uuid.UUID
		if err := s.db.WithContext(ctx).Model(&models.HouseMember{}).Where("house_id = ?", a.HouseID).Pluck("user_id", &members).Error; err != nil {
			logger.GetLogger().Warn("load alert recipients", zap.Error(err))
		} else {
			s.push.PushToUsers(ctx, members, "Food alert", a.Message, map[string]string{
				"type": a.Type, "alertId": fmt.Sprintf("%d", a.ID), "foodId": a.FoodID.String(),
			})
		}
	}
	return true, nil
}

// CheckExpiring raises an alert for every item expiring before now+window, or
// already expired. It returns how many new alerts were stored.
func (s *AlertService) CheckExpiring(ctx context.Context, now time.Time, window time.Duration) (int, error) {
	var items []models.FoodItem
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("expiration_date IS NOT NULL AND expiration_date <= ?", now.Add(window)).
		Find(&items).Error
	if err != nil {
		return 0, translate("find expiring items", err)
	}

	created := 0
	for i := range items {
		a := ExpiryAlert(&items[i], now)
		ok, err := s.Emit(ctx, a)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}

// ExpiryAlert builds the alert for an item with an expiration date.
func ExpiryAlert(item *models.FoodItem, now time.Time) *models.Alert {
	name := "An item"
	if item.Product != nil && item.Product.Name != "" {
		name = item.Product.Name
	}
	day := item.ExpirationDate.Format("2006-01-02")

	a := &models.Alert{HouseID: item.HouseID, FoodID: item.ID}
	if item.ExpirationDate.Before(now) {
		a.Type = models.AlertExpired
		a.Message = fmt.Sprintf("%s expired on %s", name, day)
	} else {
		a.Type = models.AlertExpiring
		a.Message = fmt.Sprintf("%s expires on %s", name, day)
	}
	return a
}
