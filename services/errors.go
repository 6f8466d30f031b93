package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pricejoshua/wehavefoodathome-backend/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("already exists")
	ErrBadReference = errors.New("referenced record does not exist")
)

// translate maps gorm's translated driver errors onto the service sentinels and
// wraps everything else with op.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrBadReference
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrForbidden), errors.Is(err, ErrConflict), errors.Is(err, ErrBadReference):
		return err
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func isMember(ctx context.Context, db *gorm.DB, houseID, userID uuid.UUID) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&models.HouseMember{}).
		Where("house_id = ? AND user_id = ?", houseID, userID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return n > 0, nil
}

// requireMember returns ErrForbidden unless userID belongs to houseID.
func requireMember(ctx context.Context, db *gorm.DB, houseID, userID uuid.UUID) error {
	ok, err := isMember(ctx, db, houseID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// Broadcaster fans an event out to everyone watching a house.
type Broadcaster interface {
	Broadcast(houseID uuid.UUID, event string, payload any)
}
