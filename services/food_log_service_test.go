package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryCountsByAction(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewFoodLogService(db)
	houseID := uuid.New()

	expectMember(mock, true)
	mock.ExpectQuery(`SELECT action_type, COUNT\(\*\) AS count FROM "food_log"`).WillReturnRows(
		sqlmock.NewRows([]string{"action_type", "count"}).
			AddRow("added", 3).
			AddRow("removed", 1))

	s, err := svc.Summary(context.Background(), houseID, 7, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, houseID, s.HouseID)
	assert.Equal(t, 7, s.PeriodDays)
	assert.Equal(t, int64(4), s.TotalActions)
	assert.Equal(t, map[string]int64{"added": 3, "removed": 1}, s.ByActionType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityOfDeletedItem(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewFoodLogService(db)
	houseID, foodID := uuid.New(), uuid.New()

	expectMember(mock, true)
	mock.ExpectQuery(`SELECT \* FROM "food_log" WHERE house_id = .* AND action_type = `).WillReturnRows(
		sqlmock.NewRows([]string{"id", "food_id", "house_id", "action_type"}).
			AddRow(5, foodID.String(), houseID.String(), "removed"))
	mock.ExpectQuery(`SELECT \* FROM "food_item"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	logs, err := svc.Activity(context.Background(), houseID, 10, "removed", uuid.New())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, foodID, logs[0].FoodID)
	assert.Nil(t, logs[0].FoodItem)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityForbidden(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewFoodLogService(db)

	expectMember(mock, false)
	_, err := svc.Activity(context.Background(), uuid.New(), 50, "", uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}
