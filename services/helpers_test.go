package services

import (
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func expectMember(mock sqlmock.Sqlmock, member bool) {
	n := 0
	if member {
		n = 1
	}
	mock.ExpectQuery(`SELECT count\(\*\) FROM "user_houses"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(n))
}

type broadcast struct {
	HouseID uuid.UUID
	Event   string
	Payload any
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []broadcast
}

func (f *fakeBroadcaster) Broadcast(houseID uuid.UUID, event string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, broadcast{houseID, event, payload})
}
