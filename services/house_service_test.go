package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/pricejoshua/wehavefoodathome-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIsMember(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewHouseService(db)

	expectMember(mock, true)
	ok, err := svc.IsMember(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.True(t, ok)

	expectMember(mock, false)
	ok, err = svc.IsMember(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateHouseAddsCreator(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewHouseService(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "houses"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "user_houses"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	h := &models.House{Name: "Flat 4"}
	require.NoError(t, svc.Create(context.Background(), h, uuid.New()))
	assert.NotEqual(t, uuid.Nil, h.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateHouseRollsBackWhenMembershipFails(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewHouseService(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "houses"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "user_houses"`).WillReturnError(gorm.ErrForeignKeyViolated)
	mock.ExpectRollback()

	err := svc.Create(context.Background(), &models.House{Name: "x"}, uuid.New())
	assert.ErrorIs(t, err, ErrBadReference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHouseRequiresMembership(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewHouseService(db)

	expectMember(mock, false)
	_, err := svc.Get(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHouseNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewHouseService(db)

	expectMember(mock, true)
	mock.ExpectQuery(`SELECT \* FROM "houses"`).WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := svc.Get(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddMemberConflict(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewHouseService(db)

	expectMember(mock, true)
	mock.ExpectExec(`INSERT INTO "user_houses"`).WillReturnError(gorm.ErrDuplicatedKey)

	_, err := svc.AddMember(context.Background(), uuid.New(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveSelfSkipsMembershipCheck(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewHouseService(db)
	me := uuid.New()

	mock.ExpectExec(`DELETE FROM "user_houses"`).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.RemoveMember(context.Background(), uuid.New(), me, me))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveOtherRequiresMembership(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewHouseService(db)

	expectMember(mock, false)
	err := svc.RemoveMember(context.Background(), uuid.New(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}
