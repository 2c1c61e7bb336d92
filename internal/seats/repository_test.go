package seats

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return gdb, mock
}

func TestReserveReturnsTrueWhenGuardPasses(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewRepository(gdb)

	mock.ExpectExec(`UPDATE "seats" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now()
	ok, err := repo.Reserve(context.Background(), uuid.New(), uuid.New(), now, now.Add(-DefaultHoldTTL))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveReturnsFalseWhenGuardRejects(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewRepository(gdb)

	mock.ExpectExec(`UPDATE "seats" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	now := time.Now()
	ok, err := repo.Reserve(context.Background(), uuid.New(), uuid.New(), now, now.Add(-DefaultHoldTTL))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmUnknownSeat(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewRepository(gdb)

	mock.ExpectExec(`UPDATE "seats" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Confirm(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSeatNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseSkipsBookedSeat(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewRepository(gdb)

	// The booked guard means no row matches.
	mock.ExpectExec(`UPDATE "seats" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := repo.Release(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
