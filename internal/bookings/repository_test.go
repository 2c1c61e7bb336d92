package bookings

import (
	"context"
	"testing"

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

func TestMarkPaymentDoneFirstTransition(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewRepository(gdb)

	mock.ExpectExec(`UPDATE "bookings" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	changed, err := repo.MarkPaymentDone(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaymentDoneAlreadyPaid(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewRepository(gdb)

	mock.ExpectExec(`UPDATE "bookings" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := repo.MarkPaymentDone(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAbandonedSkipsPaidBooking(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewRepository(gdb)

	mock.ExpectExec(`UPDATE "bookings" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := repo.MarkAbandoned(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The abandon UPDATE must filter out rows already ABANDONED, not just
// paid ones. Postgres counts a matched row as affected even when the
// update writes the same status again, so without the guard a
// redelivered failure callback would report a fresh transition and the
// engine would release the seat hold twice.
func TestMarkAbandonedGuardsOnStatus(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewRepository(gdb)

	mock.ExpectExec(`UPDATE "bookings" SET .+ WHERE id = \$\d+ AND payment_done = \$\d+ AND status <> \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "bookings" SET .+ WHERE id = \$\d+ AND payment_done = \$\d+ AND status <> \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	id := uuid.New()

	changed, err := repo.MarkAbandoned(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.MarkAbandoned(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBatchRollsBackOnFailure(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "bookings"`).
		WillReturnError(gorm.ErrInvalidData)
	mock.ExpectRollback()

	err := repo.CreateBatch(context.Background(), []*Booking{
		{UserID: uuid.New(), SeatID: uuid.New(), MovieID: uuid.New(), TheaterID: uuid.New()},
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBatchEmptyIsNoOp(t *testing.T) {
	gdb, mock := setupMockDB(t)
	repo := NewRepository(gdb)

	require.NoError(t, repo.CreateBatch(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
