package seats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	ListByTheater(ctx context.Context, theaterID uuid.UUID) ([]Seat, error)
	Get(ctx context.Context, seatID uuid.UUID) (*Seat, error)

	// Reserve places a hold on one seat as a single guarded update. The
	// hold succeeds only if the seat belongs to the theater, is not
	// booked, and carries no hold newer than staleBefore. Returns false
	// without error when the guard rejects the write.
	Reserve(ctx context.Context, theaterID, seatID uuid.UUID, now, staleBefore time.Time) (bool, error)

	// Confirm marks a seat permanently booked and clears its hold.
	// Idempotent over repeated calls for an existing seat.
	Confirm(ctx context.Context, seatID uuid.UUID) error

	// Release clears a hold if the seat is not booked. Returns whether a
	// row changed.
	Release(ctx context.Context, seatID uuid.UUID) (bool, error)

	CreateBatch(ctx context.Context, batch []Seat) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListByTheater(ctx context.Context, theaterID uuid.UUID) ([]Seat, error) {
	var list []Seat
	err := r.db.WithContext(ctx).
		Where("theater_id = ?", theaterID).
		Order("seat_number ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list seats: %w", err)
	}
	return list, nil
}

func (r *repository) Get(ctx context.Context, seatID uuid.UUID) (*Seat, error) {
	var seat Seat
	err := r.db.WithContext(ctx).Where("id = ?", seatID).First(&seat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSeatNotFound
		}
		return nil, fmt.Errorf("failed to get seat: %w", err)
	}
	return &seat, nil
}

// Reserve is the atomic check-and-set at the heart of hold placement.
// Availability and the hold write happen in one conditional UPDATE, so
// two concurrent attempts on the same seat can never both succeed.
func (r *repository) Reserve(ctx context.Context, theaterID, seatID uuid.UUID, now, staleBefore time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&Seat{}).
		Where("id = ? AND theater_id = ?", seatID, theaterID).
		Where("is_booked = ?", false).
		Where("is_reserved = ? OR reserved_at IS NULL OR reserved_at < ?", false, staleBefore).
		Updates(map[string]interface{}{
			"is_reserved": true,
			"reserved_at": now,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to reserve seat %s: %w", seatID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) Confirm(ctx context.Context, seatID uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&Seat{}).
		Where("id = ?", seatID).
		Updates(map[string]interface{}{
			"is_booked":   true,
			"is_reserved": false,
			"reserved_at": nil,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to confirm seat %s: %w", seatID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSeatNotFound
	}
	return nil
}

func (r *repository) Release(ctx context.Context, seatID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Model(&Seat{}).
		Where("id = ? AND is_booked = ?", seatID, false).
		Updates(map[string]interface{}{
			"is_reserved": false,
			"reserved_at": nil,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to release seat %s: %w", seatID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) CreateBatch(ctx context.Context, batch []Seat) error {
	if len(batch) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&batch).Error; err != nil {
		return fmt.Errorf("failed to create seats: %w", err)
	}
	return nil
}
