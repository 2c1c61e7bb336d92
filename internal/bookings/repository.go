package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// CreateBatch inserts all bookings in one transaction, or none.
	CreateBatch(ctx context.Context, bookings []*Booking) error

	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error)

	// MarkPaymentDone flips payment_done exactly once. It reports
	// whether this call performed the transition.
	MarkPaymentDone(ctx context.Context, id uuid.UUID) (bool, error)

	// MarkAbandoned closes an unpaid booking. It reports whether this
	// call performed the transition; paid bookings are never touched.
	MarkAbandoned(ctx context.Context, id uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBatch(ctx context.Context, bookings []*Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, booking := range bookings {
			if err := tx.Create(booking).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create bookings: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &booking, nil
}

func (r *repository) GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Seat").
		Preload("Movie").
		Preload("Theater").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &booking, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Preload("Seat").
		Preload("Movie").
		Preload("Theater").
		Where("user_id = ?", userID).
		Order("booked_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (r *repository) MarkPaymentDone(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND payment_done = ?", id, false).
		Updates(map[string]interface{}{
			"payment_done": true,
			"status":       StatusConfirmed,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark payment done: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) MarkAbandoned(ctx context.Context, id uuid.UUID) (bool, error) {
	// The status guard matters: UPDATE reports a matched row as affected
	// even when nothing changes, and the caller releases the seat hold
	// whenever this returns true. Without it a redelivered failure
	// callback would release a hold a later attempt may own.
	result := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND payment_done = ? AND status <> ?", id, false, StatusAbandoned).
		Updates(map[string]interface{}{
			"status":     StatusAbandoned,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark booking abandoned: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
