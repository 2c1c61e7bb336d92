package bookings

import (
	"errors"
	"time"

	"bookmyseat/internal/catalog"
	"bookmyseat/internal/seats"

	"github.com/google/uuid"
)

var (
	// ErrBookingNotFound is returned when a booking id does not exist
	// or is not visible to the caller.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrBookingClosed is returned when an operation requires an open
	// booking but payment has already completed.
	ErrBookingClosed = errors.New("booking already paid")
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusAbandoned Status = "ABANDONED"
)

// Booking ties one user to one held seat for one showing. A seat has at
// most one booking row at a time; payment flips PaymentDone exactly
// once.
type Booking struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	SeatID      uuid.UUID `json:"seat_id" gorm:"type:uuid;not null;uniqueIndex:unique_booking_per_seat"`
	MovieID     uuid.UUID `json:"movie_id" gorm:"type:uuid;not null;index"`
	TheaterID   uuid.UUID `json:"theater_id" gorm:"type:uuid;not null;index"`
	PaymentDone bool      `json:"payment_done" gorm:"not null;default:false"`
	Status      Status    `json:"status" gorm:"size:20;not null;default:'PENDING';check:status IN ('PENDING','CONFIRMED','ABANDONED')"`
	BookedAt    time.Time `json:"booked_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at"`

	Seat    *seats.Seat      `json:"seat,omitempty" gorm:"foreignKey:SeatID;constraint:OnDelete:CASCADE"`
	Movie   *catalog.Movie   `json:"movie,omitempty" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	Theater *catalog.Theater `json:"theater,omitempty" gorm:"foreignKey:TheaterID;constraint:OnDelete:CASCADE"`
}

func (Booking) TableName() string {
	return "bookings"
}

// IsOpen reports whether the booking can still be paid or abandoned.
func (b *Booking) IsOpen() bool {
	return !b.PaymentDone && b.Status != StatusAbandoned
}
