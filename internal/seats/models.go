package seats

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSeatNotFound    = errors.New("seat not found")
	ErrSeatUnavailable = errors.New("seat unavailable")
	ErrNoSeatsSelected = errors.New("no seats selected")
)

// Seat belongs to exactly one theater showing. is_booked is terminal,
// is_reserved with reserved_at forms a soft hold that lapses after the
// hold TTL without any background sweep.
type Seat struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TheaterID  uuid.UUID  `json:"theater_id" gorm:"type:uuid;not null;uniqueIndex:idx_seats_theater_number,priority:1"`
	SeatNumber string     `json:"seat_number" gorm:"size:10;not null;uniqueIndex:idx_seats_theater_number,priority:2"`
	IsBooked   bool       `json:"is_booked" gorm:"not null;default:false"`
	IsReserved bool       `json:"is_reserved" gorm:"not null;default:false"`
	ReservedAt *time.Time `json:"reserved_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// HoldActive reports whether the seat carries a live hold at the given
// instant. A hold placed at reserved_at lapses strictly after
// reserved_at + ttl.
func (s *Seat) HoldActive(now time.Time, ttl time.Duration) bool {
	if !s.IsReserved || s.ReservedAt == nil {
		return false
	}
	return !now.After(s.ReservedAt.Add(ttl))
}

// Available reports whether the seat can be claimed at the given instant.
func (s *Seat) Available(now time.Time, ttl time.Duration) bool {
	return !s.IsBooked && !s.HoldActive(now, ttl)
}

// SeatStatus is the client-facing availability view of one seat.
type SeatStatus struct {
	ID         uuid.UUID `json:"id"`
	SeatNumber string    `json:"seat_number"`
	IsBooked   bool      `json:"is_booked"`
	Available  bool      `json:"available"`
}

// UnavailableSeatsError reports every seat in a batch that could not be
// held. The batch as a whole has been rolled back when this is returned.
type UnavailableSeatsError struct {
	SeatIDs []uuid.UUID
}

func (e *UnavailableSeatsError) Error() string {
	return fmt.Sprintf("%d seat(s) unavailable", len(e.SeatIDs))
}

func (e *UnavailableSeatsError) Is(target error) bool {
	return target == ErrSeatUnavailable
}
