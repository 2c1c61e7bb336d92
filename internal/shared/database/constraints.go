package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds database constraints the booking flow relies
// on for concurrency control.
func MigrateConstraints(db *gorm.DB) error {
	// One live booking per seat. The reserve guard already serializes
	// holds, this backstops the 1:1 seat-booking relationship. A unique
	// index rather than ALTER TABLE ADD CONSTRAINT because Postgres has
	// no IF NOT EXISTS form for constraints, and reruns must be no-ops.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_booking_per_seat
		ON bookings (seat_id);
	`).Error
	if err != nil {
		return err
	}

	// Reserve guard filters on theater + availability columns.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_seats_theater_availability
		ON seats (theater_id, is_booked, is_reserved);
	`).Error
	if err != nil {
		return err
	}

	// Dashboard rankings aggregate paid bookings only.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_payment_done
		ON bookings (payment_done);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
