package database

import (
	"fmt"

	"bookmyseat/internal/bookings"
	"bookmyseat/internal/catalog"
	"bookmyseat/internal/seats"
	"bookmyseat/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// uuid_generate_v4 defaults on primary keys need the extension.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid-ossp extension: %w", err)
	}

	return db.AutoMigrate(
		&users.User{},
		&catalog.Genre{},
		&catalog.Language{},
		&catalog.Movie{},
		&catalog.Theater{},
		&seats.Seat{},
		&bookings.Booking{},
	)
}
