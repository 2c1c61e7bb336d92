package reporting

import (
	"context"
	"fmt"

	"bookmyseat/internal/bookings"

	"gorm.io/gorm"
)

type Repository interface {
	CountCompleted(ctx context.Context) (int64, error)
	TopMovies(ctx context.Context, limit int) ([]NameCount, error)
	TopTheaters(ctx context.Context, limit int) ([]NameCount, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountCompleted(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&bookings.Booking{}).
		Where("payment_done = ?", true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count completed bookings: %w", err)
	}
	return count, nil
}

func (r *repository) TopMovies(ctx context.Context, limit int) ([]NameCount, error) {
	var rows []NameCount
	err := r.db.WithContext(ctx).
		Table("bookings").
		Select("movies.name AS name, COUNT(bookings.id) AS count").
		Joins("JOIN movies ON movies.id = bookings.movie_id").
		Where("bookings.payment_done = ?", true).
		Group("movies.name").
		Order("count DESC, name ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank movies: %w", err)
	}
	return rows, nil
}

func (r *repository) TopTheaters(ctx context.Context, limit int) ([]NameCount, error) {
	var rows []NameCount
	err := r.db.WithContext(ctx).
		Table("bookings").
		Select("theaters.name AS name, COUNT(bookings.id) AS count").
		Joins("JOIN theaters ON theaters.id = bookings.theater_id").
		Where("bookings.payment_done = ?", true).
		Group("theaters.name").
		Order("count DESC, name ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank theaters: %w", err)
	}
	return rows, nil
}
