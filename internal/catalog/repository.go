package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrMovieNotFound   = errors.New("movie not found")
	ErrTheaterNotFound = errors.New("theater not found")
)

type Repository interface {
	ListGenres(ctx context.Context) ([]Genre, error)
	ListLanguages(ctx context.Context) ([]Language, error)
	ListMovies(ctx context.Context, filter MovieFilter) ([]Movie, error)
	GetMovie(ctx context.Context, id uuid.UUID) (*Movie, error)
	ListTheatersByMovie(ctx context.Context, movieID uuid.UUID) ([]Theater, error)
	GetTheater(ctx context.Context, id uuid.UUID) (*Theater, error)

	CreateGenre(ctx context.Context, genre *Genre) error
	CreateLanguage(ctx context.Context, language *Language) error
	CreateMovie(ctx context.Context, movie *Movie) error
	UpdateMovie(ctx context.Context, movie *Movie) error
	DeleteMovie(ctx context.Context, id uuid.UUID) error
	CreateTheater(ctx context.Context, theater *Theater) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListGenres(ctx context.Context) ([]Genre, error) {
	var genres []Genre
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, nil
}

func (r *repository) ListLanguages(ctx context.Context) ([]Language, error) {
	var languages []Language
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&languages).Error; err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	return languages, nil
}

func (r *repository) ListMovies(ctx context.Context, filter MovieFilter) ([]Movie, error) {
	var movies []Movie

	query := r.db.WithContext(ctx).
		Preload("Genre").
		Preload("Language")
	query = applyMovieFilter(query, filter)

	if err := query.Order("name ASC").Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, nil
}

// applyMovieFilter adds one predicate per set field.
func applyMovieFilter(query *gorm.DB, filter MovieFilter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	if filter.GenreID != nil {
		query = query.Where("genre_id = ?", *filter.GenreID)
	}
	if filter.LanguageID != nil {
		query = query.Where("language_id = ?", *filter.LanguageID)
	}
	return query
}

func (r *repository) GetMovie(ctx context.Context, id uuid.UUID) (*Movie, error) {
	var movie Movie
	err := r.db.WithContext(ctx).
		Preload("Genre").
		Preload("Language").
		Where("id = ?", id).
		First(&movie).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}
	return &movie, nil
}

func (r *repository) ListTheatersByMovie(ctx context.Context, movieID uuid.UUID) ([]Theater, error) {
	var theaters []Theater
	err := r.db.WithContext(ctx).
		Where("movie_id = ?", movieID).
		Order("show_time ASC").
		Find(&theaters).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list theaters: %w", err)
	}
	return theaters, nil
}

func (r *repository) GetTheater(ctx context.Context, id uuid.UUID) (*Theater, error) {
	var theater Theater
	err := r.db.WithContext(ctx).
		Preload("Movie").
		Where("id = ?", id).
		First(&theater).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTheaterNotFound
		}
		return nil, fmt.Errorf("failed to get theater: %w", err)
	}
	return &theater, nil
}

func (r *repository) CreateGenre(ctx context.Context, genre *Genre) error {
	if err := r.db.WithContext(ctx).Create(genre).Error; err != nil {
		return fmt.Errorf("failed to create genre: %w", err)
	}
	return nil
}

func (r *repository) CreateLanguage(ctx context.Context, language *Language) error {
	if err := r.db.WithContext(ctx).Create(language).Error; err != nil {
		return fmt.Errorf("failed to create language: %w", err)
	}
	return nil
}

func (r *repository) CreateMovie(ctx context.Context, movie *Movie) error {
	if err := r.db.WithContext(ctx).Create(movie).Error; err != nil {
		return fmt.Errorf("failed to create movie: %w", err)
	}
	return nil
}

func (r *repository) UpdateMovie(ctx context.Context, movie *Movie) error {
	result := r.db.WithContext(ctx).Model(&Movie{}).
		Where("id = ?", movie.ID).
		Updates(map[string]interface{}{
			"name":        movie.Name,
			"image_url":   movie.ImageURL,
			"rating":      movie.Rating,
			"genre_id":    movie.GenreID,
			"language_id": movie.LanguageID,
			"cast":        movie.Cast,
			"description": movie.Description,
			"trailer_url": movie.TrailerURL,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update movie: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMovieNotFound
	}
	return nil
}

func (r *repository) DeleteMovie(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Movie{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete movie: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMovieNotFound
	}
	return nil
}

func (r *repository) CreateTheater(ctx context.Context, theater *Theater) error {
	if err := r.db.WithContext(ctx).Create(theater).Error; err != nil {
		return fmt.Errorf("failed to create theater: %w", err)
	}
	return nil
}
