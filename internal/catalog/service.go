package catalog

import (
	"context"
	"fmt"

	"bookmyseat/internal/shared/config"
	"bookmyseat/internal/shared/constants"
	"bookmyseat/pkg/cache"
	"bookmyseat/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	ListGenres(ctx context.Context) ([]Genre, error)
	ListLanguages(ctx context.Context) ([]Language, error)
	ListMovies(ctx context.Context, filter MovieFilter) ([]Movie, error)
	GetMovie(ctx context.Context, id uuid.UUID) (*Movie, error)
	ListTheatersByMovie(ctx context.Context, movieID uuid.UUID) ([]Theater, error)
	GetTheater(ctx context.Context, id uuid.UUID) (*Theater, error)

	CreateGenre(ctx context.Context, name string) (*Genre, error)
	CreateLanguage(ctx context.Context, name string) (*Language, error)
	CreateMovie(ctx context.Context, movie *Movie) error
	UpdateMovie(ctx context.Context, movie *Movie) error
	DeleteMovie(ctx context.Context, id uuid.UUID) error
	CreateTheater(ctx context.Context, theater *Theater) error
}

type service struct {
	repo   Repository
	cache  cache.Service
	config *config.Config
	log    *logger.Logger
}

// NewService creates the catalog service. cacheService may be nil, reads
// then always go to the database.
func NewService(repo Repository, cacheService cache.Service, cfg *config.Config) Service {
	return &service{
		repo:   repo,
		cache:  cacheService,
		config: cfg,
		log:    logger.GetDefault(),
	}
}

func (s *service) ListGenres(ctx context.Context) ([]Genre, error) {
	var genres []Genre
	if s.cache != nil {
		err := s.cache.GetOrSet(ctx, constants.CacheKeyGenres, s.config.Redis.CatalogTTL, func() (interface{}, error) {
			return s.repo.ListGenres(ctx)
		}, &genres)
		if err == nil {
			return genres, nil
		}
		s.log.WarnContext(ctx, "genre cache read failed, falling back to database", "error", err)
	}
	return s.repo.ListGenres(ctx)
}

func (s *service) ListLanguages(ctx context.Context) ([]Language, error) {
	var languages []Language
	if s.cache != nil {
		err := s.cache.GetOrSet(ctx, constants.CacheKeyLanguages, s.config.Redis.CatalogTTL, func() (interface{}, error) {
			return s.repo.ListLanguages(ctx)
		}, &languages)
		if err == nil {
			return languages, nil
		}
		s.log.WarnContext(ctx, "language cache read failed, falling back to database", "error", err)
	}
	return s.repo.ListLanguages(ctx)
}

// ListMovies caches only the unfiltered listing. Filtered queries are
// cheap and too varied to be worth cache slots.
func (s *service) ListMovies(ctx context.Context, filter MovieFilter) ([]Movie, error) {
	if s.cache != nil && filter.IsEmpty() {
		var movies []Movie
		err := s.cache.GetOrSet(ctx, constants.CacheKeyMoviesAll, s.config.Redis.CatalogTTL, func() (interface{}, error) {
			return s.repo.ListMovies(ctx, MovieFilter{})
		}, &movies)
		if err == nil {
			return movies, nil
		}
		s.log.WarnContext(ctx, "movie cache read failed, falling back to database", "error", err)
	}
	return s.repo.ListMovies(ctx, filter)
}

func (s *service) GetMovie(ctx context.Context, id uuid.UUID) (*Movie, error) {
	return s.repo.GetMovie(ctx, id)
}

func (s *service) ListTheatersByMovie(ctx context.Context, movieID uuid.UUID) ([]Theater, error) {
	if _, err := s.repo.GetMovie(ctx, movieID); err != nil {
		return nil, err
	}
	return s.repo.ListTheatersByMovie(ctx, movieID)
}

func (s *service) GetTheater(ctx context.Context, id uuid.UUID) (*Theater, error) {
	return s.repo.GetTheater(ctx, id)
}

func (s *service) CreateGenre(ctx context.Context, name string) (*Genre, error) {
	genre := &Genre{Name: name}
	if err := s.repo.CreateGenre(ctx, genre); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return genre, nil
}

func (s *service) CreateLanguage(ctx context.Context, name string) (*Language, error) {
	language := &Language{Name: name}
	if err := s.repo.CreateLanguage(ctx, language); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return language, nil
}

func (s *service) CreateMovie(ctx context.Context, movie *Movie) error {
	if err := s.repo.CreateMovie(ctx, movie); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) UpdateMovie(ctx context.Context, movie *Movie) error {
	if err := s.repo.UpdateMovie(ctx, movie); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) DeleteMovie(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteMovie(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) CreateTheater(ctx context.Context, theater *Theater) error {
	if _, err := s.repo.GetMovie(ctx, theater.MovieID); err != nil {
		return fmt.Errorf("theater references unknown movie: %w", err)
	}
	if err := s.repo.CreateTheater(ctx, theater); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// invalidate drops all catalog cache entries after a write. Failures are
// logged only, the next read repopulates from the database.
func (s *service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, constants.CacheKeyCatalogAll); err != nil {
		s.log.WarnContext(ctx, "catalog cache invalidation failed", "error", err)
	}
}
