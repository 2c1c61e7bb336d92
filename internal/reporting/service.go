package reporting

import (
	"context"

	"bookmyseat/internal/shared/config"
)

// topListLimit caps the ranked dashboard listings.
const topListLimit = 5

type Service interface {
	Dashboard(ctx context.Context) (*DashboardReport, error)
}

type service struct {
	repo Repository
	cfg  *config.Config
}

func NewService(repo Repository, cfg *config.Config) Service {
	return &service{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *service) Dashboard(ctx context.Context) (*DashboardReport, error) {
	total, err := s.repo.CountCompleted(ctx)
	if err != nil {
		return nil, err
	}

	movies, err := s.repo.TopMovies(ctx, topListLimit)
	if err != nil {
		return nil, err
	}

	theaters, err := s.repo.TopTheaters(ctx, topListLimit)
	if err != nil {
		return nil, err
	}

	return &DashboardReport{
		TotalBookings:     total,
		TotalRevenueMinor: total * s.cfg.Payment.TicketPriceMinor,
		Currency:          s.cfg.Payment.Currency,
		PopularMovies:     movies,
		BusyTheaters:      theaters,
	}, nil
}
