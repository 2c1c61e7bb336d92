package seats

import (
	"context"
	"fmt"
	"time"

	"bookmyseat/internal/shared/clock"
	"bookmyseat/internal/shared/constants"
	"bookmyseat/pkg/cache"
	"bookmyseat/pkg/logger"

	"github.com/google/uuid"
)

// DefaultHoldTTL is how long a hold blocks other reservation attempts.
const DefaultHoldTTL = 5 * time.Minute

// Ledger owns seat state for every theater showing. It guarantees at
// most one live hold per seat at a time; hold expiry is evaluated
// lazily inside each reservation attempt, there is no background sweep.
type Ledger interface {
	ListSeats(ctx context.Context, theaterID uuid.UUID) ([]SeatStatus, error)

	// TryReserve holds every requested seat or none of them. On partial
	// failure the already-placed holds are released and an
	// *UnavailableSeatsError names every seat that could not be held.
	TryReserve(ctx context.Context, theaterID uuid.UUID, seatIDs []uuid.UUID) ([]Seat, error)

	// Confirm makes a seat permanently booked. Idempotent.
	Confirm(ctx context.Context, seatID uuid.UUID) error

	// Release clears holds early, before expiry. Booked seats are never
	// touched.
	Release(ctx context.Context, seatIDs ...uuid.UUID) error

	// GenerateSeats lays out the fixed seat grid for a new showing.
	GenerateSeats(ctx context.Context, theaterID uuid.UUID, rows, seatsPerRow int) ([]Seat, error)

	HoldTTL() time.Duration
}

type ledger struct {
	repo   Repository
	clk    clock.Clock
	ttl    time.Duration
	cache  cache.Service
	mapTTL time.Duration
	log    *logger.Logger
}

// Option configures a Ledger.
type Option func(*ledger)

// WithClock replaces the wall clock, used by tests.
func WithClock(c clock.Clock) Option {
	return func(l *ledger) { l.clk = c }
}

// WithHoldTTL overrides the default hold duration.
func WithHoldTTL(ttl time.Duration) Option {
	return func(l *ledger) { l.ttl = ttl }
}

// WithSeatMapCache caches ListSeats responses for mapTTL.
func WithSeatMapCache(c cache.Service, mapTTL time.Duration) Option {
	return func(l *ledger) {
		l.cache = c
		l.mapTTL = mapTTL
	}
}

func NewLedger(repo Repository, opts ...Option) Ledger {
	l := &ledger{
		repo: repo,
		clk:  clock.System(),
		ttl:  DefaultHoldTTL,
		log:  logger.GetDefault(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *ledger) HoldTTL() time.Duration {
	return l.ttl
}

func seatMapKey(theaterID uuid.UUID) string {
	return constants.BuildSeatMapKey(theaterID)
}

func (l *ledger) ListSeats(ctx context.Context, theaterID uuid.UUID) ([]SeatStatus, error) {
	if l.cache != nil {
		var cached []SeatStatus
		err := l.cache.GetOrSet(ctx, seatMapKey(theaterID), l.mapTTL, func() (interface{}, error) {
			return l.buildSeatMap(ctx, theaterID)
		}, &cached)
		if err == nil {
			return cached, nil
		}
		l.log.WarnContext(ctx, "seat map cache read failed, falling back to database", "error", err)
	}
	return l.buildSeatMap(ctx, theaterID)
}

func (l *ledger) buildSeatMap(ctx context.Context, theaterID uuid.UUID) ([]SeatStatus, error) {
	list, err := l.repo.ListByTheater(ctx, theaterID)
	if err != nil {
		return nil, err
	}

	now := l.clk.Now()
	statuses := make([]SeatStatus, 0, len(list))
	for _, seat := range list {
		statuses = append(statuses, SeatStatus{
			ID:         seat.ID,
			SeatNumber: seat.SeatNumber,
			IsBooked:   seat.IsBooked,
			Available:  seat.Available(now, l.ttl),
		})
	}
	return statuses, nil
}

func (l *ledger) TryReserve(ctx context.Context, theaterID uuid.UUID, seatIDs []uuid.UUID) ([]Seat, error) {
	seatIDs = dedupe(seatIDs)
	if len(seatIDs) == 0 {
		return nil, ErrNoSeatsSelected
	}

	now := l.clk.Now()
	staleBefore := now.Add(-l.ttl)

	var held []uuid.UUID
	var unavailable []uuid.UUID
	for _, seatID := range seatIDs {
		ok, err := l.repo.Reserve(ctx, theaterID, seatID, now, staleBefore)
		if err != nil {
			l.releaseHeld(ctx, held)
			return nil, err
		}
		if ok {
			held = append(held, seatID)
		} else {
			unavailable = append(unavailable, seatID)
		}
	}

	// All-or-nothing: a single contested seat fails the whole batch and
	// the holds already placed are compensated away.
	if len(unavailable) > 0 {
		l.releaseHeld(ctx, held)
		l.invalidateSeatMap(ctx, theaterID)
		return nil, &UnavailableSeatsError{SeatIDs: unavailable}
	}

	seats := make([]Seat, 0, len(held))
	for _, seatID := range held {
		seat, err := l.repo.Get(ctx, seatID)
		if err != nil {
			l.releaseHeld(ctx, held)
			return nil, err
		}
		seats = append(seats, *seat)
	}

	l.invalidateSeatMap(ctx, theaterID)
	return seats, nil
}

func (l *ledger) Confirm(ctx context.Context, seatID uuid.UUID) error {
	if err := l.repo.Confirm(ctx, seatID); err != nil {
		return err
	}
	l.invalidateSeatMapBySeat(ctx, seatID)
	return nil
}

func (l *ledger) Release(ctx context.Context, seatIDs ...uuid.UUID) error {
	var firstErr error
	for _, seatID := range seatIDs {
		if _, err := l.repo.Release(ctx, seatID); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if len(seatIDs) > 0 {
		l.invalidateSeatMapBySeat(ctx, seatIDs[0])
	}
	return firstErr
}

func (l *ledger) GenerateSeats(ctx context.Context, theaterID uuid.UUID, rows, seatsPerRow int) ([]Seat, error) {
	if rows <= 0 || seatsPerRow <= 0 {
		return nil, fmt.Errorf("invalid seat grid %dx%d", rows, seatsPerRow)
	}
	if rows > 26 {
		return nil, fmt.Errorf("at most 26 rows supported, got %d", rows)
	}

	batch := make([]Seat, 0, rows*seatsPerRow)
	for row := 0; row < rows; row++ {
		rowLabel := string(rune('A' + row))
		for n := 1; n <= seatsPerRow; n++ {
			batch = append(batch, Seat{
				TheaterID:  theaterID,
				SeatNumber: fmt.Sprintf("%s%d", rowLabel, n),
			})
		}
	}

	if err := l.repo.CreateBatch(ctx, batch); err != nil {
		return nil, err
	}
	l.invalidateSeatMap(ctx, theaterID)
	return batch, nil
}

func (l *ledger) releaseHeld(ctx context.Context, held []uuid.UUID) {
	for _, seatID := range held {
		if _, err := l.repo.Release(ctx, seatID); err != nil {
			l.log.ErrorContext(ctx, "failed to release seat after batch failure",
				"seat_id", seatID.String(), "error", err)
		}
	}
}

func (l *ledger) invalidateSeatMap(ctx context.Context, theaterID uuid.UUID) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Delete(ctx, seatMapKey(theaterID)); err != nil {
		l.log.WarnContext(ctx, "seat map cache invalidation failed", "error", err)
	}
}

// invalidateSeatMapBySeat drops the seat map for the theater owning the
// seat. Lookup failures only cost cache freshness.
func (l *ledger) invalidateSeatMapBySeat(ctx context.Context, seatID uuid.UUID) {
	if l.cache == nil {
		return
	}
	seat, err := l.repo.Get(ctx, seatID)
	if err != nil {
		return
	}
	l.invalidateSeatMap(ctx, seat.TheaterID)
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
