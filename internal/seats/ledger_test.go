package seats

import (
	"context"
	"sync"
	"testing"
	"time"

	"bookmyseat/internal/shared/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSeatRepo mirrors the conditional-update semantics of the SQL
// repository so hold contention can be exercised in memory.
type memSeatRepo struct {
	mu    sync.Mutex
	seats map[uuid.UUID]*Seat
}

func newMemSeatRepo(seats ...*Seat) *memSeatRepo {
	m := &memSeatRepo{seats: make(map[uuid.UUID]*Seat)}
	for _, s := range seats {
		m.seats[s.ID] = s
	}
	return m
}

func (m *memSeatRepo) ListByTheater(ctx context.Context, theaterID uuid.UUID) ([]Seat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Seat
	for _, s := range m.seats {
		if s.TheaterID == theaterID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memSeatRepo) Get(ctx context.Context, seatID uuid.UUID) (*Seat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.seats[seatID]
	if !ok {
		return nil, ErrSeatNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSeatRepo) Reserve(ctx context.Context, theaterID, seatID uuid.UUID, now, staleBefore time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.seats[seatID]
	if !ok || s.TheaterID != theaterID || s.IsBooked {
		return false, nil
	}
	if s.IsReserved && s.ReservedAt != nil && !s.ReservedAt.Before(staleBefore) {
		return false, nil
	}
	reservedAt := now
	s.IsReserved = true
	s.ReservedAt = &reservedAt
	return true, nil
}

func (m *memSeatRepo) Confirm(ctx context.Context, seatID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.seats[seatID]
	if !ok {
		return ErrSeatNotFound
	}
	s.IsBooked = true
	s.IsReserved = false
	s.ReservedAt = nil
	return nil
}

func (m *memSeatRepo) Release(ctx context.Context, seatID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.seats[seatID]
	if !ok || s.IsBooked {
		return false, nil
	}
	changed := s.IsReserved || s.ReservedAt != nil
	s.IsReserved = false
	s.ReservedAt = nil
	return changed, nil
}

func (m *memSeatRepo) CreateBatch(ctx context.Context, batch []Seat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range batch {
		seat := batch[i]
		if seat.ID == uuid.Nil {
			seat.ID = uuid.New()
		}
		m.seats[seat.ID] = &seat
	}
	return nil
}

func newTestLedger(repo Repository, clk clock.Clock) Ledger {
	return NewLedger(repo, WithClock(clk))
}

func TestTryReserveHoldsFreeSeats(t *testing.T) {
	theaterID := uuid.New()
	a1 := &Seat{ID: uuid.New(), TheaterID: theaterID, SeatNumber: "A1"}
	a2 := &Seat{ID: uuid.New(), TheaterID: theaterID, SeatNumber: "A2"}
	repo := newMemSeatRepo(a1, a2)
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	ledger := newTestLedger(repo, clock.NewFixed(now))

	held, err := ledger.TryReserve(context.Background(), theaterID, []uuid.UUID{a1.ID, a2.ID})
	require.NoError(t, err)
	require.Len(t, held, 2)

	for _, seat := range held {
		assert.True(t, seat.IsReserved)
		require.NotNil(t, seat.ReservedAt)
		assert.Equal(t, now, *seat.ReservedAt)
		assert.False(t, seat.IsBooked)
	}
}

func TestTryReserveRejectsHeldSeat(t *testing.T) {
	theaterID := uuid.New()
	a1 := &Seat{ID: uuid.New(), TheaterID: theaterID, SeatNumber: "A1"}
	repo := newMemSeatRepo(a1)
	clk := clock.NewFixed(time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC))
	ledger := newTestLedger(repo, clk)

	_, err := ledger.TryReserve(context.Background(), theaterID, []uuid.UUID{a1.ID})
	require.NoError(t, err)

	_, err = ledger.TryReserve(context.Background(), theaterID, []uuid.UUID{a1.ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSeatUnavailable)

	var unavailable *UnavailableSeatsError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, []uuid.UUID{a1.ID}, unavailable.SeatIDs)
}

func TestTryReservePartialFailureReleasesBatch(t *testing.T) {
	theaterID := uuid.New()
	a1 := &Seat{ID: uuid.New(), TheaterID: theaterID, SeatNumber: "A1"}
	a2 := &Seat{ID: uuid.New(), TheaterID: theaterID, SeatNumber: "A2"}
	repo := newMemSeatRepo(a1, a2)
	clk := clock.NewFixed(time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC))
	ledger := newTestLedger(repo, clk)

	// Another attempt already holds A2.
	_, err := ledger.TryReserve(context.Background(), theaterID, []uuid.UUID{a2.ID})
	require.NoError(t, err)

	_, err = ledger.TryReserve(context.Background(), theaterID, []uuid.UUID{a1.ID, a2.ID})
	require.Error(t, err)

	var unavailable *UnavailableSeatsError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, []uuid.UUID{a2.ID}, unavailable.SeatIDs)

	// A1 must not stay held after the failed batch.
	seat, err := repo.Get(context.Background(), a1.ID)
	require.NoError(t, err)
	assert.False(t, seat.IsReserved)
	assert.Nil(t, seat.ReservedAt)
}

func TestHoldExpiryBoundary(t *testing.T) {
	theaterID := uuid.New()
	a1 := &Seat{ID: uuid.New(), TheaterID: theaterID, SeatNumber: "A1"}
	repo := newMemSeatRepo(a1)
	start := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	clk := clock.NewFixed(start)
	ledger := newTestLedger(repo, clk)

	_, err := ledger.TryReserve(context.Background(), theaterID, []uuid.UUID{a1.ID})
	require.NoError(t, err)

	// Just inside the hold window the seat stays unavailable.
	clk.Set(start.Add(DefaultHoldTTL - time.Second))
	_, err = ledger.TryReserve(context.Background(), theaterID, []uuid.UUID{a1.ID})
	assert.ErrorIs(t, err, ErrSeatUnavailable)

	// Just past expiry a different attempt claims the seat.
	clk.Set(start.Add(DefaultHoldTTL + time.Second))
	held, err := ledger.TryReserve(context.Background(), theaterID, []uuid.UUID{a1.ID})
	require.NoError(t, err)
	require.Len(t, held, 1)
	require.NotNil(t, held[0].ReservedAt)
	assert.Equal(t, start.Add(DefaultHoldTTL+time.Second), *held[0].ReservedAt)
}

func TestConcurrentReserveSingleWinner(t *testing.T) {
	theaterID := uuid.New()
	a1 := &Seat{ID: uuid.New(), TheaterID: theaterID, SeatNumber: "A1"}
	repo := newMemSeatRepo(a1)
	ledger := newTestLedger(repo, clock.NewFixed(time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)))

	const attempts = 32
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.TryReserve(context.Background(), theaterID, []uuid.UUID{a1.ID})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrSeatUnavailable)
		}
	}
	assert.Equal(t, 1, wins)
}

func TestReleaseFreesHeldSeatEarly(t *testing.T) {
	theaterID := uuid.New()
	a1 := &Seat{ID: uuid.New(), TheaterID: theaterID, SeatNumber: "A1"}
	repo := newMemSeatRepo(a1)
	clk := clock.NewFixed(time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC))
	ledger := newTestLedger(repo, clk)

	_, err := ledger.TryReserve(context.Background(), theaterID, []uuid.UUID{a1.ID})
	require.NoError(t, err)

	require.NoError(t, ledger.Release(context.Background(), a1.ID))

	// No TTL wait needed after an explicit release.
	held, err := ledger.TryReserve(context.Background(), theaterID, []uuid.UUID{a1.ID})
	require.NoError(t, err)
	assert.Len(t, held, 1)
}

func TestReleaseNeverClearsBookedSeat(t *testing.T) {
	theaterID := uuid.New()
	a1 := &Seat{ID: uuid.New(), TheaterID: theaterID, SeatNumber: "A1"}
	repo := newMemSeatRepo(a1)
	ledger := newTestLedger(repo, clock.NewFixed(time.Now()))

	require.NoError(t, ledger.Confirm(context.Background(), a1.ID))
	require.NoError(t, ledger.Release(context.Background(), a1.ID))

	seat, err := repo.Get(context.Background(), a1.ID)
	require.NoError(t, err)
	assert.True(t, seat.IsBooked)
}

func TestConfirmIsIdempotent(t *testing.T) {
	theaterID := uuid.New()
	a1 := &Seat{ID: uuid.New(), TheaterID: theaterID, SeatNumber: "A1"}
	repo := newMemSeatRepo(a1)
	ledger := newTestLedger(repo, clock.NewFixed(time.Now()))

	require.NoError(t, ledger.Confirm(context.Background(), a1.ID))
	require.NoError(t, ledger.Confirm(context.Background(), a1.ID))

	seat, err := repo.Get(context.Background(), a1.ID)
	require.NoError(t, err)
	assert.True(t, seat.IsBooked)
	assert.False(t, seat.IsReserved)
}

func TestTryReserveDeduplicatesAndValidates(t *testing.T) {
	theaterID := uuid.New()
	a1 := &Seat{ID: uuid.New(), TheaterID: theaterID, SeatNumber: "A1"}
	repo := newMemSeatRepo(a1)
	ledger := newTestLedger(repo, clock.NewFixed(time.Now()))

	_, err := ledger.TryReserve(context.Background(), theaterID, nil)
	assert.ErrorIs(t, err, ErrNoSeatsSelected)

	held, err := ledger.TryReserve(context.Background(), theaterID, []uuid.UUID{a1.ID, a1.ID})
	require.NoError(t, err)
	assert.Len(t, held, 1)
}

func TestTryReserveUnknownSeatReportedUnavailable(t *testing.T) {
	theaterID := uuid.New()
	repo := newMemSeatRepo()
	ledger := newTestLedger(repo, clock.NewFixed(time.Now()))

	missing := uuid.New()
	_, err := ledger.TryReserve(context.Background(), theaterID, []uuid.UUID{missing})
	var unavailable *UnavailableSeatsError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, []uuid.UUID{missing}, unavailable.SeatIDs)
}

func TestGenerateSeatsGrid(t *testing.T) {
	theaterID := uuid.New()
	repo := newMemSeatRepo()
	ledger := newTestLedger(repo, clock.NewFixed(time.Now()))

	seats, err := ledger.GenerateSeats(context.Background(), theaterID, 2, 3)
	require.NoError(t, err)
	require.Len(t, seats, 6)
	assert.Equal(t, "A1", seats[0].SeatNumber)
	assert.Equal(t, "B3", seats[5].SeatNumber)

	_, err = ledger.GenerateSeats(context.Background(), theaterID, 0, 3)
	assert.Error(t, err)
	_, err = ledger.GenerateSeats(context.Background(), theaterID, 27, 3)
	assert.Error(t, err)
}

func TestWithHoldTTLOption(t *testing.T) {
	theaterID := uuid.New()
	a1 := &Seat{ID: uuid.New(), TheaterID: theaterID, SeatNumber: "A1"}
	repo := newMemSeatRepo(a1)
	start := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	clk := clock.NewFixed(start)
	ledger := NewLedger(repo, WithClock(clk), WithHoldTTL(time.Minute))

	assert.Equal(t, time.Minute, ledger.HoldTTL())

	_, err := ledger.TryReserve(context.Background(), theaterID, []uuid.UUID{a1.ID})
	require.NoError(t, err)

	clk.Advance(time.Minute + time.Second)
	_, err = ledger.TryReserve(context.Background(), theaterID, []uuid.UUID{a1.ID})
	assert.NoError(t, err)
}
