package bookings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"bookmyseat/internal/catalog"
	"bookmyseat/internal/notifications"
	"bookmyseat/internal/payments"
	"bookmyseat/internal/seats"
	"bookmyseat/internal/shared/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu         sync.Mutex
	bookings   map[uuid.UUID]*Booking
	failCreate bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: make(map[uuid.UUID]*Booking)}
}

func (r *fakeRepo) CreateBatch(ctx context.Context, bookings []*Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return errors.New("insert failed")
	}
	for _, booking := range bookings {
		if booking.ID == uuid.Nil {
			booking.ID = uuid.New()
		}
		booking.BookedAt = time.Now()
		copied := *booking
		r.bookings[booking.ID] = &copied
	}
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	copied := *booking
	return &copied, nil
}

func (r *fakeRepo) GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Booking
	for _, booking := range r.bookings {
		if booking.UserID == userID {
			out = append(out, *booking)
		}
	}
	return out, nil
}

func (r *fakeRepo) MarkPaymentDone(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok || booking.PaymentDone {
		return false, nil
	}
	booking.PaymentDone = true
	booking.Status = StatusConfirmed
	return true, nil
}

// Mirrors the repository's WHERE clause: unpaid and not already
// abandoned. Keep the two in lockstep.
func (r *fakeRepo) MarkAbandoned(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok || booking.PaymentDone || booking.Status == StatusAbandoned {
		return false, nil
	}
	booking.Status = StatusAbandoned
	return true, nil
}

type fakeLedger struct {
	mu          sync.Mutex
	unavailable []uuid.UUID
	confirmed   []uuid.UUID
	released    []uuid.UUID
}

func (l *fakeLedger) ListSeats(ctx context.Context, theaterID uuid.UUID) ([]seats.SeatStatus, error) {
	return nil, nil
}

func (l *fakeLedger) TryReserve(ctx context.Context, theaterID uuid.UUID, seatIDs []uuid.UUID) ([]seats.Seat, error) {
	if len(seatIDs) == 0 {
		return nil, seats.ErrNoSeatsSelected
	}
	if len(l.unavailable) > 0 {
		return nil, &seats.UnavailableSeatsError{SeatIDs: l.unavailable}
	}
	held := make([]seats.Seat, 0, len(seatIDs))
	for i, id := range seatIDs {
		held = append(held, seats.Seat{
			ID:         id,
			TheaterID:  theaterID,
			SeatNumber: fmt.Sprintf("A%d", i+1),
			IsReserved: true,
		})
	}
	return held, nil
}

func (l *fakeLedger) Confirm(ctx context.Context, seatID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.confirmed = append(l.confirmed, seatID)
	return nil
}

func (l *fakeLedger) Release(ctx context.Context, seatIDs ...uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.released = append(l.released, seatIDs...)
	return nil
}

func (l *fakeLedger) GenerateSeats(ctx context.Context, theaterID uuid.UUID, rows, seatsPerRow int) ([]seats.Seat, error) {
	return nil, nil
}

func (l *fakeLedger) HoldTTL() time.Duration {
	return seats.DefaultHoldTTL
}

type fakeProvider struct {
	mu       sync.Mutex
	requests []payments.SessionRequest
	err      error
}

func (p *fakeProvider) CreateSession(ctx context.Context, req payments.SessionRequest) (*payments.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	p.requests = append(p.requests, req)
	return &payments.Session{
		ID:          "cs_test",
		RedirectURL: "https://checkout.example.com/checkout/cs_test",
	}, nil
}

type fakeShowings struct {
	theater *catalog.Theater
}

func (s *fakeShowings) GetTheater(ctx context.Context, id uuid.UUID) (*catalog.Theater, error) {
	if s.theater == nil || s.theater.ID != id {
		return nil, catalog.ErrTheaterNotFound
	}
	return s.theater, nil
}

type fakeContacts struct{}

func (fakeContacts) GetUserContact(ctx context.Context, userID uuid.UUID) (string, string, error) {
	return "alice@example.com", "Alice", nil
}

type recordingSender struct {
	mu   sync.Mutex
	sent []notifications.BookingConfirmation
	err  error
}

func (s *recordingSender) SendBookingConfirmation(ctx context.Context, conf notifications.BookingConfirmation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, conf)
	return nil
}

type engineFixture struct {
	engine   Engine
	repo     *fakeRepo
	ledger   *fakeLedger
	provider *fakeProvider
	sender   *recordingSender
	theater  *catalog.Theater
	userID   uuid.UUID
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	theater := &catalog.Theater{
		ID:       uuid.New(),
		Name:     "PVR Phoenix",
		MovieID:  uuid.New(),
		ShowTime: time.Now().Add(24 * time.Hour),
	}

	cfg := &config.Config{
		APIVersion:    "v1",
		APIPrefix:     "/api",
		PublicBaseURL: "http://localhost:8080",
		Payment: config.PaymentConfig{
			SecretKey:        "sk_test",
			Currency:         "inr",
			TicketPriceMinor: 15000,
			GatewayBaseURL:   "https://checkout.example.com",
		},
	}

	f := &engineFixture{
		repo:     newFakeRepo(),
		ledger:   &fakeLedger{},
		provider: &fakeProvider{},
		sender:   &recordingSender{},
		theater:  theater,
		userID:   uuid.New(),
	}
	f.engine = NewEngine(f.repo, f.ledger, f.provider, &fakeShowings{theater: theater}, fakeContacts{}, f.sender, cfg)
	return f
}

func (f *engineFixture) selectSeats(t *testing.T, n int) *SelectionResult {
	t.Helper()
	seatIDs := make([]uuid.UUID, n)
	for i := range seatIDs {
		seatIDs[i] = uuid.New()
	}
	result, err := f.engine.SelectSeats(context.Background(), f.userID, f.theater.ID, seatIDs)
	require.NoError(t, err)
	return result
}

func TestSelectSeatsCreatesBookingsAndCheckout(t *testing.T) {
	f := newEngineFixture(t)

	result := f.selectSeats(t, 3)

	require.Len(t, result.Bookings, 3)
	for _, booking := range result.Bookings {
		assert.Equal(t, f.userID, booking.UserID)
		assert.Equal(t, f.theater.MovieID, booking.MovieID)
		assert.False(t, booking.PaymentDone)
		assert.Equal(t, StatusPending, booking.Status)
	}
	assert.Equal(t, "https://checkout.example.com/checkout/cs_test", result.CheckoutURL)

	require.Len(t, f.provider.requests, 1)
	req := f.provider.requests[0]
	last := result.Bookings[len(result.Bookings)-1]
	assert.Equal(t, last.ID.String(), req.Reference)
	assert.Contains(t, req.SuccessURL, "/api/v1/payments/success/"+last.ID.String())
	assert.Contains(t, req.CancelURL, "/api/v1/payments/failed")
	require.Len(t, req.LineItems, 1)
	assert.Equal(t, int64(15000), req.LineItems[0].UnitAmount)
	assert.Equal(t, int64(1), req.LineItems[0].Quantity)
}

func TestSelectSeatsUnavailableSeats(t *testing.T) {
	f := newEngineFixture(t)
	blocked := uuid.New()
	f.ledger.unavailable = []uuid.UUID{blocked}

	_, err := f.engine.SelectSeats(context.Background(), f.userID, f.theater.ID, []uuid.UUID{blocked})

	var unavailable *seats.UnavailableSeatsError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, []uuid.UUID{blocked}, unavailable.SeatIDs)
	assert.Empty(t, f.repo.bookings)
}

func TestSelectSeatsUnknownTheater(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.engine.SelectSeats(context.Background(), f.userID, uuid.New(), []uuid.UUID{uuid.New()})

	assert.ErrorIs(t, err, catalog.ErrTheaterNotFound)
	assert.Empty(t, f.repo.bookings)
}

func TestSelectSeatsReleasesHoldsWhenInsertFails(t *testing.T) {
	f := newEngineFixture(t)
	f.repo.failCreate = true

	seatIDs := []uuid.UUID{uuid.New(), uuid.New()}
	_, err := f.engine.SelectSeats(context.Background(), f.userID, f.theater.ID, seatIDs)

	require.Error(t, err)
	assert.ElementsMatch(t, seatIDs, f.ledger.released)
	assert.Empty(t, f.repo.bookings)
}

func TestSelectSeatsCompensatesWhenCheckoutFails(t *testing.T) {
	f := newEngineFixture(t)
	f.provider.err = assert.AnError

	seatIDs := []uuid.UUID{uuid.New(), uuid.New()}
	_, err := f.engine.SelectSeats(context.Background(), f.userID, f.theater.ID, seatIDs)

	require.Error(t, err)
	assert.ElementsMatch(t, seatIDs, f.ledger.released)
	require.Len(t, f.repo.bookings, 2)
	for _, booking := range f.repo.bookings {
		assert.Equal(t, StatusAbandoned, booking.Status)
	}
}

func TestConfirmPaymentHappyPath(t *testing.T) {
	f := newEngineFixture(t)
	booking := f.selectSeats(t, 1).Bookings[0]

	require.NoError(t, f.engine.ConfirmPayment(context.Background(), booking.ID))

	stored, err := f.repo.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.True(t, stored.PaymentDone)
	assert.Equal(t, StatusConfirmed, stored.Status)
	assert.Equal(t, []uuid.UUID{booking.SeatID}, f.ledger.confirmed)

	require.Len(t, f.sender.sent, 1)
	conf := f.sender.sent[0]
	assert.Equal(t, booking.ID, conf.BookingID)
	assert.Equal(t, "alice@example.com", conf.RecipientEmail)
	assert.Equal(t, int64(15000), conf.AmountMinor)
}

func TestConfirmPaymentDuplicateDelivery(t *testing.T) {
	f := newEngineFixture(t)
	booking := f.selectSeats(t, 1).Bookings[0]

	require.NoError(t, f.engine.ConfirmPayment(context.Background(), booking.ID))
	require.NoError(t, f.engine.ConfirmPayment(context.Background(), booking.ID))

	assert.Len(t, f.ledger.confirmed, 1)
	assert.Len(t, f.sender.sent, 1)
}

func TestConfirmPaymentConcurrentCallbacks(t *testing.T) {
	f := newEngineFixture(t)
	booking := f.selectSeats(t, 1).Bookings[0]

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.engine.ConfirmPayment(context.Background(), booking.ID))
		}()
	}
	wg.Wait()

	assert.Len(t, f.ledger.confirmed, 1)
	assert.Len(t, f.sender.sent, 1)
}

func TestConfirmPaymentSwallowsNotificationFailure(t *testing.T) {
	f := newEngineFixture(t)
	f.sender.err = errors.New("smtp down")
	booking := f.selectSeats(t, 1).Bookings[0]

	require.NoError(t, f.engine.ConfirmPayment(context.Background(), booking.ID))

	stored, err := f.repo.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.True(t, stored.PaymentDone)
}

func TestConfirmPaymentUnknownBooking(t *testing.T) {
	f := newEngineFixture(t)
	err := f.engine.ConfirmPayment(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestReportFailureReleasesSeat(t *testing.T) {
	f := newEngineFixture(t)
	booking := f.selectSeats(t, 1).Bookings[0]

	require.NoError(t, f.engine.ReportFailure(context.Background(), booking.ID))

	stored, err := f.repo.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAbandoned, stored.Status)
	assert.Equal(t, []uuid.UUID{booking.SeatID}, f.ledger.released)

	// Second report is a no-op, the seat is not released twice.
	require.NoError(t, f.engine.ReportFailure(context.Background(), booking.ID))
	assert.Len(t, f.ledger.released, 1)
}

func TestReportFailureLeavesPaidBookingAlone(t *testing.T) {
	f := newEngineFixture(t)
	booking := f.selectSeats(t, 1).Bookings[0]
	require.NoError(t, f.engine.ConfirmPayment(context.Background(), booking.ID))

	require.NoError(t, f.engine.ReportFailure(context.Background(), booking.ID))

	stored, err := f.repo.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.True(t, stored.PaymentDone)
	assert.Equal(t, StatusConfirmed, stored.Status)
	assert.Empty(t, f.ledger.released)
}

func TestCancelOwnershipAndState(t *testing.T) {
	f := newEngineFixture(t)
	booking := f.selectSeats(t, 1).Bookings[0]

	err := f.engine.Cancel(context.Background(), booking.ID, uuid.New())
	assert.ErrorIs(t, err, ErrBookingNotFound)

	require.NoError(t, f.engine.Cancel(context.Background(), booking.ID, f.userID))
	stored, err := f.repo.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAbandoned, stored.Status)
}

func TestCancelPaidBooking(t *testing.T) {
	f := newEngineFixture(t)
	booking := f.selectSeats(t, 1).Bookings[0]
	require.NoError(t, f.engine.ConfirmPayment(context.Background(), booking.ID))

	err := f.engine.Cancel(context.Background(), booking.ID, f.userID)
	assert.ErrorIs(t, err, ErrBookingClosed)
}

func TestInitiatePaymentOnPaidBooking(t *testing.T) {
	f := newEngineFixture(t)
	booking := f.selectSeats(t, 1).Bookings[0]
	require.NoError(t, f.engine.ConfirmPayment(context.Background(), booking.ID))

	_, err := f.engine.InitiatePayment(context.Background(), booking.ID)
	assert.ErrorIs(t, err, ErrBookingClosed)
}

func TestListUserBookings(t *testing.T) {
	f := newEngineFixture(t)
	f.selectSeats(t, 2)

	bookings, err := f.engine.ListUserBookings(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Len(t, bookings, 2)

	other, err := f.engine.ListUserBookings(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}
