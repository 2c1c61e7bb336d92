package bookings

import (
	"context"
	"fmt"
	"strings"

	"bookmyseat/internal/catalog"
	"bookmyseat/internal/notifications"
	"bookmyseat/internal/payments"
	"bookmyseat/internal/seats"
	"bookmyseat/internal/shared/config"
	"bookmyseat/pkg/logger"

	"github.com/google/uuid"
)

// UserContacts resolves a user's email and display name. Satisfied by
// auth.UserDirectory without importing it.
type UserContacts interface {
	GetUserContact(ctx context.Context, userID uuid.UUID) (email, name string, err error)
}

// ShowingDirectory resolves a theater showing. Satisfied by the
// catalog service.
type ShowingDirectory interface {
	GetTheater(ctx context.Context, id uuid.UUID) (*catalog.Theater, error)
}

// SelectionResult is the outcome of holding seats: one booking per
// seat, plus the checkout redirect for completing payment.
type SelectionResult struct {
	Bookings    []Booking `json:"bookings"`
	CheckoutURL string    `json:"checkout_url"`
}

// Engine drives the booking lifecycle: hold seats, open checkout,
// settle the outcome.
type Engine interface {
	// SelectSeats holds every requested seat, creates one unpaid
	// booking per seat and opens checkout for the batch. All or
	// nothing: on any failure no seat stays held and no open booking
	// remains.
	SelectSeats(ctx context.Context, userID, theaterID uuid.UUID, seatIDs []uuid.UUID) (*SelectionResult, error)

	// InitiatePayment opens a fresh checkout session for an open
	// booking and returns the redirect URL.
	InitiatePayment(ctx context.Context, bookingID uuid.UUID) (string, error)

	// ConfirmPayment settles a successful gateway callback. Duplicate
	// deliveries are no-op successes; the seat is confirmed and the
	// confirmation email triggered at most once per booking.
	ConfirmPayment(ctx context.Context, bookingID uuid.UUID) error

	// ReportFailure abandons an unpaid booking and releases its seat
	// hold. Safe to call more than once; paid bookings are left alone.
	ReportFailure(ctx context.Context, bookingID uuid.UUID) error

	// Cancel is ReportFailure gated on ownership.
	Cancel(ctx context.Context, bookingID, userID uuid.UUID) error

	GetBooking(ctx context.Context, bookingID uuid.UUID) (*Booking, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID) ([]Booking, error)
}

type engine struct {
	repo     Repository
	ledger   seats.Ledger
	provider payments.Provider
	showings ShowingDirectory
	contacts UserContacts
	sender   notifications.Sender
	cfg      *config.Config
	log      *logger.Logger
}

func NewEngine(
	repo Repository,
	ledger seats.Ledger,
	provider payments.Provider,
	showings ShowingDirectory,
	contacts UserContacts,
	sender notifications.Sender,
	cfg *config.Config,
) Engine {
	return &engine{
		repo:     repo,
		ledger:   ledger,
		provider: provider,
		showings: showings,
		contacts: contacts,
		sender:   sender,
		cfg:      cfg,
		log:      logger.GetDefault(),
	}
}

func (e *engine) SelectSeats(ctx context.Context, userID, theaterID uuid.UUID, seatIDs []uuid.UUID) (*SelectionResult, error) {
	theater, err := e.showings.GetTheater(ctx, theaterID)
	if err != nil {
		return nil, err
	}

	held, err := e.ledger.TryReserve(ctx, theaterID, seatIDs)
	if err != nil {
		return nil, err
	}

	toCreate := make([]*Booking, 0, len(held))
	for _, seat := range held {
		toCreate = append(toCreate, &Booking{
			UserID:    userID,
			SeatID:    seat.ID,
			MovieID:   theater.MovieID,
			TheaterID: theaterID,
			Status:    StatusPending,
		})
	}

	if err := e.repo.CreateBatch(ctx, toCreate); err != nil {
		e.releaseSeats(ctx, held)
		return nil, err
	}

	e.log.LogSeatsReserved(ctx, userID.String(), len(held))

	bookings := make([]Booking, 0, len(toCreate))
	for _, booking := range toCreate {
		bookings = append(bookings, *booking)
	}

	// Checkout covers the batch through its last booking, matching the
	// one-seat-per-line-item flow on the gateway side.
	checkoutURL, err := e.InitiatePayment(ctx, bookings[len(bookings)-1].ID)
	if err != nil {
		e.abandonBookings(ctx, bookings)
		e.releaseSeats(ctx, held)
		return nil, err
	}

	return &SelectionResult{
		Bookings:    bookings,
		CheckoutURL: checkoutURL,
	}, nil
}

func (e *engine) InitiatePayment(ctx context.Context, bookingID uuid.UUID) (string, error) {
	booking, err := e.repo.GetByIDWithRelations(ctx, bookingID)
	if err != nil {
		return "", err
	}
	if booking.PaymentDone {
		return "", ErrBookingClosed
	}

	session, err := e.provider.CreateSession(ctx, payments.SessionRequest{
		Reference: booking.ID.String(),
		LineItems: []payments.LineItem{
			{
				Description: e.lineItemDescription(booking),
				UnitAmount:  e.cfg.Payment.TicketPriceMinor,
				Quantity:    1,
				Currency:    e.cfg.Payment.Currency,
			},
		},
		SuccessURL: e.callbackURL("/payments/success/" + booking.ID.String()),
		CancelURL:  e.callbackURL("/payments/failed?booking_id=" + booking.ID.String()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to open checkout session: %w", err)
	}

	return session.RedirectURL, nil
}

func (e *engine) ConfirmPayment(ctx context.Context, bookingID uuid.UUID) error {
	booking, err := e.repo.GetByIDWithRelations(ctx, bookingID)
	if err != nil {
		return err
	}

	changed, err := e.repo.MarkPaymentDone(ctx, bookingID)
	if err != nil {
		return err
	}
	if !changed {
		// Duplicate callback delivery, already settled.
		return nil
	}

	if err := e.ledger.Confirm(ctx, booking.SeatID); err != nil {
		return fmt.Errorf("failed to confirm seat %s: %w", booking.SeatID, err)
	}

	e.log.LogBookingConfirmed(ctx, booking.ID.String(), booking.UserID.String())
	e.notify(ctx, booking)
	return nil
}

func (e *engine) ReportFailure(ctx context.Context, bookingID uuid.UUID) error {
	booking, err := e.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	changed, err := e.repo.MarkAbandoned(ctx, bookingID)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err := e.ledger.Release(ctx, booking.SeatID); err != nil {
		return fmt.Errorf("failed to release seat %s: %w", booking.SeatID, err)
	}

	e.log.LogBookingAbandoned(ctx, booking.ID.String(), "payment failed or cancelled")
	return nil
}

func (e *engine) Cancel(ctx context.Context, bookingID, userID uuid.UUID) error {
	booking, err := e.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != userID {
		return ErrBookingNotFound
	}
	if booking.PaymentDone {
		return ErrBookingClosed
	}
	return e.ReportFailure(ctx, bookingID)
}

func (e *engine) GetBooking(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	return e.repo.GetByIDWithRelations(ctx, bookingID)
}

func (e *engine) ListUserBookings(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	return e.repo.ListByUser(ctx, userID)
}

// notify sends the confirmation email. Best effort: failures are
// logged and never surfaced to the payment callback.
func (e *engine) notify(ctx context.Context, booking *Booking) {
	if e.sender == nil {
		return
	}

	email, name, err := e.contacts.GetUserContact(ctx, booking.UserID)
	if err != nil {
		e.log.ErrorContext(ctx, "failed to resolve confirmation recipient",
			"booking_id", booking.ID.String(),
			"error", err.Error(),
		)
		return
	}

	conf := notifications.BookingConfirmation{
		BookingID:      booking.ID,
		RecipientEmail: email,
		RecipientName:  name,
		AmountMinor:    e.cfg.Payment.TicketPriceMinor,
		Currency:       e.cfg.Payment.Currency,
	}
	if booking.Movie != nil {
		conf.MovieName = booking.Movie.Name
	}
	if booking.Theater != nil {
		conf.TheaterName = booking.Theater.Name
		conf.ShowTime = booking.Theater.ShowTime
	}
	if booking.Seat != nil {
		conf.SeatNumber = booking.Seat.SeatNumber
	}

	if err := e.sender.SendBookingConfirmation(ctx, conf); err != nil {
		e.log.ErrorContext(ctx, "failed to send booking confirmation",
			"booking_id", booking.ID.String(),
			"recipient", email,
			"error", err.Error(),
		)
	}
}

func (e *engine) lineItemDescription(booking *Booking) string {
	movieName := "Movie"
	if booking.Movie != nil {
		movieName = booking.Movie.Name
	}
	seatNumber := booking.SeatID.String()
	if booking.Seat != nil {
		seatNumber = booking.Seat.SeatNumber
	}
	return fmt.Sprintf("%s - Seat %s", movieName, seatNumber)
}

func (e *engine) callbackURL(path string) string {
	base := strings.TrimRight(e.cfg.PublicBaseURL, "/")
	return base + e.cfg.GetAPIBasePath() + path
}

func (e *engine) abandonBookings(ctx context.Context, bookings []Booking) {
	for _, booking := range bookings {
		if _, err := e.repo.MarkAbandoned(ctx, booking.ID); err != nil {
			e.log.ErrorContext(ctx, "failed to abandon booking after checkout failure",
				"booking_id", booking.ID.String(),
				"error", err.Error(),
			)
		}
	}
}

func (e *engine) releaseSeats(ctx context.Context, held []seats.Seat) {
	ids := make([]uuid.UUID, 0, len(held))
	for _, seat := range held {
		ids = append(ids, seat.ID)
	}
	if err := e.ledger.Release(ctx, ids...); err != nil {
		e.log.ErrorContext(ctx, "failed to release seats after booking failure",
			"seat_count", len(ids),
			"error", err.Error(),
		)
	}
}

