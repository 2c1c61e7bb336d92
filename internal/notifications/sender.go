package notifications

import (
	"context"

	"bookmyseat/pkg/logger"
)

// Sender delivers booking confirmations. Callers treat delivery as
// best-effort: a Sender error must never fail the payment confirmation
// that triggered it.
type Sender interface {
	SendBookingConfirmation(ctx context.Context, conf BookingConfirmation) error
}

// DirectSender delivers confirmations synchronously over SMTP, used
// when no Kafka brokers are configured.
type DirectSender struct {
	email EmailService
}

func NewDirectSender(email EmailService) *DirectSender {
	return &DirectSender{email: email}
}

func (s *DirectSender) SendBookingConfirmation(ctx context.Context, conf BookingConfirmation) error {
	return s.email.SendConfirmation(ctx, conf)
}

// LogSender records confirmations in the log only. It backs local
// development where neither Kafka nor SMTP is available.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender() *LogSender {
	return &LogSender{log: logger.GetDefault()}
}

func (s *LogSender) SendBookingConfirmation(ctx context.Context, conf BookingConfirmation) error {
	s.log.InfoContext(ctx, "booking confirmation (log only)",
		"booking_id", conf.BookingID.String(),
		"recipient", conf.RecipientEmail,
		"movie", conf.MovieName,
		"seat", conf.SeatNumber,
	)
	return nil
}
