package notifications

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConfirmation() BookingConfirmation {
	return BookingConfirmation{
		BookingID:      uuid.New(),
		RecipientEmail: "alice@example.com",
		RecipientName:  "Alice",
		MovieName:      "Inception",
		TheaterName:    "PVR Phoenix",
		SeatNumber:     "A5",
		ShowTime:       time.Date(2025, 6, 15, 19, 30, 0, 0, time.UTC),
		AmountMinor:    15000,
		Currency:       "inr",
	}
}

func TestAmountDisplay(t *testing.T) {
	conf := sampleConfirmation()
	assert.Equal(t, "150.00 INR", conf.AmountDisplay())

	conf.AmountMinor = 9950
	conf.Currency = "usd"
	assert.Equal(t, "99.50 USD", conf.AmountDisplay())
}

func TestTextBodyContents(t *testing.T) {
	conf := sampleConfirmation()
	body := conf.TextBody()

	assert.Contains(t, body, "Hello Alice,")
	assert.Contains(t, body, "Your booking is confirmed!")
	assert.Contains(t, body, "Movie: Inception")
	assert.Contains(t, body, "Theater: PVR Phoenix")
	assert.Contains(t, body, "Seat: A5")
	assert.Contains(t, body, "Amount Paid: 150.00 INR")
	assert.Contains(t, body, "Enjoy your show!")
}

func TestTextBodyOmitsZeroShowTime(t *testing.T) {
	conf := sampleConfirmation()
	conf.ShowTime = time.Time{}
	assert.NotContains(t, conf.TextBody(), "Show Time:")
}

func TestHTMLBodyContents(t *testing.T) {
	conf := sampleConfirmation()
	body := conf.HTMLBody()

	assert.True(t, strings.HasPrefix(body, "<html>"))
	assert.Contains(t, body, "<li>Movie: Inception</li>")
	assert.Contains(t, body, "<li>Seat: A5</li>")
}

func TestMessageRoundTrip(t *testing.T) {
	conf := sampleConfirmation()
	msg := NewMessage(conf)

	assert.Equal(t, StatusPending, msg.Status)
	assert.Equal(t, conf.RecipientEmail, msg.PartitionKey())

	data, err := msg.ToJSON()
	require.NoError(t, err)

	decoded, err := MessageFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, msg.ID, decoded.ID)
	assert.Equal(t, conf.BookingID, decoded.Confirmation.BookingID)
	assert.Equal(t, conf.SeatNumber, decoded.Confirmation.SeatNumber)
}

func TestMessageFromJSONRejectsGarbage(t *testing.T) {
	_, err := MessageFromJSON([]byte("{not json"))
	assert.Error(t, err)
}

func TestMarkFailed(t *testing.T) {
	msg := NewMessage(sampleConfirmation())
	msg.MarkFailed(assert.AnError)

	assert.Equal(t, StatusFailed, msg.Status)
	require.NotNil(t, msg.LastError)
	assert.Equal(t, assert.AnError.Error(), *msg.LastError)
}

func TestDirectSenderForwardsToEmailService(t *testing.T) {
	mock := NewMockEmailService()
	sender := NewDirectSender(mock)

	conf := sampleConfirmation()
	require.NoError(t, sender.SendBookingConfirmation(context.Background(), conf))

	require.Len(t, mock.Sent, 1)
	assert.Equal(t, conf.BookingID, mock.Sent[0].BookingID)
}

func TestLogSenderNeverFails(t *testing.T) {
	sender := NewLogSender()
	assert.NoError(t, sender.SendBookingConfirmation(context.Background(), sampleConfirmation()))
}
