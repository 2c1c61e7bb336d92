package notifications

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusQueued  Status = "QUEUED"
	StatusSent    Status = "SENT"
	StatusFailed  Status = "FAILED"
)

// BookingConfirmation carries everything needed to render the
// confirmation email for one paid booking.
type BookingConfirmation struct {
	BookingID      uuid.UUID `json:"booking_id"`
	RecipientEmail string    `json:"recipient_email"`
	RecipientName  string    `json:"recipient_name"`
	MovieName      string    `json:"movie_name"`
	TheaterName    string    `json:"theater_name"`
	SeatNumber     string    `json:"seat_number"`
	ShowTime       time.Time `json:"show_time"`
	AmountMinor    int64     `json:"amount_minor"`
	Currency       string    `json:"currency"`
}

// Subject returns the confirmation email subject line.
func (c BookingConfirmation) Subject() string {
	return "Booking Confirmation - BookMySeat"
}

// AmountDisplay renders the paid amount in major units.
func (c BookingConfirmation) AmountDisplay() string {
	return fmt.Sprintf("%.2f %s", float64(c.AmountMinor)/100, strings.ToUpper(c.Currency))
}

// TextBody renders the plain-text confirmation email.
func (c BookingConfirmation) TextBody() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", c.RecipientName)
	b.WriteString("Your booking is confirmed!\n\n")
	fmt.Fprintf(&b, "Movie: %s\n", c.MovieName)
	fmt.Fprintf(&b, "Theater: %s\n", c.TheaterName)
	fmt.Fprintf(&b, "Seat: %s\n", c.SeatNumber)
	if !c.ShowTime.IsZero() {
		fmt.Fprintf(&b, "Show Time: %s\n", c.ShowTime.Format("Mon, 02 Jan 2006 15:04"))
	}
	fmt.Fprintf(&b, "Amount Paid: %s\n", c.AmountDisplay())
	b.WriteString("\nEnjoy your show!\n")
	return b.String()
}

// HTMLBody renders the HTML alternative of the confirmation email.
func (c BookingConfirmation) HTMLBody() string {
	var b strings.Builder
	b.WriteString("<html><body>")
	fmt.Fprintf(&b, "<p>Hello %s,</p>", c.RecipientName)
	b.WriteString("<p><strong>Your booking is confirmed!</strong></p><ul>")
	fmt.Fprintf(&b, "<li>Movie: %s</li>", c.MovieName)
	fmt.Fprintf(&b, "<li>Theater: %s</li>", c.TheaterName)
	fmt.Fprintf(&b, "<li>Seat: %s</li>", c.SeatNumber)
	if !c.ShowTime.IsZero() {
		fmt.Fprintf(&b, "<li>Show Time: %s</li>", c.ShowTime.Format("Mon, 02 Jan 2006 15:04"))
	}
	fmt.Fprintf(&b, "<li>Amount Paid: %s</li>", c.AmountDisplay())
	b.WriteString("</ul><p>Enjoy your show!</p></body></html>")
	return b.String()
}

// Message is the envelope published on the notification pipeline.
type Message struct {
	ID           uuid.UUID           `json:"id"`
	Confirmation BookingConfirmation `json:"confirmation"`
	Status       Status              `json:"status"`
	Attempts     int                 `json:"attempts"`
	LastError    *string             `json:"last_error,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func NewMessage(conf BookingConfirmation) *Message {
	now := time.Now()
	return &Message{
		ID:           uuid.New(),
		Confirmation: conf,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// PartitionKey routes all messages for one recipient to the same
// partition so their emails stay ordered.
func (m *Message) PartitionKey() string {
	return m.Confirmation.RecipientEmail
}

func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MessageFromJSON(data []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode notification message: %w", err)
	}
	return &m, nil
}

func (m *Message) MarkFailed(err error) {
	m.Status = StatusFailed
	errStr := err.Error()
	m.LastError = &errStr
	m.UpdatedAt = time.Now()
}
