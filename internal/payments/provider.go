// Package payments adapts the external redirect-based payment gateway.
// The booking flow only depends on the Provider contract: open a hosted
// checkout session, send the user to its URL, and learn the outcome via
// a callback that carries the booking reference.
package payments

import (
	"context"
	"errors"
)

var (
	ErrEmptySession   = errors.New("payment session has no line items")
	ErrInvalidAmount  = errors.New("payment line item amount must be positive")
	ErrMissingURLs    = errors.New("payment session requires success and cancel URLs")
	ErrMissingSecret  = errors.New("payment provider secret key is not configured")
)

// LineItem is one purchasable entry in a checkout session.
// UnitAmount is in minor currency units.
type LineItem struct {
	Description string `json:"description"`
	UnitAmount  int64  `json:"unit_amount"`
	Quantity    int64  `json:"quantity"`
	Currency    string `json:"currency"`
}

// SessionRequest describes a checkout session to open. Reference is the
// booking identifier and must survive the redirect round trip.
type SessionRequest struct {
	Reference  string
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
}

// TotalAmount returns the session total in minor units.
func (r SessionRequest) TotalAmount() int64 {
	var total int64
	for _, item := range r.LineItems {
		total += item.UnitAmount * item.Quantity
	}
	return total
}

// Session is an opened checkout session. The caller redirects the user
// to RedirectURL; the gateway later calls back on the success or cancel
// URL from the request.
type Session struct {
	ID          string `json:"id"`
	RedirectURL string `json:"redirect_url"`
}

// Provider opens payment sessions against an external gateway.
type Provider interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
}
