package payments

import (
	"context"
	"strings"
	"testing"

	"bookmyseat/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPaymentConfig() config.PaymentConfig {
	return config.PaymentConfig{
		SecretKey:        "sk_test_123",
		Currency:         "inr",
		TicketPriceMinor: 15000,
		GatewayBaseURL:   "https://checkout.example.com/",
	}
}

func validRequest() SessionRequest {
	return SessionRequest{
		Reference: "b2f5e2d0-0000-0000-0000-000000000001",
		LineItems: []LineItem{
			{Description: "Interstellar - Seat A1", UnitAmount: 15000, Quantity: 1, Currency: "inr"},
		},
		SuccessURL: "http://localhost:8080/api/v1/payments/success/b2f5e2d0",
		CancelURL:  "http://localhost:8080/api/v1/payments/failed",
	}
}

func TestCreateSession(t *testing.T) {
	provider := NewHostedProvider(testPaymentConfig())

	session, err := provider.CreateSession(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(session.ID, "cs_"))
	assert.Equal(t, "https://checkout.example.com/checkout/"+session.ID, session.RedirectURL)
}

func TestCreateSessionIDsAreUnique(t *testing.T) {
	provider := NewHostedProvider(testPaymentConfig())

	first, err := provider.CreateSession(context.Background(), validRequest())
	require.NoError(t, err)
	second, err := provider.CreateSession(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateSessionValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SessionRequest)
		wantErr error
	}{
		{
			name:    "no line items",
			mutate:  func(r *SessionRequest) { r.LineItems = nil },
			wantErr: ErrEmptySession,
		},
		{
			name:    "zero amount",
			mutate:  func(r *SessionRequest) { r.LineItems[0].UnitAmount = 0 },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "zero quantity",
			mutate:  func(r *SessionRequest) { r.LineItems[0].Quantity = 0 },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "missing success URL",
			mutate:  func(r *SessionRequest) { r.SuccessURL = "" },
			wantErr: ErrMissingURLs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := NewHostedProvider(testPaymentConfig())
			req := validRequest()
			tt.mutate(&req)

			_, err := provider.CreateSession(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateSessionRequiresSecret(t *testing.T) {
	cfg := testPaymentConfig()
	cfg.SecretKey = ""
	provider := NewHostedProvider(cfg)

	_, err := provider.CreateSession(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestTotalAmount(t *testing.T) {
	req := SessionRequest{
		LineItems: []LineItem{
			{UnitAmount: 15000, Quantity: 2},
			{UnitAmount: 5000, Quantity: 1},
		},
	}
	assert.Equal(t, int64(35000), req.TotalAmount())
}
