package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "/api/v1", cfg.GetAPIBasePath())
	assert.Equal(t, 5*time.Minute, cfg.Booking.SeatHoldTTL)
	assert.Equal(t, "inr", cfg.Payment.Currency)
	assert.Equal(t, int64(15000), cfg.Payment.TicketPriceMinor)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SEAT_HOLD_TTL", "2m")
	t.Setenv("PAYMENT_TICKET_PRICE_MINOR", "20000")
	t.Setenv("PAYMENT_CURRENCY", "usd")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("DB_NAME", "bookings_test")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.Booking.SeatHoldTTL)
	assert.Equal(t, int64(20000), cfg.Payment.TicketPriceMinor)
	assert.Equal(t, "usd", cfg.Payment.Currency)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.Kafka.Brokers)
	assert.Contains(t, cfg.Database.DSN, "dbname=bookings_test")
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SEAT_HOLD_TTL", "not-a-duration")
	t.Setenv("PAYMENT_TICKET_PRICE_MINOR", "abc")

	cfg := Load()

	require.Equal(t, 5*time.Minute, cfg.Booking.SeatHoldTTL)
	require.Equal(t, int64(15000), cfg.Payment.TicketPriceMinor)
}

func TestGinModeHelpers(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}
