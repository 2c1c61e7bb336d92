package payments

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"bookmyseat/internal/shared/config"
	"bookmyseat/pkg/logger"
)

// HostedProvider opens sessions against a hosted-checkout gateway. The
// gateway credentials arrive as an explicit config value at
// construction, never from process-wide state.
type HostedProvider struct {
	cfg config.PaymentConfig
	log *logger.Logger
}

func NewHostedProvider(cfg config.PaymentConfig) *HostedProvider {
	return &HostedProvider{
		cfg: cfg,
		log: logger.GetDefault(),
	}
}

func (p *HostedProvider) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	if p.cfg.SecretKey == "" {
		return nil, ErrMissingSecret
	}
	if len(req.LineItems) == 0 {
		return nil, ErrEmptySession
	}
	for _, item := range req.LineItems {
		if item.UnitAmount <= 0 || item.Quantity <= 0 {
			return nil, ErrInvalidAmount
		}
	}
	if req.SuccessURL == "" || req.CancelURL == "" {
		return nil, ErrMissingURLs
	}

	sessionID, err := newSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	p.log.InfoContext(ctx, "payment session created",
		"session_id", sessionID,
		"reference", req.Reference,
		"amount", req.TotalAmount(),
	)

	return &Session{
		ID:          sessionID,
		RedirectURL: fmt.Sprintf("%s/checkout/%s", strings.TrimRight(p.cfg.GatewayBaseURL, "/"), sessionID),
	}, nil
}

func newSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "cs_" + hex.EncodeToString(buf), nil
}
