package notifications

import (
	"context"
	"fmt"

	"bookmyseat/internal/shared/config"
	"bookmyseat/pkg/logger"
)

// Pipeline owns the configured delivery path for booking
// confirmations. Depending on configuration it publishes through
// Kafka with a consumer group draining to SMTP, sends over SMTP
// inline, or just logs.
type Pipeline struct {
	sender   Sender
	consumer Consumer
	workers  int
	log      *logger.Logger
	closers  []func() error
}

// NewPipeline builds the confirmation pipeline from application
// config.
func NewPipeline(cfg *config.Config) (*Pipeline, error) {
	log := logger.GetDefault()

	var email EmailService
	if cfg.Email.SMTPHost != "" {
		svc, err := NewSMTPEmailService(NewSMTPConfig(cfg.Email))
		if err != nil {
			return nil, fmt.Errorf("failed to create email service: %w", err)
		}
		email = svc
	}

	p := &Pipeline{
		workers: cfg.Kafka.Workers,
		log:     log,
	}

	switch {
	case cfg.Kafka.Enabled:
		if email == nil {
			return nil, fmt.Errorf("kafka pipeline requires SMTP configuration")
		}
		sender, err := NewKafkaSender(NewKafkaProducerConfig(cfg.Kafka))
		if err != nil {
			return nil, fmt.Errorf("failed to create notification producer: %w", err)
		}
		consumer, err := NewKafkaConsumer(NewConsumerConfig(cfg.Kafka), email)
		if err != nil {
			sender.Close()
			return nil, fmt.Errorf("failed to create notification consumer: %w", err)
		}
		p.sender = sender
		p.consumer = consumer
		p.closers = append(p.closers, sender.Close, consumer.Stop)

	case email != nil:
		p.sender = NewDirectSender(email)

	default:
		log.Warn("no SMTP host configured, booking confirmations will only be logged")
		p.sender = NewLogSender()
	}

	return p, nil
}

// Sender returns the configured confirmation sender.
func (p *Pipeline) Sender() Sender {
	return p.sender
}

// Start launches the consumer workers when the pipeline runs through
// Kafka. It is a no-op for direct and log delivery.
func (p *Pipeline) Start(ctx context.Context) error {
	if p.consumer == nil {
		return nil
	}
	return p.consumer.Start(ctx, p.workers)
}

// Close releases producer and consumer resources.
func (p *Pipeline) Close() error {
	var firstErr error
	for _, closeFn := range p.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
