package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bookmyseat/internal/shared/config"
	"bookmyseat/pkg/logger"

	"github.com/IBM/sarama"
)

// Consumer drains queued booking confirmations and delivers them.
type Consumer interface {
	Start(ctx context.Context, numWorkers int) error
	Stop() error
	HealthCheck(ctx context.Context) error
}

type ConsumerConfig struct {
	Brokers           []string
	GroupID           string
	Topics            []string
	SessionTimeout    time.Duration
	HeartbeatInterval time.Duration
	MaxProcessingTime time.Duration
	OffsetOldest      bool
	MaxRetries        int
	RetryBackoff      time.Duration
}

// NewConsumerConfig derives consumer group settings from the
// application Kafka config.
func NewConsumerConfig(kafka config.KafkaConfig) *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:           kafka.Brokers,
		GroupID:           kafka.GroupID,
		Topics:            []string{kafka.Topic},
		SessionTimeout:    30 * time.Second,
		HeartbeatInterval: 3 * time.Second,
		MaxProcessingTime: time.Minute,
		OffsetOldest:      false,
		MaxRetries:        3,
		RetryBackoff:      time.Second,
	}
}

type kafkaConsumer struct {
	group  sarama.ConsumerGroup
	config *ConsumerConfig
	email  EmailService
	log    *logger.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

func NewKafkaConsumer(cfg *ConsumerConfig, email EmailService) (Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = cfg.SessionTimeout
	saramaConfig.Consumer.Group.Heartbeat.Interval = cfg.HeartbeatInterval
	saramaConfig.Consumer.MaxProcessingTime = cfg.MaxProcessingTime
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second
	if cfg.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &kafkaConsumer{
		group:  group,
		config: cfg,
		email:  email,
		log:    logger.GetDefault(),
		done:   make(chan struct{}),
	}, nil
}

func (c *kafkaConsumer) Start(ctx context.Context, numWorkers int) error {
	ctx, c.cancel = context.WithCancel(ctx)

	c.log.InfoContext(ctx, "starting notification workers",
		"workers", numWorkers,
		"topics", c.config.Topics,
	)

	go c.handleErrors()

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			c.runWorker(ctx, workerID)
		}(i)
	}

	go func() {
		wg.Wait()
		close(c.done)
	}()

	return nil
}

func (c *kafkaConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &confirmationHandler{
		workerID:   workerID,
		email:      c.email,
		log:        c.log,
		maxRetries: c.config.MaxRetries,
		backoff:    c.config.RetryBackoff,
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
			if err := c.group.Consume(ctx, c.config.Topics, handler); err != nil {
				c.log.ErrorContext(ctx, "consume failed",
					"worker", workerID,
					"error", err.Error(),
				)
				time.Sleep(time.Second)
			}
		}
	}
}

func (c *kafkaConsumer) handleErrors() {
	for err := range c.group.Errors() {
		c.log.Error("consumer group error", "error", err.Error())
	}
}

func (c *kafkaConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	if err := c.group.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	select {
	case <-c.done:
	case <-time.After(10 * time.Second):
	}
	return nil
}

func (c *kafkaConsumer) HealthCheck(ctx context.Context) error {
	if c.email == nil {
		return fmt.Errorf("email service not configured")
	}
	return nil
}

type confirmationHandler struct {
	workerID   int
	email      EmailService
	log        *logger.Logger
	maxRetries int
	backoff    time.Duration
}

func (h *confirmationHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *confirmationHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *confirmationHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}
			// Confirmations are best effort. Delivery failures are
			// logged and the offset is committed either way so a bad
			// address cannot wedge the partition.
			if err := h.deliver(session.Context(), message); err != nil {
				h.log.Error("confirmation delivery failed",
					"worker", h.workerID,
					"offset", message.Offset,
					"error", err.Error(),
				)
			}
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *confirmationHandler) deliver(ctx context.Context, message *sarama.ConsumerMessage) error {
	msg, err := MessageFromJSON(message.Value)
	if err != nil {
		return fmt.Errorf("failed to decode notification: %w", err)
	}

	if err := h.sendWithRetry(ctx, msg.Confirmation); err != nil {
		msg.MarkFailed(err)
		return err
	}

	h.log.InfoContext(ctx, "confirmation email sent",
		"worker", h.workerID,
		"booking_id", msg.Confirmation.BookingID.String(),
	)
	return nil
}

func (h *confirmationHandler) sendWithRetry(ctx context.Context, conf BookingConfirmation) error {
	var lastErr error
	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		lastErr = h.email.SendConfirmation(ctx, conf)
		if lastErr == nil {
			return nil
		}
		if attempt == h.maxRetries {
			break
		}

		delay := h.backoff * time.Duration(1<<attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
