package notifications

import (
	"context"
	"fmt"
	"time"

	"bookmyseat/internal/shared/config"
	"bookmyseat/pkg/logger"

	"github.com/IBM/sarama"
)

// KafkaProducerConfig contains configuration for the confirmation
// producer.
type KafkaProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	Timeout          time.Duration
	RequiredAcks     sarama.RequiredAcks
	Compression      sarama.CompressionCodec
	IdempotentWrites bool
}

// NewKafkaProducerConfig derives producer settings from the application
// Kafka config.
func NewKafkaProducerConfig(kafka config.KafkaConfig) *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          kafka.Brokers,
		Topic:            kafka.Topic,
		RetryMax:         3,
		Timeout:          10 * time.Second,
		RequiredAcks:     sarama.WaitForAll,
		Compression:      sarama.CompressionSnappy,
		IdempotentWrites: true,
	}
}

// KafkaSender publishes booking confirmations to Kafka. A consumer
// group delivers them over SMTP asynchronously.
type KafkaSender struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
	log      *logger.Logger
}

func NewKafkaSender(cfg *KafkaProducerConfig) (*KafkaSender, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = cfg.RequiredAcks
	saramaConfig.Producer.Compression = cfg.Compression
	saramaConfig.Producer.Retry.Max = cfg.RetryMax
	saramaConfig.Producer.Timeout = cfg.Timeout
	saramaConfig.Producer.Idempotent = cfg.IdempotentWrites
	if cfg.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}
	// Hash partitioner keeps one recipient's messages ordered.
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaSender{
		producer: producer,
		config:   cfg,
		log:      logger.GetDefault(),
	}, nil
}

func (s *KafkaSender) SendBookingConfirmation(ctx context.Context, conf BookingConfirmation) error {
	msg := NewMessage(conf)
	msg.Status = StatusQueued
	msg.UpdatedAt = time.Now()

	payload, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     s.config.Topic,
		Key:       sarama.StringEncoder(msg.PartitionKey()),
		Value:     sarama.ByteEncoder(payload),
		Headers:   s.createHeaders(msg),
		Timestamp: msg.CreatedAt,
	}

	partition, offset, err := s.producer.SendMessage(message)
	if err != nil {
		msg.MarkFailed(err)
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	s.log.InfoContext(ctx, "confirmation queued",
		"topic", s.config.Topic,
		"partition", partition,
		"offset", offset,
		"booking_id", conf.BookingID.String(),
	)
	return nil
}

func (s *KafkaSender) createHeaders(msg *Message) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("message_id"), Value: []byte(msg.ID.String())},
		{Key: []byte("booking_id"), Value: []byte(msg.Confirmation.BookingID.String())},
		{Key: []byte("recipient_email"), Value: []byte(msg.Confirmation.RecipientEmail)},
		{Key: []byte("producer"), Value: []byte("bookmyseat-notifications")},
		{Key: []byte("version"), Value: []byte("1.0")},
		{Key: []byte("created_at"), Value: []byte(msg.CreatedAt.Format(time.RFC3339))},
	}
}

// Close shuts down the underlying producer.
func (s *KafkaSender) Close() error {
	if s.producer != nil {
		if err := s.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
	}
	return nil
}
