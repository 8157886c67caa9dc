package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/loyalty-points-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

type RedemptionEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// Creates a new redemption event producer and ensures the topic exists.
// Writes are synchronous: the outbox poller marks a message processed only
// after the broker has acknowledged it.
func NewRedemptionEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*RedemptionEventProducer, error) {
	if cfg.RedemptionTopic == "" {
		return nil, fmt.Errorf("kafka redemption topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for redemption producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.RedemptionTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure redemption topic %s exists for redemption producer: %w", cfg.RedemptionTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.RedemptionTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &RedemptionEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.RedemptionTopic,
	}, nil
}

func (p *RedemptionEventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message value for redemption producer: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish message via redemption producer",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish message to %s via redemption producer: %w", p.topic, err)
	}

	p.logger.Debug("Published message via redemption producer",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *RedemptionEventProducer) Close() error {
	p.logger.Info("Closing redemption Kafka message producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close redemption kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
