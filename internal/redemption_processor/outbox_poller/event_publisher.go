package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/loyalty-points-ledger/internal/domain/outbox"
	"github.com/loyalty-points-ledger/internal/platform/messaging/producers"
)

// EventPublisher publishes outbox messages to the redemption topic
type EventPublisher interface {
	PublishEvent(ctx context.Context, message *outbox.Message) error
}

// EventPublisherImpl implements EventPublisher
type EventPublisherImpl struct {
	outboxRepo outbox.Repository
	producer   producers.MessagePublisher
	logger     *slog.Logger
}

// NewEventPublisher creates a new publisher
func NewEventPublisher(
	outboxRepo outbox.Repository,
	producer producers.MessagePublisher,
	logger *slog.Logger,
) EventPublisher {
	return &EventPublisherImpl{
		outboxRepo: outboxRepo,
		producer:   producer,
		logger:     logger,
	}
}

// PublishEvent publishes a redemption event to Kafka and marks the outbox row
// processed. Messages are keyed by account ID so one account's events stay in
// partition order.
func (p *EventPublisherImpl) PublishEvent(ctx context.Context, message *outbox.Message) error {
	event, err := message.GetEvent()
	if err != nil {
		p.logger.Error("Failed to unmarshal redemption event from outbox payload",
			"outbox_id", message.ID, "event_id", message.EventID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, outbox.StatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	logger := p.logger
	if event.CorrelationID != "" {
		logger = p.logger.With("correlation_id", event.CorrelationID)
	}

	if err := p.producer.Publish(ctx, event.AccountID.String(), event); err != nil {
		logger.Error("Failed to publish redemption event",
			"outbox_id", message.ID, "event_id", message.EventID, "error", err,
		)
		return fmt.Errorf("failed to publish redemption event %s: %w", message.EventID, err)
	}

	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, outbox.StatusProcessed); err != nil {
		// The consumer journals idempotently by event ID, so the duplicate
		// publish after a retry here is harmless.
		logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "event_id", message.EventID, "error", err,
		)
		return fmt.Errorf("publish for %s OK, but failed to mark outbox %d as PROCESSED: %w", message.EventID, message.ID, err)
	}

	logger.Info("Outbox message successfully published and marked as PROCESSED", "outbox_id", message.ID, "event_id", message.EventID)
	return nil
}
