package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/loyalty-points-ledger/internal/domain/redemption"
	"github.com/loyalty-points-ledger/internal/platform/messaging/producers"
	"github.com/loyalty-points-ledger/internal/redemption_processor/service"
)

// RedemptionEventHandler handles incoming redemption event messages from Kafka
type RedemptionEventHandler struct {
	journalService service.JournalService
	producer       producers.DeadLetterPublisher
	logger         *slog.Logger
}

// NewRedemptionEventHandler creates a new handler
func NewRedemptionEventHandler(
	logger *slog.Logger,
	journalService service.JournalService,
	producer producers.DeadLetterPublisher,
) *RedemptionEventHandler {
	return &RedemptionEventHandler{
		journalService: journalService,
		producer:       producer,
		logger:         logger,
	}
}

// HandleMessage processes Kafka messages
func (h *RedemptionEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event redemption.Event
	if err := json.Unmarshal(value, &event); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal redemption event from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		// Send to DLQ if available
		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
				// Return original error if DLQ fails
			} else {
				h.logger.Info("Successfully published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				// Message handled, commit offset
				return nil
			}
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	// Add correlation ID to logger
	logger := h.logger
	if event.CorrelationID != "" {
		logger = h.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Received redemption event for journaling",
		"event_id", event.ID.String(),
		"account_id", event.AccountID.String(),
		"merchant_id", event.MerchantID.String(),
		"rewards_earned", event.RewardsEarned,
	)

	if err := h.journalService.JournalEvent(ctx, &event); err != nil {
		logger.Error("Failed to journal redemption event",
			"event_id", event.ID.String(),
			"account_id", event.AccountID.String(),
			"error", err,
		)
		return fmt.Errorf("journaling redemption event %s failed: %w", event.ID.String(), err)
	}

	logger.Info("Successfully journaled redemption event", "event_id", event.ID.String())
	return nil // Success, commit offset
}
