package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/loyalty-points-ledger/internal/domain/redemption"
)

// JournalServiceImpl implements the JournalService interface
type JournalServiceImpl struct {
	redemptionRepo redemption.Repository
	logger         *slog.Logger
}

// NewJournalService creates a new journal service
func NewJournalService(logger *slog.Logger, redemptionRepo redemption.Repository) JournalService {
	return &JournalServiceImpl{
		redemptionRepo: redemptionRepo,
		logger:         logger,
	}
}

// JournalEvent records a redemption event in the journal. Recording is
// idempotent by event ID, so redelivered messages are safe to process again.
func (s *JournalServiceImpl) JournalEvent(ctx context.Context, event *redemption.Event) error {
	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}

	if err := s.redemptionRepo.Record(ctx, event); err != nil {
		logger.Error("Failed to journal redemption event",
			"event_id", event.ID.String(),
			"account_id", event.AccountID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to journal redemption event %s: %w", event.ID, err)
	}

	logger.Info("Journaled redemption event",
		"event_id", event.ID.String(),
		"account_id", event.AccountID.String(),
		"merchant_id", event.MerchantID.String(),
		"rewards_earned", event.RewardsEarned,
	)
	return nil
}
