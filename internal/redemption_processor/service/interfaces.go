package service

import (
	"context"

	"github.com/loyalty-points-ledger/internal/domain/redemption"
)

// JournalService defines the interface for materializing redemption events
// into the per-account journal.
type JournalService interface {
	JournalEvent(ctx context.Context, event *redemption.Event) error
}
