package redemption

import (
	"context"

	"github.com/google/uuid"
)

// Repository manages the redemption journal with pagination support. The
// journal is the queryable audit history of earned rewards; the balances
// themselves live in the ledger store.
type Repository interface {
	// Record journals an event. Recording the same event ID twice must be
	// a no-op so the consumer can safely reprocess deliveries.
	Record(ctx context.Context, event *Event) error

	GetByID(ctx context.Context, eventID uuid.UUID) (*Event, error)
	GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Event, error)
	CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error)
}

// ErrEventNotFound indicates missing journal entry
type ErrEventNotFound struct {
	EventID uuid.UUID
}

func (e ErrEventNotFound) Error() string {
	return "redemption event not found: " + e.EventID.String()
}

// Is implements the errors.Is interface for ErrEventNotFound
func (e ErrEventNotFound) Is(target error) bool {
	t, ok := target.(ErrEventNotFound)
	if !ok {
		return false
	}
	if t.EventID == uuid.Nil {
		return true
	}
	return e.EventID == t.EventID
}
