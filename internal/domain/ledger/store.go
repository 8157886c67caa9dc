package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/loyalty-points-ledger/internal/domain/redemption"
)

// ApplyFunc transforms the current entry for a key into its next state.
// It receives the stored entry, or the zero-balance default when the key has
// never been credited, and returns the entry to persist plus an optional
// redemption event to record atomically with it. It must be side-effect free:
// a store is allowed to call it more than once when retrying a conflict, but
// only one invocation's result is ever committed.
type ApplyFunc func(current Entry) (Entry, *redemption.Event, error)

// Store is the durable keyed storage for ledger entries. Implementations
// must serialize conflicting AtomicUpdate calls on the same key (no lost
// updates, no rejections) while letting distinct keys proceed independently.
type Store interface {
	// AtomicUpdate executes fn against the current entry for key and
	// persists the result in one atomic step with the read. Any returned
	// redemption event is recorded in the same step.
	AtomicUpdate(ctx context.Context, key Key, fn ApplyFunc) (Entry, error)

	// Get retrieves the entry for key.
	// Returns ErrEntryNotFound if the key has never been credited.
	Get(ctx context.Context, key Key) (Entry, error)

	// ListByAccount retrieves all entries for an account, one per merchant
	// the account has earned points with.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]Entry, error)
}

// ErrEntryNotFound indicates the key has no ledger entry yet
type ErrEntryNotFound struct {
	Key Key
}

func (e ErrEntryNotFound) Error() string {
	return "ledger entry not found: account " + e.Key.AccountID.String() + " merchant " + e.Key.MerchantID.String()
}

// Is implements the errors.Is interface for ErrEntryNotFound
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	if t.Key == (Key{}) {
		return true
	}
	return e.Key == t.Key
}

// ErrStoreUnavailable indicates a transient persistence failure. The update
// is all-or-nothing, so callers may safely retry with backoff.
type ErrStoreUnavailable struct {
	Cause error
}

func (e ErrStoreUnavailable) Error() string {
	if e.Cause == nil {
		return "ledger store unavailable"
	}
	return "ledger store unavailable: " + e.Cause.Error()
}

func (e ErrStoreUnavailable) Unwrap() error {
	return e.Cause
}

// Is implements the errors.Is interface for ErrStoreUnavailable
func (e ErrStoreUnavailable) Is(target error) bool {
	_, ok := target.(ErrStoreUnavailable)
	return ok
}
