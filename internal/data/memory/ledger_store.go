package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/loyalty-points-ledger/internal/domain/ledger"
	"github.com/loyalty-points-ledger/internal/domain/redemption"
)

// LedgerStore is an in-memory ledger.Store used in tests and local runs.
// Updates on the same key are serialized by a per-key mutex, so concurrent
// credits against one (account, merchant) pair never lose updates while
// distinct keys proceed independently.
type LedgerStore struct {
	mu      sync.Mutex
	entries map[ledger.Key]ledger.Entry
	locks   map[ledger.Key]*sync.Mutex
	events  []*redemption.Event
}

// NewLedgerStore creates an empty in-memory ledger store
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		entries: make(map[ledger.Key]ledger.Entry),
		locks:   make(map[ledger.Key]*sync.Mutex),
	}
}

func (s *LedgerStore) keyLock(key ledger.Key) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

// AtomicUpdate executes fn against the current entry for key and persists the
// result while holding the key's lock. A failing fn leaves the entry untouched.
func (s *LedgerStore) AtomicUpdate(ctx context.Context, key ledger.Key, fn ledger.ApplyFunc) (ledger.Entry, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Entry{}, ledger.ErrStoreUnavailable{Cause: err}
	}

	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	current, ok := s.entries[key]
	s.mu.Unlock()
	if !ok {
		current = ledger.NewEntry(key)
	}

	next, event, err := fn(current)
	if err != nil {
		return ledger.Entry{}, err
	}

	s.mu.Lock()
	s.entries[key] = next
	if event != nil {
		s.events = append(s.events, event)
	}
	s.mu.Unlock()

	return next, nil
}

// Get retrieves the entry for key.
// Returns ErrEntryNotFound if the key has never been credited.
func (s *LedgerStore) Get(ctx context.Context, key ledger.Key) (ledger.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return ledger.Entry{}, ledger.ErrEntryNotFound{Key: key}
	}
	return entry, nil
}

// ListByAccount retrieves all entries for an account
func (s *LedgerStore) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]ledger.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []ledger.Entry
	for key, entry := range s.entries {
		if key.AccountID == accountID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// Events returns the redemption events recorded by AtomicUpdate, in order
func (s *LedgerStore) Events() []*redemption.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*redemption.Event, len(s.events))
	copy(out, s.events)
	return out
}
