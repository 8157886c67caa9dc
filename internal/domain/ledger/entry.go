package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidItemCount = errors.New("item count must be positive")
)

// Key identifies a ledger entry: one balance per (account, merchant) pair.
type Key struct {
	AccountID  uuid.UUID
	MerchantID uuid.UUID
}

// Entry is the per-(account, merchant) point balance record. Balance holds
// points not yet redeemed; TotalCredited is the lifetime sum and only ever
// grows, for audit. Entries are created lazily on first credit and are only
// ever mutated through Store.AtomicUpdate.
type Entry struct {
	AccountID     uuid.UUID `json:"account_id"`
	MerchantID    uuid.UUID `json:"merchant_id"`
	Balance       int64     `json:"balance"`
	TotalCredited int64     `json:"total_credited"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewEntry returns the zero-balance entry for a key, used as the
// fetch-or-create default inside atomic updates.
func NewEntry(key Key) Entry {
	now := time.Now()
	return Entry{
		AccountID:  key.AccountID,
		MerchantID: key.MerchantID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Key returns the entry's identifying key.
func (e Entry) Key() Key {
	return Key{AccountID: e.AccountID, MerchantID: e.MerchantID}
}

// Credit adds itemCount points to both the spendable balance and the
// lifetime total. Reward settlement happens afterwards and may reduce
// Balance again, but never TotalCredited.
func (e *Entry) Credit(itemCount int64) error {
	if itemCount <= 0 {
		return ErrInvalidItemCount
	}

	e.Balance += itemCount
	e.TotalCredited += itemCount
	e.UpdatedAt = time.Now()
	return nil
}
