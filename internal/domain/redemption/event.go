package redemption

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus defines journal states for a redemption event
type EventStatus string

const (
	EventStatusPending   EventStatus = "PENDING"
	EventStatusJournaled EventStatus = "JOURNALED"
)

// Event records a threshold crossing: the account earned RewardsEarned
// reward units at the merchant, leaving RemainingBalance points on the
// entry. Events are written to the outbox in the same transaction as the
// balance update and journaled asynchronously.
type Event struct {
	ID               uuid.UUID   `json:"id" bson:"event_id"`
	AccountID        uuid.UUID   `json:"account_id" bson:"account_id"`
	MerchantID       uuid.UUID   `json:"merchant_id" bson:"merchant_id"`
	RewardsEarned    int64       `json:"rewards_earned" bson:"rewards_earned"`
	RemainingBalance int64       `json:"remaining_balance" bson:"remaining_balance"`
	Threshold        int64       `json:"threshold" bson:"threshold"`
	CorrelationID    string      `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	Status           EventStatus `json:"status" bson:"status"`
	OccurredAt       time.Time   `json:"occurred_at" bson:"occurred_at"`
	JournaledAt      *time.Time  `json:"journaled_at,omitempty" bson:"journaled_at,omitempty"`
}

// NewEvent creates a pending redemption event for a settled credit.
func NewEvent(accountID, merchantID uuid.UUID, rewardsEarned, remainingBalance, threshold int64, correlationID string) *Event {
	return &Event{
		ID:               uuid.New(),
		AccountID:        accountID,
		MerchantID:       merchantID,
		RewardsEarned:    rewardsEarned,
		RemainingBalance: remainingBalance,
		Threshold:        threshold,
		CorrelationID:    correlationID,
		Status:           EventStatusPending,
		OccurredAt:       time.Now().UTC(),
	}
}

// MarkJournaled transitions the event to its terminal journaled state.
func (e *Event) MarkJournaled() {
	e.Status = EventStatusJournaled
	now := time.Now().UTC()
	e.JournaledAt = &now
}
