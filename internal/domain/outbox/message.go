package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/loyalty-points-ledger/internal/domain/redemption"
)

// MessageStatus defines message publishing states
type MessageStatus string

const (
	StatusPending         MessageStatus = "PENDING"
	StatusProcessed       MessageStatus = "PROCESSED"
	StatusFailedToPublish MessageStatus = "FAILED_TO_PUBLISH"
)

// Message stores a redemption event for reliable publishing. Rows are
// inserted in the same transaction as the ledger update, so an event exists
// if and only if its balance change committed.
type Message struct {
	ID            int64           `json:"id"`
	EventID       uuid.UUID       `json:"event_id"`
	AccountID     uuid.UUID       `json:"account_id"`
	MerchantID    uuid.UUID       `json:"merchant_id"`
	Payload       json.RawMessage `json:"payload"`
	Status        MessageStatus   `json:"status"`
	Attempts      int             `json:"attempts"`
	CreatedAt     time.Time       `json:"created_at"`
	LastAttemptAt *time.Time      `json:"last_attempt_at,omitempty"`
}

func NewMessage(event *redemption.Event) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return &Message{
		EventID:    event.ID,
		AccountID:  event.AccountID,
		MerchantID: event.MerchantID,
		Payload:    payload,
		Status:     StatusPending,
		Attempts:   0,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsProcessed() {
	m.Status = StatusProcessed
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsFailed() {
	m.Status = StatusFailedToPublish
	now := time.Now()
	m.LastAttemptAt = &now
}

// GetEvent extracts the redemption event from the payload
func (m *Message) GetEvent() (*redemption.Event, error) {
	var event redemption.Event
	if err := json.Unmarshal(m.Payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
