package outbox

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loyalty-points-ledger/internal/domain/redemption"
)

func TestNewMessage(t *testing.T) {
	event := redemption.NewEvent(uuid.New(), uuid.New(), 2, 3, 10, "corr-1")

	message, err := NewMessage(event)
	require.NoError(t, err)

	assert.Equal(t, event.ID, message.EventID)
	assert.Equal(t, event.AccountID, message.AccountID)
	assert.Equal(t, event.MerchantID, message.MerchantID)
	assert.Equal(t, StatusPending, message.Status)
	assert.Zero(t, message.Attempts)
	assert.Nil(t, message.LastAttemptAt)

	decoded, err := message.GetEvent()
	require.NoError(t, err)
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, event.RewardsEarned, decoded.RewardsEarned)
	assert.Equal(t, event.RemainingBalance, decoded.RemainingBalance)
	assert.Equal(t, event.Threshold, decoded.Threshold)
	assert.Equal(t, event.CorrelationID, decoded.CorrelationID)
}

func TestMessage_StatusTransitions(t *testing.T) {
	event := redemption.NewEvent(uuid.New(), uuid.New(), 1, 0, 5, "")
	message, err := NewMessage(event)
	require.NoError(t, err)

	message.IncrementAttempts()
	assert.Equal(t, 1, message.Attempts)
	assert.NotNil(t, message.LastAttemptAt)

	message.MarkAsProcessed()
	assert.Equal(t, StatusProcessed, message.Status)

	message.MarkAsFailed()
	assert.Equal(t, StatusFailedToPublish, message.Status)
}

func TestMessage_GetEvent_InvalidPayload(t *testing.T) {
	message := &Message{Payload: []byte("not json")}

	_, err := message.GetEvent()
	assert.Error(t, err)
}
