package outbox_poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/loyalty-points-ledger/internal/domain/outbox"
	"github.com/loyalty-points-ledger/internal/domain/redemption"
)

// MockOutboxRepo for testing
type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) Create(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockOutboxRepo) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepo) UpdateStatus(ctx context.Context, id int64, status outbox.MessageStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOutboxRepo) IncrementAttempts(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepo) WithTx(tx pgx.Tx) outbox.Repository {
	args := m.Called(tx)
	return args.Get(0).(outbox.Repository)
}

// MockMessagePublisher for testing
type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newPendingMessage(t *testing.T, event *redemption.Event, id int64) *outbox.Message {
	t.Helper()
	message, err := outbox.NewMessage(event)
	require.NoError(t, err)
	message.ID = id
	return message
}

func TestEventPublisher_PublishEvent(t *testing.T) {
	logger := slog.Default()

	accountID := uuid.New()
	event := redemption.NewEvent(accountID, uuid.New(), 1, 2, 10, "corr1")

	tests := []struct {
		name          string
		message       func(t *testing.T) *outbox.Message
		setupMocks    func(outboxRepo *MockOutboxRepo, producer *MockMessagePublisher)
		expectedError string
	}{
		{
			name: "successful publish marks message processed",
			message: func(t *testing.T) *outbox.Message {
				return newPendingMessage(t, event, 1)
			},
			setupMocks: func(outboxRepo *MockOutboxRepo, producer *MockMessagePublisher) {
				producer.On("Publish", mock.Anything, accountID.String(), mock.MatchedBy(func(v interface{}) bool {
					published, ok := v.(*redemption.Event)
					return ok && published.ID == event.ID
				})).Return(nil).Once()
				outboxRepo.On("UpdateStatus", mock.Anything, int64(1), outbox.StatusProcessed).Return(nil).Once()
			},
		},
		{
			name: "corrupt payload marks message failed",
			message: func(t *testing.T) *outbox.Message {
				return &outbox.Message{
					ID:        2,
					EventID:   event.ID,
					Payload:   []byte("invalid json"),
					Status:    outbox.StatusPending,
					CreatedAt: time.Now(),
				}
			},
			setupMocks: func(outboxRepo *MockOutboxRepo, producer *MockMessagePublisher) {
				outboxRepo.On("UpdateStatus", mock.Anything, int64(2), outbox.StatusFailedToPublish).Return(nil).Once()
			},
			expectedError: "unmarshal payload",
		},
		{
			name: "publish failure leaves message pending",
			message: func(t *testing.T) *outbox.Message {
				return newPendingMessage(t, event, 3)
			},
			setupMocks: func(outboxRepo *MockOutboxRepo, producer *MockMessagePublisher) {
				producer.On("Publish", mock.Anything, accountID.String(), mock.Anything).
					Return(errors.New("broker unavailable")).Once()
			},
			expectedError: "failed to publish redemption event",
		},
		{
			name: "status update failure after publish",
			message: func(t *testing.T) *outbox.Message {
				return newPendingMessage(t, event, 4)
			},
			setupMocks: func(outboxRepo *MockOutboxRepo, producer *MockMessagePublisher) {
				producer.On("Publish", mock.Anything, accountID.String(), mock.Anything).Return(nil).Once()
				outboxRepo.On("UpdateStatus", mock.Anything, int64(4), outbox.StatusProcessed).
					Return(errors.New("db error")).Once()
			},
			expectedError: "failed to mark outbox",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outboxRepo := &MockOutboxRepo{}
			producer := &MockMessagePublisher{}
			publisher := NewEventPublisher(outboxRepo, producer, logger)

			tt.setupMocks(outboxRepo, producer)

			err := publisher.PublishEvent(context.Background(), tt.message(t))

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
			} else {
				assert.NoError(t, err)
			}

			outboxRepo.AssertExpectations(t)
			producer.AssertExpectations(t)
		})
	}
}
