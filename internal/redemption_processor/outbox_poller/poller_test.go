package outbox_poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/loyalty-points-ledger/internal/config"
	"github.com/loyalty-points-ledger/internal/domain/outbox"
	"github.com/loyalty-points-ledger/internal/domain/redemption"
)

// MockEventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishEvent(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func TestPoller_ProcessPendingMessages(t *testing.T) {
	logger := slog.Default()

	cfg := &config.OutboxConfig{
		PollingInterval:  time.Second,
		BatchSize:        10,
		MaxRetryAttempts: 3,
	}

	event := redemption.NewEvent(uuid.New(), uuid.New(), 1, 2, 10, "corr1")
	message1 := newPendingMessage(t, event, 1)
	message2 := newPendingMessage(t, event, 2)

	tests := []struct {
		name          string
		setupMocks    func(outboxRepo *MockOutboxRepo, publisher *MockEventPublisher)
		expectedError string
	}{
		{
			name: "successful processing of pending messages",
			setupMocks: func(outboxRepo *MockOutboxRepo, publisher *MockEventPublisher) {
				outboxRepo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{message1, message2}, nil).Once()
				publisher.On("PublishEvent", mock.Anything, message1).Return(nil).Once()
				publisher.On("PublishEvent", mock.Anything, message2).Return(nil).Once()
			},
		},
		{
			name: "error getting pending messages",
			setupMocks: func(outboxRepo *MockOutboxRepo, publisher *MockEventPublisher) {
				outboxRepo.On("GetPending", mock.Anything, 10).Return(nil, errors.New("db error")).Once()
			},
			expectedError: "failed to get pending outbox messages",
		},
		{
			name: "no pending messages",
			setupMocks: func(outboxRepo *MockOutboxRepo, publisher *MockEventPublisher) {
				outboxRepo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{}, nil).Once()
			},
		},
		{
			name: "publish failure increments attempts and continues",
			setupMocks: func(outboxRepo *MockOutboxRepo, publisher *MockEventPublisher) {
				outboxRepo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{message1, message2}, nil).Once()
				publisher.On("PublishEvent", mock.Anything, message1).Return(errors.New("publish error")).Once()
				outboxRepo.On("IncrementAttempts", mock.Anything, int64(1)).Return(nil).Once()
				publisher.On("PublishEvent", mock.Anything, message2).Return(nil).Once()
			},
		},
		{
			name: "max retry attempts reached",
			setupMocks: func(outboxRepo *MockOutboxRepo, publisher *MockEventPublisher) {
				exhausted := newPendingMessage(t, event, 3)
				exhausted.Attempts = 2

				outboxRepo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{exhausted}, nil).Once()
				publisher.On("PublishEvent", mock.Anything, exhausted).Return(errors.New("publish error")).Once()
				outboxRepo.On("IncrementAttempts", mock.Anything, int64(3)).Return(nil).Once()
				outboxRepo.On("UpdateStatus", mock.Anything, int64(3), outbox.StatusFailedToPublish).Return(nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outboxRepo := &MockOutboxRepo{}
			publisher := &MockEventPublisher{}
			poller := NewPoller(cfg, outboxRepo, publisher, logger)

			tt.setupMocks(outboxRepo, publisher)

			err := poller.processPendingMessages(context.Background())

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
			} else {
				assert.NoError(t, err)
			}

			outboxRepo.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestPoller_Start(t *testing.T) {
	outboxRepo := &MockOutboxRepo{}
	publisher := &MockEventPublisher{}
	logger := slog.Default()

	cfg := &config.OutboxConfig{
		PollingInterval:  10 * time.Millisecond,
		BatchSize:        10,
		MaxRetryAttempts: 3,
	}

	poller := NewPoller(cfg, outboxRepo, publisher, logger)

	outboxRepo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{}, nil).Maybe()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	go poller.Start(ctx)

	<-ctx.Done()
}
