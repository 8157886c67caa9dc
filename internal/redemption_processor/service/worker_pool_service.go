package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/loyalty-points-ledger/internal/domain/redemption"
)

// WorkerPoolJournalService implements the JournalService interface by
// dispatching journal writes to a bounded worker pool.
type WorkerPoolJournalService struct {
	baseService JournalService
	pool        *ants.Pool
	logger      *slog.Logger
	// Use a mutex to protect access to the results map
	mu      sync.Mutex
	results map[string]chan error
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolJournalService(
	baseService JournalService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolJournalService, error) {
	// Create a new worker pool with the specified size
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolJournalService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
		results:     make(map[string]chan error),
	}, nil
}

// JournalEvent submits an event to the worker pool and waits for the outcome.
func (s *WorkerPoolJournalService) JournalEvent(ctx context.Context, event *redemption.Event) error {
	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Submitting redemption event to worker pool",
		"event_id", event.ID.String(),
		"account_id", event.AccountID.String(),
	)

	// Create a channel to receive the result of the journal write
	resultChan := make(chan error, 1)

	eventID := event.ID.String()
	s.mu.Lock()
	s.results[eventID] = resultChan
	s.mu.Unlock()

	// Create a copy of the event to avoid data races
	eventCopy := *event

	// Submit the task to the worker pool
	err := s.pool.Submit(func() {
		err := s.baseService.JournalEvent(ctx, &eventCopy)

		resultChan <- err

		s.mu.Lock()
		delete(s.results, eventID)
		close(resultChan)
		s.mu.Unlock()
	})

	if err != nil {
		// If we couldn't submit the task to the pool, remove the result channel
		s.mu.Lock()
		delete(s.results, eventID)
		close(resultChan)
		s.mu.Unlock()

		logger.Error("Failed to submit redemption event to worker pool",
			"event_id", event.ID.String(),
			"error", err,
		)
		return err
	}

	// Wait for the result from the worker
	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolJournalService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolJournalService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolJournalService) Capacity() int {
	return s.pool.Cap()
}
