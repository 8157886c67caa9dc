package outbox

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository manages outbox message persistence
type Repository interface {
	Create(ctx context.Context, message *Message) error

	// GetPending retrieves up to limit pending messages in FIFO order
	GetPending(ctx context.Context, limit int) ([]*Message, error)

	UpdateStatus(ctx context.Context, id int64, status MessageStatus) error
	IncrementAttempts(ctx context.Context, id int64) error
	WithTx(tx pgx.Tx) Repository
}

// ErrMessageNotFound indicates missing outbox message
type ErrMessageNotFound struct {
	ID int64
}

func (e ErrMessageNotFound) Error() string {
	return "outbox message not found"
}

func (e ErrMessageNotFound) Is(target error) bool {
	_, ok := target.(ErrMessageNotFound)
	return ok
}
