package account

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines account persistence operations
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// GetBySubject retrieves an account by its identity-provider subject.
	// Returns nil, nil when no account exists for the subject.
	GetBySubject(ctx context.Context, subject string) (*Account, error)

	Update(ctx context.Context, account *Account) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Account, error)
}

// ErrAccountNotFound indicates missing account
type ErrAccountNotFound struct {
	AccountID uuid.UUID
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.AccountID.String()
}

// Is implements the errors.Is interface for ErrAccountNotFound
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	if t.AccountID == uuid.Nil {
		return true
	}
	return e.AccountID == t.AccountID
}

// ErrBarcodeMismatch indicates the presented anti-forgery token does not
// match the one bound to the account (forged or stale token)
type ErrBarcodeMismatch struct {
	AccountID uuid.UUID
}

func (e ErrBarcodeMismatch) Error() string {
	return "barcode does not match account: " + e.AccountID.String()
}

// Is implements the errors.Is interface for ErrBarcodeMismatch
func (e ErrBarcodeMismatch) Is(target error) bool {
	t, ok := target.(ErrBarcodeMismatch)
	if !ok {
		return false
	}
	if t.AccountID == uuid.Nil {
		return true
	}
	return e.AccountID == t.AccountID
}

// ErrDuplicateSubject indicates subject uniqueness violation
type ErrDuplicateSubject struct {
	Subject string
}

func (e ErrDuplicateSubject) Error() string {
	return "account for identity subject already exists: " + e.Subject
}
