package merchant

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines merchant persistence operations. Merchants are
// read-mostly: the credit path only ever reads them.
type Repository interface {
	Create(ctx context.Context, merchant *Merchant) error
	GetByID(ctx context.Context, id uuid.UUID) (*Merchant, error)
	List(ctx context.Context, limit, offset int) ([]*Merchant, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Merchant, error)
}

// ErrMerchantNotFound indicates missing merchant
type ErrMerchantNotFound struct {
	MerchantID uuid.UUID
}

func (e ErrMerchantNotFound) Error() string {
	return "merchant not found: " + e.MerchantID.String()
}

// Is implements the errors.Is interface for ErrMerchantNotFound
func (e ErrMerchantNotFound) Is(target error) bool {
	t, ok := target.(ErrMerchantNotFound)
	if !ok {
		return false
	}
	if t.MerchantID == uuid.Nil {
		return true
	}
	return e.MerchantID == t.MerchantID
}
