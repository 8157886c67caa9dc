package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/loyalty-points-ledger/internal/domain/account"
	"github.com/loyalty-points-ledger/internal/domain/ledger"
	"github.com/loyalty-points-ledger/internal/domain/merchant"
	"github.com/loyalty-points-ledger/internal/domain/redemption"
	"github.com/loyalty-points-ledger/internal/engine"
)

// CreditService defines the credit-path operations backed by the ledger engine
type CreditService interface {
	// Credit applies a points credit and settles reward crossings.
	// Returns ErrBarcodeMismatch if the anti-forgery token doesn't match.
	Credit(ctx context.Context, req engine.CreditRequest) (engine.CreditResult, error)

	// Balance returns the caller's entry at a merchant, zero-valued if the
	// account has never been credited there
	Balance(ctx context.Context, accountID, merchantID uuid.UUID) (ledger.Entry, error)

	// ParticipatedMerchants lists merchants the account holds entries with
	ParticipatedMerchants(ctx context.Context, accountID uuid.UUID) ([]*merchant.Merchant, error)
}

// MerchantInput carries the fields for creating a merchant
type MerchantInput struct {
	Name            string
	Description     string
	Address         string
	PhoneNumber     string
	Website         string
	OpeningHours    string
	Rating          float64
	RewardThreshold int64
}

// MerchantService defines the interface for merchant administration
type MerchantService interface {
	// CreateMerchant registers a new merchant.
	// Returns ErrInvalidThreshold if the reward threshold is not positive.
	CreateMerchant(ctx context.Context, input MerchantInput) (*merchant.Merchant, error)

	// GetMerchantByID retrieves a merchant by its ID
	// Returns ErrMerchantNotFound if the merchant doesn't exist
	GetMerchantByID(ctx context.Context, id uuid.UUID) (*merchant.Merchant, error)

	// ListMerchants retrieves a paginated list of merchants
	ListMerchants(ctx context.Context, page, perPage int) ([]*merchant.Merchant, error)
}

// AccountService defines the interface for account administration
type AccountService interface {
	// GetAccountByID retrieves an account by its ID
	// Returns ErrAccountNotFound if the account doesn't exist
	GetAccountByID(ctx context.Context, id uuid.UUID) (*account.Account, error)

	// ListAccounts retrieves a paginated list of accounts
	ListAccounts(ctx context.Context, page, perPage int) ([]*account.Account, error)

	// UpdateAccount updates the mutable contact fields of an account
	UpdateAccount(ctx context.Context, id uuid.UUID, name, email, phone string) (*account.Account, error)

	// DeleteAccount removes an account
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

// RedemptionService defines read access to the redemption journal
type RedemptionService interface {
	// GetRedemptionsByAccountID retrieves paginated journaled redemption
	// events for an account along with the total count
	GetRedemptionsByAccountID(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]*redemption.Event, int64, error)
}
