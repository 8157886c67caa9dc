package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/loyalty-points-ledger/internal/domain/account"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	accountRepo account.Repository
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo account.Repository) AccountService {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
	}
}

// GetAccountByID retrieves an account by its ID, returns ErrAccountNotFound if not found
func (s *AccountServiceImpl) GetAccountByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}

// ListAccounts retrieves a paginated list of accounts
func (s *AccountServiceImpl) ListAccounts(ctx context.Context, page, perPage int) ([]*account.Account, error) {
	offset := (page - 1) * perPage
	return s.accountRepo.List(ctx, perPage, offset)
}

// UpdateAccount updates the mutable contact fields of an account.
// The subject and barcode are immutable once provisioned.
func (s *AccountServiceImpl) UpdateAccount(ctx context.Context, id uuid.UUID, name, email, phone string) (*account.Account, error) {
	acc, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		acc.Name = name
	}
	if email != "" {
		acc.Email = email
	}
	if phone != "" {
		acc.Phone = phone
	}

	if err := s.accountRepo.Update(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

// DeleteAccount removes an account, returns ErrAccountNotFound if not found
func (s *AccountServiceImpl) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.accountRepo.Delete(ctx, id)
}
