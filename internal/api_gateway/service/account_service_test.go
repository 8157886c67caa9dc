package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/loyalty-points-ledger/internal/domain/account"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) GetBySubject(ctx context.Context, subject string) (*account.Account, error) {
	args := m.Called(ctx, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) Update(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*account.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

func TestAccountServiceImpl_GetAccountByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		service := NewAccountService(mockRepo)
		accountID := uuid.New()
		expectedAccount := &account.Account{
			ID:        accountID,
			Subject:   "idp|member-1",
			Name:      "Found Member",
			Barcode:   uuid.New().String(),
			CreatedAt: time.Now(),
			LastSeen:  time.Now(),
		}

		mockRepo.On("GetByID", ctx, accountID).Return(expectedAccount, nil).Once()

		acc, err := service.GetAccountByID(ctx, accountID)

		assert.NoError(t, err)
		assert.NotNil(t, acc)
		assert.Equal(t, expectedAccount, acc)
		mockRepo.AssertExpectations(t)
	})

	t.Run("AccountNotFound", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		service := NewAccountService(mockRepo)
		accountID := uuid.New()
		notFoundError := account.ErrAccountNotFound{AccountID: accountID}

		mockRepo.On("GetByID", ctx, accountID).Return(nil, notFoundError).Once()

		acc, err := service.GetAccountByID(ctx, accountID)

		assert.Error(t, err)
		assert.Nil(t, acc)
		assert.True(t, errors.Is(err, notFoundError))
		mockRepo.AssertExpectations(t)
	})
}

func TestAccountServiceImpl_ListAccounts(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		service := NewAccountService(mockRepo)
		accounts := []*account.Account{
			{ID: uuid.New(), Subject: "idp|a"},
			{ID: uuid.New(), Subject: "idp|b"},
		}

		// page 2 with 10 per page translates to limit 10, offset 10
		mockRepo.On("List", ctx, 10, 10).Return(accounts, nil).Once()

		result, err := service.ListAccounts(ctx, 2, 10)

		assert.NoError(t, err)
		assert.Equal(t, accounts, result)
		mockRepo.AssertExpectations(t)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		service := NewAccountService(mockRepo)
		repoError := errors.New("database error")

		mockRepo.On("List", ctx, 10, 0).Return(nil, repoError).Once()

		result, err := service.ListAccounts(ctx, 1, 10)

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, repoError, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestAccountServiceImpl_UpdateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("UpdatesProvidedFieldsOnly", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		service := NewAccountService(mockRepo)
		accountID := uuid.New()
		existing := &account.Account{
			ID:      accountID,
			Subject: "idp|member-1",
			Name:    "Old Name",
			Email:   "old@example.com",
			Phone:   "555-0101",
			Barcode: uuid.New().String(),
		}
		originalBarcode := existing.Barcode

		mockRepo.On("GetByID", ctx, accountID).Return(existing, nil).Once()
		mockRepo.On("Update", ctx, mock.AnythingOfType("*account.Account")).Return(nil).Once()

		acc, err := service.UpdateAccount(ctx, accountID, "New Name", "", "")

		assert.NoError(t, err)
		assert.Equal(t, "New Name", acc.Name)
		assert.Equal(t, "old@example.com", acc.Email, "Empty email should leave the field untouched")
		assert.Equal(t, "555-0101", acc.Phone)
		assert.Equal(t, originalBarcode, acc.Barcode, "Barcode is immutable")
		mockRepo.AssertExpectations(t)
	})

	t.Run("AccountNotFound", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		service := NewAccountService(mockRepo)
		accountID := uuid.New()

		mockRepo.On("GetByID", ctx, accountID).Return(nil, account.ErrAccountNotFound{AccountID: accountID}).Once()

		acc, err := service.UpdateAccount(ctx, accountID, "New Name", "", "")

		assert.Error(t, err)
		assert.Nil(t, acc)
		assert.ErrorIs(t, err, account.ErrAccountNotFound{})
		mockRepo.AssertNotCalled(t, "Update", ctx, mock.AnythingOfType("*account.Account"))
		mockRepo.AssertExpectations(t)
	})

	t.Run("RepositoryUpdateError", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		service := NewAccountService(mockRepo)
		accountID := uuid.New()
		existing := &account.Account{ID: accountID, Subject: "idp|member-1"}
		repoError := errors.New("database error")

		mockRepo.On("GetByID", ctx, accountID).Return(existing, nil).Once()
		mockRepo.On("Update", ctx, mock.AnythingOfType("*account.Account")).Return(repoError).Once()

		acc, err := service.UpdateAccount(ctx, accountID, "New Name", "", "")

		assert.Error(t, err)
		assert.Nil(t, acc)
		assert.Equal(t, repoError, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestAccountServiceImpl_DeleteAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		service := NewAccountService(mockRepo)
		accountID := uuid.New()

		mockRepo.On("Delete", ctx, accountID).Return(nil).Once()

		err := service.DeleteAccount(ctx, accountID)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("AccountNotFound", func(t *testing.T) {
		mockRepo := new(MockAccountRepository)
		service := NewAccountService(mockRepo)
		accountID := uuid.New()

		mockRepo.On("Delete", ctx, accountID).Return(account.ErrAccountNotFound{AccountID: accountID}).Once()

		err := service.DeleteAccount(ctx, accountID)

		assert.ErrorIs(t, err, account.ErrAccountNotFound{})
		mockRepo.AssertExpectations(t)
	})
}

var _ account.Repository = (*MockAccountRepository)(nil)
