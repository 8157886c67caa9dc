package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/loyalty-points-ledger/internal/api_gateway/service"
	"github.com/loyalty-points-ledger/internal/domain/account"
	"github.com/loyalty-points-ledger/internal/domain/merchant"
	"github.com/loyalty-points-ledger/internal/domain/redemption"
	"github.com/loyalty-points-ledger/internal/identity"
)

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, page, perPage int) ([]*account.Account, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, id uuid.UUID, name, email, phone string) (*account.Account, error) {
	args := m.Called(ctx, id, name, email, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ service.AccountService = (*MockAccountService)(nil)

type MockRedemptionService struct {
	mock.Mock
}

func (m *MockRedemptionService) GetRedemptionsByAccountID(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]*redemption.Event, int64, error) {
	args := m.Called(ctx, accountID, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*redemption.Event), args.Get(1).(int64), args.Error(2)
}

var _ service.RedemptionService = (*MockRedemptionService)(nil)

func newAccountTestHandler(accountService service.AccountService, creditService service.CreditService, redemptionService service.RedemptionService) *AccountHandler {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	return NewAccountHandler(logger, accountService, creditService, redemptionService)
}

func newTestAccount(t *testing.T) *account.Account {
	t.Helper()
	acc, err := account.NewAccount("auth0|member-1", "member@example.com")
	require.NoError(t, err)
	acc.Name = "Test Member"
	return acc
}

func TestAccountHandler_GetByID(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAccountService)
		handler := newAccountTestHandler(mockService, nil, nil)

		expected := newTestAccount(t)
		mockService.On("GetAccountByID", mock.Anything, expected.ID).Return(expected, nil)

		router := setupTestRouter()
		router.GET("/accounts/:id", handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/accounts/"+expected.ID.String(), nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var topLevelResponse Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevelResponse))
		require.NotNil(t, topLevelResponse.Data)

		var responseBody AccountResponse
		dataBytes, _ := json.Marshal(topLevelResponse.Data)
		require.NoError(t, json.Unmarshal(dataBytes, &responseBody))

		assert.Equal(t, expected.ID.String(), responseBody.ID)
		assert.Equal(t, expected.Subject, responseBody.Subject)
		assert.Equal(t, expected.Barcode, responseBody.Barcode)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidUUID", func(t *testing.T) {
		mockService := new(MockAccountService)
		handler := newAccountTestHandler(mockService, nil, nil)

		router := setupTestRouter()
		router.GET("/accounts/:id", handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/accounts/not-a-uuid", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockAccountService)
		handler := newAccountTestHandler(mockService, nil, nil)

		accountID := uuid.New()
		mockService.On("GetAccountByID", mock.Anything, accountID).
			Return(nil, account.ErrAccountNotFound{AccountID: accountID})

		router := setupTestRouter()
		router.GET("/accounts/:id", handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/accounts/"+accountID.String(), nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestAccountHandler_Update(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAccountService)
		handler := newAccountTestHandler(mockService, nil, nil)

		updated := newTestAccount(t)
		updated.Name = "Renamed Member"
		mockService.On("UpdateAccount", mock.Anything, updated.ID, "Renamed Member", "", "").Return(updated, nil)

		router := setupTestRouter()
		router.PUT("/accounts/:id", handler.Update)

		jsonBody, _ := json.Marshal(UpdateAccountRequest{Name: "Renamed Member"})
		req, _ := http.NewRequest(http.MethodPut, "/accounts/"+updated.ID.String(), bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		mockService := new(MockAccountService)
		handler := newAccountTestHandler(mockService, nil, nil)

		router := setupTestRouter()
		router.PUT("/accounts/:id", handler.Update)

		jsonBody, _ := json.Marshal(UpdateAccountRequest{Email: "not-an-email"})
		req, _ := http.NewRequest(http.MethodPut, "/accounts/"+uuid.New().String(), bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockAccountService)
		handler := newAccountTestHandler(mockService, nil, nil)

		accountID := uuid.New()
		mockService.On("UpdateAccount", mock.Anything, accountID, "Renamed", "", "").
			Return(nil, account.ErrAccountNotFound{AccountID: accountID})

		router := setupTestRouter()
		router.PUT("/accounts/:id", handler.Update)

		jsonBody, _ := json.Marshal(UpdateAccountRequest{Name: "Renamed"})
		req, _ := http.NewRequest(http.MethodPut, "/accounts/"+accountID.String(), bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestAccountHandler_Delete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAccountService)
		handler := newAccountTestHandler(mockService, nil, nil)

		accountID := uuid.New()
		mockService.On("DeleteAccount", mock.Anything, accountID).Return(nil)

		router := setupTestRouter()
		router.DELETE("/accounts/:id", handler.Delete)

		req, _ := http.NewRequest(http.MethodDelete, "/accounts/"+accountID.String(), nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockAccountService)
		handler := newAccountTestHandler(mockService, nil, nil)

		accountID := uuid.New()
		mockService.On("DeleteAccount", mock.Anything, accountID).
			Return(account.ErrAccountNotFound{AccountID: accountID})

		router := setupTestRouter()
		router.DELETE("/accounts/:id", handler.Delete)

		req, _ := http.NewRequest(http.MethodDelete, "/accounts/"+accountID.String(), nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestAccountHandler_ParticipatedMerchants(t *testing.T) {
	principal := identity.Principal{AccountID: uuid.New(), Barcode: uuid.New().String()}

	t.Run("Success", func(t *testing.T) {
		mockCredit := new(MockCreditService)
		handler := newAccountTestHandler(nil, mockCredit, nil)

		m, err := merchant.NewMerchant("Corner Bakery", "5 Side St", 10)
		require.NoError(t, err)
		mockCredit.On("ParticipatedMerchants", mock.Anything, principal.AccountID).
			Return([]*merchant.Merchant{m}, nil)

		router := setupTestRouter()
		router.GET("/me/merchants", withPrincipal(principal), handler.ParticipatedMerchants)

		req, _ := http.NewRequest(http.MethodGet, "/me/merchants", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var topLevelResponse Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevelResponse))

		var responses []MerchantResponse
		dataBytes, _ := json.Marshal(topLevelResponse.Data)
		require.NoError(t, json.Unmarshal(dataBytes, &responses))
		require.Len(t, responses, 1)
		assert.Equal(t, m.ID.String(), responses[0].ID)
		mockCredit.AssertExpectations(t)
	})

	t.Run("NoPrincipal", func(t *testing.T) {
		mockCredit := new(MockCreditService)
		handler := newAccountTestHandler(nil, mockCredit, nil)

		router := setupTestRouter()
		router.GET("/me/merchants", handler.ParticipatedMerchants)

		req, _ := http.NewRequest(http.MethodGet, "/me/merchants", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		mockCredit.AssertExpectations(t)
	})
}

func TestAccountHandler_Redemptions(t *testing.T) {
	principal := identity.Principal{AccountID: uuid.New(), Barcode: uuid.New().String()}

	t.Run("Success", func(t *testing.T) {
		mockRedemptions := new(MockRedemptionService)
		handler := newAccountTestHandler(nil, nil, mockRedemptions)

		event := redemption.NewEvent(principal.AccountID, uuid.New(), 1, 2, 10, "")
		event.MarkJournaled()
		mockRedemptions.On("GetRedemptionsByAccountID", mock.Anything, principal.AccountID, 1, 10).
			Return([]*redemption.Event{event}, int64(1), nil)

		router := setupTestRouter()
		router.GET("/me/redemptions", withPrincipal(principal), handler.Redemptions)

		req, _ := http.NewRequest(http.MethodGet, "/me/redemptions", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var topLevelResponse Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevelResponse))
		require.NotNil(t, topLevelResponse.Meta)
		assert.Equal(t, 1, topLevelResponse.Meta.TotalItems)
		assert.Equal(t, 1, topLevelResponse.Meta.Page)

		var responses []RedemptionResponse
		dataBytes, _ := json.Marshal(topLevelResponse.Data)
		require.NoError(t, json.Unmarshal(dataBytes, &responses))
		require.Len(t, responses, 1)
		assert.Equal(t, event.ID.String(), responses[0].ID)
		assert.Equal(t, int64(1), responses[0].RewardsEarned)
		mockRedemptions.AssertExpectations(t)
	})

	t.Run("ServiceError", func(t *testing.T) {
		mockRedemptions := new(MockRedemptionService)
		handler := newAccountTestHandler(nil, nil, mockRedemptions)

		mockRedemptions.On("GetRedemptionsByAccountID", mock.Anything, principal.AccountID, 1, 10).
			Return(nil, int64(0), errors.New("journal unavailable"))

		router := setupTestRouter()
		router.GET("/me/redemptions", withPrincipal(principal), handler.Redemptions)

		req, _ := http.NewRequest(http.MethodGet, "/me/redemptions", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockRedemptions.AssertExpectations(t)
	})
}
