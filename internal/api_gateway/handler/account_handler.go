package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/loyalty-points-ledger/internal/api_gateway/middleware"
	"github.com/loyalty-points-ledger/internal/api_gateway/service"
	"github.com/loyalty-points-ledger/internal/domain/account"
	"github.com/loyalty-points-ledger/internal/domain/redemption"
)

// AccountHandler handles HTTP requests for account operations
type AccountHandler struct {
	accountService    service.AccountService
	creditService     service.CreditService
	redemptionService service.RedemptionService
	logger            *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(
	logger *slog.Logger,
	accountService service.AccountService,
	creditService service.CreditService,
	redemptionService service.RedemptionService,
) *AccountHandler {
	return &AccountHandler{
		accountService:    accountService,
		creditService:     creditService,
		redemptionService: redemptionService,
		logger:            logger,
	}
}

// GetByID retrieves an account by its ID, returning 404 if not found
func (h *AccountHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	acc, err := h.accountService.GetAccountByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{}) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to get account", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// List retrieves a paginated list of accounts
func (h *AccountHandler) List(c *gin.Context) {
	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to list accounts", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]AccountResponse, 0, len(accounts))
	for _, acc := range accounts {
		responses = append(responses, mapAccountToResponse(acc))
	}

	RespondOK(c, responses)
}

// Update changes the contact fields of an account
func (h *AccountHandler) Update(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.accountService.UpdateAccount(c.Request.Context(), id, req.Name, req.Email, req.Phone)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{}) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to update account", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// Delete removes an account
func (h *AccountHandler) Delete(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), id); err != nil {
		if errors.Is(err, account.ErrAccountNotFound{}) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to delete account", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// ParticipatedMerchants lists the merchants the caller has earned points with
func (h *AccountHandler) ParticipatedMerchants(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	merchants, err := h.creditService.ParticipatedMerchants(c.Request.Context(), principal.AccountID)
	if err != nil {
		h.logger.Error("Failed to list participated merchants",
			"account_id", principal.AccountID.String(),
			"error", err,
		)
		RespondInternalError(c)
		return
	}

	responses := make([]MerchantResponse, 0, len(merchants))
	for _, m := range merchants {
		responses = append(responses, mapMerchantToResponse(m))
	}

	RespondOK(c, responses)
}

// Redemptions retrieves the caller's paginated redemption journal
func (h *AccountHandler) Redemptions(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	events, total, err := h.redemptionService.GetRedemptionsByAccountID(c.Request.Context(), principal.AccountID, params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to get redemption journal",
			"account_id", principal.AccountID.String(),
			"error", err,
		)
		RespondInternalError(c)
		return
	}

	responses := make([]RedemptionResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, mapRedemptionToResponse(event))
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, params.Page, params.PerPage, int(total))
}

// mapAccountToResponse maps an account entity to an account response DTO
func mapAccountToResponse(acc *account.Account) AccountResponse {
	return AccountResponse{
		ID:        acc.ID.String(),
		Subject:   acc.Subject,
		Name:      acc.Name,
		Email:     acc.Email,
		Phone:     acc.Phone,
		Barcode:   acc.Barcode,
		CreatedAt: acc.CreatedAt.Format(time.RFC3339),
		LastSeen:  acc.LastSeen.Format(time.RFC3339),
	}
}

// mapRedemptionToResponse maps a redemption event to a response DTO
func mapRedemptionToResponse(event *redemption.Event) RedemptionResponse {
	return RedemptionResponse{
		ID:               event.ID.String(),
		MerchantID:       event.MerchantID.String(),
		RewardsEarned:    event.RewardsEarned,
		RemainingBalance: event.RemainingBalance,
		Threshold:        event.Threshold,
		OccurredAt:       event.OccurredAt.Format(time.RFC3339),
	}
}
