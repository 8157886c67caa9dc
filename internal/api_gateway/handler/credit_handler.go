package handler

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/loyalty-points-ledger/internal/api_gateway/middleware"
	"github.com/loyalty-points-ledger/internal/api_gateway/service"
	"github.com/loyalty-points-ledger/internal/domain/account"
	"github.com/loyalty-points-ledger/internal/domain/ledger"
	"github.com/loyalty-points-ledger/internal/domain/merchant"
	"github.com/loyalty-points-ledger/internal/engine"
)

// CreditHandler handles HTTP requests for the credit path
type CreditHandler struct {
	creditService service.CreditService
	logger        *slog.Logger
}

// NewCreditHandler creates a new credit handler
func NewCreditHandler(logger *slog.Logger, creditService service.CreditService) *CreditHandler {
	return &CreditHandler{
		creditService: creditService,
		logger:        logger,
	}
}

// Credit applies a points credit for the authenticated caller at a merchant.
// The barcode in the body is the anti-forgery token; it must match the one
// bound to the caller's account or the credit is rejected with 403.
func (h *CreditHandler) Credit(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req CreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	merchantID, err := uuid.Parse(req.MerchantID)
	if err != nil {
		RespondBadRequest(c, "Invalid merchant ID")
		return
	}

	result, err := h.creditService.Credit(c.Request.Context(), engine.CreditRequest{
		AccountID:     principal.AccountID,
		Barcode:       req.Barcode,
		MerchantID:    merchantID,
		ItemCount:     req.ItemCount,
		CorrelationID: middleware.GetCorrelationID(c),
	})
	if err != nil {
		h.respondCreditError(c, err)
		return
	}

	message := "Points credited"
	if result.RewardsEarned > 0 {
		message = fmt.Sprintf("Congratulations! You earned %d free reward(s)", result.RewardsEarned)
	}

	RespondOK(c, CreditResponse{
		Message:          message,
		RewardsEarned:    result.RewardsEarned,
		RemainingBalance: result.RemainingBalance,
	})
}

// Balance returns the caller's point balance at a merchant. Accounts that have
// never been credited there get the zero-balance default.
func (h *CreditHandler) Balance(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	idParam := c.Param("id")
	merchantID, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid merchant ID")
		return
	}

	entry, err := h.creditService.Balance(c.Request.Context(), principal.AccountID, merchantID)
	if err != nil {
		h.logger.Error("Failed to get balance",
			"account_id", principal.AccountID.String(),
			"merchant_id", idParam,
			"error", err,
		)
		RespondInternalError(c)
		return
	}

	RespondOK(c, BalanceResponse{
		MerchantID:    merchantID.String(),
		Balance:       entry.Balance,
		TotalCredited: entry.TotalCredited,
	})
}

// respondCreditError maps credit-path errors to their HTTP representations
func (h *CreditHandler) respondCreditError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidItemCount):
		RespondBadRequest(c, "Item count must be positive")
	case errors.Is(err, account.ErrBarcodeMismatch{}):
		RespondForbidden(c, "Barcode does not match the authenticated account")
	case errors.Is(err, account.ErrAccountNotFound{}):
		RespondNotFound(c, "Account not found")
	case errors.Is(err, merchant.ErrMerchantNotFound{}):
		RespondNotFound(c, "Merchant not found")
	default:
		// Covers reward misconfiguration and store unavailability; both are
		// server-side faults from the caller's perspective.
		h.logger.Error("Failed to apply credit", "error", err)
		RespondInternalError(c)
	}
}
