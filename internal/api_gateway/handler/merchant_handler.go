package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/loyalty-points-ledger/internal/api_gateway/service"
	"github.com/loyalty-points-ledger/internal/domain/merchant"
)

// MerchantHandler handles HTTP requests for merchant administration
type MerchantHandler struct {
	merchantService service.MerchantService
	logger          *slog.Logger
}

// NewMerchantHandler creates a new merchant handler
func NewMerchantHandler(logger *slog.Logger, merchantService service.MerchantService) *MerchantHandler {
	return &MerchantHandler{
		merchantService: merchantService,
		logger:          logger,
	}
}

// Create registers a new merchant, validating required fields and the reward threshold
func (h *MerchantHandler) Create(c *gin.Context) {
	var req CreateMerchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	m, err := h.merchantService.CreateMerchant(c.Request.Context(), service.MerchantInput{
		Name:            req.Name,
		Description:     req.Description,
		Address:         req.Address,
		PhoneNumber:     req.PhoneNumber,
		Website:         req.Website,
		OpeningHours:    req.OpeningHours,
		Rating:          req.Rating,
		RewardThreshold: req.RewardThreshold,
	})
	if err != nil {
		if errors.Is(err, merchant.ErrEmptyName) ||
			errors.Is(err, merchant.ErrEmptyAddress) ||
			errors.Is(err, merchant.ErrInvalidThreshold) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create merchant", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapMerchantToResponse(m))
}

// GetByID retrieves a merchant by its ID, returning 404 if not found
func (h *MerchantHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid merchant ID")
		return
	}

	m, err := h.merchantService.GetMerchantByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, merchant.ErrMerchantNotFound{}) {
			RespondNotFound(c, "Merchant not found")
			return
		}
		h.logger.Error("Failed to get merchant", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapMerchantToResponse(m))
}

// List retrieves a paginated list of merchants
func (h *MerchantHandler) List(c *gin.Context) {
	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	merchants, err := h.merchantService.ListMerchants(c.Request.Context(), params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to list merchants", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]MerchantResponse, 0, len(merchants))
	for _, m := range merchants {
		responses = append(responses, mapMerchantToResponse(m))
	}

	RespondOK(c, responses)
}

// mapMerchantToResponse maps a merchant entity to a merchant response DTO
func mapMerchantToResponse(m *merchant.Merchant) MerchantResponse {
	return MerchantResponse{
		ID:              m.ID.String(),
		Name:            m.Name,
		Description:     m.Description,
		Address:         m.Address,
		PhoneNumber:     m.PhoneNumber,
		Website:         m.Website,
		OpeningHours:    m.OpeningHours,
		IsOpen:          m.IsOpen,
		Rating:          m.Rating,
		RewardThreshold: m.RewardThreshold,
		CreatedAt:       m.CreatedAt.Format(time.RFC3339),
	}
}
