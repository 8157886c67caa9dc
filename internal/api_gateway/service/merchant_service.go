package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/loyalty-points-ledger/internal/domain/merchant"
)

// MerchantServiceImpl implements the MerchantService interface
type MerchantServiceImpl struct {
	merchantRepo merchant.Repository
}

// NewMerchantService creates a new merchant service
func NewMerchantService(merchantRepo merchant.Repository) MerchantService {
	return &MerchantServiceImpl{
		merchantRepo: merchantRepo,
	}
}

// CreateMerchant registers a new merchant, validating required fields and the reward threshold
func (s *MerchantServiceImpl) CreateMerchant(ctx context.Context, input MerchantInput) (*merchant.Merchant, error) {
	m, err := merchant.NewMerchant(input.Name, input.Address, input.RewardThreshold)
	if err != nil {
		return nil, err
	}

	m.Description = input.Description
	m.PhoneNumber = input.PhoneNumber
	m.Website = input.Website
	m.OpeningHours = input.OpeningHours
	m.Rating = input.Rating

	if err := s.merchantRepo.Create(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

// GetMerchantByID retrieves a merchant by its ID, returns ErrMerchantNotFound if not found
func (s *MerchantServiceImpl) GetMerchantByID(ctx context.Context, id uuid.UUID) (*merchant.Merchant, error) {
	return s.merchantRepo.GetByID(ctx, id)
}

// ListMerchants retrieves a paginated list of merchants
func (s *MerchantServiceImpl) ListMerchants(ctx context.Context, page, perPage int) ([]*merchant.Merchant, error) {
	offset := (page - 1) * perPage
	return s.merchantRepo.List(ctx, perPage, offset)
}
