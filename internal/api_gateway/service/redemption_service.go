package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/loyalty-points-ledger/internal/domain/redemption"
)

// RedemptionServiceImpl implements the RedemptionService interface
type RedemptionServiceImpl struct {
	redemptionRepo redemption.Repository
}

// NewRedemptionService creates a new redemption journal service
func NewRedemptionService(redemptionRepo redemption.Repository) RedemptionService {
	return &RedemptionServiceImpl{
		redemptionRepo: redemptionRepo,
	}
}

// GetRedemptionsByAccountID retrieves paginated journaled events for an
// account with the total count for pagination metadata
func (s *RedemptionServiceImpl) GetRedemptionsByAccountID(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]*redemption.Event, int64, error) {
	offset := (page - 1) * perPage

	events, err := s.redemptionRepo.GetByAccountID(ctx, accountID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.redemptionRepo.CountByAccountID(ctx, accountID)
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}
