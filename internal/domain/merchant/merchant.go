package merchant

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyName        = errors.New("merchant name cannot be empty")
	ErrEmptyAddress     = errors.New("merchant address cannot be empty")
	ErrInvalidThreshold = errors.New("reward threshold must be positive")
)

// Merchant is a participating business. RewardThreshold is the number of
// points a member must accumulate at this merchant to earn one reward unit.
// Threshold changes apply to future credits only; settled balances are never
// re-evaluated against a new threshold.
type Merchant struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Address         string    `json:"address"`
	PhoneNumber     string    `json:"phone_number"`
	Website         string    `json:"website"`
	OpeningHours    string    `json:"opening_hours"`
	IsOpen          bool      `json:"is_open"`
	Rating          float64   `json:"rating"`
	RewardThreshold int64     `json:"reward_threshold"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewMerchant creates a merchant, validating required fields and the
// reward threshold. A threshold that is not positive would make reward
// settlement divide by zero, so it is rejected here at the admin boundary.
func NewMerchant(name, address string, rewardThreshold int64) (*Merchant, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if address == "" {
		return nil, ErrEmptyAddress
	}
	if rewardThreshold <= 0 {
		return nil, ErrInvalidThreshold
	}

	return &Merchant{
		ID:              uuid.New(),
		Name:            name,
		Address:         address,
		RewardThreshold: rewardThreshold,
		IsOpen:          true,
		CreatedAt:       time.Now(),
	}, nil
}
