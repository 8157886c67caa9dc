package handler

// CreditRequest represents a request to credit purchased items as points
type CreditRequest struct {
	Barcode    string `json:"barcode" binding:"required"`
	MerchantID string `json:"merchant_id" binding:"required,uuid"`
	ItemCount  int64  `json:"item_count" binding:"required,gt=0"`
}

// CreditResponse represents the outcome of a credit in API responses
type CreditResponse struct {
	Message          string `json:"message"`
	RewardsEarned    int64  `json:"rewards_earned"`
	RemainingBalance int64  `json:"remaining_balance"`
}

// BalanceResponse represents a per-merchant point balance in API responses
type BalanceResponse struct {
	MerchantID    string `json:"merchant_id"`
	Balance       int64  `json:"balance"`
	TotalCredited int64  `json:"total_credited"`
}

// CreateMerchantRequest represents a request to register a new merchant
type CreateMerchantRequest struct {
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	Address         string  `json:"address" binding:"required"`
	PhoneNumber     string  `json:"phone_number"`
	Website         string  `json:"website"`
	OpeningHours    string  `json:"opening_hours"`
	Rating          float64 `json:"rating" binding:"min=0,max=5"`
	RewardThreshold int64   `json:"reward_threshold" binding:"required,gt=0"`
}

// MerchantResponse represents a merchant in API responses
type MerchantResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Address         string  `json:"address"`
	PhoneNumber     string  `json:"phone_number,omitempty"`
	Website         string  `json:"website,omitempty"`
	OpeningHours    string  `json:"opening_hours,omitempty"`
	IsOpen          bool    `json:"is_open"`
	Rating          float64 `json:"rating"`
	RewardThreshold int64   `json:"reward_threshold"`
	CreatedAt       string  `json:"created_at"`
}

// UpdateAccountRequest represents a request to update account contact details
type UpdateAccountRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID        string `json:"id"`
	Subject   string `json:"subject"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Barcode   string `json:"barcode"`
	CreatedAt string `json:"created_at"`
	LastSeen  string `json:"last_seen"`
}

// RedemptionResponse represents a journaled redemption event in API responses
type RedemptionResponse struct {
	ID               string `json:"id"`
	MerchantID       string `json:"merchant_id"`
	RewardsEarned    int64  `json:"rewards_earned"`
	RemainingBalance int64  `json:"remaining_balance"`
	Threshold        int64  `json:"threshold"`
	OccurredAt       string `json:"occurred_at"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}
