package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptySubject = errors.New("identity subject cannot be empty")
	ErrEmptyBarcode = errors.New("barcode cannot be empty")
)

// Account represents a loyalty program member. The barcode is an opaque
// anti-forgery token bound 1:1 to the account; credits are only accepted
// when the caller presents the matching barcode.
type Account struct {
	ID        uuid.UUID `json:"id"`
	Subject   string    `json:"subject"` // Stable identifier from the identity provider
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Barcode   string    `json:"barcode"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
}

// NewAccount creates a new account for an identity-provider subject with a
// freshly minted barcode.
func NewAccount(subject string, email string) (*Account, error) {
	if subject == "" {
		return nil, ErrEmptySubject
	}

	now := time.Now()
	return &Account{
		ID:        uuid.New(),
		Subject:   subject,
		Email:     email,
		Barcode:   uuid.New().String(),
		CreatedAt: now,
		LastSeen:  now,
	}, nil
}

// Touch records a fresh authenticated contact.
func (a *Account) Touch() {
	a.LastSeen = time.Now()
}

// MatchesBarcode reports whether the presented anti-forgery token is the one
// bound to this account.
func (a *Account) MatchesBarcode(barcode string) bool {
	return barcode != "" && a.Barcode == barcode
}
