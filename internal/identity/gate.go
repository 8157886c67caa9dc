// Package identity resolves caller credentials to loyalty accounts. The
// actual credential verification is delegated to a TokenVerifier so the core
// never embeds a specific identity provider's client.
package identity

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/loyalty-points-ledger/internal/domain/account"
)

// Principal is the resolved caller: a stable account identifier plus the
// anti-forgery barcode bound to it.
type Principal struct {
	AccountID uuid.UUID
	Barcode   string
}

// Claims are the verified fields extracted from a credential token.
type Claims struct {
	Subject string
	Email   string
}

// TokenVerifier checks a bearer credential and extracts its claims. This is
// the narrow seam to the external identity provider.
type TokenVerifier interface {
	Verify(ctx context.Context, credentialToken string) (Claims, error)
}

// Gate authenticates callers and provisions accounts on first contact.
type Gate interface {
	// Resolve verifies the credential and returns the caller's principal,
	// idempotently creating an account with a fresh barcode for subjects
	// seen for the first time.
	Resolve(ctx context.Context, credentialToken string) (Principal, error)
}

// ErrAuthentication indicates an invalid or expired credential
type ErrAuthentication struct {
	Reason string
}

func (e ErrAuthentication) Error() string {
	if e.Reason == "" {
		return "authentication failed"
	}
	return "authentication failed: " + e.Reason
}

// Is implements the errors.Is interface for ErrAuthentication
func (e ErrAuthentication) Is(target error) bool {
	_, ok := target.(ErrAuthentication)
	return ok
}

// GateImpl implements the Gate interface
type GateImpl struct {
	verifier TokenVerifier
	accounts account.Repository
	logger   *slog.Logger
}

// NewGate creates a new identity gate
func NewGate(logger *slog.Logger, verifier TokenVerifier, accounts account.Repository) Gate {
	return &GateImpl{
		verifier: verifier,
		accounts: accounts,
		logger:   logger,
	}
}

// Resolve verifies the credential and maps it to an account, creating the
// account on first authenticated contact.
func (g *GateImpl) Resolve(ctx context.Context, credentialToken string) (Principal, error) {
	claims, err := g.verifier.Verify(ctx, credentialToken)
	if err != nil {
		return Principal{}, ErrAuthentication{Reason: err.Error()}
	}

	acc, err := g.accounts.GetBySubject(ctx, claims.Subject)
	if err != nil {
		g.logger.Error("Failed to look up account by subject", "subject", claims.Subject, "error", err)
		return Principal{}, err
	}

	if acc == nil {
		acc, err = g.provision(ctx, claims)
		if err != nil {
			return Principal{}, err
		}
	} else {
		acc.Touch()
		if err := g.accounts.Update(ctx, acc); err != nil {
			// Losing a last-seen update is not worth failing the request
			g.logger.Warn("Failed to record account contact", "account_id", acc.ID.String(), "error", err)
		}
	}

	return Principal{AccountID: acc.ID, Barcode: acc.Barcode}, nil
}

// provision creates the account for a first-contact subject. A concurrent
// request may win the race; the unique subject constraint turns that into
// ErrDuplicateSubject and the loser re-reads the winner's account.
func (g *GateImpl) provision(ctx context.Context, claims Claims) (*account.Account, error) {
	acc, err := account.NewAccount(claims.Subject, claims.Email)
	if err != nil {
		return nil, ErrAuthentication{Reason: err.Error()}
	}

	if err := g.accounts.Create(ctx, acc); err != nil {
		var dup account.ErrDuplicateSubject
		if errors.As(err, &dup) {
			existing, getErr := g.accounts.GetBySubject(ctx, claims.Subject)
			if getErr != nil {
				return nil, getErr
			}
			if existing == nil {
				return nil, err
			}
			return existing, nil
		}
		g.logger.Error("Failed to provision account", "subject", claims.Subject, "error", err)
		return nil, err
	}

	g.logger.Info("Provisioned new account", "account_id", acc.ID.String(), "subject", claims.Subject)
	return acc, nil
}
