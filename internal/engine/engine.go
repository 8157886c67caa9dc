// Package engine implements the points-accrual and reward-redemption state
// machine. Credit is the single mutating operation; all shared state it
// touches is arbitrated through the ledger store's atomicity contract.
package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/loyalty-points-ledger/internal/domain/account"
	"github.com/loyalty-points-ledger/internal/domain/ledger"
	"github.com/loyalty-points-ledger/internal/domain/merchant"
	"github.com/loyalty-points-ledger/internal/domain/redemption"
	"github.com/loyalty-points-ledger/internal/domain/reward"
	"github.com/loyalty-points-ledger/internal/platform/metrics"
)

// CreditRequest is the validated input for a credit operation.
type CreditRequest struct {
	AccountID     uuid.UUID
	Barcode       string
	MerchantID    uuid.UUID
	ItemCount     int64
	CorrelationID string
}

// CreditResult is the outcome of a credit operation after reward settlement.
type CreditResult struct {
	RewardsEarned    int64
	RemainingBalance int64
}

// Engine applies credits to (account, merchant) ledger entries and resolves
// threshold crossings before returning. Two concurrent Credit calls on the
// same key never observe the same pre-update balance; calls on different
// keys proceed independently.
type Engine struct {
	accounts  account.Repository
	merchants merchant.Repository
	store     ledger.Store
	metrics   *metrics.CreditMetrics
	logger    *slog.Logger
}

// NewEngine creates a new ledger engine. metrics may be nil.
func NewEngine(
	logger *slog.Logger,
	accounts account.Repository,
	merchants merchant.Repository,
	store ledger.Store,
	m *metrics.CreditMetrics,
) *Engine {
	return &Engine{
		accounts:  accounts,
		merchants: merchants,
		store:     store,
		metrics:   m,
		logger:    logger,
	}
}

// Credit validates the request, applies the credit atomically and settles
// reward crossings. The ledger entry is fetched-or-created, credited, and
// settled in one atomic step; when rewards are earned the redemption event
// is recorded in that same step. A call cancelled before the store commits
// has no observable effect.
func (e *Engine) Credit(ctx context.Context, req CreditRequest) (CreditResult, error) {
	logger := e.logger
	if req.CorrelationID != "" {
		logger = e.logger.With("correlation_id", req.CorrelationID)
	}

	if req.ItemCount <= 0 {
		e.metrics.ObserveFailure("invalid_item_count")
		return CreditResult{}, ledger.ErrInvalidItemCount
	}

	acc, err := e.accounts.GetByID(ctx, req.AccountID)
	if err != nil {
		e.metrics.ObserveFailure("account_lookup")
		return CreditResult{}, err
	}
	if !acc.MatchesBarcode(req.Barcode) {
		logger.Warn("Credit rejected: barcode mismatch", "account_id", req.AccountID.String())
		e.metrics.ObserveFailure("barcode_mismatch")
		return CreditResult{}, account.ErrBarcodeMismatch{AccountID: req.AccountID}
	}

	// Threshold changes apply prospectively: each credit settles against
	// the threshold read here, in this call.
	m, err := e.merchants.GetByID(ctx, req.MerchantID)
	if err != nil {
		e.metrics.ObserveFailure("merchant_lookup")
		return CreditResult{}, err
	}

	key := ledger.Key{AccountID: req.AccountID, MerchantID: req.MerchantID}
	var result CreditResult

	_, err = e.store.AtomicUpdate(ctx, key, func(current ledger.Entry) (ledger.Entry, *redemption.Event, error) {
		if creditErr := current.Credit(req.ItemCount); creditErr != nil {
			return current, nil, creditErr
		}

		settlement, settleErr := reward.Settle(current.Balance, m.RewardThreshold)
		if settleErr != nil {
			return current, nil, settleErr
		}
		current.Balance = settlement.RemainingBalance

		result = CreditResult{
			RewardsEarned:    settlement.RewardsEarned,
			RemainingBalance: settlement.RemainingBalance,
		}

		var event *redemption.Event
		if settlement.RewardsEarned > 0 {
			event = redemption.NewEvent(
				req.AccountID,
				req.MerchantID,
				settlement.RewardsEarned,
				settlement.RemainingBalance,
				m.RewardThreshold,
				req.CorrelationID,
			)
		}
		return current, event, nil
	})
	if err != nil {
		e.metrics.ObserveFailure("store_update")
		logger.Error("Failed to apply credit",
			"account_id", req.AccountID.String(),
			"merchant_id", req.MerchantID.String(),
			"error", err,
		)
		return CreditResult{}, err
	}

	e.metrics.ObserveCredit(req.MerchantID.String(), req.ItemCount, result.RewardsEarned)
	logger.Info("Credit applied",
		"account_id", req.AccountID.String(),
		"merchant_id", req.MerchantID.String(),
		"item_count", req.ItemCount,
		"rewards_earned", result.RewardsEarned,
		"remaining_balance", result.RemainingBalance,
	)
	return result, nil
}

// Balance returns the entry for a key, or the zero-balance default when the
// account has never been credited at the merchant.
func (e *Engine) Balance(ctx context.Context, accountID, merchantID uuid.UUID) (ledger.Entry, error) {
	key := ledger.Key{AccountID: accountID, MerchantID: merchantID}
	entry, err := e.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ledger.ErrEntryNotFound{}) {
			return ledger.NewEntry(key), nil
		}
		return ledger.Entry{}, err
	}
	return entry, nil
}

// ParticipatedMerchants lists the merchants the account has earned points
// with, resolved from the account's ledger entries.
func (e *Engine) ParticipatedMerchants(ctx context.Context, accountID uuid.UUID) ([]*merchant.Merchant, error) {
	entries, err := e.store.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []*merchant.Merchant{}, nil
	}

	ids := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.MerchantID)
	}
	return e.merchants.GetByIDs(ctx, ids)
}
