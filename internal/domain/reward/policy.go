// Package reward holds the pure reward-settlement arithmetic. It has no
// side effects and no dependencies on storage; the ledger engine calls it
// inside atomic updates.
package reward

// ErrInvalidThreshold indicates a misconfigured merchant threshold. Merchant
// creation validates thresholds, so hitting this means stored configuration
// is corrupt; it is surfaced as a server-side failure, never divided through.
type ErrInvalidThreshold struct {
	Threshold int64
}

func (e ErrInvalidThreshold) Error() string {
	return "reward threshold must be positive"
}

// ErrNegativeBalance indicates a corrupt ledger entry. Entries never go
// negative through the credit path.
type ErrNegativeBalance struct {
	Balance int64
}

func (e ErrNegativeBalance) Error() string {
	return "balance cannot be negative"
}

// Settlement is the outcome of settling a balance against a threshold.
type Settlement struct {
	RewardsEarned    int64
	RemainingBalance int64
}

// Settle resolves threshold crossings for a balance: every full multiple of
// threshold becomes one earned reward and the remainder stays spendable.
// The identity balance == RewardsEarned*threshold + RemainingBalance holds
// for all balance >= 0, threshold > 0.
func Settle(balance, threshold int64) (Settlement, error) {
	if threshold <= 0 {
		return Settlement{}, ErrInvalidThreshold{Threshold: threshold}
	}
	if balance < 0 {
		return Settlement{}, ErrNegativeBalance{Balance: balance}
	}

	return Settlement{
		RewardsEarned:    balance / threshold,
		RemainingBalance: balance % threshold,
	}, nil
}
