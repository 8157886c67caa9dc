package reward

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettle(t *testing.T) {
	tests := []struct {
		name             string
		balance          int64
		threshold        int64
		rewardsEarned    int64
		remainingBalance int64
	}{
		{"below threshold", 7, 10, 0, 7},
		{"exactly at threshold", 10, 10, 1, 0},
		{"one past threshold", 11, 10, 1, 1},
		{"multiple crossings", 12, 5, 2, 2},
		{"zero balance", 0, 10, 0, 0},
		{"threshold of one", 4, 1, 4, 0},
		{"large balance", 1_000_003, 1000, 1000, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settlement, err := Settle(tt.balance, tt.threshold)
			require.NoError(t, err)
			assert.Equal(t, tt.rewardsEarned, settlement.RewardsEarned)
			assert.Equal(t, tt.remainingBalance, settlement.RemainingBalance)
		})
	}
}

func TestSettle_Identity(t *testing.T) {
	// balance == rewards*threshold + remainder and 0 <= remainder < threshold
	for balance := int64(0); balance <= 200; balance++ {
		for _, threshold := range []int64{1, 2, 3, 7, 10, 50} {
			settlement, err := Settle(balance, threshold)
			require.NoError(t, err)
			assert.Equal(t, balance, settlement.RewardsEarned*threshold+settlement.RemainingBalance)
			assert.GreaterOrEqual(t, settlement.RemainingBalance, int64(0))
			assert.Less(t, settlement.RemainingBalance, threshold)
		}
	}
}

func TestSettle_InvalidThreshold(t *testing.T) {
	for _, threshold := range []int64{0, -1, -10} {
		settlement, err := Settle(100, threshold)
		require.Error(t, err)

		var invalidErr ErrInvalidThreshold
		assert.ErrorAs(t, err, &invalidErr)
		assert.Equal(t, threshold, invalidErr.Threshold)
		assert.Zero(t, settlement)
	}
}

func TestSettle_NegativeBalance(t *testing.T) {
	_, err := Settle(-1, 10)
	require.Error(t, err)

	var negErr ErrNegativeBalance
	assert.ErrorAs(t, err, &negErr)
	assert.Equal(t, int64(-1), negErr.Balance)
}
