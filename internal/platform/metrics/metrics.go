package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CreditMetrics records counters for the credit path. All methods are
// nil-safe so callers can run without a registry in tests.
type CreditMetrics struct {
	credits     *prometheus.CounterVec
	points      *prometheus.CounterVec
	rewards     *prometheus.CounterVec
	creditFails *prometheus.CounterVec
}

// NewCreditMetrics registers the credit metrics on the provided registerer.
func NewCreditMetrics(reg prometheus.Registerer) *CreditMetrics {
	if reg == nil {
		return &CreditMetrics{}
	}
	credits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loyalty_credits_total",
		Help: "Completed credit operations.",
	}, []string{"merchant_id"})
	points := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loyalty_points_credited_total",
		Help: "Points credited across all accounts.",
	}, []string{"merchant_id"})
	rewards := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loyalty_rewards_earned_total",
		Help: "Reward units earned through threshold crossings.",
	}, []string{"merchant_id"})
	creditFails := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loyalty_credit_failures_total",
		Help: "Credit operations rejected or failed.",
	}, []string{"reason"})
	reg.MustRegister(credits, points, rewards, creditFails)
	return &CreditMetrics{
		credits:     credits,
		points:      points,
		rewards:     rewards,
		creditFails: creditFails,
	}
}

// ObserveCredit records a completed credit operation.
func (m *CreditMetrics) ObserveCredit(merchantID string, itemCount, rewardsEarned int64) {
	if m == nil || m.credits == nil {
		return
	}
	m.credits.WithLabelValues(merchantID).Inc()
	m.points.WithLabelValues(merchantID).Add(float64(itemCount))
	if rewardsEarned > 0 {
		m.rewards.WithLabelValues(merchantID).Add(float64(rewardsEarned))
	}
}

// ObserveFailure records a rejected or failed credit operation.
func (m *CreditMetrics) ObserveFailure(reason string) {
	if m == nil || m.creditFails == nil {
		return
	}
	m.creditFails.WithLabelValues(reason).Inc()
}
