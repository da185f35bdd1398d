package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// IncentiveMetrics exposes counters for the engine's externally visible
// transitions plus the RPC request stream.
type IncentiveMetrics struct {
	programsCreated prometheus.Counter
	proofsReviewed  *prometheus.CounterVec
	rewardsClaimed  prometheus.Counter
	rpcRequests     *prometheus.CounterVec
}

var (
	incentiveOnce     sync.Once
	incentiveRegistry *IncentiveMetrics
)

// Incentive returns the process-wide metrics registry, creating it on first
// use.
func Incentive() *IncentiveMetrics {
	incentiveOnce.Do(func() {
		incentiveRegistry = &IncentiveMetrics{
			programsCreated: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "incentive_programs_created_total",
				Help: "Count of incentive programs registered.",
			}),
			proofsReviewed: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "incentive_proofs_reviewed_total",
				Help: "Count of proof verdicts recorded by outcome.",
			}, []string{"outcome"}),
			rewardsClaimed: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "incentive_rewards_claimed_total",
				Help: "Count of settled reward claims.",
			}),
			rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "incentive_rpc_requests_total",
				Help: "Count of JSON-RPC requests by method and status.",
			}, []string{"method", "status"}),
		}
		prometheus.MustRegister(
			incentiveRegistry.programsCreated,
			incentiveRegistry.proofsReviewed,
			incentiveRegistry.rewardsClaimed,
			incentiveRegistry.rpcRequests,
		)
	})
	return incentiveRegistry
}

func (m *IncentiveMetrics) ObserveProgramCreated() {
	if m == nil {
		return
	}
	m.programsCreated.Inc()
}

func (m *IncentiveMetrics) ObserveProofReviewed(outcome string) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.proofsReviewed.WithLabelValues(outcome).Inc()
}

func (m *IncentiveMetrics) ObserveRewardClaimed() {
	if m == nil {
		return
	}
	m.rewardsClaimed.Inc()
}

func (m *IncentiveMetrics) ObserveRPCRequest(method, status string) {
	if m == nil {
		return
	}
	if method == "" {
		method = "unknown"
	}
	m.rpcRequests.WithLabelValues(method, status).Inc()
}
