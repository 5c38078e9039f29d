// Package metrics holds the prometheus collectors exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SpendGuardDecisions counts budget checks on the transaction write path.
	SpendGuardDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kitty_spend_guard_decisions_total",
		Help: "Spend guard decisions by result",
	}, []string{"result"})

	// Reallocations counts budget reallocation outcomes.
	Reallocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kitty_budget_reallocations_total",
		Help: "Budget reallocations by result",
	}, []string{"result"})

	// MembershipTransitions counts membership state changes by operation and result.
	MembershipTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kitty_membership_transitions_total",
		Help: "Membership transitions by operation and result",
	}, []string{"operation", "result"})

	// TxRetries counts units of work re-run after a serialization failure or deadlock.
	TxRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kitty_tx_retries_total",
		Help: "Units of work retried after a transient database abort",
	}, []string{"operation"})
)

const (
	ResultAccepted   = "accepted"
	ResultRejected   = "rejected"
	ResultOverridden = "overridden"
	ResultUnbudgeted = "unbudgeted"
	ResultCommitted  = "committed"
	ResultAborted    = "aborted"
)
