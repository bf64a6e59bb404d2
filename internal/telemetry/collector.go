// Package telemetry exposes Prometheus metrics for the subtype CLI's batch
// checks and live runtime sessions. Grounded on
// dantte-lp/gobfd/internal/metrics/collector.go.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "subtype"
)

// Label names for subtype metrics.
const (
	labelCheckName = "check_name"
	labelResult    = "result"
	labelRole      = "role"
)

// Collector holds all subtype Prometheus metrics.
//
//   - Decisions counts completed subtype decisions, labeled by outcome.
//   - DecisionDuration measures how long each decision took to run.
//   - SessionMessagesSent and SessionMessagesReceived count messages
//     exchanged by runtime.Session endpoints, per role.
//   - SessionTransitions counts FSM state transitions taken by a running
//     session, one per role.
type Collector struct {
	// Decisions counts IsSubtype results, labeled by check name and
	// "subtype"/"not_subtype".
	Decisions *prometheus.CounterVec

	// DecisionDuration records the wall-clock time of each IsSubtype call.
	DecisionDuration *prometheus.HistogramVec

	// SessionMessagesSent counts messages sent by a runtime session, per role.
	SessionMessagesSent *prometheus.CounterVec

	// SessionMessagesReceived counts messages received by a runtime session,
	// per role.
	SessionMessagesReceived *prometheus.CounterVec

	// SessionTransitions counts FSM state transitions taken during session
	// playback, per role.
	SessionTransitions *prometheus.CounterVec
}

// NewCollector creates a Collector with all subtype metrics registered
// against reg. If reg is nil, prometheus.DefaultRegisterer is used.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := newMetrics()

	reg.MustRegister(
		c.Decisions,
		c.DecisionDuration,
		c.SessionMessagesSent,
		c.SessionMessagesReceived,
		c.SessionTransitions,
	)

	return c
}

func newMetrics() *Collector {
	decisionLabels := []string{labelCheckName, labelResult}
	roleLabels := []string{labelRole}

	return &Collector{
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Total completed asynchronous subtyping decisions.",
		}, decisionLabels),

		DecisionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "decision_duration_seconds",
			Help:      "Duration of IsSubtype calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{labelCheckName}),

		SessionMessagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_messages_sent_total",
			Help:      "Total messages sent by a runtime session endpoint.",
		}, roleLabels),

		SessionMessagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_messages_received_total",
			Help:      "Total messages received by a runtime session endpoint.",
		}, roleLabels),

		SessionTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_transitions_total",
			Help:      "Total FSM state transitions taken during session playback.",
		}, roleLabels),
	}
}

// -------------------------------------------------------------------------
// Decisions
// -------------------------------------------------------------------------

// RecordDecision records the outcome and duration of a completed IsSubtype
// call for the named check.
func (c *Collector) RecordDecision(checkName string, isSubtype bool, seconds float64) {
	result := "not_subtype"
	if isSubtype {
		result = "subtype"
	}
	c.Decisions.WithLabelValues(checkName, result).Inc()
	c.DecisionDuration.WithLabelValues(checkName).Observe(seconds)
}

// -------------------------------------------------------------------------
// Session Playback
// -------------------------------------------------------------------------

// IncMessagesSent increments the sent-message counter for role.
func (c *Collector) IncMessagesSent(role string) {
	c.SessionMessagesSent.WithLabelValues(role).Inc()
}

// IncMessagesReceived increments the received-message counter for role.
func (c *Collector) IncMessagesReceived(role string) {
	c.SessionMessagesReceived.WithLabelValues(role).Inc()
}

// IncTransitions increments the state-transition counter for role.
func (c *Collector) IncTransitions(role string) {
	c.SessionTransitions.WithLabelValues(role).Inc()
}
