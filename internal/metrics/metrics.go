// Package metrics provides Prometheus metrics for the sourcing session.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeStale   = "stale"
)

// SessionMetrics covers scoring, parsing, analysis and lead capture.
// A nil *SessionMetrics is valid and records nothing.
type SessionMetrics struct {
	ScoringTotal     *prometheus.CounterVec // by outcome
	ScoringInFlight  prometheus.Gauge
	ParseTotal       *prometheus.CounterVec // by strategy and outcome
	AnalysisDuration *prometheus.HistogramVec
	AlertsTriggered  prometheus.Counter
	LeadSubmissions  *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewSessionMetrics registers the session metrics on registry.
func NewSessionMetrics(registry *prometheus.Registry) (*SessionMetrics, error) {
	m := &SessionMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register session metrics: %w", err)
	}
	return m, nil
}

func (m *SessionMetrics) initMetrics() {
	m.ScoringTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sourcing_image_scoring_total",
			Help: "Image quality scoring calls by outcome",
		},
		[]string{"outcome"},
	)
	m.ScoringInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sourcing_image_scoring_in_flight",
		Help: "Scoring calls currently outstanding",
	})
	m.ParseTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sourcing_proposal_parse_total",
			Help: "Proposal parse attempts by extraction strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)
	m.AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sourcing_analysis_duration_seconds",
			Help:    "Latency of the analysis collaborator",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60, 120},
		},
		[]string{"outcome"},
	)
	m.AlertsTriggered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sourcing_price_alerts_triggered_total",
		Help: "Price alert notifications produced by proposal evaluation",
	})
	m.LeadSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sourcing_lead_submissions_total",
			Help: "Lead capture submissions by outcome",
		},
		[]string{"outcome"},
	)
}

// Registry returns the registry the metrics were registered on.
func (m *SessionMetrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *SessionMetrics) ScoringStarted() {
	if m == nil {
		return
	}
	m.ScoringInFlight.Inc()
}

func (m *SessionMetrics) ScoringFinished(outcome string) {
	if m == nil {
		return
	}
	m.ScoringInFlight.Dec()
	m.ScoringTotal.WithLabelValues(outcome).Inc()
}

func (m *SessionMetrics) RecordParse(strategy string, ok bool) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if !ok {
		outcome = OutcomeError
	}
	m.ParseTotal.WithLabelValues(strategy, outcome).Inc()
}

func (m *SessionMetrics) ObserveAnalysis(d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.AnalysisDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (m *SessionMetrics) AddAlertsTriggered(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.AlertsTriggered.Add(float64(n))
}

func (m *SessionMetrics) RecordLead(ok bool) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if !ok {
		outcome = OutcomeError
	}
	m.LeadSubmissions.WithLabelValues(outcome).Inc()
}

// Describe implements the prometheus.Collector interface.
func (m *SessionMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.ScoringTotal.Describe(ch)
	m.ScoringInFlight.Describe(ch)
	m.ParseTotal.Describe(ch)
	m.AnalysisDuration.Describe(ch)
	m.AlertsTriggered.Describe(ch)
	m.LeadSubmissions.Describe(ch)
}

// Collect implements the prometheus.Collector interface.
func (m *SessionMetrics) Collect(ch chan<- prometheus.Metric) {
	m.ScoringTotal.Collect(ch)
	m.ScoringInFlight.Collect(ch)
	m.ParseTotal.Collect(ch)
	m.AnalysisDuration.Collect(ch)
	m.AlertsTriggered.Collect(ch)
	m.LeadSubmissions.Collect(ch)
}
