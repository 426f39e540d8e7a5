package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the applications module.
type Metrics struct {
	Submitted prometheus.Counter

	// Fetch latencies during verification by source
	FetchLatency *prometheus.HistogramVec

	// Verification outcomes by outcome and failure kind
	Outcomes *prometheus.CounterVec

	// Full verification latency including fetch, evaluation and signing
	VerifyLatency prometheus.Histogram

	StatusChanges *prometheus.CounterVec
}

func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Submitted: f.NewCounter(prometheus.CounterOpts{
			Name: "jobgate_applications_submitted_total",
			Help: "Total applications submitted",
		}),
		FetchLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jobgate_applications_fetch_duration_seconds",
			Help:    "Duration of record fetches during verification by source",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"source"}), // source: "job", "applicant"
		Outcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "jobgate_applications_verification_outcomes_total",
			Help: "Eligibility verification outcomes",
		}, []string{"outcome", "failure_kind"}),
		VerifyLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "jobgate_applications_verify_duration_seconds",
			Help:    "Duration of eligibility verification",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		StatusChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "jobgate_applications_status_changes_total",
			Help: "Application status transitions by target status",
		}, []string{"status"}),
	}
}

func (m *Metrics) IncSubmitted() {
	if m != nil {
		m.Submitted.Inc()
	}
}

func (m *Metrics) ObserveFetchLatency(source string, d time.Duration) {
	if m != nil {
		m.FetchLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

// ObserveVerification records one verification outcome and its duration.
// failureKind is empty for eligible outcomes.
func (m *Metrics) ObserveVerification(outcome, failureKind string, d time.Duration) {
	if m != nil {
		m.Outcomes.WithLabelValues(outcome, failureKind).Inc()
		m.VerifyLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncStatusChange(status string) {
	if m != nil {
		m.StatusChanges.WithLabelValues(status).Inc()
	}
}
