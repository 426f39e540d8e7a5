package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the jobs module.
type Metrics struct {
	Created       prometheus.Counter
	StatusChanges *prometheus.CounterVec
	SearchLatency prometheus.Histogram
	SearchResults prometheus.Histogram
	// Postings whose signature check failed, by reason
	InvalidPostings *prometheus.CounterVec
}

func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Created: f.NewCounter(prometheus.CounterOpts{
			Name: "jobgate_jobs_created_total",
			Help: "Total job postings created",
		}),
		StatusChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "jobgate_jobs_status_changes_total",
			Help: "Job status transitions by target status",
		}, []string{"status"}),
		SearchLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "jobgate_jobs_search_duration_seconds",
			Help:    "Duration of job searches",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		SearchResults: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "jobgate_jobs_search_results",
			Help:    "Number of jobs returned per search",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
		InvalidPostings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "jobgate_jobs_invalid_postings_total",
			Help: "Posting verifications that failed, by reason",
		}, []string{"reason"}),
	}
}

func (m *Metrics) IncCreated() {
	if m != nil {
		m.Created.Inc()
	}
}

func (m *Metrics) IncStatusChange(status string) {
	if m != nil {
		m.StatusChanges.WithLabelValues(status).Inc()
	}
}

// ObserveSearch records one search's latency and result count.
func (m *Metrics) ObserveSearch(d time.Duration, results int) {
	if m != nil {
		m.SearchLatency.Observe(d.Seconds())
		m.SearchResults.Observe(float64(results))
	}
}

func (m *Metrics) IncInvalidPosting(reason string) {
	if m != nil {
		m.InvalidPostings.WithLabelValues(reason).Inc()
	}
}
