package attestation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Signed   *prometheus.CounterVec
	Rejected *prometheus.CounterVec
}

func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Signed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "jobgate_attestations_signed_total",
			Help: "Attestations signed by kind",
		}, []string{"kind"}),
		Rejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "jobgate_attestations_rejected_total",
			Help: "Attestations rejected during verification by reason",
		}, []string{"reason"}),
	}
}

func (m *Metrics) IncSigned(kind Kind) {
	if m == nil {
		return
	}
	m.Signed.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) IncRejected(reason string) {
	if m == nil {
		return
	}
	m.Rejected.WithLabelValues(reason).Inc()
}
