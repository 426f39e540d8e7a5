package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	m := NewHTTPWith(prometheus.NewRegistry())

	m.ObserveRequest(http.MethodGet, "/api/jobs", http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/jobs", http.StatusOK, 30*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/jobs", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "/api/jobs", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "/api/jobs", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Duration))
}

func TestNilSafe(t *testing.T) {
	var m *HTTP
	assert.NotPanics(t, func() { m.ObserveRequest(http.MethodGet, "/", 200, time.Second) })
}
