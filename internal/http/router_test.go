package httpapi

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobgate/internal/platform/metrics"
	"jobgate/pkg/platform/httputil"
	"jobgate/pkg/testutil"
)

type pingHandler struct{}

func (pingHandler) Register(r chi.Router) {
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"pong": "yes"})
	})
	r.Get("/panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
}

func newTestRouter(checks map[string]HealthCheck) (http.Handler, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewRouter(Options{
		Logger:   testutil.DiscardLogger(),
		Observer: metrics.NewHTTPWith(reg),
		Gatherer: reg,
		Checks:   checks,
		Handlers: []Registrar{pingHandler{}},
	}), reg
}

func TestRouterMountsHandlersUnderAPI(t *testing.T) {
	router, _ := newTestRouter(nil)

	rr := testutil.Serve(router, testutil.NewJSONRequest(t, http.MethodGet, "/api/ping", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	rr = testutil.Serve(router, testutil.NewJSONRequest(t, http.MethodGet, "/ping", nil))
	testutil.AssertError(t, rr, http.StatusNotFound, "not_found")
}

func TestRouterRecoversPanics(t *testing.T) {
	router, _ := newTestRouter(nil)
	rr := testutil.Serve(router, testutil.NewJSONRequest(t, http.MethodGet, "/api/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHealthz(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		router, _ := newTestRouter(map[string]HealthCheck{
			"postgres": func(context.Context) error { return nil },
		})
		rr := testutil.Serve(router, testutil.NewJSONRequest(t, http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		body := testutil.DecodeJSON[healthResponse](t, rr)
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "ok", body.Checks["postgres"])
	})

	t.Run("degraded", func(t *testing.T) {
		router, _ := newTestRouter(map[string]HealthCheck{
			"redis": func(context.Context) error { return errors.New("connection refused") },
		})
		rr := testutil.Serve(router, testutil.NewJSONRequest(t, http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusServiceUnavailable, rr.Code)
		body := testutil.DecodeJSON[healthResponse](t, rr)
		assert.Equal(t, "degraded", body.Status)
	})
}

func TestMetricsEndpointExposesHTTPMetrics(t *testing.T) {
	router, _ := newTestRouter(nil)
	testutil.Serve(router, testutil.NewJSONRequest(t, http.MethodGet, "/api/ping", nil))

	rr := testutil.Serve(router, testutil.NewJSONRequest(t, http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `jobgate_http_requests_total{method="GET",route="/api/ping",status="200"} 1`)
}
