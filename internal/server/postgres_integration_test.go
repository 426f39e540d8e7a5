//go:build integration

package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobgate/internal/platform/config"
	"jobgate/pkg/testutil"
	"jobgate/pkg/testutil/containers"
)

func TestBuildOnPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	pg := containers.GetManager().GetPostgres(t)
	require.NoError(t, pg.TruncateTables(context.Background(), "documents", "audit_events", "attestation_revocations"))

	cfg := memoryConfig()
	cfg.Storage = config.StorageConfig{
		Backend:        config.StoragePostgres,
		DatabaseURL:    pg.URL,
		MaxConns:       4,
		MigrateOnStart: true,
	}

	first, err := Build(context.Background(), cfg, testutil.DiscardLogger())
	require.NoError(t, err)
	first.Close()

	testutil.Given(t, "a second start against the same database", func(t *testing.T) {
		app, err := Build(context.Background(), cfg, testutil.DiscardLogger())
		require.NoError(t, err)
		t.Cleanup(app.Close)

		testutil.Then(t, "demo data is not duplicated and search is rebuilt", func(t *testing.T) {
			rr := testutil.Serve(app.Handler, testutil.NewJSONRequest(t, http.MethodGet, "/api/jobs/search?title=care", nil))
			require.Equal(t, http.StatusOK, rr.Code)
			jobs := testutil.DecodeJSON[jobList](t, rr)
			assert.Equal(t, 1, jobs.Total)

			rr = testutil.Serve(app.Handler, testutil.NewJSONRequest(t, http.MethodGet, "/healthz", nil))
			assert.Equal(t, http.StatusOK, rr.Code)
		})
	})
}
