// Package search indexes jobs for the public search endpoint.
//
// Memory is always kept current. When Elasticsearch is configured it is the
// primary index, guarded by a circuit breaker that answers from Memory
// while Elasticsearch is failing.
package search

import (
	"context"

	"jobgate/internal/jobs/models"
	id "jobgate/pkg/domain"
)

type Index interface {
	Index(ctx context.Context, job *models.Job) error
	Remove(ctx context.Context, jobID id.JobID) error
	// Search returns matching active jobs, newest posting first.
	Search(ctx context.Context, q models.SearchQuery) ([]*models.Job, error)
}
