package search

import (
	"context"
	"sync"

	"jobgate/internal/jobs/models"
	"jobgate/internal/jobs/store"
	id "jobgate/pkg/domain"
)

type Memory struct {
	mu   sync.RWMutex
	jobs map[id.JobID]models.Job
}

func NewMemory() *Memory {
	return &Memory{jobs: make(map[id.JobID]models.Job)}
}

func (m *Memory) Index(_ context.Context, job *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := *job
	snapshot.Skills = append([]string(nil), job.Skills...)
	m.jobs[job.ID] = snapshot
	return nil
}

func (m *Memory) Remove(_ context.Context, jobID id.JobID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, jobID)
	return nil
}

func (m *Memory) Search(_ context.Context, q models.SearchQuery) ([]*models.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.Job
	for _, j := range m.jobs {
		if q.Matches(&j) {
			hit := j
			out = append(out, &hit)
		}
	}
	store.SortByPostedDesc(out)
	return out, nil
}

// All returns every indexed job, used to resync a recovered primary.
func (m *Memory) All() []*models.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		hit := j
		out = append(out, &hit)
	}
	return out
}
