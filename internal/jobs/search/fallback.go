package search

import (
	"context"
	"log/slog"
	"sync"

	"jobgate/internal/jobs/models"
	id "jobgate/pkg/domain"
	"jobgate/pkg/platform/circuit"
)

// Resilient writes every change to Memory and to the primary index, and
// serves searches from the primary until its breaker opens. When the
// breaker closes again the primary is resynced from Memory, and removals
// that never reached it are replayed.
type Resilient struct {
	primary  Index
	fallback *Memory
	breaker  *circuit.Breaker
	logger   *slog.Logger

	mu      sync.Mutex
	removed map[id.JobID]struct{}
}

type ResilientOption func(*Resilient)

func WithLogger(logger *slog.Logger) ResilientOption {
	return func(r *Resilient) { r.logger = logger }
}

func WithBreaker(b *circuit.Breaker) ResilientOption {
	return func(r *Resilient) { r.breaker = b }
}

func NewResilient(primary Index, fallback *Memory, opts ...ResilientOption) *Resilient {
	r := &Resilient{
		primary:  primary,
		fallback: fallback,
		breaker:  circuit.New("search"),
		logger:   slog.Default(),
		removed:  make(map[id.JobID]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Degraded reports whether searches are currently answered from Memory.
func (r *Resilient) Degraded() bool { return r.breaker.IsOpen() }

func (r *Resilient) Index(ctx context.Context, job *models.Job) error {
	if err := r.fallback.Index(ctx, job); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.removed, job.ID)
	r.mu.Unlock()
	if r.breaker.IsOpen() {
		return nil
	}
	r.record(ctx, "index", r.primary.Index(ctx, job))
	return nil
}

func (r *Resilient) Remove(ctx context.Context, jobID id.JobID) error {
	if err := r.fallback.Remove(ctx, jobID); err != nil {
		return err
	}
	if r.breaker.IsOpen() {
		r.pendRemoval(jobID)
		return nil
	}
	err := r.primary.Remove(ctx, jobID)
	if err != nil {
		r.pendRemoval(jobID)
	}
	r.record(ctx, "remove", err)
	return nil
}

func (r *Resilient) pendRemoval(jobID id.JobID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed[jobID] = struct{}{}
}

// Search probes the primary even while the breaker is open so that it can
// close once the primary recovers.
func (r *Resilient) Search(ctx context.Context, q models.SearchQuery) ([]*models.Job, error) {
	jobs, err := r.primary.Search(ctx, q)
	if !r.record(ctx, "search", err) {
		return r.fallback.Search(ctx, q)
	}
	return jobs, nil
}

// record feeds the outcome to the breaker and reports whether the primary
// result may be used.
func (r *Resilient) record(ctx context.Context, op string, err error) bool {
	if err != nil {
		_, change := r.breaker.RecordFailure()
		r.logger.WarnContext(ctx, "search index call failed",
			"op", op,
			"breaker", r.breaker.Name(),
			"error", err,
		)
		if change.Opened {
			r.logger.ErrorContext(ctx, "search index degraded, serving from memory", "breaker", r.breaker.Name())
		}
		return false
	}

	usePrimary, change := r.breaker.RecordSuccess()
	if change.Closed {
		r.logger.InfoContext(ctx, "search index recovered, resyncing", "breaker", r.breaker.Name())
		r.resync(ctx)
	}
	return usePrimary
}

func (r *Resilient) resync(ctx context.Context) {
	r.mu.Lock()
	pending := make([]id.JobID, 0, len(r.removed))
	for jobID := range r.removed {
		pending = append(pending, jobID)
	}
	r.mu.Unlock()

	for _, jobID := range pending {
		if err := r.primary.Remove(ctx, jobID); err != nil {
			r.logger.WarnContext(ctx, "search resync removal failed", "job_id", jobID.String(), "error", err)
			return
		}
		r.mu.Lock()
		delete(r.removed, jobID)
		r.mu.Unlock()
	}

	for _, job := range r.fallback.All() {
		if err := r.primary.Index(ctx, job); err != nil {
			r.logger.WarnContext(ctx, "search resync failed", "job_id", job.ID.String(), "error", err)
			return
		}
	}
}
