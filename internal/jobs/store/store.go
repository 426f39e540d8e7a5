// Package store persists jobs in a docstore collection.
package store

import (
	"context"
	"sort"

	"jobgate/internal/docstore"
	"jobgate/internal/jobs/models"
	id "jobgate/pkg/domain"
)

const Collection = "jobs"

type Store struct {
	docs docstore.Collection[models.Job]
}

func New(docs docstore.Collection[models.Job]) *Store {
	return &Store{docs: docs}
}

// NewMemory is a Store over a fresh in-memory collection.
func NewMemory() *Store {
	return New(docstore.NewMemory[models.Job]())
}

func (s *Store) Create(ctx context.Context, job *models.Job) error {
	return s.docs.Create(ctx, job.ID.String(), *job)
}

func (s *Store) FindByID(ctx context.Context, jobID id.JobID) (*models.Job, error) {
	job, err := s.docs.Get(ctx, jobID.String())
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// List returns all jobs, newest posting first.
func (s *Store) List(ctx context.Context) ([]*models.Job, error) {
	docs, err := s.docs.List(ctx)
	if err != nil {
		return nil, err
	}
	jobs := make([]*models.Job, len(docs))
	for i := range docs {
		jobs[i] = &docs[i]
	}
	SortByPostedDesc(jobs)
	return jobs, nil
}

// Update applies fn under the collection's per-document atomicity.
func (s *Store) Update(ctx context.Context, jobID id.JobID, fn func(*models.Job) error) (*models.Job, error) {
	job, err := s.docs.Update(ctx, jobID.String(), fn)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *Store) Delete(ctx context.Context, jobID id.JobID) error {
	return s.docs.Delete(ctx, jobID.String())
}

// SortByPostedDesc orders jobs newest first; ties keep their input order.
func SortByPostedDesc(jobs []*models.Job) {
	sort.SliceStable(jobs, func(i, k int) bool {
		return jobs[i].PostedAt.After(jobs[k].PostedAt)
	})
}
