// Package store persists applications in a docstore collection keyed by
// the deterministic (job, applicant) id, so a duplicate apply is a key
// conflict in every backend.
package store

import (
	"context"

	"jobgate/internal/applications/models"
	"jobgate/internal/docstore"
	id "jobgate/pkg/domain"
)

const Collection = "applications"

type Store struct {
	docs docstore.Collection[models.Application]
}

func New(docs docstore.Collection[models.Application]) *Store {
	return &Store{docs: docs}
}

func NewMemory() *Store {
	return New(docstore.NewMemory[models.Application]())
}

// Create returns sentinel.ErrConflict when the applicant already applied.
func (s *Store) Create(ctx context.Context, app *models.Application) error {
	return s.docs.Create(ctx, app.ID.String(), *app)
}

func (s *Store) FindByID(ctx context.Context, applicationID id.ApplicationID) (*models.Application, error) {
	app, err := s.docs.Get(ctx, applicationID.String())
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// List returns every application in submission order.
func (s *Store) List(ctx context.Context) ([]*models.Application, error) {
	return s.filter(ctx, func(*models.Application) bool { return true })
}

func (s *Store) ListByJob(ctx context.Context, jobID id.JobID) ([]*models.Application, error) {
	return s.filter(ctx, func(a *models.Application) bool { return a.JobID == jobID })
}

func (s *Store) ListByApplicant(ctx context.Context, applicantID id.ApplicantID) ([]*models.Application, error) {
	return s.filter(ctx, func(a *models.Application) bool { return a.ApplicantID == applicantID })
}

func (s *Store) Update(ctx context.Context, applicationID id.ApplicationID, fn func(*models.Application) error) (*models.Application, error) {
	app, err := s.docs.Update(ctx, applicationID.String(), fn)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (s *Store) Delete(ctx context.Context, applicationID id.ApplicationID) error {
	return s.docs.Delete(ctx, applicationID.String())
}

func (s *Store) filter(ctx context.Context, keep func(*models.Application) bool) ([]*models.Application, error) {
	docs, err := s.docs.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Application, 0, len(docs))
	for i := range docs {
		if keep(&docs[i]) {
			out = append(out, &docs[i])
		}
	}
	return out, nil
}
