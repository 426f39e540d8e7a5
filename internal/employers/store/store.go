// Package store persists employers with unique DIDs and emails.
package store

import (
	"context"
	"errors"
	"fmt"

	"jobgate/internal/docstore"
	"jobgate/internal/employers/models"
	id "jobgate/pkg/domain"
	"jobgate/pkg/platform/sentinel"
)

const (
	Collection      = "employers"
	DIDCollection   = "employer_dids"
	EmailCollection = "employer_emails"
)

var (
	ErrDIDTaken   = fmt.Errorf("did already registered: %w", sentinel.ErrConflict)
	ErrEmailTaken = fmt.Errorf("email already registered: %w", sentinel.ErrConflict)
)

type Store struct {
	docs   docstore.Collection[models.Employer]
	dids   *docstore.Unique
	emails *docstore.Unique
}

func New(docs docstore.Collection[models.Employer], dids, emails docstore.Collection[string]) *Store {
	return &Store{docs: docs, dids: docstore.NewUnique(dids), emails: docstore.NewUnique(emails, docstore.CaseInsensitive())}
}

func NewMemory() *Store {
	return New(docstore.NewMemory[models.Employer](), docstore.NewMemory[string](), docstore.NewMemory[string]())
}

func (s *Store) Create(ctx context.Context, e *models.Employer) (err error) {
	owner := e.ID.String()
	if err := s.dids.Reserve(ctx, e.DID.String(), owner); err != nil {
		return taken(err, ErrDIDTaken)
	}
	defer func() {
		if err != nil {
			_ = s.dids.Release(ctx, e.DID.String())
		}
	}()
	if err := s.emails.Reserve(ctx, e.Email, owner); err != nil {
		return taken(err, ErrEmailTaken)
	}
	defer func() {
		if err != nil {
			_ = s.emails.Release(ctx, e.Email)
		}
	}()
	return s.docs.Create(ctx, owner, *e)
}

func (s *Store) FindByID(ctx context.Context, employerID id.EmployerID) (*models.Employer, error) {
	e, err := s.docs.Get(ctx, employerID.String())
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) FindByDID(ctx context.Context, did id.DID) (*models.Employer, error) {
	owner, err := s.dids.Owner(ctx, did.String())
	if err != nil {
		return nil, err
	}
	e, err := s.docs.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) List(ctx context.Context) ([]*models.Employer, error) {
	docs, err := s.docs.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Employer, len(docs))
	for i := range docs {
		out[i] = &docs[i]
	}
	return out, nil
}

// Update applies fn atomically, moving the email reservation if it changed.
func (s *Store) Update(ctx context.Context, employerID id.EmployerID, fn func(*models.Employer) error) (*models.Employer, error) {
	owner := employerID.String()
	var oldEmail, newEmail string
	updated, err := s.docs.Update(ctx, owner, func(e *models.Employer) error {
		did := e.DID
		oldEmail = e.Email
		if err := fn(e); err != nil {
			return err
		}
		if e.DID != did {
			return fmt.Errorf("did is immutable: %w", sentinel.ErrInvalidState)
		}
		if e.Email != oldEmail {
			if err := s.emails.Reserve(ctx, e.Email, owner); err != nil {
				return taken(err, ErrEmailTaken)
			}
			newEmail = e.Email
		}
		return nil
	})
	if err != nil {
		if newEmail != "" {
			_ = s.emails.Release(ctx, newEmail)
		}
		return nil, err
	}
	if newEmail != "" {
		_ = s.emails.Release(ctx, oldEmail)
	}
	return &updated, nil
}

func (s *Store) Delete(ctx context.Context, employerID id.EmployerID) error {
	e, err := s.docs.Get(ctx, employerID.String())
	if err != nil {
		return err
	}
	if err := s.docs.Delete(ctx, employerID.String()); err != nil {
		return err
	}
	return errors.Join(s.dids.Release(ctx, e.DID.String()), s.emails.Release(ctx, e.Email))
}

func taken(err, sentinelErr error) error {
	if errors.Is(err, sentinel.ErrConflict) {
		return sentinelErr
	}
	return err
}
