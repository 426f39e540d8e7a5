// Package store persists applicants and enforces unique DIDs and emails.
package store

import (
	"context"
	"errors"
	"fmt"

	"jobgate/internal/applicants/models"
	"jobgate/internal/docstore"
	id "jobgate/pkg/domain"
	"jobgate/pkg/platform/sentinel"
)

const (
	Collection      = "applicants"
	DIDCollection   = "applicant_dids"
	EmailCollection = "applicant_emails"
)

// ErrDIDTaken and ErrEmailTaken wrap sentinel.ErrConflict.
var (
	ErrDIDTaken   = fmt.Errorf("did already registered: %w", sentinel.ErrConflict)
	ErrEmailTaken = fmt.Errorf("email already registered: %w", sentinel.ErrConflict)
)

type Store struct {
	docs   docstore.Collection[models.Applicant]
	dids   *docstore.Unique
	emails *docstore.Unique
}

func New(docs docstore.Collection[models.Applicant], dids, emails docstore.Collection[string]) *Store {
	return &Store{
		docs:   docs,
		dids:   docstore.NewUnique(dids),
		emails: docstore.NewUnique(emails, docstore.CaseInsensitive()),
	}
}

func NewMemory() *Store {
	return New(docstore.NewMemory[models.Applicant](), docstore.NewMemory[string](), docstore.NewMemory[string]())
}

// Create reserves the DID and email, then stores the applicant. Reservations
// are released if a later step fails.
func (s *Store) Create(ctx context.Context, a *models.Applicant) (err error) {
	owner := a.ID.String()
	if err := s.dids.Reserve(ctx, a.DID.String(), owner); err != nil {
		return reservationError(err, ErrDIDTaken)
	}
	defer func() {
		if err != nil {
			_ = s.dids.Release(ctx, a.DID.String())
		}
	}()
	if err := s.emails.Reserve(ctx, a.Email, owner); err != nil {
		return reservationError(err, ErrEmailTaken)
	}
	defer func() {
		if err != nil {
			_ = s.emails.Release(ctx, a.Email)
		}
	}()
	return s.docs.Create(ctx, owner, *a)
}

func (s *Store) FindByID(ctx context.Context, applicantID id.ApplicantID) (*models.Applicant, error) {
	a, err := s.docs.Get(ctx, applicantID.String())
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) FindByDID(ctx context.Context, did id.DID) (*models.Applicant, error) {
	owner, err := s.dids.Owner(ctx, did.String())
	if err != nil {
		return nil, err
	}
	a, err := s.docs.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns applicants in creation order.
func (s *Store) List(ctx context.Context) ([]*models.Applicant, error) {
	docs, err := s.docs.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Applicant, len(docs))
	for i := range docs {
		out[i] = &docs[i]
	}
	return out, nil
}

// Update applies fn atomically. A changed email is reserved before the
// write and the old one released after it. DIDs cannot change.
func (s *Store) Update(ctx context.Context, applicantID id.ApplicantID, fn func(*models.Applicant) error) (*models.Applicant, error) {
	owner := applicantID.String()
	var oldEmail, newEmail string
	updated, err := s.docs.Update(ctx, owner, func(a *models.Applicant) error {
		did := a.DID
		oldEmail = a.Email
		if err := fn(a); err != nil {
			return err
		}
		if a.DID != did {
			return fmt.Errorf("did is immutable: %w", sentinel.ErrInvalidState)
		}
		if a.Email != oldEmail {
			if err := s.emails.Reserve(ctx, a.Email, owner); err != nil {
				return reservationError(err, ErrEmailTaken)
			}
			newEmail = a.Email
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

func (s *Store) Delete(ctx context.Context, applicantID id.ApplicantID) error {
	a, err := s.docs.Get(ctx, applicantID.String())
	if err != nil {
		return err
	}
	if err := s.docs.Delete(ctx, applicantID.String()); err != nil {
		return err
	}
	return errors.Join(
		s.dids.Release(ctx, a.DID.String()),
		s.emails.Release(ctx, a.Email),
	)
}

func reservationError(err, taken error) error {
	if errors.Is(err, sentinel.ErrConflict) {
		return taken
	}
	return err
}
