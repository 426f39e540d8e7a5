package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobgate/internal/employers/models"
	id "jobgate/pkg/domain"
	"jobgate/pkg/platform/sentinel"
)

func employer(did, email string) *models.Employer {
	return &models.Employer{ID: id.NewEmployerID(), Name: "Acme", DID: id.DID(did), Email: email}
}

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	acme := employer("did:web:acme", "hr@acme.com")
	require.NoError(t, s.Create(ctx, acme))
	assert.ErrorIs(t, s.Create(ctx, employer("did:web:acme", "jobs@acme.com")), ErrDIDTaken)
	assert.ErrorIs(t, s.Create(ctx, employer("did:web:other", "HR@acme.com")), ErrEmailTaken)

	got, err := s.FindByDID(ctx, "did:web:acme")
	require.NoError(t, err)
	assert.Equal(t, acme.ID, got.ID)

	updated, err := s.Update(ctx, acme.ID, func(e *models.Employer) error {
		e.Email = "talent@acme.com"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "talent@acme.com", updated.Email)
	require.NoError(t, s.Create(ctx, employer("did:web:other", "hr@acme.com")), "old email was released")

	_, err = s.Update(ctx, acme.ID, func(e *models.Employer) error {
		e.DID = "did:web:changed"
		return nil
	})
	assert.ErrorIs(t, err, sentinel.ErrInvalidState)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, s.Delete(ctx, acme.ID))
	_, err = s.FindByDID(ctx, "did:web:acme")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, acme.ID), sentinel.ErrNotFound)
}

func TestStoreDIDsAreCaseSensitive(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	upper := employer("did:web:Acme", "hr@acme.com")
	lower := employer("did:web:acme", "jobs@acme.com")
	require.NoError(t, s.Create(ctx, upper))
	require.NoError(t, s.Create(ctx, lower), "method-specific ids differing in case are distinct DIDs")

	got, err := s.FindByDID(ctx, "did:web:Acme")
	require.NoError(t, err)
	assert.Equal(t, upper.ID, got.ID)

	got, err = s.FindByDID(ctx, "did:web:acme")
	require.NoError(t, err)
	assert.Equal(t, lower.ID, got.ID)
}
