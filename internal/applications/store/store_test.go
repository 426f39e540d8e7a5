package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobgate/internal/applications/models"
	id "jobgate/pkg/domain"
	"jobgate/pkg/platform/sentinel"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	s := NewMemory()

	jobA, jobB := id.NewJobID(), id.NewJobID()
	dana, eli := id.NewApplicantID(), id.NewApplicantID()

	first := models.NewApplication(jobA, dana, "", now)
	require.NoError(t, s.Create(ctx, first))
	require.NoError(t, s.Create(ctx, models.NewApplication(jobA, eli, "", now)))
	require.NoError(t, s.Create(ctx, models.NewApplication(jobB, dana, "", now)))

	t.Run("duplicate apply conflicts", func(t *testing.T) {
		err := s.Create(ctx, models.NewApplication(jobA, dana, "again", now))
		assert.ErrorIs(t, err, sentinel.ErrConflict)
	})

	t.Run("list filters", func(t *testing.T) {
		all, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)

		byJob, err := s.ListByJob(ctx, jobA)
		require.NoError(t, err)
		assert.Len(t, byJob, 2)
		assert.Equal(t, first.ID, byJob[0].ID)

		byApplicant, err := s.ListByApplicant(ctx, dana)
		require.NoError(t, err)
		assert.Len(t, byApplicant, 2)

		none, err := s.ListByApplicant(ctx, id.NewApplicantID())
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("update and delete", func(t *testing.T) {
		updated, err := s.Update(ctx, first.ID, func(a *models.Application) error {
			return a.TransitionTo(models.StatusWithdrawn, now)
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusWithdrawn, updated.Status)

		require.NoError(t, s.Delete(ctx, first.ID))
		_, err = s.FindByID(ctx, first.ID)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
