package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "jobgate/pkg/platform/audit"
)

func TestListBySubjectFilters(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Append(ctx, audit.Event{Subject: "job:1", Action: audit.EventJobCreated}))
	require.NoError(t, s.Append(ctx, audit.Event{Subject: "job:2", Action: audit.EventJobCreated}))
	require.NoError(t, s.Append(ctx, audit.Event{Subject: "job:1", Action: audit.EventJobDeleted}))

	events, err := s.ListBySubject(ctx, "job:1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, audit.EventJobDeleted, events[1].Action)
}

func TestListRecentOrdersAndLimits(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Append(ctx, audit.Event{Subject: "a", Timestamp: base.Add(2 * time.Hour)}))
	require.NoError(t, s.Append(ctx, audit.Event{Subject: "b", Timestamp: base}))
	require.NoError(t, s.Append(ctx, audit.Event{Subject: "c", Timestamp: base.Add(time.Hour)}))

	recent, err := s.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "a", recent[0].Subject)
	assert.Equal(t, "c", recent[1].Subject)

	all, err := s.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	s.Clear()
	all, err = s.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}
