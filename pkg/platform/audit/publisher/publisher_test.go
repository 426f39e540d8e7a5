package publisher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "jobgate/pkg/platform/audit"
	"jobgate/pkg/platform/audit/store/memory"
	"jobgate/pkg/requestcontext"
)

type recordingSink struct {
	mu     sync.Mutex
	events []audit.Event
	err    error
	closed bool
}

func (s *recordingSink) Publish(_ context.Context, e audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *recordingSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func subject() string { return "application:" + uuid.NewString() }

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	subj := subject()
	require.NoError(t, pub.Emit(context.Background(), audit.Event{Subject: subj, Action: audit.EventApplicationSubmitted}))

	events, err := pub.List(context.Background(), subj)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.EventApplicationSubmitted, events[0].Action)
	assert.Equal(t, audit.CategoryOperations, events[0].Category)
	assert.NotEqual(t, uuid.Nil, events[0].ID)
}

func TestPublisher_DerivesCategoryFromAction(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	subj := subject()
	require.NoError(t, pub.Emit(context.Background(), audit.Event{Subject: subj, Action: audit.EventEligibilityVerified}))
	require.NoError(t, pub.Emit(context.Background(), audit.Event{Subject: subj, Action: audit.EventAttestationRevoked}))

	events, err := pub.List(context.Background(), subj)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, audit.CategoryCompliance, events[0].Category)
	assert.Equal(t, audit.CategorySecurity, events[1].Category)
}

func TestPublisher_CopiesRequestIDFromContext(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	subj := subject()
	ctx := requestcontext.WithRequestID(context.Background(), "req-42")
	require.NoError(t, pub.Emit(ctx, audit.Event{Subject: subj, Action: audit.EventJobCreated}))

	events, err := pub.List(ctx, subj)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "req-42", events[0].RequestID)
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100))

	subj := subject()
	for range 10 {
		require.NoError(t, pub.Emit(context.Background(), audit.Event{Subject: subj, Action: audit.EventJobUpdated}))
	}

	pub.Close()

	events, err := store.ListBySubject(context.Background(), subj)
	require.NoError(t, err)
	assert.Len(t, events, 10, "all events should be drained on close")
}

func TestPublisher_BufferFullReportsError(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(1))
	defer pub.Close()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := pub.Emit(context.Background(), audit.Event{Subject: "job:x", Action: audit.EventJobUpdated}); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.ErrorIs(t, err, ErrBufferFull)
	}
}

func TestPublisher_SetsTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	subj := subject()
	before := time.Now()
	require.NoError(t, pub.Emit(context.Background(), audit.Event{Subject: subj, Action: audit.EventJobCreated}))
	after := time.Now()

	events, err := pub.List(context.Background(), subj)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.Before(before))
	assert.False(t, events[0].Timestamp.After(after))
}

func TestPublisher_PreservesExistingTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	subj := subject()
	custom := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, pub.Emit(context.Background(), audit.Event{Subject: subj, Action: audit.EventJobCreated, Timestamp: custom}))

	events, err := pub.List(context.Background(), subj)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, custom, events[0].Timestamp)
}

func TestPublisher_ForwardsToSink(t *testing.T) {
	sink := &recordingSink{}
	pub := NewPublisher(memory.NewInMemoryStore(), WithSink(sink))

	require.NoError(t, pub.Emit(context.Background(), audit.Event{Subject: "job:1", Action: audit.EventJobCreated}))
	pub.Close()

	require.Len(t, sink.events, 1)
	assert.Equal(t, "job:1", sink.events[0].Subject)
	assert.True(t, sink.closed)
}

func TestPublisher_SinkFailureDoesNotFailEmit(t *testing.T) {
	store := memory.NewInMemoryStore()
	sink := &recordingSink{err: errors.New("broker down")}
	pub := NewPublisher(store, WithSink(sink))
	defer pub.Close()

	require.NoError(t, pub.Emit(context.Background(), audit.Event{Subject: "job:1", Action: audit.EventJobCreated}))

	events, err := store.ListBySubject(context.Background(), "job:1")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestPublisher_ListRecentNewestFirst(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, action := range []audit.AuditEvent{audit.EventJobCreated, audit.EventJobUpdated, audit.EventJobDeleted} {
		require.NoError(t, pub.Emit(context.Background(), audit.Event{
			Subject:   "job:1",
			Action:    action,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	recent, err := pub.ListRecent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, audit.EventJobDeleted, recent[0].Action)
	assert.Equal(t, audit.EventJobUpdated, recent[1].Action)
}

func TestPublisher_CloseIsIdempotent(t *testing.T) {
	pub := NewPublisher(memory.NewInMemoryStore(), WithAsyncBuffer(4))
	pub.Close()
	assert.NotPanics(t, pub.Close)
}

func TestPublisher_EmitAfterClose(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts []Option
	}{
		{name: "async", opts: []Option{WithAsyncBuffer(4)}},
		{name: "sync"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			store := memory.NewInMemoryStore()
			pub := NewPublisher(store, tc.opts...)
			pub.Close()

			var err error
			assert.NotPanics(t, func() {
				err = pub.Emit(context.Background(), audit.Event{Subject: "job:1", Action: audit.EventJobCreated})
			})
			assert.ErrorIs(t, err, ErrClosed)

			events, listErr := store.ListBySubject(context.Background(), "job:1")
			require.NoError(t, listErr)
			assert.Empty(t, events)
		})
	}
}

func TestPublisher_ConcurrentEmitAndClose(t *testing.T) {
	pub := NewPublisher(memory.NewInMemoryStore(), WithAsyncBuffer(8))

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				err := pub.Emit(context.Background(), audit.Event{Subject: "job:x", Action: audit.EventJobUpdated})
				if err != nil && !errors.Is(err, ErrBufferFull) && !errors.Is(err, ErrClosed) {
					t.Errorf("unexpected emit error: %v", err)
				}
			}
		}()
	}
	pub.Close()
	wg.Wait()
}
