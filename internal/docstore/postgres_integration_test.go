//go:build integration

package docstore_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"jobgate/internal/docstore"
	"jobgate/pkg/platform/sentinel"
	"jobgate/pkg/testutil/containers"
)

type record struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

type PostgresSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *docstore.Postgres[record]
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = docstore.NewPostgres[record](s.postgres.Pool, "notes")
}

func (s *PostgresSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "documents"))
}

func (s *PostgresSuite) TestCreateGetRoundTrip() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, "a", record{Title: "first", Count: 1}))

	got, err := s.store.Get(ctx, "a")
	s.Require().NoError(err)
	s.Equal("first", got.Title)
	s.Equal(1, got.Count)
}

func (s *PostgresSuite) TestCreateConflict() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, "a", record{Title: "first"}))

	err := s.store.Create(ctx, "a", record{Title: "second"})
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresSuite) TestCollectionsAreIsolated() {
	ctx := context.Background()
	other := docstore.NewPostgres[record](s.postgres.Pool, "other")
	s.Require().NoError(s.store.Create(ctx, "a", record{Title: "notes"}))
	s.Require().NoError(other.Create(ctx, "a", record{Title: "other"}))

	got, err := other.Get(ctx, "a")
	s.Require().NoError(err)
	s.Equal("other", got.Title)
}

func (s *PostgresSuite) TestGetMissing() {
	_, err := s.store.Get(context.Background(), "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// Justification: Update takes a row lock, so concurrent increments must not be lost.
func (s *PostgresSuite) TestConcurrentUpdatesSerialize() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, "counter", record{}))

	const workers = 20
	var wg sync.WaitGroup
	var failures atomic.Int32
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Update(ctx, "counter", func(n *record) error {
				n.Count++
				return nil
			})
			if err != nil {
				failures.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Zero(failures.Load())
	got, err := s.store.Get(ctx, "counter")
	s.Require().NoError(err)
	s.Equal(workers, got.Count)
}

func (s *PostgresSuite) TestUpdateErrorRollsBack() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, "a", record{Title: "kept"}))

	boom := errors.New("boom")
	_, err := s.store.Update(ctx, "a", func(n *record) error {
		n.Title = "changed"
		return boom
	})
	s.ErrorIs(err, boom)

	got, err := s.store.Get(ctx, "a")
	s.Require().NoError(err)
	s.Equal("kept", got.Title)
}

func (s *PostgresSuite) TestListAndDelete() {
	ctx := context.Background()
	keys := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}
	for i, k := range keys {
		s.Require().NoError(s.store.Create(ctx, k, record{Count: i}))
	}

	s.Require().NoError(s.store.Delete(ctx, keys[1]))
	s.ErrorIs(s.store.Delete(ctx, keys[1]), sentinel.ErrNotFound)

	list, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Len(list, 2)
}
