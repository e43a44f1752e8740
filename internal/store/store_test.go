package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"circletrust/backend/internal/apperr"
	"circletrust/backend/internal/database"
	"circletrust/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

var sqliteSeq atomic.Int64

type storeFactory func(t *testing.T, clock *testClock) EdgeStore

func factories() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T, clock *testClock) EdgeStore {
			return NewMemoryStore(WithClock(clock.Now))
		},
		"gorm-sqlite": func(t *testing.T, clock *testClock) EdgeStore {
			dsn := fmt.Sprintf("file:store_test_%d?mode=memory&cache=shared", sqliteSeq.Add(1))
			db, err := database.Open(database.DriverSQLite, dsn)
			require.NoError(t, err)
			require.NoError(t, database.Migrate(db))
			t.Cleanup(func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			})
			return NewGormStore(db, WithClock(clock.Now))
		},
	}
}

func forEachStore(t *testing.T, fn func(t *testing.T, s EdgeStore, clock *testClock)) {
	for name, factory := range factories() {
		t.Run(name, func(t *testing.T) {
			clock := newTestClock()
			fn(t, factory(t, clock), clock)
		})
	}
}

func TestUpsertEdgeKeepsOneRecordPerPair(t *testing.T) {
	forEachStore(t, func(t *testing.T, s EdgeStore, clock *testClock) {
		ctx := context.Background()
		created, err := s.UpsertEdge(ctx, "u", "a", models.TierCool)
		require.NoError(t, err)
		assert.False(t, created.Modified())

		clock.Advance(time.Hour)
		updated, err := s.UpsertEdge(ctx, "u", "a", models.TierPeoples)
		require.NoError(t, err)
		assert.Equal(t, models.TierPeoples, updated.Tier)
		assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

		edges, err := s.GetEdges(ctx, "u", "")
		require.NoError(t, err)
		require.Len(t, edges, 1)
		assert.Equal(t, models.TierPeoples, edges[0].Tier)
	})
}

func TestUpsertEdgeSameTierIsNoop(t *testing.T) {
	forEachStore(t, func(t *testing.T, s EdgeStore, clock *testClock) {
		ctx := context.Background()
		first, err := s.UpsertEdge(ctx, "u", "a", models.TierCool)
		require.NoError(t, err)
		clock.Advance(time.Hour)
		again, err := s.UpsertEdge(ctx, "u", "a", models.TierCool)
		require.NoError(t, err)
		assert.True(t, again.UpdatedAt.Equal(first.UpdatedAt))
	})
}

func TestUpsertEdgeLastWriteWins(t *testing.T) {
	forEachStore(t, func(t *testing.T, s EdgeStore, clock *testClock) {
		ctx := context.Background()
		base := clock.Now()

		clock.Set(base.Add(2 * time.Minute))
		_, err := s.UpsertEdge(ctx, "u", "a", models.TierPeoples)
		require.NoError(t, err)

		// A writer whose timestamp predates the stored row loses.
		clock.Set(base.Add(time.Minute))
		got, err := s.UpsertEdge(ctx, "u", "a", models.TierAlright)
		require.NoError(t, err)
		assert.Equal(t, models.TierPeoples, got.Tier)

		edges, err := s.GetEdges(ctx, "u", "")
		require.NoError(t, err)
		require.Len(t, edges, 1)
		assert.Equal(t, models.TierPeoples, edges[0].Tier)
	})
}

func TestUpsertEdgeRejectsInvalidInput(t *testing.T) {
	forEachStore(t, func(t *testing.T, s EdgeStore, _ *testClock) {
		ctx := context.Background()
		_, err := s.UpsertEdge(ctx, "u", "u", models.TierPeoples)
		assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

		_, err = s.UpsertEdge(ctx, "u", "a", models.Tier("besties"))
		assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

		_, err = s.UpsertEdge(ctx, "", "a", models.TierPeoples)
		assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
	})
}

func TestGetEdgesOrderAndFilter(t *testing.T) {
	forEachStore(t, func(t *testing.T, s EdgeStore, _ *testClock) {
		ctx := context.Background()
		for target, tier := range map[string]models.Tier{
			"d": models.TierOthers,
			"b": models.TierPeoples,
			"c": models.TierCool,
			"a": models.TierPeoples,
			"e": models.TierAlright,
		} {
			_, err := s.UpsertEdge(ctx, "u", target, tier)
			require.NoError(t, err)
		}

		edges, err := s.GetEdges(ctx, "u", "")
		require.NoError(t, err)
		var order []string
		for _, e := range edges {
			order = append(order, e.TargetID)
		}
		assert.Equal(t, []string{"a", "b", "c", "e", "d"}, order)

		peoples, err := s.GetEdges(ctx, "u", models.TierPeoples)
		require.NoError(t, err)
		assert.Len(t, peoples, 2)

		_, err = s.GetEdges(ctx, "u", models.Tier("nope"))
		assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

		none, err := s.GetEdges(ctx, "nobody", "")
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestDeleteEdge(t *testing.T) {
	forEachStore(t, func(t *testing.T, s EdgeStore, clock *testClock) {
		ctx := context.Background()
		require.NoError(t, s.DeleteEdge(ctx, "u", "ghost"))

		_, err := s.UpsertEdge(ctx, "u", "a", models.TierPeoples)
		require.NoError(t, err)
		clock.Advance(time.Minute)
		require.NoError(t, s.DeleteEdge(ctx, "u", "a"))

		edges, err := s.GetEdges(ctx, "u", "")
		require.NoError(t, err)
		assert.Empty(t, edges)

		events, err := s.ChurnEvents(ctx, "u", clock.Now().Add(-time.Hour), clock.Now())
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, models.EventRemoved, events[0].Kind)
		assert.Equal(t, models.TierPeoples, events[0].FromTier)
	})
}

func TestEnsureEdgeOnlyCreatesOnce(t *testing.T) {
	forEachStore(t, func(t *testing.T, s EdgeStore, _ *testClock) {
		ctx := context.Background()
		edge, created, err := s.EnsureEdge(ctx, "u", "a", "")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, models.DefaultTier, edge.Tier)

		_, err = s.UpsertEdge(ctx, "u", "a", models.TierCool)
		require.NoError(t, err)

		edge, created, err = s.EnsureEdge(ctx, "u", "a", "")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, models.TierCool, edge.Tier)
	})
}

func TestPeoplesNeighbors(t *testing.T) {
	forEachStore(t, func(t *testing.T, s EdgeStore, _ *testClock) {
		ctx := context.Background()
		mustUpsert(t, s, "u", "b", models.TierPeoples)
		mustUpsert(t, s, "u", "a", models.TierPeoples)
		mustUpsert(t, s, "u", "x", models.TierCool)
		mustUpsert(t, s, "a", "c", models.TierPeoples)
		mustUpsert(t, s, "z", "c", models.TierAlright)

		got, err := s.PeoplesNeighbors(ctx, []string{"u", "a", "z", "missing"})
		require.NoError(t, err)
		assert.Equal(t, map[string][]string{
			"u": {"a", "b"},
			"a": {"c"},
		}, got)
	})
}

func TestChurnEventsWindow(t *testing.T) {
	forEachStore(t, func(t *testing.T, s EdgeStore, clock *testClock) {
		ctx := context.Background()
		start := clock.Now()
		mustUpsert(t, s, "u", "a", models.TierCool)
		clock.Advance(time.Hour)
		mustUpsert(t, s, "u", "a", models.TierPeoples) // upgrade, not churn
		clock.Advance(time.Hour)
		mustUpsert(t, s, "u", "a", models.TierAlright) // downgrade
		clock.Advance(time.Hour)
		mustUpsert(t, s, "u", "b", models.TierCool)
		require.NoError(t, s.DeleteEdge(ctx, "u", "b")) // removal

		events, err := s.ChurnEvents(ctx, "u", start, clock.Now())
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, models.EventDowngraded, events[0].Kind)
		assert.Equal(t, models.EventRemoved, events[1].Kind)

		recent, err := s.ChurnEvents(ctx, "u", start.Add(150*time.Minute), clock.Now())
		require.NoError(t, err)
		assert.Len(t, recent, 1)
	})
}

func TestListOwnersPages(t *testing.T) {
	forEachStore(t, func(t *testing.T, s EdgeStore, _ *testClock) {
		ctx := context.Background()
		for _, owner := range []string{"o3", "o1", "o2", "o5", "o4"} {
			mustUpsert(t, s, owner, "target", models.TierCool)
		}

		var all []string
		after := ""
		for {
			page, err := s.ListOwners(ctx, after, 2)
			require.NoError(t, err)
			if len(page) == 0 {
				break
			}
			all = append(all, page...)
			after = page[len(page)-1]
		}
		assert.Equal(t, []string{"o1", "o2", "o3", "o4", "o5"}, all)

		n, err := s.CountOwners(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, n)

		require.NoError(t, s.DeleteEdge(ctx, "o3", "target"))
		n, err = s.CountOwners(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	})
}

func TestDeleteUserCascades(t *testing.T) {
	forEachStore(t, func(t *testing.T, s EdgeStore, _ *testClock) {
		ctx := context.Background()
		mustUpsert(t, s, "gone", "a", models.TierPeoples)
		mustUpsert(t, s, "a", "gone", models.TierPeoples)
		mustUpsert(t, s, "b", "gone", models.TierCool)
		mustUpsert(t, s, "b", "a", models.TierCool)

		affected, err := s.DeleteUser(ctx, "gone")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, affected)

		edges, err := s.GetEdges(ctx, "gone", "")
		require.NoError(t, err)
		assert.Empty(t, edges)

		bEdges, err := s.GetEdges(ctx, "b", "")
		require.NoError(t, err)
		require.Len(t, bEdges, 1)
		assert.Equal(t, "a", bEdges[0].TargetID)
	})
}

func TestMemoryStoreConcurrentUpserts(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tier := models.Tiers[i%len(models.Tiers)]
			_, err := s.UpsertEdge(ctx, "u", "a", tier)
			assert.NoError(t, err)
			_, err = s.UpsertEdge(ctx, fmt.Sprintf("owner-%d", i), "a", tier)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	edges, err := s.GetEdges(ctx, "u", "")
	require.NoError(t, err)
	assert.Len(t, edges, 1)

	owners, err := s.ListOwners(ctx, "", 1000)
	require.NoError(t, err)
	assert.Len(t, owners, 51)
}

func mustUpsert(t *testing.T, s EdgeStore, owner, target string, tier models.Tier) {
	t.Helper()
	_, err := s.UpsertEdge(context.Background(), owner, target, tier)
	require.NoError(t, err)
}
