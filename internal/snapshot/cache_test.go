package snapshot

import (
	"testing"

	"circletrust/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapAt(owner string, gen uint64) *Snapshot {
	return &Snapshot{
		OwnerID:    owner,
		Generation: gen,
		EdgesByTier: map[models.Tier][]models.Edge{
			models.TierPeoples: {{OwnerID: owner, TargetID: "t", Tier: models.TierPeoples}},
		},
	}
}

func TestCacheStalenessFollowsMutationSequence(t *testing.T) {
	c := NewCache(4)

	_, _, ok := c.Get("u")
	assert.False(t, ok)

	c.Put(snapAt("u", 0))
	_, stale, ok := c.Get("u")
	require.True(t, ok)
	assert.False(t, stale)

	assert.Equal(t, uint64(1), c.MarkStale("u"))
	_, stale, _ = c.Get("u")
	assert.True(t, stale)

	c.Put(snapAt("u", 1))
	snap, stale, _ := c.Get("u")
	assert.False(t, stale)
	assert.Equal(t, uint64(1), snap.Generation)
}

func TestCachePutNeverRegresses(t *testing.T) {
	c := NewCache(1)
	c.MarkStale("u")
	c.MarkStale("u")

	newer := snapAt("u", 2)
	c.Put(newer)
	c.Put(snapAt("u", 1))

	snap, _, _ := c.Get("u")
	assert.Same(t, newer, snap)
}

func TestCacheEvictDropsEarlierRefreshes(t *testing.T) {
	c := NewCache(2)
	c.Put(snapAt("u", 0))
	c.Put(snapAt("v", 0))
	assert.Equal(t, 2, c.Len())

	c.Evict("u")
	_, _, ok := c.Get("u")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, uint64(1), c.Seq("u"))

	// A refresh that started before the eviction is discarded.
	c.Put(snapAt("u", 0))
	_, _, ok = c.Get("u")
	assert.False(t, ok)

	// One that started after it is stored, even when empty.
	c.Put(&Snapshot{OwnerID: "u", Generation: 1})
	_, stale, ok := c.Get("u")
	require.True(t, ok)
	assert.False(t, stale)
}

func TestCacheSkipsEmptySnapshotsForUntrackedOwners(t *testing.T) {
	c := NewCache(2)

	c.Put(&Snapshot{OwnerID: "ghost", EdgesByTier: groupByTier(nil)})
	_, _, ok := c.Get("ghost")
	assert.False(t, ok)
	assert.Zero(t, c.Len())

	// An owner whose circle was emptied by a write is tracked and keeps
	// its empty snapshot.
	c.Put(snapAt("u", 0))
	c.MarkStale("u")
	c.Put(&Snapshot{OwnerID: "u", Generation: 1, EdgesByTier: groupByTier(nil)})
	snap, stale, ok := c.Get("u")
	require.True(t, ok)
	assert.False(t, stale)
	assert.True(t, snap.Empty())
}
