package graph

import (
	"context"
	"testing"

	"circletrust/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedCircleUsesWeakerTier(t *testing.T) {
	s := seed(t,
		[3]string{"u", "a", "peoples"},
		[3]string{"u", "b", "peoples"},
		[3]string{"u", "c", "cool"},
		[3]string{"v", "a", "peoples"},
		[3]string{"v", "b", "peoples"},
		[3]string{"v", "c", "cool"},
	)
	shared, err := NewAnalyzer(s).SharedCircle(context.Background(), "u", "v")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, shared.SharedPeoples)
	assert.Equal(t, []string{"c"}, shared.SharedCool)
	assert.Empty(t, shared.SharedAlright)
	assert.Empty(t, shared.SharedOthers)
	assert.Equal(t, 3, shared.SharedTotal)
	assert.Equal(t, 100.0, shared.OverlapScore)
}

func TestSharedCircleMixedTiersBucketByMinimum(t *testing.T) {
	s := seed(t,
		[3]string{"u", "a", "peoples"},
		[3]string{"u", "b", "cool"},
		[3]string{"u", "c", "others"},
		[3]string{"u", "only-u", "peoples"},
		[3]string{"v", "a", "alright"},
		[3]string{"v", "b", "peoples"},
		[3]string{"v", "c", "peoples"},
	)
	shared, err := NewAnalyzer(s).SharedCircle(context.Background(), "u", "v")
	require.NoError(t, err)
	assert.Empty(t, shared.SharedPeoples)
	assert.Equal(t, []string{"b"}, shared.SharedCool)
	assert.Equal(t, []string{"a"}, shared.SharedAlright)
	assert.Equal(t, []string{"c"}, shared.SharedOthers)
	assert.Equal(t, models.TierCool, models.MinTier(models.TierPeoples, models.TierCool))
	// 3 shared out of min(4, 3).
	assert.Equal(t, 100.0, shared.OverlapScore)
}

func TestSharedCircleSymmetricNodeSet(t *testing.T) {
	s := seed(t,
		[3]string{"u", "a", "peoples"},
		[3]string{"u", "b", "cool"},
		[3]string{"u", "c", "alright"},
		[3]string{"u", "d", "others"},
		[3]string{"u", "v", "peoples"},
		[3]string{"v", "u", "cool"},
		[3]string{"v", "b", "peoples"},
		[3]string{"v", "d", "cool"},
	)
	an := NewAnalyzer(s)
	uv, err := an.SharedCircle(context.Background(), "u", "v")
	require.NoError(t, err)
	vu, err := an.SharedCircle(context.Background(), "v", "u")
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "d"}, uv.Nodes())
	assert.Equal(t, uv.Nodes(), vu.Nodes())
	for _, tier := range models.Tiers {
		assert.Equal(t, uv.ByTier(tier), vu.ByTier(tier))
	}
	// u's circle (excluding v) has 4 nodes, v's (excluding u) has 2.
	assert.Equal(t, 100.0, uv.OverlapScore)
}

func TestSharedCircleNoOverlapIsEmptyResult(t *testing.T) {
	s := seed(t,
		[3]string{"u", "a", "peoples"},
		[3]string{"v", "b", "peoples"},
	)
	shared, err := NewAnalyzer(s).SharedCircle(context.Background(), "u", "v")
	require.NoError(t, err)
	assert.Zero(t, shared.SharedTotal)
	assert.Zero(t, shared.OverlapScore)
	assert.NotNil(t, shared.SharedPeoples)

	empty, err := NewAnalyzer(s).SharedCircle(context.Background(), "nobody", "v")
	require.NoError(t, err)
	assert.Zero(t, empty.OverlapScore)
}

func TestSharedCirclePartialOverlapScore(t *testing.T) {
	s := seed(t,
		[3]string{"u", "a", "peoples"},
		[3]string{"u", "b", "peoples"},
		[3]string{"u", "c", "peoples"},
		[3]string{"u", "d", "peoples"},
		[3]string{"v", "a", "cool"},
		[3]string{"v", "x", "cool"},
		[3]string{"v", "y", "cool"},
	)
	shared, err := NewAnalyzer(s).SharedCircle(context.Background(), "u", "v")
	require.NoError(t, err)
	assert.Equal(t, 33.33, shared.OverlapScore)
}

func TestComputeStats(t *testing.T) {
	s := seed(t,
		[3]string{"u", "a", "peoples"},
		[3]string{"u", "b", "peoples"},
		[3]string{"u", "x", "cool"},
		[3]string{"u", "y", "others"},
		[3]string{"a", "c", "peoples"},
		[3]string{"b", "c", "peoples"},
		[3]string{"c", "d", "peoples"},
		[3]string{"a", "b", "peoples"},
	)
	ctx := context.Background()
	edges, err := s.GetEdges(ctx, "u", "")
	require.NoError(t, err)
	exp, err := NewTraverser(s).ExpandDepth(ctx, "u", 4)
	require.NoError(t, err)

	st := ComputeStats(edges, exp)
	assert.Equal(t, 4, st.TotalEdges)
	assert.Equal(t, 2, st.TierCounts[models.TierPeoples])
	assert.Equal(t, 1, st.TierCounts[models.TierCool])
	assert.Equal(t, 0, st.TierCounts[models.TierAlright])
	assert.Equal(t, []int{2, 1, 1, 0}, st.LayerSizes)
	assert.Equal(t, 4, st.ReachableNodes)
	assert.Equal(t, 6, st.TotalNodes)
	// (1*2 + 2*1 + 3*1) / 4
	assert.Equal(t, 1.75, st.AverageDepth)
	assert.Equal(t, 1.0, st.ClusteringCoefficient)
}
