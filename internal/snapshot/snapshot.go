// Package snapshot materializes per-owner circle views, serves reads from
// a partitioned cache and coordinates single and bulk recomputation.
package snapshot

import (
	"time"

	"circletrust/backend/internal/graph"
	"circletrust/backend/internal/models"
	"circletrust/backend/internal/scoring"
)

// Snapshot is the cached artifact for one owner. It is built once by a
// refresh and never mutated afterwards; readers may share the pointer.
type Snapshot struct {
	OwnerID    string    `json:"owner_id"`
	ComputedAt time.Time `json:"computed_at"`
	// AsOf is the scoring reference time the snapshot was computed for.
	AsOf time.Time `json:"as_of"`
	// Generation is the owner's mutation sequence observed when the refresh
	// started. A snapshot is stale once the owner's sequence moves past it.
	Generation       uint64                        `json:"generation"`
	EdgesByTier      map[models.Tier][]models.Edge `json:"edges_by_tier"`
	DepthLayers      [][]string                    `json:"depth_layers"`
	PeoplesOfPeoples []graph.Candidate             `json:"peoples_of_peoples"`
	Stats            graph.Stats                   `json:"stats"`
	TrustScore       scoring.TrustScore            `json:"trust_score"`
}

// Edges returns the snapshot's edges for tier, or every edge ordered by
// tier then target when tier is empty.
func (s *Snapshot) Edges(tier models.Tier) []models.Edge {
	if tier != "" {
		return append([]models.Edge{}, s.EdgesByTier[tier]...)
	}
	out := make([]models.Edge, 0, s.Stats.TotalEdges)
	for _, t := range models.Tiers {
		out = append(out, s.EdgesByTier[t]...)
	}
	return out
}

// Empty reports whether the owner had no edges when the snapshot was built.
func (s *Snapshot) Empty() bool {
	for _, edges := range s.EdgesByTier {
		if len(edges) > 0 {
			return false
		}
	}
	return true
}

// Layer returns depth k, or nil when k is beyond the computed depth.
func (s *Snapshot) Layer(k int) []string {
	if k < 1 || k > len(s.DepthLayers) {
		return nil
	}
	return s.DepthLayers[k-1]
}

// Summary is the compact form returned by refresh endpoints.
type Summary struct {
	OwnerID    string              `json:"owner_id"`
	ComputedAt time.Time           `json:"computed_at"`
	Generation uint64              `json:"generation"`
	TierCounts map[models.Tier]int `json:"tier_counts"`
	LayerSizes []int               `json:"layer_sizes"`
	TrustScore scoring.TrustScore  `json:"trust_score"`
}

// Summary condenses the snapshot.
func (s *Snapshot) Summary() Summary {
	return Summary{
		OwnerID:    s.OwnerID,
		ComputedAt: s.ComputedAt,
		Generation: s.Generation,
		TierCounts: s.Stats.TierCounts,
		LayerSizes: s.Stats.LayerSizes,
		TrustScore: s.TrustScore,
	}
}

func groupByTier(edges []models.Edge) map[models.Tier][]models.Edge {
	out := make(map[models.Tier][]models.Edge, len(models.Tiers))
	for _, t := range models.Tiers {
		out[t] = []models.Edge{}
	}
	for _, e := range edges {
		out[e.Tier] = append(out[e.Tier], e)
	}
	return out
}
