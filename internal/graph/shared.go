package graph

import (
	"context"
	"fmt"
	"math"
	"sort"

	"circletrust/backend/internal/models"
)

// EdgeLister is the part of the edge store the shared-circle analyzer reads.
type EdgeLister interface {
	GetEdges(ctx context.Context, ownerID string, tier models.Tier) ([]models.Edge, error)
}

// SharedCircle is the tier breakdown of the nodes two owners both hold an
// edge to. A shared node is bucketed under the weaker of the two tiers the
// owners assigned it, so each node appears in exactly one bucket.
type SharedCircle struct {
	OwnerID       string   `json:"owner_id"`
	OtherID       string   `json:"other_id"`
	SharedPeoples []string `json:"shared_peoples"`
	SharedCool    []string `json:"shared_cool"`
	SharedAlright []string `json:"shared_alright"`
	SharedOthers  []string `json:"shared_others"`
	SharedTotal   int      `json:"shared_total"`
	// OverlapScore is SharedTotal normalized by the smaller circle, in [0,100].
	OverlapScore float64 `json:"overlap_score"`
}

// Nodes returns every shared node, sorted.
func (s SharedCircle) Nodes() []string {
	out := make([]string, 0, s.SharedTotal)
	out = append(out, s.SharedPeoples...)
	out = append(out, s.SharedCool...)
	out = append(out, s.SharedAlright...)
	out = append(out, s.SharedOthers...)
	sort.Strings(out)
	return out
}

// ByTier returns the bucket for tier t.
func (s SharedCircle) ByTier(t models.Tier) []string {
	switch t {
	case models.TierPeoples:
		return s.SharedPeoples
	case models.TierCool:
		return s.SharedCool
	case models.TierAlright:
		return s.SharedAlright
	case models.TierOthers:
		return s.SharedOthers
	}
	return nil
}

// AnalyzeShared intersects two owners' out-edges. Edges pointing at either
// party are ignored so that A->B and B->A never count as shared.
func AnalyzeShared(ownerID string, ownerEdges []models.Edge, otherID string, otherEdges []models.Edge) SharedCircle {
	mine := tierIndex(ownerEdges, ownerID, otherID)
	theirs := tierIndex(otherEdges, ownerID, otherID)

	out := SharedCircle{
		OwnerID:       ownerID,
		OtherID:       otherID,
		SharedPeoples: []string{},
		SharedCool:    []string{},
		SharedAlright: []string{},
		SharedOthers:  []string{},
	}
	for id, myTier := range mine {
		theirTier, ok := theirs[id]
		if !ok {
			continue
		}
		switch models.MinTier(myTier, theirTier) {
		case models.TierPeoples:
			out.SharedPeoples = append(out.SharedPeoples, id)
		case models.TierCool:
			out.SharedCool = append(out.SharedCool, id)
		case models.TierAlright:
			out.SharedAlright = append(out.SharedAlright, id)
		default:
			out.SharedOthers = append(out.SharedOthers, id)
		}
		out.SharedTotal++
	}
	sort.Strings(out.SharedPeoples)
	sort.Strings(out.SharedCool)
	sort.Strings(out.SharedAlright)
	sort.Strings(out.SharedOthers)

	if smaller := min(len(mine), len(theirs)); smaller > 0 {
		out.OverlapScore = clampRound(100 * float64(out.SharedTotal) / float64(smaller))
	}
	return out
}

func tierIndex(edges []models.Edge, exclude ...string) map[string]models.Tier {
	idx := make(map[string]models.Tier, len(edges))
	for _, e := range edges {
		idx[e.TargetID] = e.Tier
	}
	for _, id := range exclude {
		delete(idx, id)
	}
	return idx
}

// Analyzer computes shared circles straight from the edge store.
type Analyzer struct {
	edges EdgeLister
}

// NewAnalyzer returns an analyzer reading from edges.
func NewAnalyzer(edges EdgeLister) *Analyzer {
	return &Analyzer{edges: edges}
}

// SharedCircle loads both owners' edges and intersects them.
func (a *Analyzer) SharedCircle(ctx context.Context, ownerID, otherID string) (SharedCircle, error) {
	mine, err := a.edges.GetEdges(ctx, ownerID, "")
	if err != nil {
		return SharedCircle{}, fmt.Errorf("load %s edges: %w", ownerID, err)
	}
	theirs, err := a.edges.GetEdges(ctx, otherID, "")
	if err != nil {
		return SharedCircle{}, fmt.Errorf("load %s edges: %w", otherID, err)
	}
	return AnalyzeShared(ownerID, mine, otherID, theirs), nil
}

func clampRound(v float64) float64 {
	return Round(math.Max(0, math.Min(100, v)))
}

// Round rounds to two decimal places.
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}
