package snapshot

import (
	"context"
	"fmt"

	"circletrust/backend/internal/apperr"
	"circletrust/backend/internal/graph"
	"circletrust/backend/internal/models"
	"circletrust/backend/internal/scoring"
)

// Edges returns the owner's edges, optionally restricted to one tier.
func (o *Orchestrator) Edges(ctx context.Context, owner string, tier models.Tier, mode ReadMode) ([]models.Edge, ReadInfo, error) {
	if tier != "" && !tier.Valid() {
		return nil, ReadInfo{}, fmt.Errorf("%w: unknown tier %q", apperr.ErrInvalidArgument, tier)
	}
	snap, info, err := o.Snapshot(ctx, owner, mode)
	if err != nil {
		return nil, info, err
	}
	return snap.Edges(tier), info, nil
}

// PeoplesOfPeoples returns the depth-2 candidates with their mutual counts.
func (o *Orchestrator) PeoplesOfPeoples(ctx context.Context, owner string, mode ReadMode) ([]graph.Candidate, ReadInfo, error) {
	snap, info, err := o.Snapshot(ctx, owner, mode)
	if err != nil {
		return nil, info, err
	}
	return append([]graph.Candidate{}, snap.PeoplesOfPeoples...), info, nil
}

// DepthView is one depth layer together with the owner's stats.
type DepthView struct {
	Depth int         `json:"depth"`
	Nodes []string    `json:"nodes"`
	Stats graph.Stats `json:"stats"`
}

// DepthLayer returns layer k, which must be within 1..MaxDepth.
func (o *Orchestrator) DepthLayer(ctx context.Context, owner string, k int, mode ReadMode) (DepthView, ReadInfo, error) {
	if k < 1 || k > o.cfg.MaxDepth {
		return DepthView{}, ReadInfo{}, fmt.Errorf("%w: depth must be between 1 and %d", apperr.ErrInvalidArgument, o.cfg.MaxDepth)
	}
	snap, info, err := o.Snapshot(ctx, owner, mode)
	if err != nil {
		return DepthView{}, info, err
	}
	nodes := snap.Layer(k)
	if nodes == nil {
		nodes = []string{}
	}
	return DepthView{Depth: k, Nodes: append([]string{}, nodes...), Stats: snap.Stats}, info, nil
}

// Score returns the owner's trust score.
func (o *Orchestrator) Score(ctx context.Context, owner string, mode ReadMode) (scoring.TrustScore, ReadInfo, error) {
	snap, info, err := o.Snapshot(ctx, owner, mode)
	if err != nil {
		return scoring.TrustScore{}, info, err
	}
	return snap.TrustScore, info, nil
}

// Stats returns the owner's circle statistics.
func (o *Orchestrator) Stats(ctx context.Context, owner string, mode ReadMode) (graph.Stats, ReadInfo, error) {
	snap, info, err := o.Snapshot(ctx, owner, mode)
	if err != nil {
		return graph.Stats{}, info, err
	}
	return snap.Stats, info, nil
}

// Shared intersects the circles of owner and other using both snapshots.
// The result is stale if either input was.
func (o *Orchestrator) Shared(ctx context.Context, owner, other string, mode ReadMode) (graph.SharedCircle, ReadInfo, error) {
	a, infoA, err := o.Snapshot(ctx, owner, mode)
	if err != nil {
		return graph.SharedCircle{}, infoA, err
	}
	b, infoB, err := o.Snapshot(ctx, other, mode)
	if err != nil {
		return graph.SharedCircle{}, infoB, err
	}
	info := infoA
	if infoB.Stale {
		info = infoB
	}
	return graph.AnalyzeShared(owner, a.Edges(""), other, b.Edges("")), info, nil
}
