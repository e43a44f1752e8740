package snapshot

import (
	"context"

	"circletrust/backend/internal/models"

	"go.uber.org/zap"
)

// UpsertEdge assigns tier to owner->target and invalidates the owner's
// snapshot according to the configured mode.
func (o *Orchestrator) UpsertEdge(ctx context.Context, owner, target string, tier models.Tier) (models.Edge, error) {
	edge, err := o.store.UpsertEdge(ctx, owner, target, tier)
	if err != nil {
		return models.Edge{}, err
	}
	o.invalidate(ctx, owner)
	return edge, nil
}

// EnsureEdge creates owner->target at tier when no edge exists yet. The
// snapshot is only invalidated when an edge was actually created.
func (o *Orchestrator) EnsureEdge(ctx context.Context, owner, target string, tier models.Tier) (models.Edge, bool, error) {
	edge, created, err := o.store.EnsureEdge(ctx, owner, target, tier)
	if err != nil {
		return models.Edge{}, false, err
	}
	if created {
		o.invalidate(ctx, owner)
	}
	return edge, created, nil
}

// DeleteEdge removes owner->target. Removing a missing edge is a no-op.
func (o *Orchestrator) DeleteEdge(ctx context.Context, owner, target string) error {
	if err := o.store.DeleteEdge(ctx, owner, target); err != nil {
		return err
	}
	o.invalidate(ctx, owner)
	return nil
}

// DeleteUser cascades an account deletion: the user's edges in both
// directions go away, their snapshot is evicted and every owner that
// pointed at them is invalidated.
func (o *Orchestrator) DeleteUser(ctx context.Context, userID string) ([]string, error) {
	affected, err := o.store.DeleteUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	o.cache.Evict(userID)
	for _, owner := range affected {
		o.invalidate(ctx, owner)
	}
	o.logger.Info("user deleted",
		zap.String("user_id", userID),
		zap.Int("affected_owners", len(affected)))
	return affected, nil
}

// invalidate runs after a committed write. A failed eager refresh leaves
// the snapshot stale; the write itself has already succeeded.
func (o *Orchestrator) invalidate(ctx context.Context, owner string) {
	o.cache.MarkStale(owner)
	if o.cfg.Invalidation != InvalidateEager {
		return
	}
	if _, err := o.Refresh(ctx, owner); err != nil {
		o.logger.Warn("eager refresh failed", zap.String("owner_id", owner), zap.Error(err))
	}
}
