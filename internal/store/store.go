// Package store holds the durable source of truth for directed, tiered
// relationship edges.
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"circletrust/backend/internal/apperr"
	"circletrust/backend/internal/models"
)

// EdgeStore is the contract the traversal, scoring and refresh layers read
// through. Reads reflect the latest committed write for the same owner.
type EdgeStore interface {
	// GetEdges returns the owner's out-edges ordered by tier (most trusted
	// first) and then by target id. An empty tier returns every tier.
	GetEdges(ctx context.Context, ownerID string, tier models.Tier) ([]models.Edge, error)
	// UpsertEdge creates or re-tiers an edge. Concurrent writers to the same
	// pair resolve last-write-wins by UpdatedAt.
	UpsertEdge(ctx context.Context, ownerID, targetID string, tier models.Tier) (models.Edge, error)
	// EnsureEdge creates the edge at tier only if the pair has no edge yet.
	EnsureEdge(ctx context.Context, ownerID, targetID string, tier models.Tier) (models.Edge, bool, error)
	// DeleteEdge removes the edge. Deleting a missing edge is a no-op.
	DeleteEdge(ctx context.Context, ownerID, targetID string) error
	// PeoplesNeighbors returns the Peoples-tier targets of each requested
	// owner, sorted. Owners without Peoples edges are absent from the map.
	PeoplesNeighbors(ctx context.Context, ownerIDs []string) (map[string][]string, error)
	// ChurnEvents returns downgrade and removal events in (since, until].
	ChurnEvents(ctx context.Context, ownerID string, since, until time.Time) ([]models.EdgeEvent, error)
	// ListOwners pages through every owner holding at least one edge, in id
	// order, starting after the given id.
	ListOwners(ctx context.Context, after string, limit int) ([]string, error)
	// CountOwners counts the owners ListOwners would page through.
	CountOwners(ctx context.Context) (int, error)
	// DeleteUser removes every edge the user owns or is the target of and
	// returns the other owners whose circles lost an edge.
	DeleteUser(ctx context.Context, userID string) ([]string, error)
}

// Option configures a store.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for CreatedAt/UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func validateEdge(ownerID, targetID string, tier models.Tier) error {
	if strings.TrimSpace(ownerID) == "" || strings.TrimSpace(targetID) == "" {
		return fmt.Errorf("owner and target ids are required: %w", apperr.ErrInvalidArgument)
	}
	if ownerID == targetID {
		return fmt.Errorf("cannot place yourself in your own circle: %w", apperr.ErrInvalidArgument)
	}
	if tier != "" && !tier.Valid() {
		return fmt.Errorf("unknown tier %q: %w", tier, apperr.ErrInvalidArgument)
	}
	return nil
}

func validateTierFilter(tier models.Tier) error {
	if tier != "" && !tier.Valid() {
		return fmt.Errorf("unknown tier %q: %w", tier, apperr.ErrInvalidArgument)
	}
	return nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, apperr.ErrUpstreamUnavailable, err)
}

// SortEdges orders edges by tier, most trusted first, then by target id.
func SortEdges(edges []models.Edge) {
	sort.Slice(edges, func(i, j int) bool {
		ri, rj := edges[i].Tier.Rank(), edges[j].Tier.Rank()
		if ri != rj {
			return ri > rj
		}
		return edges[i].TargetID < edges[j].TargetID
	})
}
