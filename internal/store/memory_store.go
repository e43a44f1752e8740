package store

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"circletrust/backend/internal/models"
)

const defaultMemoryShards = 16

// MemoryStore is an in-process EdgeStore partitioned by owner id. Each
// partition has its own lock so writers for different owners rarely contend.
type MemoryStore struct {
	shards []*memoryShard
	opts   options
}

type memoryShard struct {
	mu     sync.RWMutex
	edges  map[string]map[string]models.Edge // owner -> target -> edge
	events map[string][]models.EdgeEvent     // owner -> events in append order
	nextID uint
}

// NewMemoryStore returns an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		shards: make([]*memoryShard, defaultMemoryShards),
		opts:   buildOptions(opts),
	}
	for i := range s.shards {
		s.shards[i] = &memoryShard{
			edges:  make(map[string]map[string]models.Edge),
			events: make(map[string][]models.EdgeEvent),
		}
	}
	return s
}

func (s *MemoryStore) shard(ownerID string) *memoryShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(ownerID))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

func (s *MemoryStore) now() time.Time { return s.opts.now().UTC() }

// GetEdges implements EdgeStore.
func (s *MemoryStore) GetEdges(ctx context.Context, ownerID string, tier models.Tier) ([]models.Edge, error) {
	if err := validateTierFilter(tier); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, unavailable("get edges", err)
	}
	sh := s.shard(ownerID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	edges := make([]models.Edge, 0, len(sh.edges[ownerID]))
	for _, e := range sh.edges[ownerID] {
		if tier == "" || e.Tier == tier {
			edges = append(edges, e)
		}
	}
	SortEdges(edges)
	return edges, nil
}

// UpsertEdge implements EdgeStore.
func (s *MemoryStore) UpsertEdge(ctx context.Context, ownerID, targetID string, tier models.Tier) (models.Edge, error) {
	if err := validateEdge(ownerID, targetID, tier); err != nil {
		return models.Edge{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.Edge{}, unavailable("upsert edge", err)
	}
	if tier == "" {
		tier = models.DefaultTier
	}
	now := s.now()

	sh := s.shard(ownerID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	existing, found := sh.edges[ownerID][targetID]
	if found && existing.Tier == tier {
		return existing, nil
	}
	if found && existing.UpdatedAt.After(now) {
		return existing, nil
	}

	edge := models.Edge{OwnerID: ownerID, TargetID: targetID, Tier: tier, CreatedAt: now, UpdatedAt: now}
	var from models.Tier
	if found {
		edge.CreatedAt = existing.CreatedAt
		from = existing.Tier
	}
	sh.put(edge)
	sh.record(ownerID, targetID, from, tier, now)
	return edge, nil
}

// EnsureEdge implements EdgeStore.
func (s *MemoryStore) EnsureEdge(ctx context.Context, ownerID, targetID string, tier models.Tier) (models.Edge, bool, error) {
	if err := validateEdge(ownerID, targetID, tier); err != nil {
		return models.Edge{}, false, err
	}
	if err := ctx.Err(); err != nil {
		return models.Edge{}, false, unavailable("ensure edge", err)
	}
	if tier == "" {
		tier = models.DefaultTier
	}
	now := s.now()

	sh := s.shard(ownerID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if existing, found := sh.edges[ownerID][targetID]; found {
		return existing, false, nil
	}
	edge := models.Edge{OwnerID: ownerID, TargetID: targetID, Tier: tier, CreatedAt: now, UpdatedAt: now}
	sh.put(edge)
	sh.record(ownerID, targetID, "", tier, now)
	return edge, true, nil
}

// DeleteEdge implements EdgeStore.
func (s *MemoryStore) DeleteEdge(ctx context.Context, ownerID, targetID string) error {
	if err := ctx.Err(); err != nil {
		return unavailable("delete edge", err)
	}
	sh := s.shard(ownerID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	existing, found := sh.edges[ownerID][targetID]
	if !found {
		return nil
	}
	delete(sh.edges[ownerID], targetID)
	if len(sh.edges[ownerID]) == 0 {
		delete(sh.edges, ownerID)
	}
	sh.record(ownerID, targetID, existing.Tier, "", s.now())
	return nil
}

// PeoplesNeighbors implements EdgeStore.
func (s *MemoryStore) PeoplesNeighbors(ctx context.Context, ownerIDs []string) (map[string][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("peoples neighbors", err)
	}
	out := make(map[string][]string)
	for _, owner := range ownerIDs {
		sh := s.shard(owner)
		sh.mu.RLock()
		var targets []string
		for target, e := range sh.edges[owner] {
			if e.Tier == models.TierPeoples {
				targets = append(targets, target)
			}
		}
		sh.mu.RUnlock()
		if len(targets) > 0 {
			sort.Strings(targets)
			out[owner] = targets
		}
	}
	return out, nil
}

// ChurnEvents implements EdgeStore.
func (s *MemoryStore) ChurnEvents(ctx context.Context, ownerID string, since, until time.Time) ([]models.EdgeEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("churn events", err)
	}
	sh := s.shard(ownerID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	var out []models.EdgeEvent
	for _, ev := range sh.events[ownerID] {
		if ev.IsChurn() && ev.OccurredAt.After(since) && !ev.OccurredAt.After(until) {
			out = append(out, ev)
		}
	}
	return out, nil
}

// ListOwners implements EdgeStore.
func (s *MemoryStore) ListOwners(ctx context.Context, after string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("list owners", err)
	}
	var owners []string
	for _, sh := range s.shards {
		sh.mu.RLock()
		for owner, targets := range sh.edges {
			if owner > after && len(targets) > 0 {
				owners = append(owners, owner)
			}
		}
		sh.mu.RUnlock()
	}
	sort.Strings(owners)
	if limit > 0 && len(owners) > limit {
		owners = owners[:limit]
	}
	return owners, nil
}

// CountOwners implements EdgeStore.
func (s *MemoryStore) CountOwners(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, unavailable("count owners", err)
	}
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, targets := range sh.edges {
			if len(targets) > 0 {
				n++
			}
		}
		sh.mu.RUnlock()
	}
	return n, nil
}

// DeleteUser implements EdgeStore.
func (s *MemoryStore) DeleteUser(ctx context.Context, userID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("delete user", err)
	}
	var affected []string
	for _, sh := range s.shards {
		sh.mu.Lock()
		for owner, targets := range sh.edges {
			if owner == userID {
				continue
			}
			if _, ok := targets[userID]; ok {
				delete(targets, userID)
				affected = append(affected, owner)
				if len(targets) == 0 {
					delete(sh.edges, owner)
				}
			}
		}
		delete(sh.edges, userID)
		delete(sh.events, userID)
		sh.mu.Unlock()
	}
	sort.Strings(affected)
	return affected, nil
}

func (sh *memoryShard) put(e models.Edge) {
	targets, ok := sh.edges[e.OwnerID]
	if !ok {
		targets = make(map[string]models.Edge)
		sh.edges[e.OwnerID] = targets
	}
	targets[e.TargetID] = e
}

func (sh *memoryShard) record(ownerID, targetID string, from, to models.Tier, at time.Time) {
	kind, ok := models.ClassifyChange(from, to)
	if !ok {
		return
	}
	sh.nextID++
	sh.events[ownerID] = append(sh.events[ownerID], models.EdgeEvent{
		ID:         sh.nextID,
		OwnerID:    ownerID,
		TargetID:   targetID,
		FromTier:   from,
		ToTier:     to,
		Kind:       kind,
		OccurredAt: at,
	})
}
