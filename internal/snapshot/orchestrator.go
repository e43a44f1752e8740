package snapshot

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"circletrust/backend/internal/apperr"
	"circletrust/backend/internal/graph"
	"circletrust/backend/internal/metrics"
	"circletrust/backend/internal/scoring"
	"circletrust/backend/internal/store"

	"go.uber.org/zap"
)

// InvalidationMode decides what an edge mutation does to the owner's
// snapshot.
type InvalidationMode string

const (
	// InvalidateLazy only marks the snapshot stale; the next read handles it.
	InvalidateLazy InvalidationMode = "lazy"
	// InvalidateEager refreshes synchronously after the store commit.
	InvalidateEager InvalidationMode = "eager"
)

// Config tunes the orchestrator.
type Config struct {
	MaxDepth     int
	Invalidation InvalidationMode
	// ServeStale lets cached reads return a stale snapshot immediately and
	// refresh in the background. When false a stale read refreshes inline.
	ServeStale     bool
	RefreshTimeout time.Duration
	Workers        int
	BatchSize      int
	Shards         int
	// ScoreEpoch is the granularity of the scoring reference time.
	ScoreEpoch time.Duration
	Scoring    scoring.Config
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		MaxDepth:       graph.MaxDepthCeiling,
		Invalidation:   InvalidateLazy,
		ServeStale:     true,
		RefreshTimeout: 10 * time.Second,
		Workers:        8,
		BatchSize:      500,
		Shards:         32,
		ScoreEpoch:     24 * time.Hour,
		Scoring:        scoring.DefaultConfig(),
	}
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(o *Orchestrator) { o.logger = l } }

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Collector) Option { return func(o *Orchestrator) { o.metrics = m } }

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option { return func(o *Orchestrator) { o.now = now } }

// Orchestrator owns the snapshot cache and every path that fills it.
type Orchestrator struct {
	store     store.EdgeStore
	traverser *graph.Traverser
	scorer    *scoring.Scorer
	cache     *Cache
	flights   []*flightShard
	cfg       Config

	logger  *zap.Logger
	metrics *metrics.Collector
	now     func() time.Time

	baseCtx context.Context
	cancel  context.CancelFunc
}

// New builds an orchestrator over s.
func New(s store.EdgeStore, cfg Config, opts ...Option) *Orchestrator {
	def := DefaultConfig()
	if cfg.MaxDepth < 1 || cfg.MaxDepth > graph.MaxDepthCeiling {
		cfg.MaxDepth = def.MaxDepth
	}
	if cfg.Invalidation == "" {
		cfg.Invalidation = def.Invalidation
	}
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = def.RefreshTimeout
	}
	if cfg.Workers < 1 {
		cfg.Workers = def.Workers
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.Shards < 1 {
		cfg.Shards = def.Shards
	}
	if cfg.ScoreEpoch <= 0 {
		cfg.ScoreEpoch = def.ScoreEpoch
	}
	if cfg.Scoring.Weights == (scoring.Weights{}) {
		cfg.Scoring = def.Scoring
	}

	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		store:     s,
		traverser: graph.NewTraverser(s),
		scorer:    scoring.NewScorer(cfg.Scoring),
		cache:     NewCache(cfg.Shards),
		flights:   make([]*flightShard, cfg.Shards),
		cfg:       cfg,
		logger:    zap.NewNop(),
		now:       time.Now,
		baseCtx:   ctx,
		cancel:    cancel,
	}
	for i := range o.flights {
		o.flights[i] = &flightShard{slots: make(map[string]*slot)}
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Config returns the effective configuration.
func (o *Orchestrator) Config() Config { return o.cfg }

// Cache exposes the snapshot cache.
func (o *Orchestrator) Cache() *Cache { return o.cache }

// Close cancels every in-flight computation.
func (o *Orchestrator) Close() { o.cancel() }

// flight is one scheduled computation for an owner.
type flight struct {
	done    chan struct{}
	gen     uint64
	waiters int
	// abandoned is set once every waiter has left a running flight and its
	// context was cancelled. New callers must not join it.
	abandoned bool
	cancel    context.CancelFunc
	snap      *Snapshot
	err       error
}

// slot tracks the running computation for an owner plus at most one queued
// follow-up for callers that arrived after a newer mutation.
type slot struct {
	running *flight
	queued  *flight
}

type flightShard struct {
	mu    sync.Mutex
	slots map[string]*slot
}

func (o *Orchestrator) flightShard(owner string) *flightShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(owner))
	return o.flights[h.Sum32()%uint32(len(o.flights))]
}

// Refresh recomputes the owner's snapshot and returns it. At most one
// computation per owner runs at a time. A caller joins the running one when
// no mutation was recorded after it started; otherwise it joins a single
// queued follow-up. Either way the result reflects every mutation that
// completed before the call.
func (o *Orchestrator) Refresh(ctx context.Context, owner string) (*Snapshot, error) {
	sh, f := o.acquire(owner)
	select {
	case <-f.done:
		return f.snap, f.err
	case <-ctx.Done():
		sh.mu.Lock()
		f.waiters--
		if f.waiters == 0 && f.cancel != nil {
			f.abandoned = true
			f.cancel()
		}
		sh.mu.Unlock()
		return nil, ctx.Err()
	}
}

// scheduleRefresh makes sure a computation covering the owner's current
// mutations is running or queued, without waiting for it.
// The scheduled flight keeps a waiter until it finishes, so it is never
// cancelled by foreground callers giving up.
func (o *Orchestrator) scheduleRefresh(owner string) {
	_, f := o.acquire(owner)
	go func() {
		<-f.done
		if f.err != nil {
			o.logger.Debug("background refresh failed", zap.String("owner_id", owner), zap.Error(f.err))
		}
	}()
}

// Enqueue schedules a refresh for owner and returns immediately.
func (o *Orchestrator) Enqueue(owner string) { o.scheduleRefresh(owner) }

func (o *Orchestrator) acquire(owner string) (*flightShard, *flight) {
	sh := o.flightShard(owner)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	want := o.cache.Seq(owner)
	sl, ok := sh.slots[owner]
	if !ok {
		sl = &slot{}
		sh.slots[owner] = sl
	}

	var f *flight
	switch {
	case sl.running == nil:
		f = &flight{done: make(chan struct{})}
		sl.running = f
		o.startLocked(sh, owner, f)
	case sl.running.gen >= want && !sl.running.abandoned:
		f = sl.running
		o.metrics.IncCoalesced()
	default:
		if sl.queued == nil {
			sl.queued = &flight{done: make(chan struct{})}
		} else {
			o.metrics.IncCoalesced()
		}
		f = sl.queued
	}
	f.waiters++
	return sh, f
}

// startLocked launches f. The caller holds sh.mu.
func (o *Orchestrator) startLocked(sh *flightShard, owner string, f *flight) {
	f.gen = o.cache.Seq(owner)
	ctx, cancel := context.WithTimeout(o.baseCtx, o.cfg.RefreshTimeout)
	f.cancel = cancel
	go o.run(ctx, sh, owner, f)
}

func (o *Orchestrator) run(ctx context.Context, sh *flightShard, owner string, f *flight) {
	start := time.Now()
	snap, err := o.compute(ctx, owner, f.gen)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err == nil {
		o.cache.Put(snap)
		o.metrics.ObserveRefresh("success", time.Since(start).Seconds())
	} else {
		snap = nil
		o.metrics.ObserveRefresh("failure", time.Since(start).Seconds())
		o.logger.Warn("refresh failed", zap.String("owner_id", owner), zap.Error(err))
	}
	f.cancel()
	f.snap, f.err = snap, err

	sh.mu.Lock()
	sl := sh.slots[owner]
	sl.running = nil
	if q := sl.queued; q != nil {
		sl.queued = nil
		if q.waiters > 0 {
			sl.running = q
			o.startLocked(sh, owner, q)
		} else {
			q.err = context.Canceled
			close(q.done)
		}
	}
	if sl.running == nil {
		delete(sh.slots, owner)
	}
	sh.mu.Unlock()
	close(f.done)
}

// compute reads the edge store once for owner and builds a snapshot.
func (o *Orchestrator) compute(ctx context.Context, owner string, gen uint64) (*Snapshot, error) {
	started := o.now().UTC()
	asOf := started.Truncate(o.cfg.ScoreEpoch)

	edges, err := o.store.GetEdges(ctx, owner, "")
	if err != nil {
		return nil, fmt.Errorf("refresh %s: %w", owner, err)
	}
	exp, err := o.traverser.ExpandDepth(ctx, owner, o.cfg.MaxDepth)
	if err != nil {
		return nil, fmt.Errorf("refresh %s: %w", owner, err)
	}
	churn, err := o.store.ChurnEvents(ctx, owner, asOf.Add(-o.scorer.ChurnWindow()), started)
	if err != nil {
		return nil, fmt.Errorf("refresh %s: %w", owner, err)
	}

	score := o.scorer.Score(scoring.Input{Edges: edges, Expansion: exp, Churn: churn, AsOf: asOf})
	return &Snapshot{
		OwnerID:          owner,
		ComputedAt:       o.now().UTC(),
		AsOf:             asOf,
		Generation:       gen,
		EdgesByTier:      groupByTier(edges),
		DepthLayers:      exp.Layers,
		PeoplesOfPeoples: graph.PeoplesOfPeoples(exp),
		Stats:            graph.ComputeStats(edges, exp),
		TrustScore:       score,
	}, nil
}

// ReadMode selects how a read treats the cache.
type ReadMode int

const (
	// ReadCached serves from cache, following the ServeStale policy.
	ReadCached ReadMode = iota
	// ReadFresh always recomputes synchronously.
	ReadFresh
)

// ReadInfo describes where a read's snapshot came from.
type ReadInfo struct {
	Stale bool `json:"stale"`
	// Source is "cache", "refresh" or "stale-fallback".
	Source string `json:"source"`
}

// Snapshot returns the owner's snapshot under mode. Owners without edges
// yield an empty snapshot, never an error. When a refresh fails because
// the store is unreachable and a cached snapshot exists, the cached one is
// served and reported stale.
func (o *Orchestrator) Snapshot(ctx context.Context, owner string, mode ReadMode) (*Snapshot, ReadInfo, error) {
	cached, stale, ok := o.cache.Get(owner)
	if mode == ReadCached && ok {
		if !stale {
			o.metrics.IncCacheRead(metrics.OutcomeHit)
			return cached, ReadInfo{Source: "cache"}, nil
		}
		o.metrics.IncCacheRead(metrics.OutcomeStale)
		if o.cfg.ServeStale {
			o.scheduleRefresh(owner)
			return cached, ReadInfo{Stale: true, Source: "cache"}, nil
		}
	} else if mode == ReadCached {
		o.metrics.IncCacheRead(metrics.OutcomeMiss)
	}

	fresh, err := o.Refresh(ctx, owner)
	if err == nil {
		return fresh, ReadInfo{Source: "refresh"}, nil
	}
	if ok && ctx.Err() == nil && isUpstreamFailure(err) {
		o.logger.Warn("serving stale snapshot after failed refresh",
			zap.String("owner_id", owner), zap.Error(err))
		return cached, ReadInfo{Stale: true, Source: "stale-fallback"}, nil
	}
	return nil, ReadInfo{}, err
}

func isUpstreamFailure(err error) bool {
	return errors.Is(err, apperr.ErrUpstreamUnavailable) || errors.Is(err, context.DeadlineExceeded)
}
