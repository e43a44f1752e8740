package snapshot

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// JobStatus is the lifecycle state of a bulk refresh.
type JobStatus string

const (
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobCancelled JobStatus = "cancelled"
	// JobFailed means the owner listing itself failed; per-owner failures
	// never fail the job.
	JobFailed JobStatus = "failed"
)

// Report is the result of a bulk refresh, complete or in progress.
type Report struct {
	JobID      string            `json:"job_id"`
	Status     JobStatus         `json:"status"`
	Total      int               `json:"total"`
	Succeeded  int               `json:"succeeded"`
	Failed     int               `json:"failed"`
	Skipped    int               `json:"skipped"`
	Failures   map[string]string `json:"failures"`
	Error      string            `json:"error,omitempty"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt *time.Time        `json:"finished_at,omitempty"`
}

// Done reports whether the job reached a terminal state.
func (r Report) Done() bool { return r.Status != JobRunning }

// Progress accumulates a Report while workers update it concurrently.
type Progress struct {
	mu sync.Mutex
	r  Report
}

func newProgress(jobID string, started time.Time) *Progress {
	return &Progress{r: Report{
		JobID:     jobID,
		Status:    JobRunning,
		Failures:  make(map[string]string),
		StartedAt: started,
	}}
}

// Report returns a copy of the current state.
func (p *Progress) Report() Report {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.r
	out.Failures = make(map[string]string, len(p.r.Failures))
	for k, v := range p.r.Failures {
		out.Failures[k] = v
	}
	return out
}

func (p *Progress) seen(n int) {
	p.mu.Lock()
	p.r.Total += n
	p.mu.Unlock()
}

func (p *Progress) succeeded() {
	p.mu.Lock()
	p.r.Succeeded++
	p.mu.Unlock()
}

func (p *Progress) failed(owner string, err error) {
	p.mu.Lock()
	p.r.Failed++
	p.r.Failures[owner] = err.Error()
	p.mu.Unlock()
}

func (p *Progress) skipped(n int) {
	p.mu.Lock()
	p.r.Skipped += n
	p.mu.Unlock()
}

func (p *Progress) finish(status JobStatus, err error, at time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.r.Status = status
	if err != nil {
		p.r.Error = err.Error()
	}
	p.r.FinishedAt = &at
}

// RefreshAll recomputes every owner's snapshot and blocks until done.
func (o *Orchestrator) RefreshAll(ctx context.Context) Report {
	p := newProgress("", o.now().UTC())
	o.refreshAll(ctx, p)
	return p.Report()
}

// refreshAll pages through owners and refreshes them on a pool of
// Workers goroutines. Paging stalls while the pool is full. One owner's
// failure or timeout is recorded and never stops its siblings.
// Cancelling ctx stops scheduling; owners that had not finished count as
// skipped, including those never listed, and snapshots already stored
// stay in place.
func (o *Orchestrator) refreshAll(ctx context.Context, p *Progress) {
	var g errgroup.Group
	g.SetLimit(o.cfg.Workers)

	expected, err := o.store.CountOwners(ctx)
	if err != nil {
		o.logger.Warn("refresh-all owner count failed", zap.Error(err))
		expected = 0
	}

	var listErr error
	listed := 0
	after := ""
	for ctx.Err() == nil {
		owners, err := o.store.ListOwners(ctx, after, o.cfg.BatchSize)
		if err != nil {
			if ctx.Err() == nil {
				listErr = err
			}
			break
		}
		if len(owners) == 0 {
			break
		}
		p.seen(len(owners))
		listed += len(owners)
		for i, owner := range owners {
			owner := owner
			if ctx.Err() != nil {
				p.skipped(len(owners) - i)
				for range owners[i:] {
					o.metrics.IncBulkOwner("skipped")
				}
				break
			}
			g.Go(func() error {
				o.refreshOwner(ctx, p, owner)
				return nil
			})
		}
		if len(owners) < o.cfg.BatchSize {
			break
		}
		after = owners[len(owners)-1]
	}
	_ = g.Wait()

	if ctx.Err() != nil && listErr == nil && expected > listed {
		p.seen(expected - listed)
		p.skipped(expected - listed)
		for i := 0; i < expected-listed; i++ {
			o.metrics.IncBulkOwner("skipped")
		}
	}

	status := JobCompleted
	switch {
	case listErr != nil:
		status = JobFailed
		o.logger.Error("refresh-all listing failed", zap.Error(listErr))
	case ctx.Err() != nil:
		status = JobCancelled
	}
	final := p.Report()
	p.finish(status, listErr, o.now().UTC())
	o.logger.Info("refresh-all finished",
		zap.String("job_id", final.JobID),
		zap.String("status", string(status)),
		zap.Int("total", final.Total),
		zap.Int("succeeded", final.Succeeded),
		zap.Int("failed", final.Failed),
		zap.Int("skipped", final.Skipped))
}

func (o *Orchestrator) refreshOwner(ctx context.Context, p *Progress, owner string) {
	if ctx.Err() != nil {
		p.skipped(1)
		o.metrics.IncBulkOwner("skipped")
		return
	}
	ownerCtx, cancel := context.WithTimeout(ctx, o.cfg.RefreshTimeout)
	defer cancel()

	_, err := o.Refresh(ownerCtx, owner)
	switch {
	case err == nil:
		p.succeeded()
		o.metrics.IncBulkOwner("success")
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		p.skipped(1)
		o.metrics.IncBulkOwner("skipped")
	default:
		p.failed(owner, err)
		o.metrics.IncBulkOwner("failure")
		o.logger.Warn("refresh-all owner failed", zap.String("owner_id", owner), zap.Error(err))
	}
}
