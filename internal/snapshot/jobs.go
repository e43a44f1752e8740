package snapshot

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// maxFinishedJobs bounds how many terminal job reports are retained.
const maxFinishedJobs = 32

// Job is one bulk refresh running in the background.
type Job struct {
	ID       string
	progress *Progress
	cancel   context.CancelFunc
	done     chan struct{}
}

// Report returns the job's current report.
func (j *Job) Report() Report { return j.progress.Report() }

// Done is closed when the job reaches a terminal state.
func (j *Job) Done() <-chan struct{} { return j.done }

// JobRegistry tracks bulk refresh jobs. At most one job runs at a time;
// starting while one is running hands back the running job.
type JobRegistry struct {
	orch *Orchestrator

	mu       sync.RWMutex
	jobs     map[string]*Job
	finished []string
	active   *Job
}

// NewJobRegistry returns a registry that runs jobs on o.
func NewJobRegistry(o *Orchestrator) *JobRegistry {
	return &JobRegistry{
		orch: o,
		jobs: make(map[string]*Job),
	}
}

// Start launches a bulk refresh. The boolean is false when an already
// running job was returned instead.
func (r *JobRegistry) Start() (*Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil {
		return r.active, false
	}

	ctx, cancel := context.WithCancel(r.orch.baseCtx)
	id := uuid.New().String()
	job := &Job{
		ID:       id,
		progress: newProgress(id, r.orch.now().UTC()),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	r.jobs[job.ID] = job
	r.active = job

	go func() {
		defer cancel()
		r.orch.refreshAll(ctx, job.progress)
		r.complete(job)
	}()
	return job, true
}

func (r *JobRegistry) complete(job *Job) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active == job {
		r.active = nil
	}
	r.finished = append(r.finished, job.ID)
	for len(r.finished) > maxFinishedJobs {
		delete(r.jobs, r.finished[0])
		r.finished = r.finished[1:]
	}
	close(job.done)
}

// Get returns the job with id.
func (r *JobRegistry) Get(id string) (*Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	return job, ok
}

// Cancel stops the job with id. Cancelling a finished job is a no-op.
func (r *JobRegistry) Cancel(id string) (*Job, bool) {
	job, ok := r.Get(id)
	if !ok {
		return nil, false
	}
	job.cancel()
	return job, true
}

// Wait blocks until the job finishes or ctx is done.
func (r *JobRegistry) Wait(ctx context.Context, job *Job) (Report, error) {
	select {
	case <-job.done:
		return job.Report(), nil
	case <-ctx.Done():
		return job.Report(), ctx.Err()
	}
}
