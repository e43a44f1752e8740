package snapshot

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOwners(t *testing.T, s *gatedStore, n int) []string {
	t.Helper()
	owners := make([]string, n)
	for i := range owners {
		owners[i] = fmt.Sprintf("u%02d", i)
		s.seed(t, [3]string{owners[i], fmt.Sprintf("t%02d", i), "peoples"})
	}
	return owners
}

func TestRefreshAllRecordsPerOwnerFailures(t *testing.T) {
	s := newGatedStore()
	owners := seedOwners(t, s, 25)
	s.failOwners["u07"] = true
	s.failOwners["u13"] = true
	o := newTestOrchestrator(t, s, func(c *Config) {
		c.Workers = 3
		c.BatchSize = 4
	})

	report := o.RefreshAll(context.Background())

	assert.Equal(t, JobCompleted, report.Status)
	assert.Equal(t, 25, report.Total)
	assert.Equal(t, 23, report.Succeeded)
	assert.Equal(t, 2, report.Failed)
	assert.Zero(t, report.Skipped)
	assert.Contains(t, report.Failures, "u07")
	assert.Contains(t, report.Failures, "u13")
	require.NotNil(t, report.FinishedAt)

	for _, owner := range owners {
		_, _, ok := o.Cache().Get(owner)
		assert.Equal(t, !s.failOwners[owner], ok, owner)
	}
	assert.LessOrEqual(t, s.maxInflight.Load(), int32(3))
}

func TestRefreshAllBoundsConcurrency(t *testing.T) {
	s := newGatedStore()
	seedOwners(t, s, 12)
	o := newTestOrchestrator(t, s, func(c *Config) { c.Workers = 3 })
	s.hold()

	done := make(chan Report, 1)
	go func() { done <- o.RefreshAll(context.Background()) }()

	require.Eventually(t, func() bool { return s.inflight.Load() == 3 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(3), s.inflight.Load())

	s.release()
	report := <-done
	assert.Equal(t, 12, report.Succeeded)
	assert.Equal(t, int32(3), s.maxInflight.Load())
}

func TestRefreshAllCancellationSkipsUnfinishedOwners(t *testing.T) {
	s := newGatedStore()
	owners := seedOwners(t, s, 10)
	o := newTestOrchestrator(t, s, func(c *Config) { c.Workers = 2 })

	// Refresh one owner up front; its snapshot must survive the cancelled run.
	_, err := o.Refresh(context.Background(), owners[9])
	require.NoError(t, err)
	s.hold()
	t.Cleanup(s.release)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Report, 1)
	go func() { done <- o.RefreshAll(ctx) }()

	require.Eventually(t, func() bool { return s.inflight.Load() == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	report := <-done

	assert.Equal(t, JobCancelled, report.Status)
	assert.Equal(t, 10, report.Total)
	assert.Zero(t, report.Succeeded)
	assert.Zero(t, report.Failed)
	assert.Equal(t, 10, report.Skipped)

	_, _, ok := o.Cache().Get(owners[9])
	assert.True(t, ok)
	_, _, ok = o.Cache().Get(owners[0])
	assert.False(t, ok)
}

func TestRefreshAllTimesOutSlowOwner(t *testing.T) {
	s := newGatedStore()
	seedOwners(t, s, 5)
	s.slowOwners["u02"] = true
	o := newTestOrchestrator(t, s, func(c *Config) {
		c.Workers = 2
		c.RefreshTimeout = 50 * time.Millisecond
	})

	report := o.RefreshAll(context.Background())

	assert.Equal(t, JobCompleted, report.Status)
	assert.Equal(t, 4, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.Contains(t, report.Failures["u02"], "deadline exceeded")
}

func TestRefreshAllEmptyStore(t *testing.T) {
	o := newTestOrchestrator(t, newGatedStore(), nil)
	report := o.RefreshAll(context.Background())
	assert.Equal(t, JobCompleted, report.Status)
	assert.Zero(t, report.Total)
}

func TestJobRegistry(t *testing.T) {
	s := newGatedStore()
	seedOwners(t, s, 6)
	o := newTestOrchestrator(t, s, nil)
	jobs := NewJobRegistry(o)
	s.hold()

	job, started := jobs.Start()
	require.True(t, started)
	again, started := jobs.Start()
	assert.False(t, started)
	assert.Same(t, job, again)

	got, ok := jobs.Get(job.ID)
	require.True(t, ok)
	assert.Equal(t, JobRunning, got.Report().Status)

	_, ok = jobs.Get("missing")
	assert.False(t, ok)

	s.release()
	report, err := jobs.Wait(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, job.ID, report.JobID)
	assert.Equal(t, JobCompleted, report.Status)
	assert.Equal(t, 6, report.Succeeded)

	next, started := jobs.Start()
	require.True(t, started)
	assert.NotEqual(t, job.ID, next.ID)
	_, err = jobs.Wait(context.Background(), next)
	require.NoError(t, err)
}

func TestJobRegistryCancel(t *testing.T) {
	s := newGatedStore()
	seedOwners(t, s, 6)
	o := newTestOrchestrator(t, s, func(c *Config) { c.Workers = 1 })
	jobs := NewJobRegistry(o)
	s.hold()
	t.Cleanup(s.release)

	job, _ := jobs.Start()
	require.Eventually(t, func() bool { return s.inflight.Load() == 1 }, time.Second, 5*time.Millisecond)

	_, ok := jobs.Cancel(job.ID)
	require.True(t, ok)
	report, err := jobs.Wait(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, JobCancelled, report.Status)
	assert.Equal(t, 6, report.Skipped)

	_, ok = jobs.Cancel("missing")
	assert.False(t, ok)
}

func TestRefreshAllCancellationCountsUnlistedOwners(t *testing.T) {
	s := newGatedStore()
	seedOwners(t, s, 6)
	o := newTestOrchestrator(t, s, func(c *Config) {
		c.Workers = 1
		c.BatchSize = 2
	})
	s.hold()
	t.Cleanup(s.release)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Report, 1)
	go func() { done <- o.RefreshAll(ctx) }()

	require.Eventually(t, func() bool { return s.inflight.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	report := <-done

	assert.Equal(t, JobCancelled, report.Status)
	assert.Equal(t, 6, report.Total)
	assert.Equal(t, 6, report.Skipped)
	assert.Zero(t, report.Succeeded)
}
