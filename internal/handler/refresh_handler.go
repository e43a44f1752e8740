package handler

import (
	"net/http"
	"strconv"

	"circletrust/backend/internal/snapshot"

	"github.com/gin-gonic/gin"
)

// JobHandle identifies a bulk refresh job.
type JobHandle struct {
	JobID  string             `json:"job_id"`
	Status snapshot.JobStatus `json:"status" example:"running"`
}

// RefreshOwner godoc
// @Summary      Refresh one owner
// @Description  Recomputes the owner's snapshot synchronously and returns its summary. With async=true the refresh is queued and 202 is returned. Concurrent refreshes of the same owner share one computation.
// @Tags         refresh
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true   "Owner user ID"
// @Param        async   query     bool    false  "Queue the refresh instead of waiting"
// @Success      200     {object}  snapshot.Summary
// @Success      202     {object}  ReadMeta
// @Failure      401     {object}  ErrorResponse
// @Failure      403     {object}  ErrorResponse "Only the owner or an admin may refresh"
// @Failure      503     {object}  ErrorResponse
// @Router       /circle/refresh/{userId} [post]
func (h *CircleHandler) RefreshOwner(c *gin.Context) {
	owner := c.Param("userId")
	if async, _ := strconv.ParseBool(c.Query("async")); async {
		h.orch.Enqueue(owner)
		c.JSON(http.StatusAccepted, ReadMeta{Stale: true, Source: "queued"})
		return
	}

	snap, err := h.orch.Refresh(c.Request.Context(), owner)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap.Summary())
}

// StartRefreshAll godoc
// @Summary      Refresh every owner
// @Description  Starts a bulk recomputation on a bounded worker pool. Returns the job handle, or the final report when wait=true. Starting while a job runs returns the running job.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        wait  query     bool  false  "Block until the job finishes"
// @Success      200   {object}  snapshot.Report
// @Success      202   {object}  JobHandle
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse "Admin access required"
// @Router       /circle/refresh-all [post]
func (h *CircleHandler) StartRefreshAll(c *gin.Context) {
	job, _ := h.jobs.Start()

	if wait, _ := strconv.ParseBool(c.Query("wait")); wait {
		report, err := h.jobs.Wait(c.Request.Context(), job)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
		return
	}
	c.JSON(http.StatusAccepted, JobHandle{JobID: job.ID, Status: job.Report().Status})
}

// GetRefreshAllJob godoc
// @Summary      Bulk refresh progress
// @Description  Returns the job's counts and per-owner failures.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        jobId  path      string  true  "Job ID"
// @Success      200    {object}  snapshot.Report
// @Failure      401    {object}  ErrorResponse
// @Failure      403    {object}  ErrorResponse "Admin access required"
// @Failure      404    {object}  ErrorResponse "Job not found"
// @Router       /circle/refresh-all/{jobId} [get]
func (h *CircleHandler) GetRefreshAllJob(c *gin.Context) {
	job, ok := h.jobs.Get(c.Param("jobId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	c.JSON(http.StatusOK, job.Report())
}

// CancelRefreshAllJob godoc
// @Summary      Cancel a bulk refresh
// @Description  Stops scheduling owners. Snapshots already refreshed stay; unfinished owners are reported as skipped.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        jobId  path      string  true  "Job ID"
// @Success      202    {object}  JobHandle
// @Failure      401    {object}  ErrorResponse
// @Failure      403    {object}  ErrorResponse "Admin access required"
// @Failure      404    {object}  ErrorResponse "Job not found"
// @Router       /circle/refresh-all/{jobId}/cancel [post]
func (h *CircleHandler) CancelRefreshAllJob(c *gin.Context) {
	job, ok := h.jobs.Cancel(c.Param("jobId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	c.JSON(http.StatusAccepted, JobHandle{JobID: job.ID, Status: job.Report().Status})
}
