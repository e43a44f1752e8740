package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"circletrust/backend/internal/apperr"
	"circletrust/backend/internal/graph"
	"circletrust/backend/internal/models"
	"circletrust/backend/internal/profile"
	"circletrust/backend/internal/scoring"
	"circletrust/backend/internal/snapshot"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileHydrator attaches display attributes to user ids.
type ProfileHydrator interface {
	Hydrate(ctx context.Context, ids []string) map[string]profile.Profile
}

// CircleHandler serves the circle endpoints.
type CircleHandler struct {
	orch     *snapshot.Orchestrator
	jobs     *snapshot.JobRegistry
	profiles ProfileHydrator
	logger   *zap.Logger
}

// NewCircleHandler wires the handlers. profiles may be nil, which turns
// ?expand=profiles into a no-op.
func NewCircleHandler(orch *snapshot.Orchestrator, jobs *snapshot.JobRegistry, profiles ProfileHydrator, logger *zap.Logger) *CircleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CircleHandler{orch: orch, jobs: jobs, profiles: profiles, logger: logger}
}

// ReadMeta says whether the served data came from a stale snapshot.
type ReadMeta struct {
	Stale  bool   `json:"stale"`
	Source string `json:"source" example:"cache"`
}

func readMeta(info snapshot.ReadInfo) ReadMeta {
	return ReadMeta{Stale: info.Stale, Source: info.Source}
}

// EdgeListResponse is a page of an owner's edges.
type EdgeListResponse struct {
	PaginatedResponse[models.Edge]
	ReadMeta
	Profiles map[string]profile.Profile `json:"profiles,omitempty"`
}

// PeoplesResponse is a page of depth-2 candidates.
type PeoplesResponse struct {
	PaginatedResponse[graph.Candidate]
	ReadMeta
	Profiles map[string]profile.Profile `json:"profiles,omitempty"`
}

// DepthResponse is one depth layer and the owner's stats.
type DepthResponse struct {
	OwnerID string      `json:"owner_id"`
	Depth   int         `json:"depth"`
	Nodes   []string    `json:"nodes"`
	Stats   graph.Stats `json:"stats"`
	ReadMeta
	Profiles map[string]profile.Profile `json:"profiles,omitempty"`
}

// SharedResponse is the shared-circle breakdown between two owners.
type SharedResponse struct {
	graph.SharedCircle
	ReadMeta
	Profiles map[string]profile.Profile `json:"profiles,omitempty"`
}

// ScoreResponse is an owner's trust score.
type ScoreResponse struct {
	OwnerID string `json:"owner_id"`
	scoring.TrustScore
	ReadMeta
}

// StatsResponse is an owner's circle statistics.
type StatsResponse struct {
	OwnerID string `json:"owner_id"`
	graph.Stats
	ReadMeta
}

func readMode(c *gin.Context) snapshot.ReadMode {
	if fresh, _ := strconv.ParseBool(c.Query("fresh")); fresh {
		return snapshot.ReadFresh
	}
	return snapshot.ReadCached
}

func (h *CircleHandler) hydrate(c *gin.Context, ids []string) map[string]profile.Profile {
	if h.profiles == nil || c.Query("expand") != "profiles" || len(ids) == 0 {
		return nil
	}
	return h.profiles.Hydrate(c.Request.Context(), ids)
}

// fail writes err in the {"error": ...} shape with its mapped status.
func (h *CircleHandler) fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	switch {
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads the body.
		c.Status(499)
		return
	case status == http.StatusServiceUnavailable:
		h.logger.Warn("circle request degraded", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "Edge store unavailable"})
		return
	case status >= http.StatusInternalServerError:
		h.logger.Error("circle request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

// GetEdges godoc
// @Summary      List an owner's edges
// @Description  Returns the owner's out-edges ordered by tier then target, optionally filtered to one tier. Unknown owners have an empty circle.
// @Tags         circle
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true   "Owner user ID"
// @Param        tier    query     string  false  "Tier filter (peoples, cool, alright, others)"
// @Param        fresh   query     bool    false  "Recompute synchronously instead of reading the cache"
// @Param        expand  query     string  false  "Set to 'profiles' to attach display attributes"
// @Param        page    query     int     false  "Page number" default(1)
// @Param        limit   query     int     false  "Items per page (all when omitted)"
// @Success      200     {object}  EdgeListResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      503     {object}  ErrorResponse "Edge store unavailable and no cached snapshot"
// @Router       /circle/{userId}/edges [get]
func (h *CircleHandler) GetEdges(c *gin.Context) {
	var tier models.Tier
	if raw := c.Query("tier"); raw != "" {
		parsed, err := models.ParseTier(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		tier = parsed
	}

	edges, info, err := h.orch.Edges(c.Request.Context(), c.Param("userId"), tier, readMode(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	page, limit := pageParams(c)
	resp := EdgeListResponse{PaginatedResponse: PaginateSlice(edges, page, limit), ReadMeta: readMeta(info)}
	ids := make([]string, len(resp.Data))
	for i, e := range resp.Data {
		ids[i] = e.TargetID
	}
	resp.Profiles = h.hydrate(c, ids)
	c.JSON(http.StatusOK, resp)
}

// GetPeoplesOfPeoples godoc
// @Summary      Peoples of Peoples
// @Description  Returns depth-2 Peoples candidates with the number of the owner's Peoples who hold a Peoples edge to each, ordered by mutual count.
// @Tags         circle
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true   "Owner user ID"
// @Param        fresh   query     bool    false  "Recompute synchronously instead of reading the cache"
// @Param        expand  query     string  false  "Set to 'profiles' to attach display attributes"
// @Param        page    query     int     false  "Page number" default(1)
// @Param        limit   query     int     false  "Items per page (all when omitted)"
// @Success      200     {object}  PeoplesResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      503     {object}  ErrorResponse
// @Router       /circle/{userId}/peoples [get]
func (h *CircleHandler) GetPeoplesOfPeoples(c *gin.Context) {
	candidates, info, err := h.orch.PeoplesOfPeoples(c.Request.Context(), c.Param("userId"), readMode(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	page, limit := pageParams(c)
	resp := PeoplesResponse{PaginatedResponse: PaginateSlice(candidates, page, limit), ReadMeta: readMeta(info)}
	ids := make([]string, len(resp.Data))
	for i, cand := range resp.Data {
		ids[i] = cand.UserID
	}
	resp.Profiles = h.hydrate(c, ids)
	c.JSON(http.StatusOK, resp)
}

// GetDepthLayer godoc
// @Summary      One depth layer
// @Description  Returns the users reachable from the owner in exactly n Peoples hops, excluding closer layers, plus the owner's stats.
// @Tags         circle
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true   "Owner user ID"
// @Param        n       path      int     true   "Depth (1..4)"
// @Param        fresh   query     bool    false  "Recompute synchronously instead of reading the cache"
// @Param        expand  query     string  false  "Set to 'profiles' to attach display attributes"
// @Success      200     {object}  DepthResponse
// @Failure      400     {object}  ErrorResponse "Depth out of range"
// @Failure      401     {object}  ErrorResponse
// @Failure      503     {object}  ErrorResponse
// @Router       /circle/{userId}/depth/{n} [get]
func (h *CircleHandler) GetDepthLayer(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Depth must be an integer"})
		return
	}

	owner := c.Param("userId")
	view, info, err := h.orch.DepthLayer(c.Request.Context(), owner, n, readMode(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, DepthResponse{
		OwnerID:  owner,
		Depth:    view.Depth,
		Nodes:    view.Nodes,
		Stats:    view.Stats,
		ReadMeta: readMeta(info),
		Profiles: h.hydrate(c, view.Nodes),
	})
}

// GetSharedCircle godoc
// @Summary      Shared circle
// @Description  Intersects two owners' circles. Each shared user is bucketed under the weaker of the two tiers assigned to it. The overlap score normalizes the shared count by the smaller circle.
// @Tags         circle
// @Produce      json
// @Security     BearerAuth
// @Param        userId   path      string  true   "Owner user ID"
// @Param        otherId  path      string  true   "Other user ID"
// @Param        fresh    query     bool    false  "Recompute synchronously instead of reading the cache"
// @Param        expand   query     string  false  "Set to 'profiles' to attach display attributes"
// @Success      200      {object}  SharedResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Failure      503      {object}  ErrorResponse
// @Router       /circle/{userId}/shared/{otherId} [get]
func (h *CircleHandler) GetSharedCircle(c *gin.Context) {
	owner, other := c.Param("userId"), c.Param("otherId")
	if owner == other {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot compare a circle with itself"})
		return
	}

	shared, info, err := h.orch.Shared(c.Request.Context(), owner, other, readMode(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, SharedResponse{
		SharedCircle: shared,
		ReadMeta:     readMeta(info),
		Profiles:     h.hydrate(c, shared.Nodes()),
	})
}

// GetTrustScore godoc
// @Summary      Trust score
// @Description  Returns the owner's composite trust score with its direct, structural and stability parts, each in [0,100].
// @Tags         circle
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true   "Owner user ID"
// @Param        fresh   query     bool    false  "Recompute synchronously instead of reading the cache"
// @Success      200     {object}  ScoreResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      503     {object}  ErrorResponse
// @Router       /circle/{userId}/score [get]
func (h *CircleHandler) GetTrustScore(c *gin.Context) {
	owner := c.Param("userId")
	score, info, err := h.orch.Score(c.Request.Context(), owner, readMode(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ScoreResponse{OwnerID: owner, TrustScore: score, ReadMeta: readMeta(info)})
}

// GetStats godoc
// @Summary      Circle statistics
// @Description  Per-tier counts, visible nodes, layer sizes, average depth and the clustering coefficient of the owner's Peoples ego network.
// @Tags         circle
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true   "Owner user ID"
// @Param        fresh   query     bool    false  "Recompute synchronously instead of reading the cache"
// @Success      200     {object}  StatsResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      503     {object}  ErrorResponse
// @Router       /circle/{userId}/stats [get]
func (h *CircleHandler) GetStats(c *gin.Context) {
	owner := c.Param("userId")
	stats, info, err := h.orch.Stats(c.Request.Context(), owner, readMode(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, StatsResponse{OwnerID: owner, Stats: stats, ReadMeta: readMeta(info)})
}
