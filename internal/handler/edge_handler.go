package handler

import (
	"net/http"

	"circletrust/backend/internal/auth"
	"circletrust/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// EdgeInput is the body of a tier assignment.
type EdgeInput struct {
	Tier string `json:"tier" binding:"required" example:"peoples"`
}

// DeleteUserResponse reports an account-deletion cascade.
type DeleteUserResponse struct {
	UserID         string   `json:"user_id"`
	AffectedOwners []string `json:"affected_owners"`
}

// PutEdge godoc
// @Summary      Assign a tier
// @Description  Creates or updates the caller's edge to the target. Concurrent assignments resolve last-write-wins.
// @Tags         edges
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        targetId  path      string     true  "Target user ID"
// @Param        input     body      EdgeInput  true  "Tier"
// @Success      200       {object}  models.Edge
// @Failure      400       {object}  ErrorResponse
// @Failure      401       {object}  ErrorResponse
// @Failure      503       {object}  ErrorResponse
// @Router       /circle/edges/{targetId} [put]
func (h *CircleHandler) PutEdge(c *gin.Context) {
	var input EdgeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tier, err := models.ParseTier(input.Tier)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	edge, err := h.orch.UpsertEdge(c.Request.Context(), auth.CallerID(c), c.Param("targetId"), tier)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, edge)
}

// RecordInteraction godoc
// @Summary      Record a first interaction
// @Description  Creates the caller's edge to the target at the default tier when none exists. An existing edge is returned unchanged.
// @Tags         edges
// @Produce      json
// @Security     BearerAuth
// @Param        targetId  path      string  true  "Target user ID"
// @Success      200       {object}  models.Edge  "Edge already existed"
// @Success      201       {object}  models.Edge  "Edge created"
// @Failure      400       {object}  ErrorResponse
// @Failure      401       {object}  ErrorResponse
// @Failure      503       {object}  ErrorResponse
// @Router       /circle/edges/{targetId}/interaction [post]
func (h *CircleHandler) RecordInteraction(c *gin.Context) {
	edge, created, err := h.orch.EnsureEdge(c.Request.Context(), auth.CallerID(c), c.Param("targetId"), models.DefaultTier)
	if err != nil {
		h.fail(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, edge)
}

// DeleteEdge godoc
// @Summary      Disconnect
// @Description  Removes the caller's edge to the target. Removing a missing edge succeeds.
// @Tags         edges
// @Security     BearerAuth
// @Param        targetId  path  string  true  "Target user ID"
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /circle/edges/{targetId} [delete]
func (h *CircleHandler) DeleteEdge(c *gin.Context) {
	if err := h.orch.DeleteEdge(c.Request.Context(), auth.CallerID(c), c.Param("targetId")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteUser godoc
// @Summary      Delete a user's circle data
// @Description  Account-deletion cascade: removes the user's edges in both directions, evicts their snapshot and marks every owner that pointed at them stale.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  DeleteUserResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      403     {object}  ErrorResponse "Admin access required"
// @Failure      503     {object}  ErrorResponse
// @Router       /circle/{userId} [delete]
func (h *CircleHandler) DeleteUser(c *gin.Context) {
	userID := c.Param("userId")
	affected, err := h.orch.DeleteUser(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if affected == nil {
		affected = []string{}
	}
	c.JSON(http.StatusOK, DeleteUserResponse{UserID: userID, AffectedOwners: affected})
}
