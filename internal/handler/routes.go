package handler

import (
	"circletrust/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the circle API under r. Every route needs a bearer
// token signed with secret.
func RegisterRoutes(r gin.IRouter, h *CircleHandler, secret string) {
	circle := r.Group("/circle")
	circle.Use(auth.AuthMiddleware(secret))
	{
		// Caller-owned edges
		circle.PUT("/edges/:targetId", h.PutEdge)
		circle.POST("/edges/:targetId/interaction", h.RecordInteraction)
		circle.DELETE("/edges/:targetId", h.DeleteEdge)

		circle.POST("/refresh/:userId", auth.SelfOrAdmin("userId"), h.RefreshOwner)

		// Read views
		circle.GET("/:userId/edges", h.GetEdges)
		circle.GET("/:userId/peoples", h.GetPeoplesOfPeoples)
		circle.GET("/:userId/depth/:n", h.GetDepthLayer)
		circle.GET("/:userId/shared/:otherId", h.GetSharedCircle)
		circle.GET("/:userId/score", h.GetTrustScore)
		circle.GET("/:userId/stats", h.GetStats)
	}

	admin := circle.Group("")
	admin.Use(auth.AdminMiddleware())
	{
		admin.POST("/refresh-all", h.StartRefreshAll)
		admin.GET("/refresh-all/:jobId", h.GetRefreshAllJob)
		admin.POST("/refresh-all/:jobId/cancel", h.CancelRefreshAllJob)
		admin.DELETE("/:userId", h.DeleteUser)
	}
}
