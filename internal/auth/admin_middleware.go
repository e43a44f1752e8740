package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware creates a gin middleware to check for admin role.
// It must be used AFTER the standard AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextUserID); !exists {
			// This should not happen if AuthMiddleware is used before it
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		c.Next()
	}
}

// SelfOrAdmin allows the request when the path parameter param names the
// caller, or the caller is an admin.
func SelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Param(param) != CallerID(c) && !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Not allowed to act on another user's circle"})
			return
		}
		c.Next()
	}
}
