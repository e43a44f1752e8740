package auth

import (
	"net/http"
	"strings"

	"circletrust/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// AuthMiddleware requires a valid bearer token signed with secret and sets
// the caller's user id and role on the context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		claims, err := jwt.ParseToken(secret, strings.TrimSpace(parts[1]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// CallerID returns the authenticated user id.
func CallerID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// IsAdmin reports whether the caller's token carries the admin role.
func IsAdmin(c *gin.Context) bool {
	return c.GetString(ContextRole) == jwt.RoleAdmin
}
