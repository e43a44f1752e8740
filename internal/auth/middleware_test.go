package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"circletrust/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	authed := r.Group("/", AuthMiddleware(secret))
	authed.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CallerID(c), "admin": IsAdmin(c)})
	})
	authed.GET("/admin", AdminMiddleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	authed.POST("/users/:userId", SelfOrAdmin("userId"), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func token(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := jwt.GenerateToken(secret, userID, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func do(r *gin.Engine, method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()

	w := do(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/me", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/me", "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/me", token(t, "alice", ""))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"alice","admin":false}`, w.Body.String())
}

func TestAdminMiddleware(t *testing.T) {
	r := newRouter()

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/admin", token(t, "alice", "")).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodGet, "/admin", token(t, "root", jwt.RoleAdmin)).Code)
}

func TestSelfOrAdmin(t *testing.T) {
	r := newRouter()

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/users/alice", token(t, "alice", "")).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPost, "/users/bob", token(t, "alice", "")).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/users/bob", token(t, "root", jwt.RoleAdmin)).Code)
}
