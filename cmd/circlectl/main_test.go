package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"circletrust/backend/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunToken(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runToken("secret", "alice", jwt.RoleAdmin, 0, &out))

	claims, err := jwt.ParseToken("secret", strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.True(t, claims.IsAdmin())

	assert.Error(t, runToken("", "alice", "", 0, &out))
	assert.Error(t, runToken("secret", "", "", 0, &out))
}

type recorded struct {
	method string
	path   string
	query  string
	auth   string
}

func apiServer(t *testing.T, status int, body any) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method, rec.path, rec.query = r.Method, r.URL.Path, r.URL.RawQuery
		rec.auth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestRunGetPrintsJSON(t *testing.T) {
	srv, rec := apiServer(t, http.StatusOK, map[string]any{"owner_id": "u", "overall_score": 0.5})
	var out bytes.Buffer

	require.NoError(t, runGet(newClient(srv.URL+"/", "tok"), "/circle/u/score", &out))
	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/circle/u/score", rec.path)
	assert.Equal(t, "Bearer tok", rec.auth)
	assert.Contains(t, out.String(), `"overall_score": 0.5`)
}

func TestRunRefreshAllWait(t *testing.T) {
	srv, rec := apiServer(t, http.StatusOK, map[string]any{"job_id": "j", "status": "completed"})
	var out bytes.Buffer

	require.NoError(t, runRefreshAll(newClient(srv.URL, "tok"), true, &out))
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/circle/refresh-all", rec.path)
	assert.Equal(t, "wait=true", rec.query)
	assert.Contains(t, out.String(), `"completed"`)
}

func TestRunJobCancel(t *testing.T) {
	srv, rec := apiServer(t, http.StatusAccepted, map[string]any{"job_id": "j", "status": "running"})
	var out bytes.Buffer

	require.NoError(t, runJob(newClient(srv.URL, "tok"), "j", true, &out))
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/circle/refresh-all/j/cancel", rec.path)
}

func TestErrorStatusCarriesServerMessage(t *testing.T) {
	srv, _ := apiServer(t, http.StatusForbidden, map[string]string{"error": "Admin access required"})
	var out bytes.Buffer

	err := runRefresh(newClient(srv.URL, "tok"), "other", &out)
	require.Error(t, err)
	assert.Equal(t, "http 403: Admin access required", err.Error())
	assert.Empty(t, out.String())
}
