package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleLiveness(t *testing.T) {
	srv := newTestServer(t, &mockAnalysisService{}, &mockResultStore{})
	e := srv.echo

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, srv.handleLiveness(c))
	assert.Equal(t, 200, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "uptime")
}

func TestHandleReadiness_AllHealthy(t *testing.T) {
	srv := newTestServer(t, &mockAnalysisService{}, &mockResultStore{})
	e := srv.echo

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, srv.handleReadiness(c))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "ready")
}

func TestHandleReadiness_PostgresDown(t *testing.T) {
	srv := newTestServer(t, &mockAnalysisService{}, &mockResultStore{},
		withPostgresCheck(&mockPostgresChecker{err: fmt.Errorf("connection refused")}))
	e := srv.echo

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, srv.handleReadiness(c))
	assert.Equal(t, 503, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, "postgres", body["failed_check"])
}

func TestHandleReadiness_RedisDown(t *testing.T) {
	srv := newTestServer(t, &mockAnalysisService{}, &mockResultStore{},
		withRedisCheck(&mockRedisChecker{err: fmt.Errorf("connection refused")}))
	e := srv.echo

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, srv.handleReadiness(c))
	assert.Equal(t, 503, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "redis", body["failed_check"])
}

func TestHandleReadiness_BackendDown(t *testing.T) {
	srv := newTestServer(t, &mockAnalysisService{}, &mockResultStore{},
		withBackendCheck(&mockBackendChecker{err: fmt.Errorf("no such host")}))
	e := srv.echo

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, srv.handleReadiness(c))
	assert.Equal(t, 503, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "backend", body["failed_check"])
}

func TestHandleVersion(t *testing.T) {
	srv := newTestServer(t, &mockAnalysisService{}, &mockResultStore{})
	e := srv.echo

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, srv.handleVersion(c))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "version")
}
