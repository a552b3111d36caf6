package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestApp_PreviewOnly(t *testing.T) {
	t.Setenv("API_KEY", "")
	app := NewApp(nil, zap.NewNop())

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"storage":"disabled"`)

	body := `{"text":"Alice said hello to Bob. Bob smiled and walked away.","preview":true}`
	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/stories/"+uuid.NewString()+"/analyze", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/stories/"+uuid.NewString()+"/characters", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestApp_RequiresAPIKey(t *testing.T) {
	t.Setenv("API_KEY", "letmein")
	app := NewApp(nil, zap.NewNop())

	path := "/v1/stories/" + uuid.NewString() + "/analyze"
	body := `{"text":"Alice ran.","preview":true}`

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer letmein")
	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestApp_VersionAndMetrics(t *testing.T) {
	app := NewApp(nil, zap.NewNop())

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var version map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &version))
	assert.Contains(t, version, "version")
	assert.Contains(t, version, "commit")

	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var metrics map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metrics))
	assert.Equal(t, float64(2), metrics["request_count"])
	assert.Equal(t, false, metrics["storage_enabled"])
}
