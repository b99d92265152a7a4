package pipeline

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sarobii/microme/pkg/auth"
	"github.com/Sarobii/microme/pkg/cache"
	"github.com/Sarobii/microme/pkg/logging"
	"github.com/Sarobii/microme/pkg/models"
)

var testSecret = []byte("test-secret")

func newTestServer(t *testing.T) (*gin.Engine, *fakeStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fs := newFakeStore()
	orch := newTestOrchestrator(t, fs)
	c := cache.New(cache.Options{TTL: time.Minute})
	h := NewHandler(orch, fs, c, logging.NewLogger())

	router := gin.New()
	api := router.Group("/api")
	api.Use(auth.JWTAuthMiddleware(testSecret))
	h.RegisterRoutes(api)
	return router, fs
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateJWT("user-1", "user@example.com", testSecret)
	require.NoError(t, err)
	return token
}

func doRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRunRejectsMalformedToken(t *testing.T) {
	router, _ := newTestServer(t)

	valid := bearerToken(t)
	twoSegments := valid[:strings.LastIndex(valid, ".")]

	w := doRequest(router, http.MethodPost, "/api/pipeline/run", twoSegments, Request{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The run must abort before any stage executes: no stage outputs in
	// the body, nothing persisted.
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotContains(t, body, "stage_outputs")
}

func TestRunMissingTokenRejected(t *testing.T) {
	router, fs := newTestServer(t)

	w := doRequest(router, http.MethodPost, "/api/pipeline/run", "", Request{Posts: somePosts(3)})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, fs.items["user-1"])
}

func TestRunHappyPath(t *testing.T) {
	router, fs := newTestServer(t)
	token := bearerToken(t)

	w := doRequest(router, http.MethodPost, "/api/pipeline/run", token, Request{Posts: somePosts(10), UploadSource: "manual"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, 100, resp.CompletionRate)
	assert.Len(t, resp.StepsCompleted, 5)
	assert.Len(t, fs.items["user-1"], 10)
}

func TestRunRejectsUnknownUploadSource(t *testing.T) {
	router, _ := newTestServer(t)
	token := bearerToken(t)

	w := doRequest(router, http.MethodPost, "/api/pipeline/run", token, Request{Posts: somePosts(2), UploadSource: "scraper"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPersonaNotFoundThenServed(t *testing.T) {
	router, _ := newTestServer(t)
	token := bearerToken(t)

	w := doRequest(router, http.MethodGet, "/api/persona", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodPost, "/api/pipeline/run", token, Request{Posts: somePosts(5)})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/persona", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile models.PersonaProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "medium", profile.DataQuality)
}

func TestGetContentAfterRun(t *testing.T) {
	router, _ := newTestServer(t)
	token := bearerToken(t)

	w := doRequest(router, http.MethodPost, "/api/pipeline/run", token, Request{Posts: somePosts(4)})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/content", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Items []models.ContentItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Items, 4)
}

func TestTransparencyReviewFlow(t *testing.T) {
	router, fs := newTestServer(t)
	token := bearerToken(t)

	w := doRequest(router, http.MethodPost, "/api/transparency/review", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodPost, "/api/pipeline/run", token, Request{})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodPost, "/api/transparency/review", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	records := fs.transparency["user-1"]
	require.NotEmpty(t, records)
	assert.True(t, records[len(records)-1].UserReviewed)

	// Idempotent: reviewing again stays 200.
	w = doRequest(router, http.MethodPost, "/api/transparency/review", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// The read side must not serve a stale pre-review record.
	w = doRequest(router, http.MethodGet, "/api/transparency", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var record models.TransparencyRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.True(t, record.UserReviewed)
}

func TestSettingsRoundTrip(t *testing.T) {
	router, _ := newTestServer(t)
	token := bearerToken(t)

	w := doRequest(router, http.MethodGet, "/api/settings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var settings models.UserSettings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.True(t, settings.AllowContentAnalysis)
	assert.True(t, settings.AllowPersonalityAnalysis)
	assert.True(t, settings.AllowStrategyGeneration)

	settings.AllowPersonalityAnalysis = false
	w = doRequest(router, http.MethodPut, "/api/settings", token, settings)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/settings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.UserSettings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.False(t, updated.AllowPersonalityAnalysis)
}

func TestRunInvalidatesCachedArtifacts(t *testing.T) {
	router, _ := newTestServer(t)
	token := bearerToken(t)

	w := doRequest(router, http.MethodPost, "/api/pipeline/run", token, Request{Posts: somePosts(5)})
	require.Equal(t, http.StatusOK, w.Code)

	// Prime the cache.
	w = doRequest(router, http.MethodGet, "/api/persona", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var before models.PersonaProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &before))
	assert.Equal(t, "medium", before.DataQuality)

	// A bigger batch produces a new profile; the cached one must go.
	w = doRequest(router, http.MethodPost, "/api/pipeline/run", token, Request{Posts: somePosts(10)})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/persona", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var after models.PersonaProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &after))
	assert.Equal(t, "high", after.DataQuality)
}
