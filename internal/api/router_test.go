package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riftrewind/rewind-server/config"
	"github.com/riftrewind/rewind-server/internal/api/handler"
	"github.com/riftrewind/rewind-server/internal/model"
	"github.com/riftrewind/rewind-server/internal/model/dto"
	"github.com/riftrewind/rewind-server/internal/pkg/queue"
	"github.com/riftrewind/rewind-server/internal/pkg/response"
	"github.com/riftrewind/rewind-server/internal/repository"
	"github.com/riftrewind/rewind-server/internal/service"
	"github.com/riftrewind/rewind-server/internal/testutil"
)

type apiEnv struct {
	engine  *gin.Engine
	jobRepo *repository.JobRepository
	queue   *queue.Queue
}

func setupAPI(t *testing.T, features config.FeaturesConfig) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupTestDB(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
		testutil.CleanupTestDB(t, db)
	})

	jobRepo := repository.NewJobRepository(db)
	resultRepo := repository.NewResultRepository(db)
	q := queue.NewQueue(client, "rewind_jobs")
	svc := service.NewRewindService(jobRepo, resultRepo, q)

	cfg := &config.Config{Features: features}
	router := NewRouter(
		handler.NewRewindHandler(svc),
		handler.NewCompareHandler(svc),
		handler.NewHealthHandler(),
		cfg,
	)

	return &apiEnv{
		engine:  router.Setup(),
		jobRepo: jobRepo,
		queue:   q,
	}
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	return context.Background()
}

func allFeatures() config.FeaturesConfig {
	return config.FeaturesConfig{Rewind: true, Compare: true}
}

func performJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	env := setupAPI(t, allFeatures())

	w := performJSON(t, env.engine, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStartRewindAccepted(t *testing.T) {
	env := setupAPI(t, allFeatures())

	w := performJSON(t, env.engine, http.MethodPost, "/api/v1/jobs/rewind", gin.H{
		"gameName": "Player One",
		"tagLine":  "NA1",
		"region":   "na1",
		"year":     2024,
	})
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp dto.StartJobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.JobID)
	assert.Equal(t, "PENDING", resp.Status)

	// Accepted id is immediately pollable.
	poll := performJSON(t, env.engine, http.MethodGet, "/api/v1/jobs/rewind/"+resp.JobID, nil)
	assert.Equal(t, http.StatusOK, poll.Code)

	// And the job is on the queue for a worker.
	msg, err := env.queue.Pop(testContext(t), time.Second)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, resp.JobID, msg.JobID)
}

func TestStartRewindValidationError(t *testing.T) {
	env := setupAPI(t, allFeatures())

	w := performJSON(t, env.engine, http.MethodPost, "/api/v1/jobs/rewind", gin.H{
		"gameName": "x",
		"tagLine":  "toolong",
		"region":   "mars",
		"year":     1999,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.CodeValidationError, body.Code)
	assert.Contains(t, body.Details, "gameName")
	assert.Contains(t, body.Details, "tagLine")
	assert.Contains(t, body.Details, "region")
	assert.Contains(t, body.Details, "year")

	// Nothing was queued.
	length, err := env.queue.Length(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, int64(0), length)
}

func TestStartRewindMalformedJSON(t *testing.T) {
	env := setupAPI(t, allFeatures())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/rewind", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRewindStatusNotFound(t *testing.T) {
	env := setupAPI(t, allFeatures())

	w := performJSON(t, env.engine, http.MethodGet, "/api/v1/jobs/rewind/unknown-id", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.CodeNotFound, body.Code)
}

func TestRewindStatusKindMismatchIsNotFound(t *testing.T) {
	env := setupAPI(t, allFeatures())

	job := testutil.NewCompareJob("cmp-1")
	require.NoError(t, env.jobRepo.Create(job))

	// A compare id polled through the rewind endpoint behaves as missing.
	w := performJSON(t, env.engine, http.MethodGet, "/api/v1/jobs/rewind/cmp-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performJSON(t, env.engine, http.MethodGet, "/api/v1/jobs/compare/cmp-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRewindStatusProgressShape(t *testing.T) {
	env := setupAPI(t, allFeatures())

	job := testutil.NewJob("job-1")
	job.Status = model.StatusFetchingMatches
	job.CurrentStep = 2
	job.Message = "Retrieving your match history..."
	require.NoError(t, env.jobRepo.Create(job))

	w := performJSON(t, env.engine, http.MethodGet, "/api/v1/jobs/rewind/job-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.RewindStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "job-1", resp.JobID)
	assert.Equal(t, model.StatusFetchingMatches, resp.Progress.Status)
	assert.Equal(t, 2, resp.Progress.CurrentStep)
	assert.Equal(t, model.TotalSteps, resp.Progress.TotalSteps)
	assert.Nil(t, resp.Result)
}

func TestStartCompareAccepted(t *testing.T) {
	env := setupAPI(t, allFeatures())

	w := performJSON(t, env.engine, http.MethodPost, "/api/v1/jobs/compare", gin.H{
		"player1": gin.H{"gameName": "Player One", "tagLine": "NA1", "region": "na1"},
		"player2": gin.H{"gameName": "Player Two", "tagLine": "EUW", "region": "euw1"},
		"year":    2024,
	})
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp dto.StartJobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "PENDING", resp.Status)
}

func TestStartCompareValidationUsesPlayerPrefixes(t *testing.T) {
	env := setupAPI(t, allFeatures())

	w := performJSON(t, env.engine, http.MethodPost, "/api/v1/jobs/compare", gin.H{
		"player1": gin.H{"gameName": "Player One", "tagLine": "NA1", "region": "na1"},
		"player2": gin.H{"gameName": "y", "tagLine": "NA1", "region": "na1"},
		"year":    2024,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Details, "player2.gameName")
	assert.NotContains(t, body.Details, "player1.gameName")
}

func TestFeatureDisabledReturns403(t *testing.T) {
	env := setupAPI(t, config.FeaturesConfig{Rewind: false, Compare: true})

	w := performJSON(t, env.engine, http.MethodPost, "/api/v1/jobs/rewind", gin.H{
		"gameName": "Player One",
		"tagLine":  "NA1",
		"region":   "na1",
		"year":     2024,
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.CodeFeatureDisabled, body.Code)

	// Status polling is gated too.
	w = performJSON(t, env.engine, http.MethodGet, "/api/v1/jobs/rewind/some-id", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The other feature stays reachable.
	w = performJSON(t, env.engine, http.MethodGet, "/api/v1/jobs/compare/some-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
