package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"FitCoach/internal/config"
	"FitCoach/internal/database"
	"FitCoach/internal/models"
	"FitCoach/internal/planner"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	ctxLogger atomic.Bool
}

func (g *stubGenerator) WorkoutPlan(context.Context, models.WorkoutInput) (json.RawMessage, error) {
	return json.RawMessage(`{"overview":"o","weeklyPlan":[{"day":"Day 1"}]}`), nil
}

func (g *stubGenerator) DietPlan(context.Context, models.DietInput) (json.RawMessage, error) {
	return json.RawMessage(`{"overview":"o","totalDailyCalories":2000,"weeklyPlan":[{"day":"Day 1"}]}`), nil
}

func (g *stubGenerator) Motivation(ctx context.Context, _, _ string) (json.RawMessage, error) {
	g.ctxLogger.Store(zerolog.Ctx(ctx).GetLevel() != zerolog.Disabled)
	return json.RawMessage(`{"quote":"Keep going."}`), nil
}

func (g *stubGenerator) Image(context.Context, string, models.ItemType) (string, error) {
	return "https://images.example/x.png", nil
}

func testConfig() *config.Config {
	return &config.Config{
		Env: "test",
		HTTP: config.HTTPConfig{
			Host:         "127.0.0.1",
			Port:         "9090",
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 7 * time.Second,
			IdleTimeout:  11 * time.Second,
		},
		Storage: config.StorageConfig{Backend: config.BackendMemory},
	}
}

func newTestHandler(t *testing.T) (http.Handler, *stubGenerator) {
	t.Helper()
	gen := &stubGenerator{}
	return New(testConfig(), database.NewMemoryService(), gen, nil).RegisterRoutes(), gen
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewServer_UsesConfig(t *testing.T) {
	t.Parallel()

	srv := NewServer(testConfig(), database.NewMemoryService(), &stubGenerator{}, nil)
	require.Equal(t, "127.0.0.1:9090", srv.Addr)
	require.Equal(t, 3*time.Second, srv.ReadTimeout)
	require.Equal(t, 7*time.Second, srv.WriteTimeout)
	require.Equal(t, 11*time.Second, srv.IdleTimeout)
	require.NotNil(t, srv.Handler)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "up", body["status"])
	require.Equal(t, config.BackendMemory, body["storage_backend"])
}

func TestRequestID_EchoedAndInErrorBody(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/profile/missing", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := serve(h, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))

	var body planner.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "req-123", body.RequestID)
	require.Equal(t, planner.CodeNotFound, body.Code)
}

func TestRequestID_GeneratedWhenMissing(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestLoggerReachesRequestContext(t *testing.T) {
	t.Parallel()
	h, gen := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/motivation", strings.NewReader(`{"name":"Sam","fitnessGoal":"Run a 10k"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, gen.ctxLogger.Load())
}

func TestAPIRoutesMounted(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader(
		`{"name":"Sam","age":29,"gender":"Female","height":168,"weight":61,"fitnessGoal":"Build muscle",`+
			`"fitnessLevel":"Intermediate","workoutLocation":"Gym","dietaryPreference":"Vegetarian"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(h, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var created planner.CreateProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/api/generate-image?itemName=Lunge&itemType=exercise", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"imageUrl":"https://images.example/x.png"}`, rec.Body.String())
}

func TestMetricsExposed(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "fitcoach_http_request_duration_seconds")
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/profile", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := serve(h, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
