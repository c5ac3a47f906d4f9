package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/fleetcost/internal/config"
	"github.com/aristath/fleetcost/internal/di"
	"github.com/aristath/fleetcost/internal/domain"
)

func setupServer(t *testing.T, devMode bool) *Server {
	t.Helper()
	cfg := &config.Config{
		DataDir:  t.TempDir(),
		Port:     8001,
		LogLevel: "info",
		DevMode:  devMode,
		Engine: config.EngineConfig{
			DiscountRate:    0.05,
			Horizon:         15,
			DefaultScenario: "baseline",
			PurchaseMethod:  domain.PurchaseFinanced,
			ValueTreatment:  domain.ValueResidual,
			PolicyPreset:    "none",
		},
		Simulation:             config.SimulationConfig{Workers: 2, MaxTrials: 1000},
		CatalogRefreshSchedule: "0 */5 * * * *",
		MaintenanceSchedule:    "0 0 3 * * *",
	}

	container, jobs, err := di.Wire(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	return New(Config{
		Log:       zerolog.Nop(),
		Config:    cfg,
		Container: container,
		Jobs:      jobs,
		Port:      cfg.Port,
		DevMode:   devMode,
	})
}

func serve(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := setupServer(t, true)

	w := serve(s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "fleetcost", body["service"])
}

func TestSystemStatus(t *testing.T) {
	s := setupServer(t, true)

	w := serve(s, http.MethodGet, "/api/system/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var status SystemStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, 16, status.Vehicles)
	assert.Equal(t, uint64(1), status.CatalogVersion)
	assert.Contains(t, status.Scenarios, "baseline")
	assert.Positive(t, status.Goroutines)
}

func TestDatabaseStats(t *testing.T) {
	s := setupServer(t, true)

	w := serve(s, http.MethodGet, "/api/system/database/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats DatabaseStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Len(t, stats.Databases, 1)
	assert.Equal(t, "catalog", stats.Databases[0].Name)
	require.NotNil(t, stats.Databases[0].Stats)
	assert.Positive(t, stats.Databases[0].Stats.PageCount)
}

func TestJobs(t *testing.T) {
	s := setupServer(t, true)

	w := serve(s, http.MethodGet, "/api/system/jobs", "")
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Jobs      []string `json:"jobs"`
		Scheduled int      `json:"scheduled"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, []string{"catalog_refresh", "check_databases", "check_wal_checkpoints"}, listing.Jobs)
	assert.Equal(t, 3, listing.Scheduled)

	tests := []struct {
		job    string
		status int
	}{
		{"catalog_refresh", http.StatusOK},
		{"check_databases", http.StatusOK},
		{"check_wal_checkpoints", http.StatusOK},
		{"rebalance", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.job, func(t *testing.T) {
			w := serve(s, http.MethodPost, "/api/system/jobs/"+tt.job, "")
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestAPIRoutesMounted(t *testing.T) {
	s := setupServer(t, true)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/vehicles", ""},
		{http.MethodGet, "/api/scenarios", ""},
		{http.MethodPost, "/api/tco/calculate", `{"vehicle_id":"BEV001"}`},
		{http.MethodGet, "/api/simulation/defaults/BEV001", ""},
		{http.MethodGet, "/api/sensitivity/defaults/DSL001", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := serve(s, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		})
	}
}

func TestCompression(t *testing.T) {
	s := setupServer(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
}

func TestCORSPreflight(t *testing.T) {
	s := setupServer(t, true)

	req := httptest.NewRequest(http.MethodOptions, "/api/tco/calculate", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestExceptUpgrades(t *testing.T) {
	wrapped := 0
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped++
			next.ServeHTTP(w, r)
		})
	}
	h := exceptUpgrades(mw)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	plain := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(httptest.NewRecorder(), plain)
	assert.Equal(t, 1, wrapped)

	upgrade := httptest.NewRequest(http.MethodGet, "/", nil)
	upgrade.Header.Set("Upgrade", "WebSocket")
	h.ServeHTTP(httptest.NewRecorder(), upgrade)
	assert.Equal(t, 1, wrapped, "websocket upgrades bypass the middleware")
}
