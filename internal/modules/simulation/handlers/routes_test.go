package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/aristath/fleetcost/internal/modules/catalog"
	"github.com/aristath/fleetcost/internal/modules/costs"
	"github.com/aristath/fleetcost/internal/modules/scenarios"
	"github.com/aristath/fleetcost/internal/modules/simulation"
	"github.com/aristath/fleetcost/internal/modules/tco"
)

func setupRouter(t *testing.T) *chi.Mux {
	t.Helper()
	logger := zerolog.New(nil).Level(zerolog.Disabled)

	cat := catalog.New(catalog.StaticSource(catalog.Builtin()), logger)
	_, err := cat.Reload(context.Background())
	require.NoError(t, err)

	aggregator := tco.NewAggregator(logger)
	svc, err := tco.NewService(cat, scenarios.NewBuiltinRegistry(), aggregator,
		tco.ServiceConfig{Constants: costs.DefaultConstants()}, logger)
	require.NoError(t, err)
	engine := simulation.NewEngine(aggregator, simulation.Config{Workers: 2, MaxTrials: 5000}, logger)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		NewHandler(engine, svc, logger).RegisterRoutes(r)
	})
	return router
}

func post(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterRoutes(t *testing.T) {
	router := chi.NewRouter()
	handler := NewHandler(nil, nil, zerolog.Nop())

	assert.NotPanics(t, func() {
		handler.RegisterRoutes(router)
	}, "RegisterRoutes should not panic")
}

func TestHandleRun(t *testing.T) {
	router := setupRouter(t)

	w := post(router, "/api/simulation/run", `{"vehicle_id":"BEV001","options":{"trials":200,"seed":42}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res simulation.Results
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 200, res.Trials)
	assert.Equal(t, uint64(42), res.Seed)
	assert.Nil(t, res.Values, "values are omitted unless requested")
	assert.NotEmpty(t, res.RunID)
	assert.Len(t, res.Parameters, 7)

	w = post(router, "/api/simulation/run", `{"vehicle_id":"BEV001","include_values":true,"options":{"trials":10,"seed":42},
		"parameters":[{"name":"fuel","key":"fuel_price_variation","distribution":"uniform","min":0.9,"max":1.1}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res.Values, 10)
	assert.Len(t, res.Parameters, 1)
}

func TestHandleRun_Errors(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"missing vehicle", `{}`, http.StatusBadRequest},
		{"unknown vehicle", `{"vehicle_id":"NOPE"}`, http.StatusNotFound},
		{"too many trials", `{"vehicle_id":"BEV001","options":{"trials":5001}}`, http.StatusBadRequest},
		{"unknown key", `{"vehicle_id":"BEV001","parameters":[{"key":"tyre_price_variation","distribution":"normal"}]}`, http.StatusBadRequest},
		{"bad distribution", `{"vehicle_id":"BEV001","parameters":[{"key":"fuel_price_variation","distribution":"beta"}]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(router, "/api/simulation/run", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestHandleCompare(t *testing.T) {
	router := setupRouter(t)

	w := post(router, "/api/simulation/compare", `{"vehicle_id":"BEV002","options":{"trials":100,"seed":1}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var c simulation.Comparison
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))
	assert.Equal(t, "BEV002", c.A.VehicleID)
	assert.Equal(t, "DSL002", c.B.VehicleID)
	assert.Equal(t, simulation.SamplingPaired, c.Sampling)
	assert.Nil(t, c.Differences)

	w = post(router, "/api/simulation/compare", `{"vehicle_id":"BEV002","other_id":"DSL003","sampling":"independent","options":{"trials":50}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))
	assert.Equal(t, "DSL003", c.B.VehicleID)

	w = post(router, "/api/simulation/compare", `{"vehicle_id":"BEV002","sampling":"correlated","options":{"trials":10}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleDefaults(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/simulation/defaults/DSL001", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Parameters []simulation.Parameter `json:"parameters"`
		MaxTrials  int                    `json:"max_trials"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Len(t, out.Parameters, 5)
	assert.Equal(t, 5000, out.MaxTrials)
}

func TestHandleStream(t *testing.T) {
	server := httptest.NewServer(setupRouter(t))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(server.URL, "http")+"/api/simulation/stream", nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.NoError(t, wsjson.Write(ctx, conn, RunRequest{
		VehicleID: "DSL001",
		Options:   simulation.Options{Trials: 300, Seed: 2},
	}))

	progressFrames := 0
	for {
		var msg struct {
			Type     string               `json:"type"`
			Progress *simulation.Progress `json:"progress"`
			Result   *simulation.Results  `json:"result"`
			Error    string               `json:"error"`
		}
		require.NoError(t, wsjson.Read(ctx, conn, &msg))
		if msg.Type == "progress" {
			progressFrames++
			assert.Equal(t, 300, msg.Progress.Total)
			continue
		}
		require.Equal(t, "result", msg.Type, msg.Error)
		assert.Equal(t, "DSL001", msg.Result.VehicleID)
		assert.Equal(t, 300, msg.Result.Trials)
		break
	}
	assert.Greater(t, progressFrames, 0)
}

func TestHandleStream_Error(t *testing.T) {
	server := httptest.NewServer(setupRouter(t))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(server.URL, "http")+"/api/simulation/stream", nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.NoError(t, wsjson.Write(ctx, conn, RunRequest{VehicleID: "NOPE"}))

	var msg map[string]interface{}
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, "error", msg["type"])
	assert.Contains(t, msg["error"], "not found")
}
