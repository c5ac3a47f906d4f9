// Package handlers provides HTTP handlers for Monte Carlo simulation.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/simulation"
	"github.com/aristath/fleetcost/internal/modules/tco"
	"github.com/aristath/fleetcost/pkg/render"
)

// streamTimeout bounds one streamed simulation
const streamTimeout = 5 * time.Minute

// Handler handles simulation HTTP requests
type Handler struct {
	engine  *simulation.Engine
	service *tco.Service
	log     zerolog.Logger
}

// NewHandler creates a new simulation handler
func NewHandler(engine *simulation.Engine, service *tco.Service, log zerolog.Logger) *Handler {
	return &Handler{
		engine:  engine,
		service: service,
		log:     log.With().Str("handler", "simulation").Logger(),
	}
}

// RunRequest is the body of POST /api/simulation/run and the first stream message
type RunRequest struct {
	VehicleID     string                 `json:"vehicle_id"`
	ScenarioID    string                 `json:"scenario_id,omitempty"`
	Method        domain.PurchaseMethod  `json:"purchase_method,omitempty"`
	Parameters    []simulation.Parameter `json:"parameters,omitempty"`
	Options       simulation.Options     `json:"options"`
	IncludeValues bool                   `json:"include_values,omitempty"`
}

// CompareRequest is the body of POST /api/simulation/compare.
// An empty other_id compares the vehicle with its declared pair.
type CompareRequest struct {
	VehicleID     string                 `json:"vehicle_id"`
	OtherID       string                 `json:"other_id,omitempty"`
	ScenarioID    string                 `json:"scenario_id,omitempty"`
	Method        domain.PurchaseMethod  `json:"purchase_method,omitempty"`
	ParametersA   []simulation.Parameter `json:"parameters_a,omitempty"`
	ParametersB   []simulation.Parameter `json:"parameters_b,omitempty"`
	Sampling      simulation.Sampling    `json:"sampling,omitempty"`
	Options       simulation.Options     `json:"options"`
	IncludeValues bool                   `json:"include_values,omitempty"`
}

// streamMessage is one websocket frame of a streamed run
type streamMessage struct {
	Type     string               `json:"type"` // progress, result or error
	Progress *simulation.Progress `json:"progress,omitempty"`
	Result   *simulation.Results  `json:"result,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// HandleRun handles POST /api/simulation/run
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	var request RunRequest
	if err := render.Decode(r, &request); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	res, err := h.run(r.Context(), request, nil)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, res)
}

// HandleCompare handles POST /api/simulation/compare
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	var request CompareRequest
	if err := render.Decode(r, &request); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if request.VehicleID == "" {
		h.writeError(w, r, http.StatusBadRequest, "vehicle_id is required")
		return
	}

	otherID := request.OtherID
	if otherID == "" {
		v, err := h.service.Vehicles().Get(request.VehicleID)
		if err != nil {
			h.writeFailure(w, r, err)
			return
		}
		if !v.HasPair() {
			h.writeError(w, r, http.StatusBadRequest, "other_id is required for vehicles without a comparison pair")
			return
		}
		otherID = v.ComparisonPairID
	}

	a, err := h.service.Inputs(r.Context(), request.VehicleID, request.ScenarioID, request.Method)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	b, err := h.service.Inputs(r.Context(), otherID, request.ScenarioID, request.Method)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}

	opts := request.Options
	opts.Workers = 0
	c, err := h.engine.Compare(r.Context(), a, b, request.ParametersA, request.ParametersB, opts, request.Sampling)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	if !request.IncludeValues {
		c.DropValues()
	}
	h.writeJSON(w, r, http.StatusOK, c)
}

// HandleDefaults handles GET /api/simulation/defaults/{id}
func (h *Handler) HandleDefaults(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.Vehicles().Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"vehicle_id":  v.ID,
		"parameters":  simulation.DefaultParameters(v),
		"percentiles": simulation.StandardPercentiles,
		"max_trials":  h.engine.MaxTrials(),
	})
}

// HandleStream handles GET /api/simulation/stream. The client sends one
// RunRequest; the server answers with progress frames and a final result.
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to accept websocket")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "unexpected close")

	ctx, cancel := context.WithTimeout(r.Context(), streamTimeout)
	defer cancel()

	var request RunRequest
	if err := wsjson.Read(ctx, conn, &request); err != nil {
		h.log.Debug().Err(err).Msg("Failed to read stream request")
		conn.Close(websocket.StatusUnsupportedData, "invalid request")
		return
	}

	// Progress frames are written from the engine callback; the final frame
	// is only sent after the run returns, so writes never overlap.
	progress := func(p simulation.Progress) {
		if err := wsjson.Write(ctx, conn, streamMessage{Type: "progress", Progress: &p}); err != nil {
			cancel()
		}
	}

	res, err := h.run(ctx, request, progress)
	if err != nil {
		_ = wsjson.Write(ctx, conn, streamMessage{Type: "error", Error: err.Error()})
		conn.Close(websocket.StatusNormalClosure, "")
		return
	}
	if err := wsjson.Write(ctx, conn, streamMessage{Type: "result", Result: res}); err != nil {
		h.log.Debug().Err(err).Msg("Failed to write stream result")
		return
	}
	conn.Close(websocket.StatusNormalClosure, "")
}

func (h *Handler) run(ctx context.Context, request RunRequest, progress simulation.ProgressFunc) (*simulation.Results, error) {
	if request.VehicleID == "" {
		return nil, domain.NewConfigurationError("vehicle_id", "vehicle_id is required")
	}
	in, err := h.service.Inputs(ctx, request.VehicleID, request.ScenarioID, request.Method)
	if err != nil {
		return nil, err
	}

	opts := request.Options
	opts.Workers = 0
	opts.Progress = progress
	res, err := h.engine.Run(ctx, in, request.Parameters, opts)
	if err != nil {
		return nil, err
	}
	if !request.IncludeValues {
		res.Values = nil
	}
	return res, nil
}

// Helper methods

// writeJSON writes a JSON (or msgpack) response
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if err := render.Write(w, r, status, data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.writeJSON(w, r, status, map[string]string{"error": message})
}

// writeFailure maps an engine error onto a status code and writes it
func (h *Handler) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := render.StatusFor(err)
	if status >= http.StatusInternalServerError && !errors.Is(err, context.Canceled) {
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg("Simulation request failed")
	}
	h.writeError(w, r, status, err.Error())
}
