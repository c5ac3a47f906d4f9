// Package handlers provides HTTP handlers for sensitivity analysis.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/costs"
	"github.com/aristath/fleetcost/internal/modules/sensitivity"
	"github.com/aristath/fleetcost/internal/modules/tco"
	"github.com/aristath/fleetcost/pkg/render"
)

// maxSweepValues bounds a value sweep
const maxSweepValues = 200

// Handler handles sensitivity HTTP requests
type Handler struct {
	engine  *sensitivity.Engine
	service *tco.Service
	log     zerolog.Logger
}

// NewHandler creates a new sensitivity handler
func NewHandler(engine *sensitivity.Engine, service *tco.Service, log zerolog.Logger) *Handler {
	return &Handler{
		engine:  engine,
		service: service,
		log:     log.With().Str("handler", "sensitivity").Logger(),
	}
}

// HandleTornado handles POST /api/sensitivity/tornado.
// Omitted sweeps default to the standard set for the vehicle.
func (h *Handler) HandleTornado(w http.ResponseWriter, r *http.Request) {
	var request struct {
		VehicleID  string                `json:"vehicle_id"`
		ScenarioID string                `json:"scenario_id,omitempty"`
		Method     domain.PurchaseMethod `json:"purchase_method,omitempty"`
		Sweeps     []sensitivity.Sweep   `json:"sweeps,omitempty"`
	}
	if err := render.Decode(r, &request); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if request.VehicleID == "" {
		h.writeError(w, r, http.StatusBadRequest, "vehicle_id is required")
		return
	}

	in, err := h.service.Inputs(r.Context(), request.VehicleID, request.ScenarioID, request.Method)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	sweeps := request.Sweeps
	if len(sweeps) == 0 {
		sweeps = sensitivity.DefaultSweeps(in.Vehicle())
	}

	impacts, err := h.engine.Run(r.Context(), in, sweeps)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	key := in.Key()
	h.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"vehicle_id":      key.VehicleID,
		"scenario_id":     key.ScenarioID,
		"purchase_method": key.Method,
		"impacts":         impacts,
	})
}

// HandleSweep handles POST /api/sensitivity/sweep
func (h *Handler) HandleSweep(w http.ResponseWriter, r *http.Request) {
	var request struct {
		VehicleID  string                `json:"vehicle_id"`
		ScenarioID string                `json:"scenario_id,omitempty"`
		Method     domain.PurchaseMethod `json:"purchase_method,omitempty"`
		Key        costs.Key             `json:"key"`
		Values     []float64             `json:"values"`
	}
	if err := render.Decode(r, &request); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if request.VehicleID == "" {
		h.writeError(w, r, http.StatusBadRequest, "vehicle_id is required")
		return
	}
	if len(request.Values) > maxSweepValues {
		h.writeError(w, r, http.StatusBadRequest, "Too many values")
		return
	}

	in, err := h.service.Inputs(r.Context(), request.VehicleID, request.ScenarioID, request.Method)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	points, err := h.engine.Sweep(r.Context(), in, request.Key, request.Values)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"vehicle_id": in.Key().VehicleID,
		"key":        request.Key,
		"points":     points,
	})
}

// HandleDefaults handles GET /api/sensitivity/defaults/{id}
func (h *Handler) HandleDefaults(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.Vehicles().Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"vehicle_id": v.ID,
		"sweeps":     sensitivity.DefaultSweeps(v),
	})
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
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg("Sensitivity request failed")
	}
	h.writeError(w, r, status, err.Error())
}
