// Package handlers provides HTTP handlers for the vehicle, scenario, policy and cost endpoints.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/policy"
	"github.com/aristath/fleetcost/internal/modules/tco"
	"github.com/aristath/fleetcost/pkg/render"
)

// maxBatch bounds the number of requests accepted by one batch call
const maxBatch = 1000

// Handler handles cost engine HTTP requests
type Handler struct {
	service *tco.Service
	log     zerolog.Logger
}

// NewHandler creates a new cost engine handler
func NewHandler(service *tco.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "tco").Logger(),
	}
}

// HandleListVehicles handles GET /api/vehicles
func (h *Handler) HandleListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles := h.service.Vehicles().List()
	h.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"vehicles": vehicles,
		"count":    len(vehicles),
	})
}

// HandleGetVehicle handles GET /api/vehicles/{id}
func (h *Handler) HandleGetVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.Vehicles().Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, v)
}

// HandleListScenarios handles GET /api/scenarios
func (h *Handler) HandleListScenarios(w http.ResponseWriter, r *http.Request) {
	list := h.service.Scenarios().List()
	h.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"scenarios": list,
		"count":     len(list),
	})
}

// HandleGetScenario handles GET /api/scenarios/{id}
func (h *Handler) HandleGetScenario(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Scenarios().Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, s)
}

// HandleGetPolicies handles GET /api/policies
func (h *Handler) HandleGetPolicies(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"definitions": h.service.Policies(),
		"presets":     policy.PresetNames(),
	})
}

// HandleUpdatePolicies handles PUT /api/policies.
// The body is either a full definitions object or {"preset": name}.
func (h *Handler) HandleUpdatePolicies(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Preset string `json:"preset,omitempty"`
		policy.Definitions
	}
	if err := render.Decode(r, &request); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	defs := request.Definitions
	if request.Preset != "" {
		preset, err := policy.Preset(request.Preset)
		if err != nil {
			h.writeFailure(w, r, err)
			return
		}
		defs = preset
	}

	if err := h.service.SetPolicies(defs); err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]interface{}{"definitions": defs})
}

// HandleCalculate handles POST /api/tco/calculate
func (h *Handler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	var request tco.Request
	if err := render.Decode(r, &request); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if request.VehicleID == "" {
		h.writeError(w, r, http.StatusBadRequest, "vehicle_id is required")
		return
	}

	result, err := h.service.CalculateTCO(r.Context(), request)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, result)
}

// HandleBatch handles POST /api/tco/batch
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Requests []tco.Request `json:"requests"`
	}
	if err := render.Decode(r, &request); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(request.Requests) == 0 {
		h.writeError(w, r, http.StatusBadRequest, "No requests provided")
		return
	}
	if len(request.Requests) > maxBatch {
		h.writeError(w, r, http.StatusBadRequest, "Too many requests (max "+strconv.Itoa(maxBatch)+")")
		return
	}

	start := time.Now()
	results, err := h.service.CompareBatch(r.Context(), request.Requests)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.log.Debug().
		Int("requests", len(request.Requests)).
		Dur("elapsed", time.Since(start)).
		Msg("Batch calculation completed")

	h.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

// HandleComparePair handles GET /api/tco/pairs/{id}
func (h *Handler) HandleComparePair(w http.ResponseWriter, r *http.Request) {
	scenarioID, method, ok := h.queryDefaults(w, r)
	if !ok {
		return
	}
	c, err := h.service.ComparePair(r.Context(), chi.URLParam(r, "id"), scenarioID, method)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, c)
}

// HandleComparePairs handles GET /api/tco/pairs
func (h *Handler) HandleComparePairs(w http.ResponseWriter, r *http.Request) {
	scenarioID, method, ok := h.queryDefaults(w, r)
	if !ok {
		return
	}
	pairs, err := h.service.ComparePairs(r.Context(), scenarioID, method)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"pairs": pairs,
		"count": len(pairs),
	})
}

// HandleCompareScenarios handles POST /api/tco/scenarios
func (h *Handler) HandleCompareScenarios(w http.ResponseWriter, r *http.Request) {
	var request struct {
		VehicleID   string                `json:"vehicle_id"`
		ScenarioIDs []string              `json:"scenario_ids,omitempty"`
		Method      domain.PurchaseMethod `json:"purchase_method,omitempty"`
	}
	if err := render.Decode(r, &request); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if request.VehicleID == "" {
		h.writeError(w, r, http.StatusBadRequest, "vehicle_id is required")
		return
	}

	results, err := h.service.CompareScenarios(r.Context(), request.VehicleID, request.ScenarioIDs, request.Method)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

// HandleBreakeven handles POST /api/tco/breakeven
func (h *Handler) HandleBreakeven(w http.ResponseWriter, r *http.Request) {
	var request struct {
		BEVID       string                `json:"bev_id"`
		DieselID    string                `json:"diesel_id"`
		ScenarioIDs []string              `json:"scenario_ids,omitempty"`
		Method      domain.PurchaseMethod `json:"purchase_method,omitempty"`
	}
	if err := render.Decode(r, &request); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if request.BEVID == "" || request.DieselID == "" {
		h.writeError(w, r, http.StatusBadRequest, "bev_id and diesel_id are required")
		return
	}

	points, err := h.service.Breakeven(r.Context(), request.BEVID, request.DieselID, request.ScenarioIDs, request.Method)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]interface{}{"points": points})
}

// HandlePayback handles GET /api/tco/payback/{id}
func (h *Handler) HandlePayback(w http.ResponseWriter, r *http.Request) {
	scenarioID, method, ok := h.queryDefaults(w, r)
	if !ok {
		return
	}
	p, err := h.service.Payback(r.Context(), chi.URLParam(r, "id"), scenarioID, method)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, p)
}

// HandlePurchaseTiming handles GET /api/tco/timing/{id}
func (h *Handler) HandlePurchaseTiming(w http.ResponseWriter, r *http.Request) {
	scenarioID, method, ok := h.queryDefaults(w, r)
	if !ok {
		return
	}
	years := 5
	if raw := r.URL.Query().Get("years"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, r, http.StatusBadRequest, "years must be an integer")
			return
		}
		years = parsed
	}

	points, err := h.service.PurchaseTiming(r.Context(), chi.URLParam(r, "id"), scenarioID, method, years)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]interface{}{"points": points})
}

// HandleInvalidateCache handles POST /api/tco/cache/invalidate
func (h *Handler) HandleInvalidateCache(w http.ResponseWriter, r *http.Request) {
	h.service.InvalidateCache()
	h.writeJSON(w, r, http.StatusOK, h.service.CacheStats())
}

// HandleCacheStats handles GET /api/tco/cache
func (h *Handler) HandleCacheStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.service.CacheStats())
}

// Helper methods

// queryDefaults reads the optional scenario and method query parameters
func (h *Handler) queryDefaults(w http.ResponseWriter, r *http.Request) (string, domain.PurchaseMethod, bool) {
	q := r.URL.Query()
	var method domain.PurchaseMethod
	if raw := q.Get("method"); raw != "" {
		parsed, err := domain.ParsePurchaseMethod(raw)
		if err != nil {
			h.writeFailure(w, r, err)
			return "", "", false
		}
		method = parsed
	}
	return q.Get("scenario"), method, true
}

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
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	}
	h.writeError(w, r, status, err.Error())
}
