package server

import (
	"context"
	"net/http"
	"time"

	"github.com/aristath/fleetcost/pkg/render"
)

// version is reported by the health endpoint
const version = "1.0.0"

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	response := map[string]interface{}{
		"status":  "healthy",
		"version": version,
		"service": "fleetcost",
	}

	for _, db := range s.container.Databases() {
		if err := db.HealthCheck(ctx); err != nil {
			s.log.Warn().Err(err).Str("database", db.Name()).Msg("Health check failed")
			status = http.StatusServiceUnavailable
			response["status"] = "degraded"
			response["error"] = err.Error()
			break
		}
	}

	s.writeJSON(w, r, status, response)
}

// writeJSON writes a JSON (or msgpack, when asked for) response
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if err := render.Write(w, r, status, data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}
