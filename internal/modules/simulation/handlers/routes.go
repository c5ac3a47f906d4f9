package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the simulation routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/simulation", func(r chi.Router) {
		r.Post("/run", h.HandleRun)
		r.Post("/compare", h.HandleCompare)
		r.Get("/defaults/{id}", h.HandleDefaults)
		r.Get("/stream", h.HandleStream)
	})
}
