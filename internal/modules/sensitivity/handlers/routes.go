package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the sensitivity routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sensitivity", func(r chi.Router) {
		r.Post("/tornado", h.HandleTornado)
		r.Post("/sweep", h.HandleSweep)
		r.Get("/defaults/{id}", h.HandleDefaults)
	})
}
