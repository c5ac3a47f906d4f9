package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the vehicle, scenario, policy and cost routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/vehicles", func(r chi.Router) {
		r.Get("/", h.HandleListVehicles)
		r.Get("/{id}", h.HandleGetVehicle)
	})

	r.Route("/scenarios", func(r chi.Router) {
		r.Get("/", h.HandleListScenarios)
		r.Get("/{id}", h.HandleGetScenario)
	})

	r.Route("/policies", func(r chi.Router) {
		r.Get("/", h.HandleGetPolicies)
		r.Put("/", h.HandleUpdatePolicies)
	})

	r.Route("/tco", func(r chi.Router) {
		r.Post("/calculate", h.HandleCalculate)
		r.Post("/batch", h.HandleBatch)
		r.Get("/pairs", h.HandleComparePairs)
		r.Get("/pairs/{id}", h.HandleComparePair)
		r.Post("/scenarios", h.HandleCompareScenarios)
		r.Post("/breakeven", h.HandleBreakeven)
		r.Get("/payback/{id}", h.HandlePayback)
		r.Get("/timing/{id}", h.HandlePurchaseTiming)
		r.Get("/cache", h.HandleCacheStats)
		r.Post("/cache/invalidate", h.HandleInvalidateCache)
	})
}
