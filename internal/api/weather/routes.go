package weather

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers weather routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/api/weather", h.HandleCurrent)
}
