package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the non-streaming chat routes. The stream
// endpoint is mounted separately so it can skip the request timeout.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api/chat", func(r chi.Router) {
		r.Post("/", h.HandleChat)
		r.Get("/messages", h.HandleHistory)
	})
}
