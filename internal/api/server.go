package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	chatapi "github.com/intellimulti/chat-backend/internal/api/chat"
	"github.com/intellimulti/chat-backend/internal/api/middleware"
	weatherapi "github.com/intellimulti/chat-backend/internal/api/weather"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(chatHandler *chatapi.Handler, weatherHandler *weatherapi.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)   // Recover from panics
	r.Use(chimiddleware.RequestID)   // Add request ID
	r.Use(middleware.Logger(logger)) // Log requests
	r.Use(middleware.CORS)           // Handle CORS

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// The streaming endpoint stays outside the timeout group because
	// model responses routinely outlive a request timeout. It is
	// bounded by the model connector's stream timeout instead.
	r.Post("/api/chat/stream", chatHandler.HandleStream)

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second)) // Default timeout

		chatapi.RegisterRoutes(r, chatHandler)
		weatherapi.RegisterRoutes(r, weatherHandler)
	})

	return r
}
