package weather

import (
	"context"
	"errors"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/intellimulti/chat-backend/internal/entity"
	"github.com/intellimulti/chat-backend/internal/pkg/logger"
	"github.com/intellimulti/chat-backend/internal/pkg/response"
)

type Handler struct {
	usecase WeatherUsecase
}

func NewHandler(uc WeatherUsecase) *Handler {
	return &Handler{
		usecase: uc,
	}
}

// HandleCurrent handles GET /api/weather - current conditions for the
// city query parameter, or at the server's location without one
func (h *Handler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "HandleCurrent")

	info, err := h.usecase.CurrentWeather(ctx, r.URL.Query().Get("city"))
	if err != nil {
		if errors.Is(err, entity.ErrLocationUnavailable) {
			h.respondError(ctx, w, http.StatusServiceUnavailable, "location unavailable", err)
			return
		}
		h.respondError(ctx, w, http.StatusInternalServerError, "weather lookup failed", err)
		return
	}

	response.Success(w, info)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	ctxzap.Error(ctx, message, zap.Error(err))
	response.Error(w, status, message)
}
