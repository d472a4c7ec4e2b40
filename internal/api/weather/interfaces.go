package weather

import (
	"context"

	"github.com/intellimulti/chat-backend/internal/entity"
)

type WeatherUsecase interface {
	CurrentWeather(ctx context.Context, city string) (*entity.WeatherInfo, error)
}
