package weather

import (
	"context"
	"time"

	"github.com/intellimulti/chat-backend/internal/entity"
)

type WeatherConnector interface {
	CurrentWeather(ctx context.Context, query string) (*entity.WeatherInfo, error)
}

type GeoIPConnector interface {
	Locate(ctx context.Context) (*entity.GeoLocation, error)
}

type Cache interface {
	Get(ctx context.Context, key string, out any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}
