package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/intellimulti/chat-backend/internal/cache"
	"github.com/intellimulti/chat-backend/internal/entity"
)

const currentWeatherCacheKey = "weather:current"

// WeatherUsecase resolves the server's location and serves current
// conditions, cached between lookups.
type WeatherUsecase struct {
	weatherConnector WeatherConnector
	geoIPConnector   GeoIPConnector
	cache            Cache
	cacheTTL         time.Duration
	logger           *zap.Logger
}

// NewUsecase creates a new weather use case
func NewUsecase(
	weatherConnector WeatherConnector,
	geoIPConnector GeoIPConnector,
	cacheClient Cache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *WeatherUsecase {
	return &WeatherUsecase{
		weatherConnector: weatherConnector,
		geoIPConnector:   geoIPConnector,
		cache:            cacheClient,
		cacheTTL:         cacheTTL,
		logger:           logger,
	}
}

// CurrentWeather returns current conditions for the named city, or at
// the server's location when city is empty.
func (uc *WeatherUsecase) CurrentWeather(ctx context.Context, city string) (*entity.WeatherInfo, error) {
	key := cacheKey(city)

	var cached entity.WeatherInfo
	err := uc.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		ctxzap.Warn(ctx, "weather cache read failed", zap.Error(err))
	}

	query := city
	if query == "" {
		loc, err := uc.geoIPConnector.Locate(ctx)
		if err != nil {
			return nil, fmt.Errorf("locate server: %w", err)
		}
		query = fmt.Sprintf("%f,%f", loc.Lat, loc.Lon)
	}

	info, err := uc.weatherConnector.CurrentWeather(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("current weather: %w", err)
	}

	if err := uc.cache.Set(ctx, key, info, uc.cacheTTL); err != nil {
		ctxzap.Warn(ctx, "weather cache write failed", zap.Error(err))
	}

	return info, nil
}

func cacheKey(city string) string {
	if city == "" {
		return currentWeatherCacheKey
	}
	return currentWeatherCacheKey + ":" + city
}
