package weatherapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/intellimulti/chat-backend/internal/config"
	"github.com/intellimulti/chat-backend/internal/entity"
	"github.com/intellimulti/chat-backend/internal/integration/common"
	pkghttp "github.com/intellimulti/chat-backend/pkg/http"
)

type Connector struct {
	config    config.WeatherConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.WeatherConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		config:    cfg,
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		logger:    logger,
	}
}

// currentResponse mirrors the WeatherAPI current.json payload.
type currentResponse struct {
	Location struct {
		Name string `json:"name"`
	} `json:"location"`
	Current struct {
		TempC     float64 `json:"temp_c"`
		FeelsLike float64 `json:"feelslike_c"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
		Humidity    float64 `json:"humidity"`
		LastUpdated string  `json:"last_updated"`
	} `json:"current"`
}

// CurrentWeather looks up current conditions for a query, either a
// city name or a "lat,lon" pair.
func (c *Connector) CurrentWeather(ctx context.Context, query string) (*entity.WeatherInfo, error) {
	ctxzap.Info(ctx, "requesting current weather", zap.String("query", query))

	var resp currentResponse
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodGet, c.config.CurrentEndpoint, nil, &resp,
			pkghttp.WithQuery("key", c.config.APIKey),
			pkghttp.WithQuery("q", query),
		)
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		return nil, fmt.Errorf("weather lookup failed: %w", err)
	}

	info := &entity.WeatherInfo{
		City:        resp.Location.Name,
		Temperature: resp.Current.TempC,
		FeelsLike:   resp.Current.FeelsLike,
		Weather:     resp.Current.Condition.Text,
		Humidity:    resp.Current.Humidity,
		UpdateTime:  resp.Current.LastUpdated,
	}

	ctxzap.Info(ctx, "weather received", zap.String("city", info.City))

	return info, nil
}
