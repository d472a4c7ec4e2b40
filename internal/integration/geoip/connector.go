package geoip

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/intellimulti/chat-backend/internal/config"
	"github.com/intellimulti/chat-backend/internal/entity"
	"github.com/intellimulti/chat-backend/internal/integration/common"
	pkghttp "github.com/intellimulti/chat-backend/pkg/http"
)

const locationCacheKey = "server-location"

// Connector resolves the server's approximate location via ip-api.com.
// Results are memoized in process because the egress IP rarely moves.
type Connector struct {
	config    config.GeoIPConnectorConfig
	connector *pkghttp.Connector
	cache     *gocache.Cache
	logger    *zap.Logger
}

func NewConnector(
	cfg config.GeoIPConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		config:    cfg,
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		cache:     gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		logger:    logger,
	}
}

// lookupResponse mirrors the ip-api.com json payload.
type lookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Locate returns the server's location from cache or a fresh lookup.
func (c *Connector) Locate(ctx context.Context) (*entity.GeoLocation, error) {
	if cached, ok := c.cache.Get(locationCacheKey); ok {
		loc := cached.(entity.GeoLocation)
		return &loc, nil
	}

	ctxzap.Info(ctx, "resolving server location via ip lookup")

	var resp lookupResponse
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodGet, c.config.LookupEndpoint, nil, &resp)
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrLocationUnavailable, err)
	}

	if resp.Status != "success" {
		return nil, fmt.Errorf("%w: %s", entity.ErrLocationUnavailable, resp.Message)
	}

	loc := entity.GeoLocation{Lat: resp.Lat, Lon: resp.Lon}
	c.cache.Set(locationCacheKey, loc, gocache.DefaultExpiration)

	ctxzap.Info(ctx, "server location resolved",
		zap.Float64("lat", loc.Lat),
		zap.Float64("lon", loc.Lon),
	)

	return &loc, nil
}
