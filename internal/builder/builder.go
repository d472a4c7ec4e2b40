package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/intellimulti/chat-backend/internal/api"
	chatapi "github.com/intellimulti/chat-backend/internal/api/chat"
	weatherapi "github.com/intellimulti/chat-backend/internal/api/weather"
	"github.com/intellimulti/chat-backend/internal/cache"
	"github.com/intellimulti/chat-backend/internal/chunker"
	"github.com/intellimulti/chat-backend/internal/config"
	"github.com/intellimulti/chat-backend/internal/integration/geoip"
	"github.com/intellimulti/chat-backend/internal/integration/model"
	weatherconn "github.com/intellimulti/chat-backend/internal/integration/weatherapi"
	"github.com/intellimulti/chat-backend/internal/pkg/validator"
	"github.com/intellimulti/chat-backend/internal/repository"
	chatuc "github.com/intellimulti/chat-backend/internal/usecase/chat"
	weatheruc "github.com/intellimulti/chat-backend/internal/usecase/weather"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Setup database connection
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	// Run database migrations
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Setup Redis cache
	cacheClient, err := cache.NewClient(ctx, cfg.RedisCfg, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("setup cache: %w", err)
	}
	logger.Info("Redis cache connected")

	// Initialize repositories
	messageRepo := repository.NewMessagePostgres(db)
	logger.Info("Repositories initialized")

	// Initialize external service connectors (with mock support)
	var modelConnector chatuc.ModelConnector
	if cfg.EnableMocks {
		logger.Info("Using mock model connector")
		modelConnector = model.NewMockConnector(logger)
	} else {
		modelConnector = model.NewConnector(cfg.ModelConnectorCfg, logger)
	}

	weatherConnector := weatherconn.NewConnector(cfg.WeatherConnectorCfg, logger)
	geoIPConnector := geoip.NewConnector(cfg.GeoIPConnectorCfg, logger)

	// Initialize validators
	fileValidator := validator.NewFileValidator(cfg.FileUploadCfg)
	logger.Info("Validators initialized")

	// Initialize use cases
	chatUC := chatuc.NewUsecase(
		modelConnector,
		messageRepo,
		chunker.Config{
			ChunkSize:    cfg.ChunkingCfg.Size,
			ChunkOverlap: cfg.ChunkingCfg.Overlap,
		},
		logger,
	)

	weatherUC := weatheruc.NewUsecase(
		weatherConnector,
		geoIPConnector,
		cacheClient,
		cfg.WeatherCacheTTL,
		logger,
	)
	logger.Info("Use cases initialized")

	// Setup API handlers
	chatHandler := chatapi.NewHandler(chatUC, fileValidator, cfg.FileUploadCfg.MaxUploadSize)
	weatherHandler := weatherapi.NewHandler(weatherUC)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(chatHandler, weatherHandler, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server. WriteTimeout must cover the longest model
	// stream, so it tracks the stream timeout rather than a flat 15s.
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ModelConnectorCfg.StreamTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		cache:  cacheClient,
		logger: logger,
	}, nil
}
