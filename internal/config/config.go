package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/intellimulti/chat-backend/internal/cache"
	pkgRetry "github.com/intellimulti/chat-backend/internal/pkg/retry"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Database configuration (chat message log)
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// Redis cache configuration
	RedisCfg        cache.Config  `envPrefix:"REDIS_"`
	WeatherCacheTTL time.Duration `env:"WEATHER_CACHE_TTL" envDefault:"30m"`

	// External service configurations
	ModelConnectorCfg   ModelConnectorConfig   `envPrefix:"MODEL_"`
	WeatherConnectorCfg WeatherConnectorConfig `envPrefix:"WEATHER_"`
	GeoIPConnectorCfg   GeoIPConnectorConfig   `envPrefix:"GEOIP_"`

	// Document ingestion configuration
	ChunkingCfg ChunkingConfig `envPrefix:"CHUNK_"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS,notEmpty"`

	// Environment (set from flag, not from env var)
	Environment string
}

// ModelConnectorConfig configures the OpenAI-compatible model provider.
type ModelConnectorConfig struct {
	HTTPClientConfig
	Model         string        `env:"NAME,notEmpty"`
	ChatEndpoint  string        `env:"CHAT_ENDPOINT" envDefault:"/chat/completions"`
	StreamTimeout time.Duration `env:"STREAM_TIMEOUT" envDefault:"5m"`
	Temperature   float64       `env:"TEMPERATURE" envDefault:"0.7"`
	MaxTokens     int           `env:"MAX_TOKENS" envDefault:"4096"`
}

// WeatherConnectorConfig configures the WeatherAPI lookup.
type WeatherConnectorConfig struct {
	HTTPClientConfig
	APIKey          string               `env:"API_KEY,notEmpty"`
	CurrentEndpoint string               `env:"CURRENT_ENDPOINT" envDefault:"/v1/current.json"`
	Retry           pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// GeoIPConnectorConfig configures IP geolocation.
type GeoIPConnectorConfig struct {
	HTTPClientConfig
	LookupEndpoint string               `env:"LOOKUP_ENDPOINT" envDefault:"/json/"`
	CacheTTL       time.Duration        `env:"CACHE_TTL" envDefault:"15m"`
	Retry          pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// ChunkingConfig controls document splitting.
type ChunkingConfig struct {
	Size    int `env:"SIZE" envDefault:"1000"`
	Overlap int `env:"OVERLAP" envDefault:"200"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT,notEmpty"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT,notEmpty"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE,notEmpty"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT,notEmpty"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT,notEmpty"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL,notEmpty"`
}

// FileUploadConfig holds per-kind upload limits
type FileUploadConfig struct {
	MaxImageSize  int64 `env:"MAX_IMAGE_SIZE" envDefault:"5242880"`   // 5 MiB
	MaxAudioSize  int64 `env:"MAX_AUDIO_SIZE" envDefault:"10485760"`  // 10 MiB
	MaxPDFSize    int64 `env:"MAX_PDF_SIZE" envDefault:"26214400"`    // 25 MiB
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"` // 32 MiB multipart memory cap
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []string

	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errs = append(errs, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if cfg.ChunkingCfg.Size < 100 || cfg.ChunkingCfg.Size > 10000 {
		errs = append(errs, fmt.Sprintf("CHUNK_SIZE must be between 100 and 10000, got %d", cfg.ChunkingCfg.Size))
	}

	if cfg.ChunkingCfg.Overlap < 0 || cfg.ChunkingCfg.Overlap >= cfg.ChunkingCfg.Size {
		errs = append(errs, fmt.Sprintf("CHUNK_OVERLAP must be between 0 and CHUNK_SIZE(%d), got %d", cfg.ChunkingCfg.Size, cfg.ChunkingCfg.Overlap))
	}

	if cfg.WeatherCacheTTL <= 0 {
		errs = append(errs, fmt.Sprintf("WEATHER_CACHE_TTL must be positive, got %s", cfg.WeatherCacheTTL))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
