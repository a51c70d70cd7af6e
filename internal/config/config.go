package config

import (
	"fmt"
	"os"
	"time"
)

const (
	SourceLocal    = "local"
	SourceHTTP     = "http"
	SourceSpaces   = "spaces"
	SourcePostgres = "postgres"
)

// Config holds environment-based settings
type Config struct {
	Environment   string
	ServerAddress string
	LogLevel      string

	DataSource      string
	DataDir         string
	DataBaseURL     string
	DataLoadTimeout time.Duration

	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesPrefix    string
	SpacesAccessKey string
	SpacesSecretKey string

	DatabaseURL    string
	MigrationsPath string

	RedisAddress   string
	RedisUsername  string
	RedisPassword  string
	RenderCacheTTL time.Duration

	MQTTBrokerURL string
	MQTTTopic     string

	JWTSecret         string
	AdminUsername     string
	AdminPasswordHash string
}

func (c *Config) IsProduction() bool { return c.Environment == "production" }

// AdminEnabled reports whether the reload API can be mounted.
func (c *Config) AdminEnabled() bool {
	return c.JWTSecret != "" && c.AdminPasswordHash != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Environment:   getenv("APP_ENV", "development"),
		ServerAddress: getenv("SERVER_ADDRESS", ":8080"),
		LogLevel:      getenv("LOG_LEVEL", "info"),

		DataSource:  getenv("DATA_SOURCE", SourceLocal),
		DataDir:     getenv("DATA_DIR", "./data"),
		DataBaseURL: os.Getenv("DATA_BASE_URL"),

		SpacesEndpoint:  os.Getenv("SPACES_ENDPOINT"),
		SpacesRegion:    os.Getenv("SPACES_REGION"),
		SpacesBucket:    os.Getenv("SPACES_BUCKET"),
		SpacesPrefix:    getenv("SPACES_PREFIX", "data"),
		SpacesAccessKey: os.Getenv("SPACES_ACCESS_KEY"),
		SpacesSecretKey: os.Getenv("SPACES_SECRET_KEY"),

		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrationsPath: getenv("MIGRATIONS_PATH", "./migrations"),

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MQTTBrokerURL: os.Getenv("MQTT_BROKER_URL"),
		MQTTTopic:     getenv("MQTT_TOPIC", "phcfinder/datasets"),

		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminUsername:     getenv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
	}

	var err error
	if cfg.DataLoadTimeout, err = duration("DATA_LOAD_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.RenderCacheTTL, err = duration("RENDER_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}

	switch cfg.DataSource {
	case SourceLocal:
	case SourceHTTP:
		if cfg.DataBaseURL == "" {
			return nil, fmt.Errorf("DATA_BASE_URL is required for DATA_SOURCE=http")
		}
	case SourceSpaces:
		if cfg.SpacesEndpoint == "" || cfg.SpacesBucket == "" {
			return nil, fmt.Errorf("SPACES_ENDPOINT and SPACES_BUCKET are required for DATA_SOURCE=spaces")
		}
	case SourcePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for DATA_SOURCE=postgres")
		}
	default:
		return nil, fmt.Errorf("unknown DATA_SOURCE %q", cfg.DataSource)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}
