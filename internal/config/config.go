package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Store backends
const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Config holds all configuration for the community API service
type Config struct {
	// MongoDB configuration, MongoURI is required for the mongo backend
	MongoURI            string        `envconfig:"MONGO_URI"`
	MongoDatabase       string        `envconfig:"MONGO_DATABASE" default:"community"`
	MongoPoolSize       uint64        `envconfig:"MONGO_POOL_SIZE" default:"10"`
	MongoConnectTimeout time.Duration `envconfig:"MONGO_CONNECT_TIMEOUT" default:"10s"`

	// StoreBackend selects the entity store: "mongo" or "memory"
	StoreBackend string `envconfig:"STORE_BACKEND" default:"mongo"`

	// SeedMemory loads the built-in fixtures into the memory backend at startup
	SeedMemory bool `envconfig:"SEED_MEMORY" default:"true"`

	// Server configuration
	Port        int    `envconfig:"PORT" default:"8080"`
	MetricsPort int    `envconfig:"METRICS_PORT" default:"9090"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// JWT configuration
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	// CORS configuration
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`

	// Graceful shutdown timeout
	ShutdownTimeout int `envconfig:"SHUTDOWN_TIMEOUT" default:"30"`

	// Locale used when the request carries no usable Accept-Language
	DefaultLocale string `envconfig:"DEFAULT_LOCALE" default:"en"`
}

// Load reads configuration from environment variables
func Load() *Config {
	cfg, err := Parse()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	return cfg
}

// Parse reads configuration from environment variables and validates it
func Parse() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	switch cfg.StoreBackend {
	case BackendMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("MONGO_URI is required for the %s backend", BackendMongo)
		}
	case BackendMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	return &cfg, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// ShutdownDuration returns the graceful shutdown timeout, defaulting to 30s
func (c *Config) ShutdownDuration() time.Duration {
	if c.ShutdownTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.ShutdownTimeout) * time.Second
}
