// Package config loads the warehouse-ops runtime configuration from the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/wms-platform/warehouse-ops/pkg/auth"
	"github.com/wms-platform/warehouse-ops/pkg/cache"
	"github.com/wms-platform/warehouse-ops/pkg/kafka"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/mongodb"
	"github.com/wms-platform/warehouse-ops/pkg/temporal"
	"github.com/wms-platform/warehouse-ops/pkg/tracing"
)

// Storage drivers
const (
	StorageMongoDB = "mongodb"
	StorageMemory  = "memory"
)

// Config holds application configuration
type Config struct {
	ServiceName string
	Environment string
	LogLevel    logging.LogLevel
	ServerAddr  string
	// CORSOrigins lists the browser origins allowed to call the API. Empty
	// allows every origin.
	CORSOrigins []string

	StorageDriver string
	MongoDB       *mongodb.Config

	KafkaEnabled bool
	Kafka        *kafka.Config

	Redis    cache.Config
	CacheTTL time.Duration

	AuthEnabled bool
	Auth        auth.Config

	ScanSimulation    bool
	OpenAPIValidation bool
	SeedFixtures      bool

	TemporalEnabled bool
	Temporal        *temporal.Config

	Tracing *tracing.Config

	OutboxPollInterval time.Duration
	OutboxRetention    time.Duration
}

// Load reads .env when present and then the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds and validates the configuration from environment variables
func FromEnv() (*Config, error) {
	cfg := Read()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read builds the configuration from environment variables without
// validating it
func Read() *Config {
	serviceName := getEnv("SERVICE_NAME", "warehouse-ops")
	environment := getEnv("ENVIRONMENT", "development")

	cfg := &Config{
		ServiceName:   serviceName,
		Environment:   environment,
		LogLevel:      logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		ServerAddr:    getEnv("SERVER_ADDR", ":8080"),
		CORSOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		StorageDriver: getEnv("STORAGE_DRIVER", StorageMongoDB),
		MongoDB: &mongodb.Config{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017/?replicaSet=rs0"),
			Database:       getEnv("MONGODB_DATABASE", "warehouse_ops"),
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    100,
			MinPoolSize:    10,
		},
		KafkaEnabled: getEnvAsBool("KAFKA_ENABLED", true),
		Redis: cache.Config{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		CacheTTL:          getEnvAsDuration("CACHE_TTL", 30*time.Second),
		AuthEnabled:       getEnvAsBool("AUTH_ENABLED", true),
		ScanSimulation:    getEnvAsBool("SCAN_SIMULATION_ENABLED", true),
		OpenAPIValidation: getEnvAsBool("OPENAPI_VALIDATION", true),
		SeedFixtures:      getEnvAsBool("SEED_FIXTURES", false),
		TemporalEnabled:   getEnvAsBool("TEMPORAL_ENABLED", false),
		Temporal: &temporal.Config{
			HostPort:  getEnv("TEMPORAL_HOST", "localhost:7233"),
			Namespace: getEnv("TEMPORAL_NAMESPACE", "default"),
			Identity:  serviceName,
		},
		OutboxPollInterval: getEnvAsDuration("OUTBOX_POLL_INTERVAL", time.Second),
		OutboxRetention:    getEnvAsDuration("OUTBOX_RETENTION", 7*24*time.Hour),
	}

	cfg.Kafka = kafka.DefaultConfig()
	cfg.Kafka.Brokers = splitList(getEnv("KAFKA_BROKERS", "localhost:9092"))
	cfg.Kafka.ClientID = serviceName

	cfg.Auth = auth.DefaultConfig(getEnv("JWT_SECRET", ""))
	cfg.Auth.TokenTTL = getEnvAsDuration("JWT_TTL", cfg.Auth.TokenTTL)

	cfg.Tracing = tracing.DefaultConfig(serviceName)
	cfg.Tracing.Environment = environment
	cfg.Tracing.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	cfg.Tracing.Enabled = getEnvAsBool("TRACING_ENABLED", false)

	return cfg
}

// Validate rejects inconsistent settings
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageMongoDB, StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.AuthEnabled && c.Auth.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_ENABLED=true")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
