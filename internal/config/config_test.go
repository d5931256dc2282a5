package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "warehouse-ops", cfg.ServiceName)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, StorageMongoDB, cfg.StorageDriver)
	assert.Equal(t, "warehouse_ops", cfg.MongoDB.Database)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.AuthEnabled)
	assert.Equal(t, 8*time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.ScanSimulation)
	assert.True(t, cfg.OpenAPIValidation)
	assert.False(t, cfg.TemporalEnabled)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, 7*24*time.Hour, cfg.OutboxRetention)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("AUTH_ENABLED", "false")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CACHE_TTL", "45s")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("SCAN_SIMULATION_ENABLED", "false")
	t.Setenv("TEMPORAL_ENABLED", "true")
	t.Setenv("TEMPORAL_HOST", "temporal:7233")
	t.Setenv("OUTBOX_POLL_INTERVAL", "250ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://ops.example.com, http://localhost:5173")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.False(t, cfg.AuthEnabled)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 45*time.Second, cfg.CacheTTL)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.ScanSimulation)
	assert.True(t, cfg.TemporalEnabled)
	assert.Equal(t, "temporal:7233", cfg.Temporal.HostPort)
	assert.Equal(t, 250*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, []string{"https://ops.example.com", "http://localhost:5173"}, cfg.CORSOrigins)
}

func TestFromEnvMalformedValuesFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_DB", "two")
	t.Setenv("CACHE_TTL", "soon")
	t.Setenv("KAFKA_ENABLED", "maybe")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.KafkaEnabled)
}

func TestValidate(t *testing.T) {
	t.Run("auth requires a secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("unknown storage driver", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("STORAGE_DRIVER", "postgres")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "STORAGE_DRIVER")
	})
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JWT_SECRET=from-dotenv\nSERVER_ADDR=:9090\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("JWT_SECRET", "")
	t.Setenv("SERVER_ADDR", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))
	require.NoError(t, os.Unsetenv("SERVER_ADDR"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Auth.Secret)
	assert.Equal(t, ":9090", cfg.ServerAddr)
}
