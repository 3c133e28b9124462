package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/cartstore/internal/cart"
)

func mapLookup(values map[string]string) EnvLookup {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ":50051", cfg.GRPCAddr)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, cart.DefaultKey, cfg.CartKey)
	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, InventoryDriverMock, cfg.InventoryDriver)
	assert.True(t, cfg.PostgresAutoMigrate)
	assert.Empty(t, cfg.OTLPEndpoint)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	cfg, warnings := LoadConfigFromEnv(mapLookup(nil))
	assert.Empty(t, warnings)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFromEnv_ValidOverrides(t *testing.T) {
	cfg, warnings := LoadConfigFromEnv(mapLookup(map[string]string{
		envHTTPAddr:            "localhost:8081",
		envCartKey:             " shop:cart ",
		envStorageDriver:       " ReDiS ",
		envRedisAddr:           "redis:6379",
		envRedisDB:             "2",
		envRedisTTL:            "24h",
		envPostgresAutoMigrate: "off",
		envInventoryDriver:     "HTTP",
		envInventoryURL:        "http://api:3333",
		envInventoryTimeout:    "750ms",
		envKafkaBrokers:        "k1:9092, k2:9092,,",
		envOTLPEndpoint:        "otel:4317",
		envOTLPInsecure:        "no",
		envTraceSampleRatio:    "0.25",
		envLogFormat:           "json",
		envFeedSize:            "10",
	}))

	require.Empty(t, warnings)
	assert.Equal(t, "localhost:8081", cfg.HTTPAddr)
	assert.Equal(t, "shop:cart", cfg.CartKey)
	assert.Equal(t, StorageDriverRedis, cfg.StorageDriver)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 24*time.Hour, cfg.RedisTTL)
	assert.False(t, cfg.PostgresAutoMigrate)
	assert.Equal(t, InventoryDriverHTTP, cfg.InventoryDriver)
	assert.Equal(t, 750*time.Millisecond, cfg.InventoryTimeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "otel:4317", cfg.OTLPEndpoint)
	assert.False(t, cfg.OTLPInsecure)
	assert.InDelta(t, 0.25, cfg.TraceSampleRatio, 1e-9)
	assert.Equal(t, 10, cfg.FeedSize)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv_InvalidValuesFallbackToDefaults(t *testing.T) {
	defaults := DefaultConfig()

	cfg, warnings := LoadConfigFromEnv(mapLookup(map[string]string{
		envPostgresAutoMigrate: "sometimes",
		envRedisDB:             "-1",
		envRedisTTL:            "forever",
		envInventoryTimeout:    "0s",
		envTraceSampleRatio:    "1.5",
		envFeedSize:            "zero",
	}))

	assert.Len(t, warnings, 6)
	assert.Equal(t, defaults, cfg)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "unknown storage", mutate: func(c *Config) { c.StorageDriver = "sqlite" }},
		{name: "postgres without dsn", mutate: func(c *Config) { c.StorageDriver = StorageDriverPostgres }},
		{name: "file without dir", mutate: func(c *Config) { c.StorageDriver = StorageDriverFile; c.FileDir = "" }},
		{name: "unknown inventory", mutate: func(c *Config) { c.InventoryDriver = "grpc" }},
		{name: "http inventory without url", mutate: func(c *Config) { c.InventoryDriver = InventoryDriverHTTP; c.InventoryURL = "" }},
		{name: "empty key", mutate: func(c *Config) { c.CartKey = " " }},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParseHelpers(t *testing.T) {
	v, err := parseBool(" YES ")
	require.NoError(t, err)
	assert.True(t, v)

	_, err = parseBool("maybe")
	assert.Error(t, err)

	n, err := parseInt(" 12 ", func(v int) bool { return v > 0 }, "must be > 0")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	_, err = parseInt("0", func(v int) bool { return v > 0 }, "must be > 0")
	assert.EqualError(t, err, "must be > 0")

	d, err := parseDuration(" 250ms ", nil, "")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)
}
