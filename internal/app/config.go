package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/cartstore/internal/cart"
	"github.com/vladislavdragonenkov/cartstore/internal/notify"
)

// StorageDriver задаёт хранилище снимков корзины.
type StorageDriver string

const (
	StorageDriverMemory   StorageDriver = "memory"
	StorageDriverFile     StorageDriver = "file"
	StorageDriverRedis    StorageDriver = "redis"
	StorageDriverPostgres StorageDriver = "postgres"
)

// InventoryDriver задаёт источник остатков.
type InventoryDriver string

const (
	InventoryDriverMock InventoryDriver = "mock"
	InventoryDriverHTTP InventoryDriver = "http"
)

// Переменные окружения сервиса.
const (
	envHTTPAddr            = "CART_HTTP_ADDR"
	envGRPCAddr            = "CART_GRPC_ADDR"
	envMetricsAddr         = "CART_METRICS_ADDR"
	envCartKey             = "CART_KEY"
	envStorageDriver       = "CART_STORAGE_DRIVER"
	envFileDir             = "CART_FILE_DIR"
	envRedisAddr           = "CART_REDIS_ADDR"
	envRedisPassword       = "CART_REDIS_PASSWORD"
	envRedisDB             = "CART_REDIS_DB"
	envRedisTTL            = "CART_REDIS_TTL"
	envPostgresDSN         = "CART_POSTGRES_DSN"
	envPostgresAutoMigrate = "CART_POSTGRES_AUTO_MIGRATE"
	envInventoryDriver     = "CART_INVENTORY_DRIVER"
	envInventoryURL        = "CART_INVENTORY_URL"
	envInventoryTimeout    = "CART_INVENTORY_TIMEOUT"
	envKafkaBrokers        = "CART_KAFKA_BROKERS"
	envKafkaTopic          = "CART_KAFKA_TOPIC"
	envOTLPEndpoint        = "CART_OTLP_ENDPOINT"
	envOTLPInsecure        = "CART_OTLP_INSECURE"
	envTraceSampleRatio    = "CART_TRACE_SAMPLE_RATIO"
	envLogLevel            = "CART_LOG_LEVEL"
	envLogFormat           = "CART_LOG_FORMAT"
	envFeedSize            = "CART_FEED_SIZE"
	envShutdownTimeout     = "CART_SHUTDOWN_TIMEOUT"
)

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr    string
	GRPCAddr    string
	MetricsAddr string

	CartKey string

	StorageDriver       StorageDriver
	FileDir             string
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	RedisTTL            time.Duration
	PostgresDSN         string
	PostgresAutoMigrate bool

	InventoryDriver  InventoryDriver
	InventoryURL     string
	InventoryTimeout time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	OTLPEndpoint     string
	OTLPInsecure     bool
	TraceSampleRatio float64

	LogLevel  string
	LogFormat string

	FeedSize        int
	ShutdownTimeout time.Duration
}

// DefaultConfig возвращает конфигурацию для локального запуска без внешних зависимостей.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:            ":8080",
		GRPCAddr:            ":50051",
		MetricsAddr:         ":9090",
		CartKey:             cart.DefaultKey,
		StorageDriver:       StorageDriverMemory,
		FileDir:             "./data",
		RedisAddr:           "localhost:6379",
		PostgresAutoMigrate: true,
		InventoryDriver:     InventoryDriverMock,
		InventoryURL:        "http://localhost:3333",
		InventoryTimeout:    5 * time.Second,
		OTLPInsecure:        true,
		TraceSampleRatio:    1,
		LogLevel:            "info",
		LogFormat:           "text",
		FeedSize:            notify.DefaultFeedSize,
		ShutdownTimeout:     5 * time.Second,
	}
}

// EnvLookup — сигнатура os.LookupEnv.
type EnvLookup func(string) (string, bool)

// LoadConfigFromEnv накладывает переменные окружения на DefaultConfig.
// Некорректные значения не меняют дефолт и попадают в warnings.
func LoadConfigFromEnv(lookup EnvLookup) (Config, []string) {
	cfg := DefaultConfig()
	var warnings []string
	warn := func(key, raw string, err error) {
		warnings = append(warnings, fmt.Sprintf("%s=%q ignored: %v", key, raw, err))
	}

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str(envHTTPAddr, &cfg.HTTPAddr)
	str(envGRPCAddr, &cfg.GRPCAddr)
	str(envMetricsAddr, &cfg.MetricsAddr)
	str(envCartKey, &cfg.CartKey)
	str(envFileDir, &cfg.FileDir)
	str(envRedisAddr, &cfg.RedisAddr)
	str(envRedisPassword, &cfg.RedisPassword)
	str(envPostgresDSN, &cfg.PostgresDSN)
	str(envInventoryURL, &cfg.InventoryURL)
	str(envKafkaTopic, &cfg.KafkaTopic)
	str(envOTLPEndpoint, &cfg.OTLPEndpoint)
	str(envLogLevel, &cfg.LogLevel)
	str(envLogFormat, &cfg.LogFormat)

	if v, ok := lookup(envStorageDriver); ok && strings.TrimSpace(v) != "" {
		cfg.StorageDriver = StorageDriver(strings.ToLower(strings.TrimSpace(v)))
	}
	if v, ok := lookup(envInventoryDriver); ok && strings.TrimSpace(v) != "" {
		cfg.InventoryDriver = InventoryDriver(strings.ToLower(strings.TrimSpace(v)))
	}
	if v, ok := lookup(envKafkaBrokers); ok {
		cfg.KafkaBrokers = splitList(v)
	}

	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok {
			parsed, err := parseBool(v)
			if err != nil {
				warn(key, v, err)
				return
			}
			*dst = parsed
		}
	}
	boolean(envPostgresAutoMigrate, &cfg.PostgresAutoMigrate)
	boolean(envOTLPInsecure, &cfg.OTLPInsecure)

	integer := func(key string, dst *int, valid func(int) bool, rule string) {
		if v, ok := lookup(key); ok {
			parsed, err := parseInt(v, valid, rule)
			if err != nil {
				warn(key, v, err)
				return
			}
			*dst = parsed
		}
	}
	integer(envRedisDB, &cfg.RedisDB, func(v int) bool { return v >= 0 }, "must be >= 0")
	integer(envFeedSize, &cfg.FeedSize, func(v int) bool { return v > 0 }, "must be > 0")

	duration := func(key string, dst *time.Duration, valid func(time.Duration) bool, rule string) {
		if v, ok := lookup(key); ok {
			parsed, err := parseDuration(v, valid, rule)
			if err != nil {
				warn(key, v, err)
				return
			}
			*dst = parsed
		}
	}
	duration(envRedisTTL, &cfg.RedisTTL, func(v time.Duration) bool { return v >= 0 }, "must be >= 0")
	duration(envInventoryTimeout, &cfg.InventoryTimeout, func(v time.Duration) bool { return v > 0 }, "must be > 0")
	duration(envShutdownTimeout, &cfg.ShutdownTimeout, func(v time.Duration) bool { return v > 0 }, "must be > 0")

	if v, ok := lookup(envTraceSampleRatio); ok {
		ratio, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		switch {
		case err != nil:
			warn(envTraceSampleRatio, v, err)
		case ratio < 0 || ratio > 1:
			warn(envTraceSampleRatio, v, errors.New("must be within [0, 1]"))
		default:
			cfg.TraceSampleRatio = ratio
		}
	}

	return cfg, warnings
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.CartKey) == "" {
		errs = append(errs, errors.New("cart key is empty"))
	}

	switch c.StorageDriver {
	case StorageDriverMemory:
	case StorageDriverFile:
		if c.FileDir == "" {
			errs = append(errs, fmt.Errorf("%s is required for file storage", envFileDir))
		}
	case StorageDriverRedis:
		if c.RedisAddr == "" {
			errs = append(errs, fmt.Errorf("%s is required for redis storage", envRedisAddr))
		}
	case StorageDriverPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, fmt.Errorf("%s is required for postgres storage", envPostgresDSN))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported storage driver %q", c.StorageDriver))
	}

	switch c.InventoryDriver {
	case InventoryDriverMock:
	case InventoryDriverHTTP:
		if c.InventoryURL == "" {
			errs = append(errs, fmt.Errorf("%s is required for http inventory", envInventoryURL))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported inventory driver %q", c.InventoryDriver))
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unsupported log format %q", c.LogFormat))
	}
	if c.FeedSize <= 0 {
		errs = append(errs, errors.New("feed size must be > 0"))
	}
	return errors.Join(errs...)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", raw)
	}
}

func parseInt(raw string, valid func(int) bool, rule string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if valid != nil && !valid(v) {
		return 0, errors.New(rule)
	}
	return v, nil
}

func parseDuration(raw string, valid func(time.Duration) bool, rule string) (time.Duration, error) {
	v, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if valid != nil && !valid(v) {
		return 0, errors.New(rule)
	}
	return v, nil
}
