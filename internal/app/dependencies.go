package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cartstore/internal/cart"
	"github.com/vladislavdragonenkov/cartstore/internal/domain"
	"github.com/vladislavdragonenkov/cartstore/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/cartstore/internal/metrics"
	"github.com/vladislavdragonenkov/cartstore/internal/notify"
	"github.com/vladislavdragonenkov/cartstore/internal/service/inventory"
	"github.com/vladislavdragonenkov/cartstore/internal/storage/file"
	"github.com/vladislavdragonenkov/cartstore/internal/storage/memory"
	"github.com/vladislavdragonenkov/cartstore/internal/storage/postgres"
	redisstore "github.com/vladislavdragonenkov/cartstore/internal/storage/redis"
	"github.com/vladislavdragonenkov/cartstore/internal/version"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Inventory domain.InventoryClient
	Snapshots domain.SnapshotStore
	Feed      *notify.Feed
	Notifier  domain.Notifier
	Metrics   *metrics.CartMetrics
	Store     *cart.Store
	Logger    *log.Entry

	closers []func() error
}

// NewDependencies собирает хранилище, склад и каналы уведомлений по конфигурации.
// registerer=nil — prometheus.DefaultRegisterer.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry, registerer prometheus.Registerer) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	deps := &Dependencies{Logger: logger}

	snapshots, err := deps.openSnapshotStore(ctx, cfg)
	if err != nil {
		_ = deps.Close()
		return nil, err
	}
	deps.Snapshots = snapshots

	inv, err := newInventory(cfg)
	if err != nil {
		_ = deps.Close()
		return nil, err
	}
	deps.Inventory = inv

	deps.Feed = notify.NewFeed(cfg.FeedSize)
	notifiers := notify.Fanout{
		notify.NewLogNotifier(logger.WithField("layer", "notify")),
		deps.Feed,
	}
	if kn := deps.kafkaNotifier(cfg); kn != nil {
		notifiers = append(notifiers, kn)
	}
	deps.Notifier = notifiers

	deps.Metrics = metrics.NewCartMetrics(registerer)
	deps.Store = cart.NewStore(cfg.CartKey, deps.Inventory, deps.Snapshots, deps.Notifier,
		logger.WithField("layer", "cart"),
		cart.WithMetrics(deps.Metrics),
	)
	return deps, nil
}

func (d *Dependencies) openSnapshotStore(ctx context.Context, cfg Config) (domain.SnapshotStore, error) {
	logger := d.Logger.WithField("storage_driver", cfg.StorageDriver)

	switch cfg.StorageDriver {
	case StorageDriverFile:
		store, err := file.NewSnapshotStore(cfg.FileDir)
		if err != nil {
			return nil, err
		}
		logger.WithField("dir", cfg.FileDir).Info("file snapshot storage initialized")
		return store, nil

	case StorageDriverRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		d.closers = append(d.closers, client.Close)
		store := redisstore.NewSnapshotStore(client, cfg.RedisTTL)
		if err := store.Ping(ctx); err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		logger.WithField("addr", cfg.RedisAddr).Info("redis snapshot storage initialized")
		return store, nil

	case StorageDriverPostgres:
		pg, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, pg.Close)
		if cfg.PostgresAutoMigrate {
			if err := pg.MigrateUp(ctx, 0); err != nil {
				return nil, fmt.Errorf("apply postgres migrations: %w", err)
			}
		}
		logger.Info("postgres snapshot storage initialized")
		return postgres.NewSnapshotRepository(pg), nil

	default:
		logger.Info("in-memory snapshot storage initialized")
		return memory.NewSnapshotStore(), nil
	}
}

func newInventory(cfg Config) (domain.InventoryClient, error) {
	if cfg.InventoryDriver == InventoryDriverHTTP {
		client, err := inventory.NewClient(cfg.InventoryURL, cfg.InventoryTimeout, nil)
		if err != nil {
			return nil, fmt.Errorf("create inventory client: %w", err)
		}
		return client, nil
	}
	// Заглушка склада для локальной разработки.
	return inventory.NewDemoService(), nil
}

// kafkaNotifier возвращает nil, если брокеры не заданы или недоступны:
// сервис продолжает работу без публикации событий.
func (d *Dependencies) kafkaNotifier(cfg Config) domain.Notifier {
	if len(cfg.KafkaBrokers) == 0 {
		return nil
	}
	logger := d.Logger.WithField("brokers", cfg.KafkaBrokers)

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, clientID())
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return nil
	}
	d.closers = append(d.closers, producer.Close)
	logger.Info("kafka producer initialized")
	return kafka.NewNotifier(producer, cfg.KafkaTopic, cfg.CartKey, d.Logger.WithField("layer", "kafka"))
}

func clientID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return version.UserAgent("service")
	}
	return version.UserAgent(host)
}

// Close освобождает внешние подключения в обратном порядке.
func (d *Dependencies) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}
