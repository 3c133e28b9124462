package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cartstore/internal/app"
	"github.com/vladislavdragonenkov/cartstore/internal/version"
)

func main() {
	cfg, warnings := app.LoadConfigFromEnv(os.LookupEnv)
	if err := app.ConfigureLogger(log.StandardLogger(), cfg.LogLevel, cfg.LogFormat, os.Stdout); err != nil {
		log.WithError(err).Warn("invalid log settings, using defaults")
	}
	for _, w := range warnings {
		log.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"http_addr":     cfg.HTTPAddr,
		"grpc_addr":     cfg.GRPCAddr,
		"metrics_addr":  cfg.MetricsAddr,
		"storage":       cfg.StorageDriver,
		"inventory":     cfg.InventoryDriver,
		"build_version": version.String(),
	}).Info("запускаем cart-service")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("cart-service остановлен")
}
