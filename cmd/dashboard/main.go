// Command dashboard serves the Spain forest fires dashboard API. It
// loads the fires CSV and the province boundaries, prepares the table,
// and exposes the JSON views plus health and metrics endpoints.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/LoreEMF/spain-wildfires/internal/adapter/csvfile"
	"github.com/LoreEMF/spain-wildfires/internal/adapter/geofile"
	kafkaadapter "github.com/LoreEMF/spain-wildfires/internal/adapter/kafka"
	"github.com/LoreEMF/spain-wildfires/internal/adapter/web"
	"github.com/LoreEMF/spain-wildfires/internal/config"
	"github.com/LoreEMF/spain-wildfires/internal/dataset"
	"github.com/LoreEMF/spain-wildfires/internal/observability"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	tables := csvfile.NewReader(cfg.DataPath, cfg.Separator())
	bounds := geofile.NewReader(cfg.GeoPath)
	data := dataset.New(tables, bounds, cfg, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := data.Load(ctx); err != nil {
		logger.Error("dataset load failed", "error", err)
		os.Exit(1)
	}

	// Publish the prepared table when a broker list is configured.
	if cfg.KafkaEnabled() {
		publisher := kafkaadapter.NewPublisher(cfg, logger, metrics)
		if err := publisher.PublishTable(ctx, data.Table()); err != nil {
			logger.Error("kafka publish failed", "error", err)
		}
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	srv := web.NewServer(cfg, data, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
