package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/geothermal-site-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/geothermal-site-service/internal/adapter/kafka"
	"github.com/couchcryptid/geothermal-site-service/internal/adapter/mapbox"
	"github.com/couchcryptid/geothermal-site-service/internal/adapter/source"
	"github.com/couchcryptid/geothermal-site-service/internal/config"
	"github.com/couchcryptid/geothermal-site-service/internal/domain"
	"github.com/couchcryptid/geothermal-site-service/internal/observability"
	"github.com/couchcryptid/geothermal-site-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Place-name enrichment is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout, "top_n", cfg.GeocodeTopN)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	fetcher := source.NewFetcher(cfg.SourceTimeout, logger)
	sink := observability.NewDiagnosticSink(logger, metrics)
	loader := pipeline.NewLoader(fetcher, pipeline.Sources{
		BHT:      cfg.BHTSource,
		Wells:    cfg.WellSource,
		HeatFlow: cfg.HeatFlowSource,
		Gravity:  cfg.GravitySource,
	}, sink, logger, metrics)

	opts := []pipeline.Option{pipeline.WithReloadInterval(cfg.ReloadInterval)}
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		opts = append(opts, pipeline.WithPublisher(writer))
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaSinkTopic)
	}

	p := pipeline.New(loader, logger, metrics, opts...)
	ranker := pipeline.NewRanker(geocoder, cfg.GeocodeTopN, logger)

	defaults := pipeline.Query{
		Weights: domain.CriteriaWeights{
			Temperature: cfg.WeightTemperature,
			HeatFlow:    cfg.WeightHeatFlow,
			Gravity:     cfg.WeightGravity,
		},
		Threshold: cfg.MatchThreshold,
	}
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, ranker, defaults, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
