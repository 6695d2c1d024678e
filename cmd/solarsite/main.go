package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/solarsite-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/solarsite-service/internal/adapter/kafka"
	"github.com/couchcryptid/solarsite-service/internal/adapter/predictor"
	"github.com/couchcryptid/solarsite-service/internal/config"
	"github.com/couchcryptid/solarsite-service/internal/domain"
	"github.com/couchcryptid/solarsite-service/internal/observability"
	"github.com/couchcryptid/solarsite-service/internal/pipeline"
	"github.com/couchcryptid/solarsite-service/internal/session"
	"github.com/couchcryptid/solarsite-service/internal/web"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

// leadQueueFactor sizes the lead queue relative to one publish batch.
const leadQueueFactor = 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	metrics := observability.NewMetrics()

	seed, err := loadSeed(cfg.SeedFile)
	if err != nil {
		return err
	}
	logger.Info("seed loaded", "locations", len(seed), "file", cfg.SeedFile)

	pages, err := web.NewRenderer()
	if err != nil {
		return err
	}

	// Prediction client, optionally behind an LRU cache (PREDICT_CACHE_SIZE).
	var pred domain.Predictor = predictor.NewClient(cfg.PredictURL, cfg.PredictTimeout, metrics, logger)
	if cfg.PredictCacheSize > 0 {
		pred = predictor.NewCachedPredictor(pred, cfg.PredictCacheSize, metrics)
		logger.Info("prediction cache enabled", "cache_size", cfg.PredictCacheSize)
	}

	// Lead sink, feature-flagged via LEADS_ENABLED.
	var loader pipeline.BatchLoader
	var writer *kafkaadapter.LeadWriter
	if cfg.LeadsEnabled {
		writer = kafkaadapter.NewLeadWriter(cfg, logger)
		loader = writer
		logger.Info("lead publishing enabled", "topic", cfg.KafkaLeadTopic, "brokers", cfg.KafkaBrokers)
	} else {
		loader = kafkaadapter.NewLogLoader(logger)
		logger.Info("lead publishing disabled, leads are logged only")
	}

	queue := pipeline.NewQueue(cfg.BatchSize*leadQueueFactor, cfg.BatchFlushInterval, clockwork.NewRealClock())
	p := pipeline.New(queue, loader, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Ready:       p,
		Sessions:    session.NewStore(seed, cfg.SessionTTL),
		Predictor:   pred,
		Limiter:     session.NewRateLimiter(cfg.PredictRateLimit, cfg.SessionTTL),
		Leads:       queue,
		Pages:       pages,
		Seed:        seed,
		CORSOrigins: cfg.CORSOrigins,
		Metrics:     metrics,
		Logger:      logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return p.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		return nil
	})

	err = g.Wait()
	if writer != nil {
		if cerr := writer.Close(); cerr != nil {
			logger.Error("kafka writer close error", "error", cerr)
		}
	}
	logger.Info("shutdown complete")
	return err
}

func loadSeed(path string) ([]domain.Location, error) {
	if path == "" {
		return domain.SeedLocations(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	locs, err := domain.LoadSeed(f)
	if err != nil {
		return nil, fmt.Errorf("load seed file %s: %w", path, err)
	}
	return locs, nil
}
