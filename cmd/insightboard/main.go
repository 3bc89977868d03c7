package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/insightboard/insightboard/internal/analytics"
	analytichttp "github.com/insightboard/insightboard/internal/analytics/http"
	"github.com/insightboard/insightboard/internal/analytics/svg"
	"github.com/insightboard/insightboard/internal/analytics/ui"
	"github.com/insightboard/insightboard/internal/app"
	"github.com/insightboard/insightboard/internal/insight"
	"github.com/insightboard/insightboard/internal/observability"
	"github.com/insightboard/insightboard/internal/platform/cache"
	"github.com/insightboard/insightboard/internal/view"
	"github.com/insightboard/insightboard/jobs"
)

const topologyFetchTimeout = 15 * time.Second

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	metrics := observability.NewMetrics()
	if err := analytics.SetupCacheMetrics(metrics.Registerer()); err != nil {
		logger.Error("register cache metrics", slog.Any("error", err))
		os.Exit(1)
	}

	source, closeSource, err := app.NewInsightSource(ctx, cfg, logger)
	if err != nil {
		logger.Error("init insight source", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeSource()

	store := insight.NewStore(logger)

	var analyticsCache *analytics.Cache
	var inspector jobs.QueueInspector
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, serving without cache", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		analyticsCache = analytics.NewCache(redisClient, cfg.CacheTTL)
		if err := analyticsCache.ListenForInvalidation(ctx, analytics.LoadedChannel); err != nil {
			logger.Warn("cache invalidation listener", slog.Any("error", err))
		}
		store.OnLoad(func(ctx context.Context, count int) {
			if err := analyticsCache.Bump(ctx); err != nil {
				logger.Warn("bump cache version", slog.Any("error", err))
			}
		})

		asynqInspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if err := asynqInspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		inspector = asynqInspector
	}

	app.LoadInsights(ctx, cfg, store, source)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	analyticsService := analytics.NewService(store, analyticsCache, logger)
	topology := svg.NewTopologyLoader(cfg.WorldTopologyURL, &http.Client{Timeout: topologyFetchTimeout}, logger)
	analyticsHandler := analytichttp.NewHandler(logger, analyticsService, templates, ui.NewRenderer(topology, logger))
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AnalyticsHandler: analyticsHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
		Ready:            store.Loaded,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("source", cfg.InsightsSource))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
