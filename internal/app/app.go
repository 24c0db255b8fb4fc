package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/minicart/internal/analytics"
	"github.com/utafrali/minicart/internal/cart"
	"github.com/utafrali/minicart/internal/config"
	"github.com/utafrali/minicart/internal/event"
	"github.com/utafrali/minicart/internal/gateway"
	handler "github.com/utafrali/minicart/internal/handler/http"
	"github.com/utafrali/minicart/internal/platform"
	"github.com/utafrali/minicart/internal/platform/shopify"
	redisrepo "github.com/utafrali/minicart/internal/snapshot/redis"
	"github.com/utafrali/minicart/pkg/health"
	"github.com/utafrali/minicart/pkg/httpclient"
	pkgkafka "github.com/utafrali/minicart/pkg/kafka"
)

// App wires together all dependencies and runs the minicart service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize Redis client.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Initialize Kafka producer for the analytics pipeline.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Build the dependency graph.
	snapshotTTL := time.Duration(cfg.SnapshotTTL) * time.Hour
	snapshots := redisrepo.NewSnapshotRepository(rdb, snapshotTTL)

	p, err := platform.Parse(cfg.Platform)
	if err != nil {
		return nil, err
	}
	registry := buildRegistry(cfg, logger)

	sink := event.NewKafkaDispatcher(producer, logger)
	store := cart.NewStore(registry.For(p), sink, logger)
	relay := analytics.NewRelay(sink, analytics.PassiveObserver{}, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	// HTTP router.
	router := handler.NewRouter(store, snapshots, relay, sink, healthHandler, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		rdb:        rdb,
		producer:   producer,
		httpServer: httpServer,
	}, nil
}

// buildRegistry installs an adapter for every platform this deployment can
// reach. Unconfigured platforms dispatch to the explicit unsupported adapter.
func buildRegistry(cfg *config.Config, logger *slog.Logger) *platform.Registry {
	registry := platform.NewRegistry()

	base := httpclient.New(httpclient.DefaultConfig())

	if cfg.ShopifyBaseURL != "" {
		client := httpclient.NewCircuitBreakerClient(
			base,
			httpclient.DefaultCircuitBreakerConfig("shopify"),
			logger,
		)
		registry.Register(platform.Shopify, shopify.New(client, cfg.ShopifyBaseURL, logger))
	}

	if cfg.GatewayBaseURL != "" {
		client := httpclient.NewCircuitBreakerClient(
			base,
			httpclient.DefaultCircuitBreakerConfig("custom-gateway"),
			logger,
		)
		registry.Register(platform.Custom, gateway.NewHTTPGateway(client, cfg.GatewayBaseURL, logger))
	}

	return registry
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
