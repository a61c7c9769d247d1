package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yildizemre/visapa/docs"
	"github.com/yildizemre/visapa/internal/config"
	"github.com/yildizemre/visapa/internal/consumer"
	"github.com/yildizemre/visapa/internal/handler"
	"github.com/yildizemre/visapa/internal/logger"
	"github.com/yildizemre/visapa/internal/metrics"
	"github.com/yildizemre/visapa/internal/queue"
	"github.com/yildizemre/visapa/internal/queue/kafka"
	"github.com/yildizemre/visapa/internal/queue/sqs"
	"github.com/yildizemre/visapa/internal/repository"
	"github.com/yildizemre/visapa/internal/repository/clickhouse"
	"github.com/yildizemre/visapa/internal/repository/postgres"
	"github.com/yildizemre/visapa/internal/repository/valkey"
	"github.com/yildizemre/visapa/internal/scope"
	"github.com/yildizemre/visapa/internal/service"
)

const shutdownTimeout = 15 * time.Second

// @title Visapa Retail Analytics API
// @version 1.0
// @description Retail telemetry rollups scoped to stores and brand managers
// @host localhost:8080
// @BasePath /
// @schemes http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment, cfg.Service.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		_ = log.Sync()
	}(log)

	if err := cfg.ValidateAPI(); err != nil {
		log.Fatal("Invalid API configuration", zap.Error(err))
	}

	log.Info("Starting API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort),
		zap.String("queue_driver", cfg.Queue.Driver))

	// Configure Swagger host dynamically
	docs.SwaggerInfo.Host = cfg.Service.Host

	ctx := context.Background()

	publisher, err := newPublisher(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to create queue publisher", zap.Error(err))
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close queue publisher", zap.Error(err))
		}
	}()

	// Initialize ClickHouse client
	clickhouseClient, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log)
	if err != nil {
		log.Fatal("Failed to create ClickHouse client", zap.Error(err))
	}
	repo := clickhouse.NewRepository(clickhouseClient, log)
	defer func() {
		if err := repo.Close(); err != nil {
			log.Error("Failed to close ClickHouse client", zap.Error(err))
		}
	}()

	if err := repo.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}

	// Initialize scope and directory store
	scopeStore, err := postgres.NewStore(ctx, &cfg.Postgres, log)
	if err != nil {
		log.Fatal("Failed to create Postgres store", zap.Error(err))
	}
	defer scopeStore.Close()

	// Initialize Valkey client
	valkeyClient, err := valkey.NewClient(ctx, &cfg.Valkey, log)
	if err != nil {
		log.Fatal("Failed to create Valkey client", zap.Error(err))
	}
	defer func() {
		_ = valkeyClient.Close()
	}()

	var scopeCache repository.ScopeCache
	if ttl := cfg.Scope.CacheTTL(); ttl > 0 {
		scopeCache = valkey.NewScopeCache(valkeyClient, ttl)
	}
	resolver := scope.NewResolver(scopeStore, scopeCache, log)

	m := metrics.New()

	// Initialize services
	analyticsService := service.NewAnalyticsService(resolver, repo, m, log)
	telemetryService := service.NewTelemetryService(publisher, consumer.ParseTimestamp, log)
	heartbeatService := service.NewHeartbeatService(valkey.NewHeartbeatStore(valkeyClient), resolver, cfg.Heartbeat.Timeout(), log)
	directoryService := service.NewDirectoryService(scopeStore, resolver, log)

	// Initialize handler
	h := handler.NewHandler(analyticsService, telemetryService, heartbeatService, directoryService, m, log)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Service.APIPort),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("API server starting", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start API server", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down API server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shut down API server", zap.Error(err))
	}
}

func newPublisher(ctx context.Context, cfg *config.Config, log *zap.Logger) (queue.Publisher, error) {
	switch cfg.Queue.Driver {
	case config.QueueDriverKafka:
		return kafka.NewPublisher(&cfg.Kafka, log), nil
	case config.QueueDriverSQS:
		client, err := sqs.NewClient(ctx, &cfg.SQS, log)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown queue driver %q", cfg.Queue.Driver)
	}
}
