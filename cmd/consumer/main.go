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

	"github.com/yildizemre/visapa/internal/config"
	"github.com/yildizemre/visapa/internal/consumer"
	"github.com/yildizemre/visapa/internal/logger"
	"github.com/yildizemre/visapa/internal/metrics"
	"github.com/yildizemre/visapa/internal/queue"
	"github.com/yildizemre/visapa/internal/queue/kafka"
	"github.com/yildizemre/visapa/internal/queue/sqs"
	"github.com/yildizemre/visapa/internal/repository"
	"github.com/yildizemre/visapa/internal/repository/clickhouse"
	"github.com/yildizemre/visapa/internal/repository/valkey"
)

func main() {
	// Load configuration
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

	log.Info("Starting consumer service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("queue_driver", cfg.Queue.Driver))

	ctx := context.Background()

	// Initialize ClickHouse client
	chClient, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log)
	if err != nil {
		log.Fatal("Failed to create ClickHouse client", zap.Error(err))
	}
	repo := clickhouse.NewRepository(chClient, log)
	defer func() {
		if err := repo.Close(); err != nil {
			log.Error("Failed to close ClickHouse client", zap.Error(err))
		}
	}()

	// Initialize schema (create tables if not exist)
	if err := repo.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}

	source, err := newSource(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to create queue source", zap.Error(err))
	}
	defer func() {
		if err := source.Close(); err != nil {
			log.Error("Failed to close queue source", zap.Error(err))
		}
	}()

	// Idempotency is optional; without Valkey every delivery is written
	var idem repository.IdempotencyStore
	if cfg.Valkey.Addr() != "" && cfg.Valkey.IdempotencyEnabled {
		valkeyClient, err := valkey.NewClient(ctx, &cfg.Valkey, log)
		if err != nil {
			log.Fatal("Failed to create Valkey client", zap.Error(err))
		}
		defer func() {
			_ = valkeyClient.Close()
		}()
		idem = valkey.NewIdempotencyStore(valkeyClient, time.Duration(cfg.Valkey.IdempotencyTTLSec)*time.Second)
		log.Info("Idempotency enabled",
			zap.Bool("fail_open", cfg.Valkey.IdempotencyFailOpen))
	}

	m := metrics.New()

	// Initialize consumer
	c := consumer.NewConsumer(cfg, source, repo, idem, m, log)

	// Start health check and metrics endpoint
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := repo.Ping(r.Context()); err != nil {
			log.Warn("Health check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/internal/metrics", m.Handler())

	healthServer := &http.Server{
		Addr:              ":" + cfg.Consumer.HealthCheckPort,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("Health check server starting", zap.String("address", healthServer.Addr))
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Health check server error", zap.Error(err))
		}
	}()

	// Start consumer
	consumerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := c.Start(consumerCtx); err != nil {
			log.Error("Consumer error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info("Shutting down consumer gracefully")
	case <-done:
		log.Warn("Consumer stopped unexpectedly")
	}

	cancel()
	<-done

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shut down health check server", zap.Error(err))
	}
}

func newSource(ctx context.Context, cfg *config.Config, log *zap.Logger) (queue.Source, error) {
	switch cfg.Queue.Driver {
	case config.QueueDriverKafka:
		return kafka.NewSource(&cfg.Kafka, log), nil
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
