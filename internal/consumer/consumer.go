package consumer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yildizemre/visapa/internal/config"
	"github.com/yildizemre/visapa/internal/metrics"
	"github.com/yildizemre/visapa/internal/queue"
	"github.com/yildizemre/visapa/internal/repository"
)

// Consumer orchestrates a pipeline of stages to process telemetry messages
type Consumer struct {
	receiver    *Receiver
	parser      *ParserStage
	batchWriter *BatchWriter
}

// NewConsumer creates a new consumer with a pipeline architecture. idem and m may be nil.
func NewConsumer(cfg *config.Config, source queue.Source, repo repository.TelemetryRepository, idem repository.IdempotencyStore, m *metrics.Metrics, log *zap.Logger) *Consumer {
	receiver := NewReceiver(source, ReceiverConfig{
		MaxMessages: 10,
	}, m, log)

	var dedup *Deduplicator
	if idem != nil {
		dedup = NewDeduplicator(idem, cfg.Valkey.IdempotencyFailOpen)
	}
	parser := NewParserStage(NewJSONTelemetryParser(), dedup, m, log)

	batchWriter := NewBatchWriter(repo, BatchWriterConfig{
		MaxBatchSize:  cfg.Consumer.BatchSizeMax,
		FlushTimeout:  time.Duration(cfg.Consumer.BatchTimeoutSec) * time.Second,
		InsertRetries: cfg.Consumer.InsertRetries,
		RetryBackoff:  time.Duration(cfg.Consumer.RetryBackoffMs) * time.Millisecond,
	}, m, log)

	return &Consumer{
		receiver:    receiver,
		parser:      parser,
		batchWriter: batchWriter,
	}
}

// Start runs the pipeline until ctx is cancelled and every stage has drained
func (c *Consumer) Start(ctx context.Context) error {
	messageChan := make(chan queue.Message, 100)
	envelopeChan := make(chan *Envelope, 100)

	var wg sync.WaitGroup

	wg.Add(3)

	// Stage 1: Receive messages from the queue
	go func() {
		defer wg.Done()
		c.receiver.Start(ctx, messageChan)
	}()

	// Stage 2: Parse messages into envelopes
	go func() {
		defer wg.Done()
		c.parser.Start(ctx, messageChan, envelopeChan)
	}()

	// Stage 3: Batch and write to the repository
	go func() {
		defer wg.Done()
		c.batchWriter.Start(ctx, envelopeChan)
	}()

	wg.Wait()
	return nil
}
