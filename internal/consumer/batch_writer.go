package consumer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yildizemre/visapa/internal/domain"
	"github.com/yildizemre/visapa/internal/metrics"
	"github.com/yildizemre/visapa/internal/repository"
)

// BatchWriterConfig configures the batch writer
type BatchWriterConfig struct {
	MaxBatchSize int
	FlushTimeout time.Duration
	// InsertRetries is how many times a failed insert is retried before the batch is nacked
	InsertRetries int
	RetryBackoff  time.Duration
}

// BatchWriter handles batching and writing records to the repository
type BatchWriter struct {
	repository repository.TelemetryRepository
	config     BatchWriterConfig
	metrics    *metrics.Metrics
	log        *zap.Logger
}

// NewBatchWriter creates a new batch writer; m may be nil
func NewBatchWriter(repo repository.TelemetryRepository, config BatchWriterConfig, m *metrics.Metrics, log *zap.Logger) *BatchWriter {
	return &BatchWriter{
		repository: repo,
		config:     config,
		metrics:    m,
		log:        log,
	}
}

// Start begins processing envelopes, batching, and writing to the repository
func (w *BatchWriter) Start(ctx context.Context, in <-chan *Envelope) {
	ticker := time.NewTicker(w.config.FlushTimeout)
	defer ticker.Stop()

	batch := make([]*Envelope, 0, w.config.MaxBatchSize)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Batch writer shutting down")
			if len(batch) > 0 {
				w.log.Info("Flushing final batch", zap.Int("envelope_count", len(batch)))
				// the parent context is gone; give the final flush its own deadline
				flushCtx, cancel := context.WithTimeout(context.Background(), w.config.FlushTimeout)
				w.processBatch(flushCtx, batch)
				cancel()
			}
			return

		case envelope, ok := <-in:
			if !ok {
				w.log.Info("Batch writer input channel closed")
				if len(batch) > 0 {
					w.log.Info("Flushing final batch", zap.Int("envelope_count", len(batch)))
					w.processBatch(ctx, batch)
				}
				return
			}

			batch = append(batch, envelope)

			if len(batch) >= w.config.MaxBatchSize {
				w.log.Debug("Batch size threshold reached", zap.Int("batch_size", len(batch)))
				w.processBatch(ctx, batch)
				batch = make([]*Envelope, 0, w.config.MaxBatchSize)
				ticker.Reset(w.config.FlushTimeout)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.log.Debug("Batch timeout reached", zap.Int("envelope_count", len(batch)))
				w.processBatch(ctx, batch)
				batch = make([]*Envelope, 0, w.config.MaxBatchSize)
			}
		}
	}
}

// processBatch inserts the batch, then acks on full success and nacks otherwise
func (w *BatchWriter) processBatch(ctx context.Context, envelopes []*Envelope) {
	if len(envelopes) == 0 {
		return
	}

	records := make([]domain.Record, len(envelopes))
	for i, env := range envelopes {
		records[i] = env.Record
	}

	insertedCount, err := w.insert(ctx, records)

	if err != nil {
		w.log.Error("Failed to insert batch",
			zap.Error(err),
			zap.Int("record_count", len(records)))
		w.failed()
		w.nackAll(ctx, envelopes)
		return
	}

	if insertedCount != len(records) {
		w.log.Warn("Partial insert success",
			zap.Int("inserted", insertedCount),
			zap.Int("expected", len(records)))
		w.failed()
		w.nackAll(ctx, envelopes)
		return
	}

	w.log.Info("Successfully inserted records",
		zap.Int("count", insertedCount))
	if w.metrics != nil {
		w.metrics.BatchSize.Observe(float64(insertedCount))
		for _, rec := range records {
			w.metrics.RecordsInserted.WithLabelValues(string(rec.Kind())).Inc()
		}
	}
	w.ackAll(ctx, envelopes)
}

// insert retries failed inserts with a linear backoff. Rows keep the version
// stamped on the first attempt, so a retry after a partial write only produces
// duplicates that ReplacingMergeTree collapses.
func (w *BatchWriter) insert(ctx context.Context, records []domain.Record) (int, error) {
	var lastErr error
	for attempt := 0; attempt <= w.config.InsertRetries; attempt++ {
		if attempt > 0 {
			w.log.Warn("Retrying batch insert",
				zap.Int("attempt", attempt),
				zap.Int("record_count", len(records)),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(time.Duration(attempt) * w.config.RetryBackoff):
			}
		}

		n, err := w.repository.InsertBatch(ctx, records)
		if err == nil {
			return n, nil
		}
		lastErr = err
	}
	return 0, lastErr
}

func (w *BatchWriter) failed() {
	if w.metrics != nil {
		w.metrics.BatchFailures.Inc()
	}
}

// ackAll acknowledges all envelopes (removes them from the queue)
func (w *BatchWriter) ackAll(ctx context.Context, envelopes []*Envelope) {
	for _, env := range envelopes {
		if err := env.Ack(ctx); err != nil {
			w.log.Error("Failed to ack envelope",
				zap.String("record_id", env.Record.RecordID()),
				zap.Error(err))
		}
	}
}

// nackAll negatively acknowledges all envelopes (leaves them on the queue for retry)
func (w *BatchWriter) nackAll(ctx context.Context, envelopes []*Envelope) {
	for _, env := range envelopes {
		if err := env.Nack(ctx); err != nil {
			w.log.Error("Failed to nack envelope",
				zap.String("record_id", env.Record.RecordID()),
				zap.Error(err))
		}
	}
}
