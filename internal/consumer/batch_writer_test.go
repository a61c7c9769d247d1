package consumer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/yildizemre/visapa/internal/domain"
	"github.com/yildizemre/visapa/internal/metrics"
)

type ackCounter struct {
	acks  atomic.Int32
	nacks atomic.Int32
}

func (c *ackCounter) envelope(id string) *Envelope {
	return NewEnvelope(queueRecord(id),
		func(context.Context) error { c.acks.Add(1); return nil },
		func(context.Context) error { c.nacks.Add(1); return nil })
}

func batchOf(n int) any {
	return mock.MatchedBy(func(records []domain.Record) bool { return len(records) == n })
}

func TestBatchWriter_Start_BatchSizeThreshold(t *testing.T) {
	repo := new(MockTelemetryRepository)
	writer := NewBatchWriter(repo, BatchWriterConfig{MaxBatchSize: 3, FlushTimeout: 10 * time.Second}, nil, zap.NewNop())

	repo.On("InsertBatch", mock.Anything, batchOf(3)).Return(3, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var c ackCounter
	in := make(chan *Envelope, 5)
	go writer.Start(ctx, in)

	in <- c.envelope("1")
	in <- c.envelope("2")
	in <- c.envelope("3")

	assert.Eventually(t, func() bool { return c.acks.Load() == 3 }, time.Second, 10*time.Millisecond)
	repo.AssertExpectations(t)
}

func TestBatchWriter_Start_TimeoutFlush(t *testing.T) {
	repo := new(MockTelemetryRepository)
	writer := NewBatchWriter(repo, BatchWriterConfig{MaxBatchSize: 10, FlushTimeout: 50 * time.Millisecond}, nil, zap.NewNop())

	repo.On("InsertBatch", mock.Anything, batchOf(2)).Return(2, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var c ackCounter
	in := make(chan *Envelope, 5)
	go writer.Start(ctx, in)

	in <- c.envelope("1")
	in <- c.envelope("2")

	assert.Eventually(t, func() bool { return c.acks.Load() == 2 }, time.Second, 10*time.Millisecond)
	repo.AssertExpectations(t)
}

func TestBatchWriter_Start_InsertFailure(t *testing.T) {
	repo := new(MockTelemetryRepository)
	m := metrics.New()
	writer := NewBatchWriter(repo, BatchWriterConfig{MaxBatchSize: 2, FlushTimeout: 10 * time.Second}, m, zap.NewNop())

	repo.On("InsertBatch", mock.Anything, batchOf(2)).Return(0, errors.New("clickhouse unavailable"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var c ackCounter
	in := make(chan *Envelope, 5)
	go writer.Start(ctx, in)

	in <- c.envelope("1")
	in <- c.envelope("2")

	assert.Eventually(t, func() bool { return c.nacks.Load() == 2 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(0), c.acks.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BatchFailures))
}

func TestBatchWriter_Start_PartialInsert(t *testing.T) {
	repo := new(MockTelemetryRepository)
	writer := NewBatchWriter(repo, BatchWriterConfig{MaxBatchSize: 3, FlushTimeout: 10 * time.Second}, nil, zap.NewNop())

	repo.On("InsertBatch", mock.Anything, batchOf(3)).Return(2, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var c ackCounter
	in := make(chan *Envelope, 5)
	go writer.Start(ctx, in)

	in <- c.envelope("1")
	in <- c.envelope("2")
	in <- c.envelope("3")

	assert.Eventually(t, func() bool { return c.nacks.Load() == 3 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(0), c.acks.Load())
}

func TestBatchWriter_Start_GracefulShutdownFlushes(t *testing.T) {
	repo := new(MockTelemetryRepository)
	writer := NewBatchWriter(repo, BatchWriterConfig{MaxBatchSize: 10, FlushTimeout: time.Second}, nil, zap.NewNop())

	repo.On("InsertBatch", mock.Anything, batchOf(2)).Return(2, nil)

	ctx, cancel := context.WithCancel(context.Background())

	var c ackCounter
	in := make(chan *Envelope, 5)
	done := make(chan struct{})
	go func() {
		writer.Start(ctx, in)
		close(done)
	}()

	in <- c.envelope("1")
	in <- c.envelope("2")
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Batch writer did not stop")
	}

	assert.Equal(t, int32(2), c.acks.Load())
	repo.AssertExpectations(t)
}

func TestBatchWriter_Start_InputChannelClosed(t *testing.T) {
	repo := new(MockTelemetryRepository)
	writer := NewBatchWriter(repo, BatchWriterConfig{MaxBatchSize: 10, FlushTimeout: 10 * time.Second}, nil, zap.NewNop())

	repo.On("InsertBatch", mock.Anything, batchOf(1)).Return(1, nil)

	var c ackCounter
	in := make(chan *Envelope, 1)
	in <- c.envelope("1")
	close(in)

	writer.Start(context.Background(), in)

	assert.Equal(t, int32(1), c.acks.Load())
}

func TestBatchWriter_Start_EmptyBatchNotFlushed(t *testing.T) {
	repo := new(MockTelemetryRepository)
	writer := NewBatchWriter(repo, BatchWriterConfig{MaxBatchSize: 10, FlushTimeout: 20 * time.Millisecond}, nil, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	writer.Start(ctx, make(chan *Envelope))

	repo.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
}

func TestBatchWriter_Start_MultipleBatchesCountByKind(t *testing.T) {
	repo := new(MockTelemetryRepository)
	m := metrics.New()
	writer := NewBatchWriter(repo, BatchWriterConfig{MaxBatchSize: 2, FlushTimeout: 10 * time.Second}, m, zap.NewNop())

	repo.On("InsertBatch", mock.Anything, batchOf(2)).Return(2, nil).Twice()

	var c ackCounter
	in := make(chan *Envelope, 4)
	for _, id := range []string{"1", "2", "3", "4"} {
		in <- c.envelope(id)
	}
	close(in)

	writer.Start(context.Background(), in)

	assert.Equal(t, int32(4), c.acks.Load())
	assert.Equal(t, 4.0, testutil.ToFloat64(m.RecordsInserted.WithLabelValues("queue")))
	repo.AssertNumberOfCalls(t, "InsertBatch", 2)
}

func TestBatchWriter_Start_RetriesFailedInsert(t *testing.T) {
	repo := new(MockTelemetryRepository)
	m := metrics.New()
	writer := NewBatchWriter(repo, BatchWriterConfig{
		MaxBatchSize:  2,
		FlushTimeout:  10 * time.Second,
		InsertRetries: 2,
		RetryBackoff:  time.Millisecond,
	}, m, zap.NewNop())

	repo.On("InsertBatch", mock.Anything, batchOf(2)).Return(0, errors.New("too many parts")).Once()
	repo.On("InsertBatch", mock.Anything, batchOf(2)).Return(2, nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var c ackCounter
	in := make(chan *Envelope, 5)
	go writer.Start(ctx, in)

	in <- c.envelope("1")
	in <- c.envelope("2")

	assert.Eventually(t, func() bool { return c.acks.Load() == 2 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(0), c.nacks.Load())
	assert.Equal(t, 0.0, testutil.ToFloat64(m.BatchFailures))
	repo.AssertNumberOfCalls(t, "InsertBatch", 2)
}

func TestBatchWriter_Start_RetriesExhausted(t *testing.T) {
	repo := new(MockTelemetryRepository)
	writer := NewBatchWriter(repo, BatchWriterConfig{
		MaxBatchSize:  1,
		FlushTimeout:  10 * time.Second,
		InsertRetries: 2,
		RetryBackoff:  time.Millisecond,
	}, nil, zap.NewNop())

	repo.On("InsertBatch", mock.Anything, batchOf(1)).Return(0, errors.New("clickhouse unavailable"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var c ackCounter
	in := make(chan *Envelope, 5)
	go writer.Start(ctx, in)

	in <- c.envelope("1")

	assert.Eventually(t, func() bool { return c.nacks.Load() == 1 }, time.Second, 10*time.Millisecond)
	repo.AssertNumberOfCalls(t, "InsertBatch", 3)
}
