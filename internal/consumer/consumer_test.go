package consumer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/yildizemre/visapa/internal/config"
	"github.com/yildizemre/visapa/internal/domain"
	"github.com/yildizemre/visapa/internal/metrics"
	"github.com/yildizemre/visapa/internal/queue"
)

func testConfig(batchSize int) *config.Config {
	return &config.Config{
		Consumer: config.ConsumerConfig{
			BatchSizeMax:    batchSize,
			BatchTimeoutSec: 1,
		},
		Valkey: config.ValkeyConfig{IdempotencyFailOpen: true},
	}
}

func TestConsumer_Start_PipelineCoordination(t *testing.T) {
	source := new(MockSource)
	repo := new(MockTelemetryRepository)

	var acked atomic.Bool
	messages := []queue.Message{{
		ID:   "msg-1",
		Body: []byte(`{"kind":"queue","id":"r-1","owner_id":3,"wait_time":12,"cashier_id":"Kasa-2"}`),
		Ack: func(context.Context) error {
			acked.Store(true)
			return nil
		},
	}}

	source.On("Receive", mock.Anything, 10).Return(messages, nil).Once()
	source.On("Receive", mock.Anything, 10).Return([]queue.Message{}, nil).Maybe()

	repo.On("InsertBatch", mock.Anything, mock.MatchedBy(func(records []domain.Record) bool {
		return len(records) == 1 && records[0].RecordID() == "r-1" && records[0].Kind() == domain.KindQueue
	})).Return(1, nil)

	consumer := NewConsumer(testConfig(1), source, repo, nil, metrics.New(), zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := consumer.Start(ctx)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
	assert.True(t, acked.Load())
}

func TestConsumer_Start_DuplicateSkippedAcrossPipeline(t *testing.T) {
	source := new(MockSource)
	repo := new(MockTelemetryRepository)
	idem := new(MockIdempotencyStore)

	var acks atomic.Int32
	body := []byte(`{"kind":"zone","id":"z-1","owner_id":3,"visitor_count":4}`)
	ack := func(context.Context) error { acks.Add(1); return nil }
	messages := []queue.Message{{ID: "a", Body: body, Ack: ack}, {ID: "b", Body: body, Ack: ack}}

	source.On("Receive", mock.Anything, 10).Return(messages, nil).Once()
	source.On("Receive", mock.Anything, 10).Return([]queue.Message{}, nil).Maybe()
	idem.On("MarkProcessed", mock.Anything, "zone:3:z-1").Return(true, nil).Once()
	idem.On("MarkProcessed", mock.Anything, "zone:3:z-1").Return(false, nil)
	repo.On("InsertBatch", mock.Anything, batchOf(1)).Return(1, nil)

	consumer := NewConsumer(testConfig(10), source, repo, idem, nil, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	assert.NoError(t, consumer.Start(ctx))
	assert.Equal(t, int32(2), acks.Load())
	repo.AssertNumberOfCalls(t, "InsertBatch", 1)
}

func TestConsumer_Start_GracefulShutdown(t *testing.T) {
	source := new(MockSource)
	repo := new(MockTelemetryRepository)

	source.On("Receive", mock.Anything, 10).Return([]queue.Message{}, nil).Maybe()

	consumer := NewConsumer(testConfig(10), source, repo, nil, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan bool)
	go func() {
		err := consumer.Start(ctx)
		assert.NoError(t, err)
		done <- true
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Graceful shutdown took too long")
	}

	repo.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
}

func TestConsumer_NewConsumer_ComponentInitialization(t *testing.T) {
	consumer := NewConsumer(testConfig(100), new(MockSource), new(MockTelemetryRepository), new(MockIdempotencyStore), nil, zap.NewNop())

	assert.NotNil(t, consumer)
	assert.NotNil(t, consumer.receiver)
	assert.NotNil(t, consumer.parser)
	assert.NotNil(t, consumer.parser.dedup)
	assert.NotNil(t, consumer.batchWriter)
}
