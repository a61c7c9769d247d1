package consumer

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/yildizemre/visapa/internal/domain"
	"github.com/yildizemre/visapa/internal/queue"
	"github.com/yildizemre/visapa/internal/repository"
)

// MockSource is a mock implementation of queue.Source
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Receive(ctx context.Context, max int) ([]queue.Message, error) {
	args := m.Called(ctx, max)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queue.Message), args.Error(1)
}

func (m *MockSource) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockMessageParser is a mock implementation of MessageParser
type MockMessageParser struct {
	mock.Mock
}

func (m *MockMessageParser) Parse(body []byte) (domain.Record, error) {
	args := m.Called(body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Record), args.Error(1)
}

// MockTelemetryRepository is a mock implementation of repository.TelemetryRepository
type MockTelemetryRepository struct {
	mock.Mock
}

func (m *MockTelemetryRepository) FootfallEvents(ctx context.Context, q repository.TelemetryQuery) ([]domain.FootfallEvent, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.FootfallEvent), args.Error(1)
}

func (m *MockTelemetryRepository) QueueEvents(ctx context.Context, q repository.TelemetryQuery) ([]domain.QueueEvent, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.QueueEvent), args.Error(1)
}

func (m *MockTelemetryRepository) ZoneEvents(ctx context.Context, q repository.TelemetryQuery) ([]domain.ZoneEvent, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.ZoneEvent), args.Error(1)
}

func (m *MockTelemetryRepository) DistinctValues(ctx context.Context, kind domain.Kind, q repository.TelemetryQuery) ([]string, error) {
	args := m.Called(ctx, kind, q)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTelemetryRepository) GetRecord(ctx context.Context, kind domain.Kind, id string, owners []int64) (domain.Record, error) {
	args := m.Called(ctx, kind, id, owners)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Record), args.Error(1)
}

func (m *MockTelemetryRepository) SaveRecord(ctx context.Context, rec domain.Record, deleted bool) error {
	args := m.Called(ctx, rec, deleted)
	return args.Error(0)
}

func (m *MockTelemetryRepository) InsertBatch(ctx context.Context, records []domain.Record) (int, error) {
	args := m.Called(ctx, records)
	return args.Int(0), args.Error(1)
}

func (m *MockTelemetryRepository) InitSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTelemetryRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTelemetryRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockIdempotencyStore is a mock implementation of repository.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, messageID string) (bool, error) {
	args := m.Called(ctx, messageID)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, messageID string) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

// memoryIdempotencyStore remembers marked keys in a set
type memoryIdempotencyStore struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (s *memoryIdempotencyStore) MarkProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[key] {
		return false, nil
	}
	s.seen[key] = true
	return true, nil
}

func (s *memoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, key)
	return nil
}

func queueRecord(id string) *domain.QueueEvent {
	return &domain.QueueEvent{ID: id, OwnerID: 1}
}
