package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yildizemre/visapa/internal/domain"
	"github.com/yildizemre/visapa/internal/dto"
	"github.com/yildizemre/visapa/internal/repository"
	"github.com/yildizemre/visapa/internal/scope"
)

// MockScopeResolver is a mock implementation of ScopeResolver
type MockScopeResolver struct {
	mock.Mock
}

func (m *MockScopeResolver) Resolve(ctx context.Context, caller int64) (scope.Scope, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).(scope.Scope), args.Error(1)
}

// MockTelemetryRepository is a mock implementation of repository.TelemetryRepository
type MockTelemetryRepository struct {
	mock.Mock
}

func (m *MockTelemetryRepository) FootfallEvents(ctx context.Context, q repository.TelemetryQuery) ([]domain.FootfallEvent, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FootfallEvent), args.Error(1)
}

func (m *MockTelemetryRepository) QueueEvents(ctx context.Context, q repository.TelemetryQuery) ([]domain.QueueEvent, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QueueEvent), args.Error(1)
}

func (m *MockTelemetryRepository) ZoneEvents(ctx context.Context, q repository.TelemetryQuery) ([]domain.ZoneEvent, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ZoneEvent), args.Error(1)
}

func (m *MockTelemetryRepository) DistinctValues(ctx context.Context, kind domain.Kind, q repository.TelemetryQuery) ([]string, error) {
	args := m.Called(ctx, kind, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

// MockPublisher is a mock implementation of queue.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishTelemetry(ctx context.Context, event *dto.TelemetryRequest) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockHeartbeatStore is a mock implementation of repository.HeartbeatStore
type MockHeartbeatStore struct {
	mock.Mock
}

func (m *MockHeartbeatStore) Touch(ctx context.Context, owner int64, at time.Time) error {
	args := m.Called(ctx, owner, at)
	return args.Error(0)
}

func (m *MockHeartbeatStore) LastSeen(ctx context.Context, owner int64) (time.Time, bool, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).(time.Time), args.Bool(1), args.Error(2)
}

// MockDirectoryStore is a mock implementation of repository.DirectoryStore
type MockDirectoryStore struct {
	mock.Mock
}

func (m *MockDirectoryStore) ListStaff(ctx context.Context, q repository.StaffQuery) ([]domain.StaffMember, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.StaffMember), args.Get(1).(int64), args.Error(2)
}

func (m *MockDirectoryStore) CreateStaff(ctx context.Context, s *domain.StaffMember) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockDirectoryStore) ListReports(ctx context.Context, owners []int64, page repository.Page) ([]domain.Report, int64, error) {
	args := m.Called(ctx, owners, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Report), args.Get(1).(int64), args.Error(2)
}

func (m *MockDirectoryStore) CreateReport(ctx context.Context, r *domain.Report) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
