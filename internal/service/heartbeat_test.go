package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yildizemre/visapa/internal/domain"
	"github.com/yildizemre/visapa/internal/scope"
)

var heartbeatNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newHeartbeat(store *MockHeartbeatStore, resolver *MockScopeResolver) *HeartbeatService {
	svc := NewHeartbeatService(store, resolver, 5*time.Minute, zap.NewNop())
	svc.now = func() time.Time { return heartbeatNow }
	return svc
}

func TestHeartbeatService_Ping(t *testing.T) {
	store := new(MockHeartbeatStore)
	store.On("Touch", mock.Anything, int64(7), heartbeatNow).Return(nil)

	at, err := newHeartbeat(store, nil).Ping(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, heartbeatNow, at)
	store.AssertExpectations(t)
}

func TestHeartbeatService_Ping_StoreFailure(t *testing.T) {
	store := new(MockHeartbeatStore)
	store.On("Touch", mock.Anything, int64(7), mock.Anything).Return(errors.New("valkey down"))

	_, err := newHeartbeat(store, nil).Ping(context.Background(), 7)

	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestHeartbeatService_Ping_Unauthenticated(t *testing.T) {
	_, err := newHeartbeat(new(MockHeartbeatStore), nil).Ping(context.Background(), 0)

	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestHeartbeatService_Status(t *testing.T) {
	tests := []struct {
		name      string
		last      time.Time
		seen      bool
		wantAlive bool
		wantStamp bool
	}{
		{name: "recent ping", last: heartbeatNow.Add(-2 * time.Minute), seen: true, wantAlive: true, wantStamp: true},
		{name: "exactly at timeout", last: heartbeatNow.Add(-5 * time.Minute), seen: true, wantAlive: true, wantStamp: true},
		{name: "stale ping", last: heartbeatNow.Add(-6 * time.Minute), seen: true, wantAlive: false, wantStamp: true},
		{name: "never pinged", seen: false, wantAlive: false, wantStamp: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockHeartbeatStore)
			store.On("LastSeen", mock.Anything, int64(7)).Return(tt.last, tt.seen, nil)

			got, err := newHeartbeat(store, nil).Status(context.Background(), 7, 0)

			require.NoError(t, err)
			assert.Equal(t, tt.wantAlive, got.IsAlive)
			assert.Equal(t, tt.wantStamp, got.LastPingAt != nil)
			assert.NotEmpty(t, got.Message)
		})
	}
}

func TestHeartbeatService_Status_ManagedStore(t *testing.T) {
	store := new(MockHeartbeatStore)
	resolver := new(MockScopeResolver)
	resolver.On("Resolve", mock.Anything, int64(1)).Return(scope.Scope{Caller: 1, Owners: []int64{1, 12}}, nil)
	store.On("LastSeen", mock.Anything, int64(12)).Return(heartbeatNow, true, nil)

	got, err := newHeartbeat(store, resolver).Status(context.Background(), 1, 12)

	require.NoError(t, err)
	assert.True(t, got.IsAlive)
	assert.Equal(t, "2025-03-01T12:00:00Z", *got.LastPingAt)
}

func TestHeartbeatService_Status_StoreOutsideScope(t *testing.T) {
	store := new(MockHeartbeatStore)
	resolver := new(MockScopeResolver)
	resolver.On("Resolve", mock.Anything, int64(1)).Return(scope.Single(1), nil)

	_, err := newHeartbeat(store, resolver).Status(context.Background(), 1, 12)

	assert.ErrorIs(t, err, domain.ErrScopeViolation)
	store.AssertNotCalled(t, "LastSeen", mock.Anything, mock.Anything)
}
