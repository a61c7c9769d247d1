package valkey

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yildizemre/visapa/internal/repository"
)

// HeartbeatStore keeps the last ping of each store as unix milliseconds
type HeartbeatStore struct {
	client *Client
}

var _ repository.HeartbeatStore = (*HeartbeatStore)(nil)

// NewHeartbeatStore creates a heartbeat store backed by client
func NewHeartbeatStore(client *Client) *HeartbeatStore {
	return &HeartbeatStore{client: client}
}

func heartbeatKey(owner int64) string {
	return keyPrefix + "heartbeat:" + strconv.FormatInt(owner, 10)
}

// Touch records a ping from the store's edge service at the given time
func (s *HeartbeatStore) Touch(ctx context.Context, owner int64, at time.Time) error {
	if err := s.client.rdb.Set(ctx, heartbeatKey(owner), at.UnixMilli(), 0).Err(); err != nil {
		return fmt.Errorf("failed to store heartbeat: %w", err)
	}
	return nil
}

// LastSeen returns the last ping time of the store
func (s *HeartbeatStore) LastSeen(ctx context.Context, owner int64) (time.Time, bool, error) {
	ms, err := s.client.rdb.Get(ctx, heartbeatKey(owner)).Int64()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read heartbeat: %w", err)
	}
	return time.UnixMilli(ms).UTC(), true, nil
}
