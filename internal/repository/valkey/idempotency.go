package valkey

import (
	"context"
	"fmt"
	"time"

	"github.com/yildizemre/visapa/internal/repository"
)

// IdempotencyStore marks queue message ids as processed with SETNX
type IdempotencyStore struct {
	client *Client
	ttl    time.Duration
}

var _ repository.IdempotencyStore = (*IdempotencyStore)(nil)

// NewIdempotencyStore creates a store whose markers expire after ttl
func NewIdempotencyStore(client *Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

func processedKey(messageID string) string {
	return keyPrefix + "processed:" + messageID
}

// MarkProcessed reports true the first time an id is seen within the TTL
func (s *IdempotencyStore) MarkProcessed(ctx context.Context, messageID string) (bool, error) {
	ok, err := s.client.rdb.SetNX(ctx, processedKey(messageID), 1, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark message processed: %w", err)
	}
	return ok, nil
}

// Release deletes the processed marker
func (s *IdempotencyStore) Release(ctx context.Context, messageID string) error {
	if err := s.client.rdb.Del(ctx, processedKey(messageID)).Err(); err != nil {
		return fmt.Errorf("failed to release message marker: %w", err)
	}
	return nil
}
