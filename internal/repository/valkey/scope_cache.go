package valkey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yildizemre/visapa/internal/repository"
)

// ScopeCache stores resolved owner lists as JSON arrays with a TTL
type ScopeCache struct {
	client *Client
	ttl    time.Duration
}

var _ repository.ScopeCache = (*ScopeCache)(nil)

// NewScopeCache creates a scope cache; entries expire after ttl
func NewScopeCache(client *Client, ttl time.Duration) *ScopeCache {
	return &ScopeCache{client: client, ttl: ttl}
}

func scopeKey(caller int64) string {
	return keyPrefix + "scope:" + strconv.FormatInt(caller, 10)
}

// GetScope returns the cached owners of caller, if any
func (c *ScopeCache) GetScope(ctx context.Context, caller int64) ([]int64, bool, error) {
	raw, err := c.client.rdb.Get(ctx, scopeKey(caller)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read scope cache: %w", err)
	}

	owners, err := decodeOwners(raw)
	if err != nil {
		return nil, false, err
	}
	return owners, true, nil
}

// SetScope caches the owners of caller
func (c *ScopeCache) SetScope(ctx context.Context, caller int64, owners []int64) error {
	raw, err := json.Marshal(owners)
	if err != nil {
		return fmt.Errorf("failed to encode scope: %w", err)
	}
	if err := c.client.rdb.Set(ctx, scopeKey(caller), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write scope cache: %w", err)
	}
	return nil
}

func decodeOwners(raw []byte) ([]int64, error) {
	var owners []int64
	if err := json.Unmarshal(raw, &owners); err != nil {
		return nil, fmt.Errorf("failed to decode cached scope: %w", err)
	}
	return owners, nil
}
