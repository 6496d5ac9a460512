package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache defines the cache interface
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}

// ErrCacheMiss is returned when a key is not found in cache
var ErrCacheMiss = fmt.Errorf("cache miss")

// RevocationKey is the cache key marking a refresh token (by jti) as
// revoked
func RevocationKey(tokenID string) string {
	return "revoked:" + tokenID
}

// ActivityKey is the cache key throttling tenant activity-timestamp
// writes
func ActivityKey(tenantID string) string {
	return "activity:" + tenantID
}
