// Package kv is the durable key-value bridge backing identity, wishlist and
// catalog cache entries. Values are opaque JSON blobs; a zero ttl means the
// entry never expires.
package kv

import (
	"context"
	"time"
)

type Store interface {
	Get(c context.Context, key string) ([]byte, error)
	Set(c context.Context, key string, value []byte, ttl time.Duration) error
	Del(c context.Context, key string) error
}
