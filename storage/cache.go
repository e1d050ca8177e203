package storage

import (
	"context"
	"time"
)

// Cache is a string key/value store with expiry used for hot lookups
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// NopCache never stores anything; used when no redis is configured
type NopCache struct{}

func (NopCache) Get(context.Context, string) (string, bool)               { return "", false }
func (NopCache) Set(context.Context, string, string, time.Duration) error { return nil }
func (NopCache) Del(context.Context, ...string) error                     { return nil }
