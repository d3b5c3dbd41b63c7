// Package redis provides the Redis connection the document store's redis
// backend writes the application blob through.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client wraps go-redis. The document blob lives under one key, so nothing
// here is key-aware; the store backend owns the key.
type Client struct {
	*redis.Client
	logger *zap.Logger
}

// NewClient connects and verifies connectivity with a ping, so a bad
// address fails at startup rather than on the first document read.
func NewClient(ctx context.Context, addr, password string, db int, logger *zap.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	logger.Info("redis connected", zap.String("addr", addr), zap.Int("db", db))
	return &Client{Client: rdb, logger: logger}, nil
}
