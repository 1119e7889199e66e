package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Connect dials redis and verifies the connection. Redis backs the
// per-post liker sets, which need atomic set add/remove.
func Connect(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return rdb, nil
}
