package redis

import (
	"context"
	"fmt"
	"time"
)

// InitRedis initializes the Redis connection and checks it is reachable
func InitRedis(Addr string, DB int) (*RedisClient, error) {
	rc, err := NewRedisClient(Addr, DB)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Test connection
	if err := rc.Client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}
	return rc, nil
}

// CloseRedis gracefully closes the Redis connection
func CloseRedis(rc *RedisClient) error {
	if err := rc.Client.Close(); err != nil {
		return fmt.Errorf("error closing Redis connection: %v", err)
	}
	return nil
}
