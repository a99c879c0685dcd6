package redis

import (
	redis_models "Courtside/models/redis"
	redis_utils "Courtside/services/redis/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisClient handles Redis operations
type RedisClient struct {
	Client *redis.Client
}

// NewRedisClient creates a new Redis client instance. Addr may be a plain
// host:port or a redis:// URL.
func NewRedisClient(Addr string, DB int) (*RedisClient, error) {
	var client *redis.Client
	if strings.HasPrefix(Addr, "redis://") || strings.HasPrefix(Addr, "rediss://") {
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			return nil, fmt.Errorf("error parsing Redis URL: %v", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &RedisClient{Client: client}, nil
}

// SaveCourtState stores the court metadata
// Key format: "court:{name}:state"
// No TTL, the court state lives until cleared
func (rc *RedisClient) SaveCourtState(ctx context.Context, state redis_models.CourtState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("error marshaling court state: %v", err)
	}
	key := redis_utils.FormatCourtKey(redis_utils.DefaultCourt)
	if err := rc.Client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("error saving court state: %v", err)
	}
	return nil
}

// GetCourtState retrieves the court metadata, falling back to the defaults
// when nothing has been stored yet
func (rc *RedisClient) GetCourtState(ctx context.Context) (redis_models.CourtState, error) {
	return readCourtState(ctx, rc.Client, redis_utils.FormatCourtKey(redis_utils.DefaultCourt))
}

// MaxUpdateAttempts bounds how often UpdateCourtState retries after losing a
// race on the watched key.
const MaxUpdateAttempts = 10

var ErrCourtStateContended = errors.New("court state kept changing, update abandoned")

// UpdateCourtState reads the court metadata, applies mutate and writes it back
// with WATCH/MULTI, so a concurrent writer makes the update start over instead
// of being overwritten. Errors from mutate abort without writing.
func (rc *RedisClient) UpdateCourtState(ctx context.Context, mutate func(state *redis_models.CourtState) error) (redis_models.CourtState, error) {
	key := redis_utils.FormatCourtKey(redis_utils.DefaultCourt)

	var updated redis_models.CourtState
	txf := func(tx *redis.Tx) error {
		state, err := readCourtState(ctx, tx, key)
		if err != nil {
			return err
		}
		if err := mutate(&state); err != nil {
			return err
		}
		data, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("error marshaling court state: %v", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		if err == nil {
			updated = state
		}
		return err
	}

	for attempt := 0; attempt < MaxUpdateAttempts; attempt++ {
		err := rc.Client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return redis_models.CourtState{}, err
		}
	}
	return redis_models.CourtState{}, ErrCourtStateContended
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readCourtState(ctx context.Context, c stringGetter, key string) (redis_models.CourtState, error) {
	data, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return redis_models.DefaultCourtState(), nil
		}
		return redis_models.CourtState{}, fmt.Errorf("error getting court state: %v", err)
	}

	var state redis_models.CourtState
	if err := json.Unmarshal(data, &state); err != nil {
		return redis_models.CourtState{}, fmt.Errorf("error unmarshaling court state: %v", err)
	}
	return state, nil
}

// ClearCourtState removes the stored court metadata
func (rc *RedisClient) ClearCourtState(ctx context.Context) error {
	return rc.CleanupKeys(ctx, []string{redis_utils.FormatCourtKey(redis_utils.DefaultCourt)})
}

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(ctx context.Context, keys []string) error {
	for _, key := range keys {
		if err := rc.Client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %v", key, err)
		}
	}
	return nil
}
