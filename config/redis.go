package config

import (
	"Courtside/services/redis"

	"github.com/rs/zerolog"
)

// Connect to Redis
func Connect_redis(cfg *Config, l zerolog.Logger) (*redis.RedisClient, error) {
	redisClient, err := redis.InitRedis(cfg.RedisURL, 0)
	if err != nil {
		return nil, err
	}
	l.Info().Msg("Redis connection established")
	return redisClient, nil
}
