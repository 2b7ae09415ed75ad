package cache

import (
	"context"
	"fmt"
	"time"

	"hospital-booking/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// NewRedisClient connects to the Redis instance shared with the identity
// service. It holds access tokens and the availability cache.
func NewRedisClient(cfg config.RedisConfig, log *logrus.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.OpTimeout,
		WriteTimeout: cfg.OpTimeout,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s:%s: %w", cfg.Host, cfg.Port, err)
	}

	log.WithFields(logrus.Fields{"addr": client.Options().Addr, "db": cfg.DB}).Info("Successfully connected to Redis")

	return client, nil
}
