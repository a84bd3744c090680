package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/devanshhooda/learn-live-server/internal/config"
)

// ConnectRedis opens the rate-limit store described by cfg and pings it
// within the given deadline. The client is closed again on a failed ping.
func ConnectRedis(cfg config.RedisCfg, deadline time.Duration, log *zap.SugaredLogger) (*redis.Client, error) {
	if deadline <= 0 {
		deadline = 5 * time.Second
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), deadline)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	log.Infof("Connected to Redis at %s", cfg.Addr)
	return rdb, nil
}
