package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	PingTO   time.Duration
}

// OpenRedis connects the Redis store that backs personas, terminal
// snapshots, deployments and settings. Redis is required; a failed ping
// is fatal at startup.
func OpenRedis(ctx context.Context, opt RedisOptions) (*redis.Client, error) {
	if opt.PingTO == 0 {
		opt.PingTO = 2 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opt.Addr,
		Password: opt.Password,
		DB:       opt.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, opt.PingTO)
	defer cancel()

	if err := client.Ping(pctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
