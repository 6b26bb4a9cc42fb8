// Package cache provides Redis caching utilities for the application.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"agora/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// rdb is nil whenever the cache is unavailable; every helper treats a nil
// client as cache-off and falls through to the source of truth.
var rdb *redis.Client

const pingTimeout = 5 * time.Second

// errCounterHook feeds failed commands into the redis error counter so
// cache degradation shows up on the metrics endpoint. A redis.Nil reply is
// an ordinary miss, not an error.
type errCounterHook struct{}

func (errCounterHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (errCounterHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (errCounterHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// parseTarget accepts either a redis:// URL or a bare host:port.
func parseTarget(target string) (*redis.Options, error) {
	if strings.Contains(target, "://") {
		return redis.ParseURL(target)
	}
	return &redis.Options{Addr: target}, nil
}

// InitRedis connects the shared cache client. The cache is optional: any
// failure here leaves the client nil and the API serves uncached.
func InitRedis(target string) {
	opts, err := parseTarget(target)
	if err != nil {
		slog.Warn("cache disabled: bad redis target", "target", target, "error", err)
		rdb = nil
		return
	}

	c := redis.NewClient(opts)
	c.AddHook(errCounterHook{})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		slog.Warn("cache disabled: redis unreachable", "error", err)
		rdb = nil
		return
	}

	slog.Info("redis cache connected", "addr", opts.Addr)
	rdb = c
}

// GetClient returns the shared cache client, or nil when the cache is off.
func GetClient() *redis.Client {
	return rdb
}

// SetClient overrides the cache client. Intended for tests.
func SetClient(c *redis.Client) {
	rdb = c
}
