// Package locks provides best-effort advisory locks backed by Redis.
// Callers use them to discourage overlapping batch runs, not to enforce
// correctness; operations guarded by these locks must remain safe when
// the lock cannot be taken or Redis is unreachable.
package locks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/tendline/tendline/pkg/lifecycle"
)

// System acquires and releases named advisory locks.
type System interface {
	// TryAcquire takes the named lock for at most ttl. It returns false
	// when another holder already owns the lock.
	TryAcquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
	// Release drops the named lock. Releasing an expired or unheld lock
	// is not an error.
	Release(ctx context.Context, name string) error
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type redisLocks struct {
	client *redis.Client
	logger *slog.Logger
	prefix string
}

// New creates a Redis-backed lock system.
func New(cfg *Config, logger *slog.Logger) System {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &redisLocks{
		client: client,
		logger: logger.With("system", "locks"),
		prefix: cfg.KeyPrefix,
	}
}

func (l *redisLocks) TryAcquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(name), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	return ok, nil
}

func (l *redisLocks) Release(ctx context.Context, name string) error {
	if err := l.client.Del(ctx, l.key(name)).Err(); err != nil {
		return fmt.Errorf("release lock %s: %w", name, err)
	}
	return nil
}

func (l *redisLocks) Start(lc *lifecycle.Coordinator) error {
	l.logger.Info("starting lock system")

	lc.OnStartup(func() {
		if err := l.client.Ping(lc.Context()).Err(); err != nil {
			l.logger.Warn("redis ping failed, locks degrade to best-effort", "error", err)
			return
		}
		l.logger.Info("redis connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := l.client.Close(); err != nil {
			l.logger.Error("redis close failed", "error", err)
		}
	})

	return nil
}

func (l *redisLocks) key(name string) string {
	return l.prefix + name
}
