// Package bootstrap wires optional runtime dependencies from configuration.
package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/clinicbook/booking-portal/internal/config"
	"github.com/clinicbook/booking-portal/internal/wizard"
	"github.com/clinicbook/booking-portal/pkg/logging"
)

// BuildRedisClient creates a Redis client from config, or nil when Redis is
// not configured or not reachable.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		return nil
	}
	return client
}

// BuildSessionStore returns the Redis-backed session store when Redis is
// available, falling back to the in-process store for single-replica runs.
func BuildSessionStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) wizard.SessionStore {
	if logger == nil {
		logger = logging.Default()
	}
	if client := BuildRedisClient(ctx, cfg, logger, true); client != nil {
		logger.Info("using redis session store", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)
		return wizard.NewRedisStore(client, cfg.SessionTTL)
	}
	logger.Info("using in-memory session store", "ttl", cfg.SessionTTL)
	return wizard.NewMemoryStore(cfg.SessionTTL)
}
