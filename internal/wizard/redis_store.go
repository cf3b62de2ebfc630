package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// RedisStore keeps wizard sessions in Redis so the portal can run with more
// than one replica. Values are JSON with a TTL matching the wizard lifecycle.
type RedisStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if client == nil {
		panic("wizard: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisStore{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("bookingportal.internal.wizard.store"),
	}
}

func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	ctx, span := s.tracer.Start(ctx, "wizard.save_session")
	defer span.End()

	data, err := json.Marshal(sess)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("wizard: failed to marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(sess.ID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("wizard: failed to persist session: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "wizard.load_session")
	defer span.End()

	data, err := s.redis.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("wizard: failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("wizard: failed to decode session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "wizard.delete_session")
	defer span.End()

	if err := s.redis.Del(ctx, sessionKey(id)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("wizard: failed to delete session: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("booking_session:%s", id)
}
