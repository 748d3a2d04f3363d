package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/healthassist-server/internal/domain"
)

const keyPrefix = "session:"

var _ domain.SessionStore = (*RedisStore)(nil)

// RedisStore keeps sessions as JSON values that expire with the session.
type RedisStore struct {
	client *redis.Client
	log    *logrus.Logger
	now    func() time.Time
}

// NewRedisStore connects to the configured Redis and verifies it responds.
func NewRedisStore(ctx context.Context, cfg domain.RedisConfig, logger *logrus.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.PoolTimeout > 0 {
		opts.PoolTimeout = cfg.PoolTimeout
	}
	opts.MaxRetries = cfg.MaxRetries

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.WithField("addr", opts.Addr).Info("Redis session store connected")

	return NewRedisStoreWithClient(client, logger), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, logger *logrus.Logger) *RedisStore {
	return &RedisStore{client: client, log: logger, now: time.Now}
}

func sessionKey(id string) string {
	return keyPrefix + id
}

// Create stores the session until its expiry.
func (s *RedisStore) Create(ctx context.Context, session *domain.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", session.ID)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(session.ID), data, ttl).Err(); err != nil {
		s.log.WithError(err).Error("Failed to store session")
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

// Get loads a live session.
func (s *RedisStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	val, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(val, &session); err != nil {
		s.client.Del(ctx, sessionKey(id))
		return nil, domain.ErrSessionNotFound
	}
	if session.Expired(s.now()) {
		s.client.Del(ctx, sessionKey(id))
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
