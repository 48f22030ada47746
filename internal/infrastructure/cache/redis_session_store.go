package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisSessionStore tracks active impersonation sessions in Redis.
// Suitable for distributed deployments where multiple instances need to
// resolve the same admin's session.
type RedisSessionStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisSessionStore creates a new Redis-backed session store
func NewRedisSessionStore(cfg RedisConfig, ttl time.Duration) (*RedisSessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisSessionStoreWithClient(client, "", ttl), nil
}

// NewRedisSessionStoreWithClient creates a store with an existing Redis
// client. Useful for testing or when sharing a client across components.
func NewRedisSessionStoreWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisSessionStore {
	if keyPrefix == "" {
		keyPrefix = "impersonation:session:"
	}
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &RedisSessionStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// SetActiveSession records the audit log entry backing the admin's
// current session. The TTL is a safety net; sessions are normally
// cleared explicitly on stop.
func (s *RedisSessionStore) SetActiveSession(ctx context.Context, adminID, logID uuid.UUID) error {
	key := s.keyPrefix + adminID.String()
	if err := s.client.Set(ctx, key, logID.String(), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to record session pointer: %w", err)
	}
	return nil
}

// GetActiveSession resolves the admin's current session, if any
func (s *RedisSessionStore) GetActiveSession(ctx context.Context, adminID uuid.UUID) (uuid.UUID, bool, error) {
	key := s.keyPrefix + adminID.String()

	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to read session pointer: %w", err)
	}

	logID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt session pointer for admin %s: %w", adminID, err)
	}
	return logID, true, nil
}

// ClearActiveSession removes the admin's session pointer. Clearing a
// missing pointer is not an error.
func (s *RedisSessionStore) ClearActiveSession(ctx context.Context, adminID uuid.UUID) error {
	key := s.keyPrefix + adminID.String()
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to clear session pointer: %w", err)
	}
	return nil
}

// Close closes the underlying Redis connection
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}
