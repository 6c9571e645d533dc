package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"dailydiet/internal/database"
)

// ErrKeyNotFound is returned by a Store when the key is absent or expired
var ErrKeyNotFound = errors.New("key not found")

// Store defines the interface for session storage operations
type Store interface {
	// SetNX stores the value only if the key is absent and reports whether it did
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Ping(ctx context.Context) error
	// Close releases connections the store owns
	Close() error
}

// redisStore implements Store interface using Redis
type redisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis-backed session store
func NewRedisStore(addr, password string, db int) Store {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &redisStore{
		client: client,
	}
}

func (s *redisStore) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, value, ttl).Result()
}

// Get retrieves a value by key
func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	return value, err
}

func (s *redisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close shuts down the Redis connection pool
func (s *redisStore) Close() error {
	return s.client.Close()
}

// postgresStore implements Store on the sessions table.
// Expired rows are invisible to reads and replaced on write.
type postgresStore struct {
	db database.Service
}

// NewPostgresStore creates a session store backed by the sessions table
func NewPostgresStore(db database.Service) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	res, err := s.db.Exec(ctx, `
		INSERT INTO sessions (key, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at
		WHERE sessions.expires_at <= NOW()
	`, key, value, time.Now().Add(ttl))
	if err != nil {
		return false, fmt.Errorf("failed to store key: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (s *postgresStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRow(ctx, `
		SELECT value FROM sessions
		WHERE key = $1 AND expires_at > NOW()
	`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read key: %w", err)
	}
	return value, nil
}

func (s *postgresStore) Ping(ctx context.Context) error {
	var one int
	return s.db.QueryRow(ctx, `SELECT 1`).Scan(&one)
}

// Close is a no-op; the database pool belongs to the caller
func (s *postgresStore) Close() error {
	return nil
}
