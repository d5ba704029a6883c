// Package share provides Redis-backed storage for public share-link tokens.
package share

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnknownToken is returned when a token is absent or has expired.
var ErrUnknownToken = errors.New("share token not found or expired")

// tokenData is what gets stored for each share token. Tokens themselves are
// never persisted, only their SHA-256 hashes.
type tokenData struct {
	DocumentID string    `json:"document_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// RedisStore maps hashed share tokens to document ids with a TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed share store.
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisStoreWithClient(client, ttl), nil
}

// NewRedisStoreWithClient creates a store from an existing Redis client.
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &RedisStore{
		client: client,
		prefix: "share:",
		ttl:    ttl,
	}
}

func (s *RedisStore) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return s.prefix + hex.EncodeToString(sum[:])
}

// Create stores a share token for a document, expiring after the store TTL.
func (s *RedisStore) Create(ctx context.Context, token, documentID string) error {
	data, err := json.Marshal(tokenData{
		DocumentID: documentID,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal token data: %w", err)
	}
	if err := s.client.Set(ctx, s.key(token), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save share token: %w", err)
	}
	return nil
}

// Resolve returns the document id a token points at.
func (s *RedisStore) Resolve(ctx context.Context, token string) (string, error) {
	raw, err := s.client.Get(ctx, s.key(token)).Result()
	if err == redis.Nil {
		return "", ErrUnknownToken
	}
	if err != nil {
		return "", fmt.Errorf("lookup share token: %w", err)
	}
	var data tokenData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return "", fmt.Errorf("unmarshal token data: %w", err)
	}
	return data.DocumentID, nil
}

// Revoke deletes a share token.
func (s *RedisStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("revoke share token: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks if Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
