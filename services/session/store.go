// Package session tracks issued bearer tokens: a short-lived cache of
// validated tokens and the set of tokens revoked by logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"slotbook/utils"

	"github.com/go-redis/redis/v8"
)

var ErrNotCached = errors.New("token not cached")

type Store interface {
	// Remember caches the subject of a validated token hash.
	Remember(ctx context.Context, tokenHash, userID string, ttl time.Duration) error
	// Lookup returns the cached subject and refreshes its TTL. ErrNotCached on a miss.
	Lookup(ctx context.Context, tokenHash string, ttl time.Duration) (string, error)
	// Revoke blocks the token until it would have expired anyway.
	Revoke(ctx context.Context, tokenHash string, until time.Time) error
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}

// RedisStore keeps "auth:<hash>" and "revoked:<hash>" keys in the auth cache DB.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Remember(ctx context.Context, tokenHash, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, utils.AuthCachePrefix+tokenHash, userID, ttl).Err()
}

func (s *RedisStore) Lookup(ctx context.Context, tokenHash string, ttl time.Duration) (string, error) {
	key := utils.AuthCachePrefix + tokenHash
	userID, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrNotCached
	}
	if err != nil {
		return "", fmt.Errorf("failed to read auth cache: %w", err)
	}
	_ = s.client.Expire(ctx, key, ttl).Err()
	return userID, nil
}

func (s *RedisStore) Revoke(ctx context.Context, tokenHash string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, utils.AuthCachePrefix+tokenHash)
	pipe.Set(ctx, utils.RevokedTokenPrefix+tokenHash, 1, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *RedisStore) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	n, err := s.client.Exists(ctx, utils.RevokedTokenPrefix+tokenHash).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}
	return n > 0, nil
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu      sync.Mutex
	cached  map[string]string
	revoked map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cached: make(map[string]string), revoked: make(map[string]time.Time)}
}

func (s *MemoryStore) Remember(_ context.Context, tokenHash, userID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached[tokenHash] = userID
	return nil
}

func (s *MemoryStore) Lookup(_ context.Context, tokenHash string, _ time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.cached[tokenHash]
	if !ok {
		return "", ErrNotCached
	}
	return userID, nil
}

func (s *MemoryStore) Revoke(_ context.Context, tokenHash string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cached, tokenHash)
	s.revoked[tokenHash] = until
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, tokenHash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.revoked[tokenHash]
	return ok && time.Now().Before(until), nil
}
