package verification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"slotbook/utils"

	"github.com/go-redis/redis/v8"
)

var ErrCodeNotFound = errors.New("verification code not found or expired")

// CodeStore keeps one pending code per e-mail address.
type CodeStore interface {
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

// RedisCodeStore stores codes under "verify:<email>" with a TTL.
type RedisCodeStore struct {
	client *redis.Client
}

func NewRedisCodeStore(client *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{client: client}
}

func (s *RedisCodeStore) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, utils.VerificationCodePrefix+email, code, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	return nil
}

func (s *RedisCodeStore) Get(ctx context.Context, email string) (string, error) {
	code, err := s.client.Get(ctx, utils.VerificationCodePrefix+email).Result()
	if err == redis.Nil {
		return "", ErrCodeNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read verification code: %w", err)
	}
	return code, nil
}

func (s *RedisCodeStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, utils.VerificationCodePrefix+email).Err()
}

// MemoryCodeStore is a process-local CodeStore.
type MemoryCodeStore struct {
	mu    sync.Mutex
	codes map[string]memoryCode
	now   func() time.Time
}

type memoryCode struct {
	code      string
	expiresAt time.Time
}

func NewMemoryCodeStore() *MemoryCodeStore {
	return &MemoryCodeStore{codes: make(map[string]memoryCode), now: time.Now}
}

func (s *MemoryCodeStore) Save(_ context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = memoryCode{code: code, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryCodeStore) Get(_ context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.codes[email]
	if !ok || !s.now().Before(c.expiresAt) {
		delete(s.codes, email)
		return "", ErrCodeNotFound
	}
	return c.code, nil
}

func (s *MemoryCodeStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, email)
	return nil
}
