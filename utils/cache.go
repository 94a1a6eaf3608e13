package utils

import (
	"context"
	"log"
	"time"

	"slotbook/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient holds verification codes and other short-lived values.
	CacheClient *redis.Client
	// AuthCacheClient is the dedicated client for token caching and revocation.
	AuthCacheClient *redis.Client
)

func newRedisClient(db int, name string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", name, err)
	}
	return client
}

// InitCache initializes the generic Redis cache client.
func InitCache() {
	CacheClient = newRedisClient(config.AppConfig.RedisCacheDB, "Cache")
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitAuthCache initializes the Redis client for authorization caching.
func InitAuthCache() {
	AuthCacheClient = newRedisClient(config.AppConfig.RedisAuthDB, "Auth Cache")
}

// GetAuthCacheClient returns the Redis client for authorization caching.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		InitAuthCache()
	}
	return AuthCacheClient
}

// InitRedis initializes every Redis client used by the API.
func InitRedis() {
	InitCache()
	InitAuthCache()
}
