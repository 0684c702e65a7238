package utils

import (
	"FileVault/internal/dto"
	"FileVault/internal/repo"
	"FileVault/model"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

var errCacheUnavailable = errors.New("cache not available")

type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis cache client. A nil client degrades every
// operation to a miss so the service keeps working without Redis.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get reads a cached value.
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return errCacheUnavailable
	}
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// Set writes a cached value.
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if c.client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, string(data), expiration).Err()
}

// Delete removes a cache entry.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, key).Err()
}

// DeleteByPattern deletes cache entries by pattern.
func (c *RedisCache) DeleteByPattern(ctx context.Context, pattern string) error {
	if c.client == nil {
		return nil
	}
	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return nil
}

type CacheManager struct {
	cache Cache
}

var globalCacheManager *CacheManager
var cacheManagerOnce sync.Once

// InitCacheManager initializes the cache manager.
func InitCacheManager() {
	cacheManagerOnce.Do(func() {
		globalCacheManager = &CacheManager{
			cache: NewRedisCache(repo.Redis),
		}
	})
}

// GetCacheManager returns the cache manager.
func GetCacheManager() *CacheManager {
	if globalCacheManager == nil {
		InitCacheManager()
	}
	return globalCacheManager
}

// BuildCacheKey builds a cache key.
func BuildCacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key += fmt.Sprintf(":%v", param)
	}
	return key
}

const (
	CacheKeyAuthToken = "auth:token"
	CacheKeyFileList  = "user:file:list"
)

// GetUserByTokenFromCache reads a cached token resolution. The Password
// and Token fields are always empty on a hit: the cached value travels
// through JSON and both carry json:"-". Callers get identity fields only.
func GetUserByTokenFromCache(ctx context.Context, token string) (*model.User, bool) {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyAuthToken, token)

	var result model.User
	if err := manager.cache.Get(ctx, key, &result); err != nil {
		return nil, false
	}
	if result.ID == 0 {
		return nil, false
	}
	return &result, true
}

// SetUserByTokenToCache caches a token resolution. Password and Token are
// stripped by the JSON encoding, so the cache never holds credentials.
func SetUserByTokenToCache(ctx context.Context, token string, user *model.User, expiration time.Duration) error {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyAuthToken, token)
	return manager.cache.Set(ctx, key, user, expiration)
}

// GetFileListFromCache reads a cached file list page.
func GetFileListFromCache(ctx context.Context, userID uint64, page, pageSize int) (*dto.FileListResponse, bool) {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyFileList, userID, page, pageSize)

	var result dto.FileListResponse
	if err := manager.cache.Get(ctx, key, &result); err != nil {
		return nil, false
	}
	return &result, true
}

// SetFileListToCache caches a file list page.
func SetFileListToCache(ctx context.Context, userID uint64, page, pageSize int, data *dto.FileListResponse, expiration time.Duration) error {
	manager := GetCacheManager()
	key := BuildCacheKey(CacheKeyFileList, userID, page, pageSize)
	return manager.cache.Set(ctx, key, data, expiration)
}

// InvalidateFileListCache clears every cached list page for a user.
func InvalidateFileListCache(ctx context.Context, userID uint64) error {
	manager := GetCacheManager()
	pattern := BuildCacheKey(CacheKeyFileList, userID) + ":*"
	cache, ok := manager.cache.(*RedisCache)
	if !ok {
		return manager.cache.Delete(ctx, pattern)
	}
	return cache.DeleteByPattern(ctx, pattern)
}
