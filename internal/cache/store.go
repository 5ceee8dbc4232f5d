package cache

import (
	"context"
	"time"

	"eventhub/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store 是 key/value 快取的最小契約。
// 快取掛掉不能影響主流程：所有實作都只能降級成 miss，不能把錯誤丟給 caller。
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Put(ctx context.Context, key string, value string, ttl time.Duration)
	Invalidate(ctx context.Context, key string)
	InvalidatePrefix(ctx context.Context, prefix string)
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) Store {
	return &RedisStore{
		client: client,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		logger.WithComponent("cache").Warn("get failed, treating as miss", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return val, true
}

func (s *RedisStore) Put(ctx context.Context, key string, value string, ttl time.Duration) {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.WithComponent("cache").Warn("put failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *RedisStore) Invalidate(ctx context.Context, key string) {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		logger.WithComponent("cache").Warn("invalidate failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidatePrefix 用 SCAN 逐批刪除，避免 KEYS 掃全庫
func (s *RedisStore) InvalidatePrefix(ctx context.Context, prefix string) {
	iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	keys := make([]string, 0, 100)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == 100 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				logger.WithComponent("cache").Warn("invalidate prefix failed", zap.String("prefix", prefix), zap.Error(err))
				return
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		logger.WithComponent("cache").Warn("invalidate prefix scan failed", zap.String("prefix", prefix), zap.Error(err))
		return
	}
	if len(keys) > 0 {
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			logger.WithComponent("cache").Warn("invalidate prefix failed", zap.String("prefix", prefix), zap.Error(err))
		}
	}
}

// NoopStore 永遠 miss；測試或未配置 Redis 時注入
type NoopStore struct{}

func NewNoopStore() Store {
	return &NoopStore{}
}

func (s *NoopStore) Get(ctx context.Context, key string) (string, bool) {
	return "", false
}

func (s *NoopStore) Put(ctx context.Context, key string, value string, ttl time.Duration) {}

func (s *NoopStore) Invalidate(ctx context.Context, key string) {}

func (s *NoopStore) InvalidatePrefix(ctx context.Context, prefix string) {}
