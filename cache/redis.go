package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rushteam/shoprec/core"
)

// Redis 是 Redis 实现的缓存后端。生产环境常用，支持持久化、集群、哨兵等。
type Redis struct {
	client *redis.Client
}

// NewRedis 创建 Redis 后端并探活；连不上时返回错误，
// 由调用方决定是否降级为纯内存（见 NewTiered）。
func NewRedis(addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,

		MaxRetries:  1,
		DialTimeout: 5 * time.Second,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Name() string { return "redis" }

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, core.ErrCacheMiss
	}
	return val, err
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// DeletePattern 删除匹配模式的所有 key。推荐缓存的 key 空间有限
// （按用户/商品分片），KEYS 的线性扫描在此规模下可接受。
func (r *Redis) DeletePattern(ctx context.Context, pattern string) error {
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
