// Package cache 实现推荐结果的缓存层：远端 KV 后端 + 进程内降级。
//
// 对外（core.Cache）永不返回错误；后端接口（Backend）保留错误语义，
// 由 Tiered 统一吞掉并降级。
package cache

import (
	"context"
	"time"
)

// Backend 是缓存后端的内部契约，由 Memory / Redis 实现。
// miss 返回 core.ErrCacheMiss；其余错误视为后端故障，触发降级。
type Backend interface {
	// Name 返回后端名称（用于日志/监控）
	Name() string

	// Get 读取单个 key 的值
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入单个 key-value，ttl 为正时设置过期
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete 删除单个 key
	Delete(ctx context.Context, key string) error

	// DeletePattern 删除匹配 '*' 通配模式的所有 key
	DeletePattern(ctx context.Context, pattern string) error

	// Ping 探活
	Ping(ctx context.Context) error

	// Close 关闭连接/释放资源
	Close() error
}
