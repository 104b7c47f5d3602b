package core

import (
	"context"
	"time"
)

// Cache 是缓存层对推荐链路暴露的契约。
//
// 设计要点：
//   - 对调用方永不返回错误：远端故障由实现内部降级到进程内存，
//     行为对外完全透明
//   - 读到过期条目视为 miss；写入必须带显式 TTL
//   - DeletePattern 支持 '*' 通配，用于交互事件后的定向失效
//
// 作为注入能力传入各组件，而非模块级单例，便于用内存假实现测试。
type Cache interface {
	// Get 读取 key；miss（含过期）时 ok 为 false
	Get(ctx context.Context, key string) (value []byte, ok bool)

	// Set 写入 key，ttl 必须为正
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)

	// Delete 删除单个 key
	Delete(ctx context.Context, key string)

	// DeletePattern 删除匹配 '*' 通配模式的所有 key
	DeletePattern(ctx context.Context, pattern string)
}
