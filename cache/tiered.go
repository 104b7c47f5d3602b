package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/shoprec/core"
)

// Tiered 实现 core.Cache：远端后端 + 进程内降级，对调用方永不报错。
//
// 行为约定：
//   - 远端可用时读写远端；任一操作报错即降级到内存重试一次，
//     并把远端标记为不可用（日志告警，不冒泡）
//   - 远端不可用期间全部走内存；Ping 成功后恢复远端
//   - DeletePattern 同时作用于远端与内存：降级期间写进内存的条目
//     也必须被失效掉
type Tiered struct {
	remote    Backend
	local     *Memory
	available atomic.Bool
	log       zerolog.Logger
}

// NewTiered 创建分层缓存。remote 可为 nil（纯内存，测试/开发用）。
func NewTiered(remote Backend, log zerolog.Logger) *Tiered {
	t := &Tiered{
		remote: remote,
		local:  NewMemory(),
		log:    log.With().Str("component", "cache").Logger(),
	}
	t.available.Store(remote != nil)
	return t
}

var _ core.Cache = (*Tiered)(nil)

func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool) {
	if t.remoteOK() {
		val, err := t.remote.Get(ctx, key)
		switch {
		case err == nil:
			return val, true
		case core.IsNotFound(err):
			// 远端 miss 时仍查一次内存：降级期间写入的条目不应凭空消失
		default:
			t.degrade("get", err)
		}
	}

	val, err := t.local.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	return val, true
}

func (t *Tiered) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if t.remoteOK() {
		err := t.remote.Set(ctx, key, value, ttl)
		if err == nil {
			return
		}
		t.degrade("set", err)
	}
	_ = t.local.Set(ctx, key, value, ttl)
}

func (t *Tiered) Delete(ctx context.Context, key string) {
	if t.remoteOK() {
		if err := t.remote.Delete(ctx, key); err != nil {
			t.degrade("delete", err)
		}
	}
	_ = t.local.Delete(ctx, key)
}

func (t *Tiered) DeletePattern(ctx context.Context, pattern string) {
	if t.remoteOK() {
		if err := t.remote.DeletePattern(ctx, pattern); err != nil {
			t.degrade("delete_pattern", err)
		}
	}
	_ = t.local.DeletePattern(ctx, pattern)
}

// Ping 探活远端；成功时恢复远端服务。返回远端当前是否可用。
func (t *Tiered) Ping(ctx context.Context) bool {
	if t.remote == nil {
		return false
	}
	if err := t.remote.Ping(ctx); err != nil {
		t.available.Store(false)
		return false
	}
	t.available.Store(true)
	return true
}

// Close 释放远端连接与内存清扫协程。
func (t *Tiered) Close() error {
	_ = t.local.Close()
	if t.remote != nil {
		return t.remote.Close()
	}
	return nil
}

func (t *Tiered) remoteOK() bool {
	return t.remote != nil && t.available.Load()
}

func (t *Tiered) degrade(op string, err error) {
	t.available.Store(false)
	t.log.Warn().Err(err).Str("op", op).Str("backend", t.remote.Name()).
		Msg("remote cache failed, falling back to memory")
}
