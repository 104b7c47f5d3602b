package cache

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rushteam/shoprec/core"
)

// Memory 是进程内实现的缓存后端，同时充当远端故障时的降级层。
// 支持 TTL（按条过期 + 定期清扫），并发安全；进程重启后数据丢失。
type Memory struct {
	mu    sync.RWMutex
	data  map[string]memEntry
	clean *time.Ticker
	done  chan struct{}
}

type memEntry struct {
	value     []byte
	expiresAt time.Time // 零值表示永不过期
}

func (e memEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// NewMemory 创建进程内缓存，后台每 10s 清扫一次过期条目。
func NewMemory() *Memory {
	m := &Memory{
		data:  make(map[string]memEntry),
		clean: time.NewTicker(10 * time.Second),
		done:  make(chan struct{}),
	}
	go m.cleanup()
	return m
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.data[key]
	if !ok || e.expired(time.Now()) {
		return nil, core.ErrCacheMiss
	}
	return e.value, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	e := memEntry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.data[key] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// DeletePattern 删除匹配 '*' 通配模式的所有 key。
// 通配模式翻译为锚定正则：'*' → '.*'，其余字符按字面匹配。
func (m *Memory) DeletePattern(ctx context.Context, pattern string) error {
	re, err := compileGlob(pattern)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.data {
		if re.MatchString(key) {
			delete(m.data, key)
		}
	}
	return nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) Close() error {
	m.clean.Stop()
	close(m.done)
	return nil
}

// Len 返回当前（含未清扫过期）条目数，测试用。
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *Memory) cleanup() {
	for {
		select {
		case <-m.done:
			return
		case <-m.clean.C:
			now := time.Now()
			m.mu.Lock()
			for key, e := range m.data {
				if e.expired(now) {
					delete(m.data, key)
				}
			}
			m.mu.Unlock()
		}
	}
}

// compileGlob 把 '*' 通配模式编译为锚定正则。
func compileGlob(pattern string) (*regexp.Regexp, error) {
	quoted := regexp.QuoteMeta(pattern)
	expr := "^" + strings.ReplaceAll(quoted, `\*`, ".*") + "$"
	return regexp.Compile(expr)
}
