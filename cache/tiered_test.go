package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/shoprec/core"
)

// flakyBackend 模拟可开关故障的远端后端。
type flakyBackend struct {
	inner *Memory
	down  bool
}

func newFlakyBackend() *flakyBackend {
	return &flakyBackend{inner: NewMemory()}
}

var errDown = errors.New("connection refused")

func (f *flakyBackend) Name() string { return "flaky" }

func (f *flakyBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if f.down {
		return nil, errDown
	}
	return f.inner.Get(ctx, key)
}

func (f *flakyBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if f.down {
		return errDown
	}
	return f.inner.Set(ctx, key, value, ttl)
}

func (f *flakyBackend) Delete(ctx context.Context, key string) error {
	if f.down {
		return errDown
	}
	return f.inner.Delete(ctx, key)
}

func (f *flakyBackend) DeletePattern(ctx context.Context, pattern string) error {
	if f.down {
		return errDown
	}
	return f.inner.DeletePattern(ctx, pattern)
}

func (f *flakyBackend) Ping(ctx context.Context) error {
	if f.down {
		return errDown
	}
	return nil
}

func (f *flakyBackend) Close() error { return f.inner.Close() }

var _ Backend = (*flakyBackend)(nil)

func TestTieredRemoteRoundtrip(t *testing.T) {
	remote := newFlakyBackend()
	tc := NewTiered(remote, zerolog.Nop())
	defer tc.Close()
	ctx := context.Background()

	tc.Set(ctx, "k", []byte("v"), 0)
	got, ok := tc.Get(ctx, "k")
	if !ok || string(got) != "v" {
		t.Errorf("Get = %q, %v", got, ok)
	}
}

func TestTieredFallsBackToMemory(t *testing.T) {
	remote := newFlakyBackend()
	remote.down = true
	tc := NewTiered(remote, zerolog.Nop())
	defer tc.Close()
	ctx := context.Background()

	// 远端故障：写入落到内存，读取照常命中，调用方无感知
	tc.Set(ctx, "k", []byte("v"), 0)
	got, ok := tc.Get(ctx, "k")
	if !ok || string(got) != "v" {
		t.Fatalf("degraded Get = %q, %v", got, ok)
	}

	// 降级期间 DeletePattern 必须能失效内存里的条目
	tc.DeletePattern(ctx, "k*")
	if _, ok := tc.Get(ctx, "k"); ok {
		t.Error("entry must be invalidated in memory tier")
	}
}

func TestTieredPingRestoresRemote(t *testing.T) {
	remote := newFlakyBackend()
	remote.down = true
	tc := NewTiered(remote, zerolog.Nop())
	defer tc.Close()
	ctx := context.Background()

	tc.Set(ctx, "k", []byte("v"), 0) // 触发降级
	if tc.Ping(ctx) {
		t.Fatal("Ping should fail while remote is down")
	}

	remote.down = false
	if !tc.Ping(ctx) {
		t.Fatal("Ping should succeed after recovery")
	}

	// 恢复后写入走远端
	tc.Set(ctx, "k2", []byte("v2"), 0)
	if got, err := remote.inner.Get(ctx, "k2"); err != nil || string(got) != "v2" {
		t.Errorf("remote after recovery = %q, %v", got, err)
	}
}

func TestTieredNilRemote(t *testing.T) {
	tc := NewTiered(nil, zerolog.Nop())
	defer tc.Close()
	ctx := context.Background()

	tc.Set(ctx, "k", []byte("v"), 0)
	if got, ok := tc.Get(ctx, "k"); !ok || string(got) != "v" {
		t.Errorf("Get = %q, %v", got, ok)
	}
	if tc.Ping(ctx) {
		t.Error("Ping without remote must report false")
	}
}

func TestTieredMissReturnsFalse(t *testing.T) {
	tc := NewTiered(newFlakyBackend(), zerolog.Nop())
	defer tc.Close()

	if _, ok := tc.Get(context.Background(), "missing"); ok {
		t.Error("miss must report ok=false")
	}
	var _ core.Cache = tc
}
