package store

import (
	"context"
	"sync"

	"github.com/rushteam/shoprec/core"
)

// MemoryInteractions 是交互日志的进程内实现，追加写。
type MemoryInteractions struct {
	mu     sync.Mutex
	events []*core.Interaction
}

func NewMemoryInteractions() *MemoryInteractions {
	return &MemoryInteractions{}
}

func (m *MemoryInteractions) Create(ctx context.Context, inter *core.Interaction) error {
	m.mu.Lock()
	m.events = append(m.events, inter)
	m.mu.Unlock()
	return nil
}

// Events 返回当前全部事件的快照（测试用）。
func (m *MemoryInteractions) Events() []*core.Interaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*core.Interaction(nil), m.events...)
}
