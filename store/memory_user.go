package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rushteam/shoprec/core"
)

// MemoryUsers 是用户仓储的进程内实现。
// 画像更新在写锁内完成，并发交互事件不会丢更新。
type MemoryUsers struct {
	mu    sync.RWMutex
	users map[string]*core.UserProfile

	// maxRecentViews 近期浏览保留条数
	maxRecentViews int
}

func NewMemoryUsers(seed ...*core.UserProfile) *MemoryUsers {
	m := &MemoryUsers{
		users:          make(map[string]*core.UserProfile, len(seed)),
		maxRecentViews: 20,
	}
	for _, u := range seed {
		m.users[u.UserID] = u
	}
	return m
}

// Put 新增或覆盖用户（测试用）。
func (m *MemoryUsers) Put(u *core.UserProfile) {
	m.mu.Lock()
	m.users[u.UserID] = u
	m.mu.Unlock()
}

func (m *MemoryUsers) FindByID(ctx context.Context, id string) (*core.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return cloneProfile(u), nil
}

// FindSimilarCandidates 粗筛与给定用户共享至少一个偏好类目的用户。
// 精确相似度由召回层计算；这里只负责把候选规模压到 limit 以内。
func (m *MemoryUsers) FindSimilarCandidates(
	ctx context.Context,
	u *core.UserProfile,
	limit int,
) ([]*core.UserProfile, error) {
	catSet := make(map[string]struct{}, len(u.Preferences.Categories))
	for _, c := range u.Preferences.Categories {
		catSet[c] = struct{}{}
	}

	m.mu.RLock()
	matched := make([]*core.UserProfile, 0, 16)
	for _, other := range m.users {
		if other.UserID == u.UserID {
			continue
		}
		for _, c := range other.Preferences.Categories {
			if _, ok := catSet[c]; ok {
				matched = append(matched, cloneProfile(other))
				break
			}
		}
	}
	m.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].UserID < matched[j].UserID })
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// ApplyInteraction 原子更新行为画像：整个 read-modify-write 在写锁内完成。
func (m *MemoryUsers) ApplyInteraction(
	ctx context.Context,
	userID string,
	inter *core.Interaction,
	now time.Time,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return core.ErrNotFound
	}
	u.ApplyInteraction(inter, now)
	if inter.Type == core.InteractionView {
		u.AddRecentView(inter.ProductID, 0, now, m.maxRecentViews)
	}
	return nil
}

func cloneProfile(u *core.UserProfile) *core.UserProfile {
	cp := *u
	cp.Preferences.Categories = append([]string(nil), u.Preferences.Categories...)
	cp.Preferences.Brands = append([]string(nil), u.Preferences.Brands...)
	cp.Behavior.FavoriteCategories = append([]string(nil), u.Behavior.FavoriteCategories...)
	cp.RecentViews = append([]core.RecentView(nil), u.RecentViews...)
	return &cp
}
