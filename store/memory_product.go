// Package store 提供 core 仓储契约的进程内实现。
//
// 定位：开发/测试/原型。生产环境由外部目录/用户/订单系统按同一契约接入；
// 本包同时充当契约语义的参考实现（尤其是计数器的原子更新）。
package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rushteam/shoprec/core"
)

// MemoryProducts 是商品仓储的进程内实现。
// 计数器更新在写锁内完成，并发交互事件不会丢更新；
// 读接口返回深拷贝，调用方拿不到内部可变状态。
type MemoryProducts struct {
	mu       sync.RWMutex
	products map[string]*core.Product
}

func NewMemoryProducts(seed ...*core.Product) *MemoryProducts {
	m := &MemoryProducts{products: make(map[string]*core.Product, len(seed))}
	for _, p := range seed {
		m.products[p.ID] = p
	}
	return m
}

// Put 新增或覆盖商品（目录管理入口，测试用）。
func (m *MemoryProducts) Put(p *core.Product) {
	m.mu.Lock()
	m.products[p.ID] = p
	m.mu.Unlock()
}

func (m *MemoryProducts) FindByID(ctx context.Context, id string) (*core.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return cloneProduct(p), nil
}

func (m *MemoryProducts) FindByIDs(ctx context.Context, ids []string) (map[string]*core.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]*core.Product, len(ids))
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out[id] = cloneProduct(p)
		}
	}
	return out, nil
}

func (m *MemoryProducts) FindActiveByIDs(ctx context.Context, ids []string) (map[string]struct{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if p, ok := m.products[id]; ok && p.Sellable() {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

func (m *MemoryProducts) FindByCategoryAndPriceRange(
	ctx context.Context,
	categories []string,
	pr core.PriceRange,
	limit int,
) ([]*core.Product, error) {
	catSet := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		catSet[c] = struct{}{}
	}

	m.mu.RLock()
	matched := make([]*core.Product, 0, 32)
	for _, p := range m.products {
		if p.Status != core.ProductActive {
			continue
		}
		if _, ok := catSet[p.Category]; !ok {
			continue
		}
		if !pr.Contains(p.Price) {
			continue
		}
		matched = append(matched, cloneProduct(p))
	}
	m.mu.RUnlock()

	// map 遍历无序，按 ID 排序保证结果可复现
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return truncate(matched, limit), nil
}

func (m *MemoryProducts) FindTrending(ctx context.Context, limit int) ([]*core.Product, error) {
	m.mu.RLock()
	matched := make([]*core.Product, 0, 32)
	for _, p := range m.products {
		if p.Status == core.ProductActive && p.Trending {
			matched = append(matched, cloneProduct(p))
		}
	}
	m.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.Analytics.Views != b.Analytics.Views {
			return a.Analytics.Views > b.Analytics.Views
		}
		if a.Analytics.Purchases != b.Analytics.Purchases {
			return a.Analytics.Purchases > b.Analytics.Purchases
		}
		return a.ID < b.ID
	})
	return truncate(matched, limit), nil
}

func (m *MemoryProducts) FindPopular(ctx context.Context, limit int) ([]*core.Product, error) {
	m.mu.RLock()
	matched := make([]*core.Product, 0, 32)
	for _, p := range m.products {
		if p.Status == core.ProductActive && p.Featured {
			matched = append(matched, cloneProduct(p))
		}
	}
	m.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.Analytics.Purchases != b.Analytics.Purchases {
			return a.Analytics.Purchases > b.Analytics.Purchases
		}
		return a.ID < b.ID
	})
	return truncate(matched, limit), nil
}

func (m *MemoryProducts) SearchText(ctx context.Context, query string, limit int) ([]*core.Product, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	m.mu.RLock()
	matched := make([]*core.Product, 0, 16)
	for _, p := range m.products {
		if p.Status != core.ProductActive {
			continue
		}
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			matched = append(matched, cloneProduct(p))
		}
	}
	m.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return truncate(matched, limit), nil
}

// UpdateAnalytics 原子更新商品计数器：整个 read-modify-write 在写锁内完成。
func (m *MemoryProducts) UpdateAnalytics(
	ctx context.Context,
	productID string,
	event core.InteractionType,
	amount float64,
	now time.Time,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[productID]
	if !ok {
		return core.ErrNotFound
	}
	if event == core.InteractionPurchase && amount <= 0 {
		amount = p.Price
	}
	p.Analytics.Apply(event, amount, now)
	return nil
}

func truncate(list []*core.Product, limit int) []*core.Product {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}

func cloneProduct(p *core.Product) *core.Product {
	cp := *p
	if p.Analytics.DailyViews != nil {
		cp.Analytics.DailyViews = make(map[string]int64, len(p.Analytics.DailyViews))
		for k, v := range p.Analytics.DailyViews {
			cp.Analytics.DailyViews[k] = v
		}
	}
	if p.Analytics.MonthlyRevenue != nil {
		cp.Analytics.MonthlyRevenue = make(map[string]float64, len(p.Analytics.MonthlyRevenue))
		for k, v := range p.Analytics.MonthlyRevenue {
			cp.Analytics.MonthlyRevenue[k] = v
		}
	}
	return &cp
}
