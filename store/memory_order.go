package store

import (
	"context"
	"sync"

	"github.com/rushteam/shoprec/core"
)

// MemoryOrders 是订单仓储的进程内实现，只读查询为主（订单由外部结算系统产生）。
type MemoryOrders struct {
	mu     sync.RWMutex
	orders []*core.Order
}

func NewMemoryOrders(seed ...*core.Order) *MemoryOrders {
	return &MemoryOrders{orders: append([]*core.Order(nil), seed...)}
}

// Add 追加订单（测试用）。
func (m *MemoryOrders) Add(o *core.Order) {
	m.mu.Lock()
	m.orders = append(m.orders, o)
	m.mu.Unlock()
}

func (m *MemoryOrders) FindByCustomer(
	ctx context.Context,
	customerID string,
	statuses ...core.OrderStatus,
) ([]*core.Order, error) {
	want := statusSet(statuses)

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*core.Order, 0, 8)
	for _, o := range m.orders {
		if o.CustomerID != customerID {
			continue
		}
		if len(want) > 0 {
			if _, ok := want[o.Status]; !ok {
				continue
			}
		}
		out = append(out, o)
	}
	return out, nil
}

func (m *MemoryOrders) FindContainingProduct(
	ctx context.Context,
	productID string,
	statuses ...core.OrderStatus,
) ([]*core.Order, error) {
	want := statusSet(statuses)

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*core.Order, 0, 8)
	for _, o := range m.orders {
		if !o.Contains(productID) {
			continue
		}
		if len(want) > 0 {
			if _, ok := want[o.Status]; !ok {
				continue
			}
		}
		out = append(out, o)
	}
	return out, nil
}

func (m *MemoryOrders) HasPurchased(ctx context.Context, customerID, productID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, o := range m.orders {
		if o.CustomerID != customerID {
			continue
		}
		if o.Status != core.OrderDelivered && o.Status != core.OrderShipped {
			continue
		}
		if o.Contains(productID) {
			return true, nil
		}
	}
	return false, nil
}

func statusSet(statuses []core.OrderStatus) map[core.OrderStatus]struct{} {
	set := make(map[core.OrderStatus]struct{}, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return set
}
