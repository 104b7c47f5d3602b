package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rushteam/shoprec/core"
)

func TestMemoryProductsUpdateAnalytics(t *testing.T) {
	products := NewMemoryProducts(
		&core.Product{ID: "p1", Price: 30, Status: core.ProductActive},
	)
	ctx := context.Background()
	now := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	if err := products.UpdateAnalytics(ctx, "p1", core.InteractionView, 0, now); err != nil {
		t.Fatalf("UpdateAnalytics: %v", err)
	}
	// 金额缺省时回退为商品单价
	if err := products.UpdateAnalytics(ctx, "p1", core.InteractionPurchase, 0, now); err != nil {
		t.Fatalf("UpdateAnalytics: %v", err)
	}

	p, err := products.FindByID(ctx, "p1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if p.Analytics.Views != 1 || p.Analytics.Purchases != 1 {
		t.Errorf("counters = %+v", p.Analytics)
	}
	if got := p.Analytics.MonthlyRevenue["2025-08"]; got != 30 {
		t.Errorf("revenue = %v, want product price 30", got)
	}

	if err := products.UpdateAnalytics(ctx, "ghost", core.InteractionView, 0, now); !core.IsNotFound(err) {
		t.Errorf("unknown product err = %v, want not found", err)
	}
}

func TestMemoryProductsConcurrentUpdates(t *testing.T) {
	products := NewMemoryProducts(&core.Product{ID: "p1", Status: core.ProductActive})
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_ = products.UpdateAnalytics(ctx, "p1", core.InteractionView, 0, time.Now())
		}()
	}
	wg.Wait()

	p, _ := products.FindByID(ctx, "p1")
	if p.Analytics.Views != n {
		t.Errorf("views = %d, want %d", p.Analytics.Views, n)
	}
}

func TestMemoryProductsCloneOnRead(t *testing.T) {
	products := NewMemoryProducts(&core.Product{ID: "p1", Status: core.ProductActive})
	ctx := context.Background()

	p, _ := products.FindByID(ctx, "p1")
	p.Status = core.ProductArchived
	p.Analytics.Views = 999

	again, _ := products.FindByID(ctx, "p1")
	if again.Status != core.ProductActive || again.Analytics.Views != 0 {
		t.Error("mutating a returned product must not affect the store")
	}
}

func TestMemoryProductsFindTrendingOrder(t *testing.T) {
	products := NewMemoryProducts(
		&core.Product{ID: "a", Status: core.ProductActive, Trending: true,
			Analytics: core.Analytics{Views: 10}},
		&core.Product{ID: "b", Status: core.ProductActive, Trending: true,
			Analytics: core.Analytics{Views: 30}},
		&core.Product{ID: "c", Status: core.ProductActive, Trending: true,
			Analytics: core.Analytics{Views: 30, Purchases: 5}},
	)

	got, err := products.FindTrending(context.Background(), 2)
	if err != nil {
		t.Fatalf("FindTrending: %v", err)
	}
	// 浏览数优先，其次购买数
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "b" {
		t.Errorf("order = %v, want [c b]", got)
	}
}

func TestMemoryUsersFindSimilarCandidates(t *testing.T) {
	u1 := &core.UserProfile{UserID: "u1",
		Preferences: core.Preferences{Categories: []string{"books"}}}
	users := NewMemoryUsers(
		u1,
		&core.UserProfile{UserID: "u2",
			Preferences: core.Preferences{Categories: []string{"books", "toys"}}},
		&core.UserProfile{UserID: "u3",
			Preferences: core.Preferences{Categories: []string{"garden"}}},
	)

	got, err := users.FindSimilarCandidates(context.Background(), u1, 10)
	if err != nil {
		t.Fatalf("FindSimilarCandidates: %v", err)
	}
	if len(got) != 1 || got[0].UserID != "u2" {
		t.Errorf("candidates = %v, want only u2", got)
	}
}
