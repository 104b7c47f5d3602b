package core

import (
	"testing"
	"time"
)

func TestAnalyticsApply(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	var a Analytics

	a.Apply(InteractionView, 0, now)
	a.Apply(InteractionView, 0, now)
	a.Apply(InteractionPurchase, 99.5, now)
	a.Apply(InteractionCartAdd, 0, now)
	a.Apply(InteractionWishlistAdd, 0, now)

	if a.Views != 2 || a.Purchases != 1 || a.CartAdditions != 1 || a.WishlistCount != 1 {
		t.Errorf("counters = %+v", a)
	}
	if got := a.DailyViews["2025-06-15"]; got != 2 {
		t.Errorf("daily views = %d, want 2", got)
	}
	if got := a.MonthlyRevenue["2025-06"]; got != 99.5 {
		t.Errorf("monthly revenue = %v, want 99.5", got)
	}
	// 1 purchase / 2 views × 100
	if a.ConversionRate != 50 {
		t.Errorf("conversion rate = %v, want 50", a.ConversionRate)
	}
}

func TestAnalyticsApplyNoViews(t *testing.T) {
	var a Analytics
	a.Apply(InteractionPurchase, 10, time.Now())
	if a.ConversionRate != 0 {
		t.Errorf("conversion rate without views = %v, want 0", a.ConversionRate)
	}
}

func TestProductSellable(t *testing.T) {
	tests := []struct {
		name string
		p    Product
		want bool
	}{
		{
			name: "active with stock",
			p:    Product{Status: ProductActive, Inventory: Inventory{Quantity: 3}},
			want: true,
		},
		{
			name: "active without stock",
			p:    Product{Status: ProductActive, Inventory: Inventory{Quantity: 0}},
			want: false,
		},
		{
			name: "inactive with stock",
			p:    Product{Status: ProductInactive, Inventory: Inventory{Quantity: 3}},
			want: false,
		},
		{
			name: "archived",
			p:    Product{Status: ProductArchived, Inventory: Inventory{Quantity: 3}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Sellable(); got != tt.want {
				t.Errorf("Sellable = %v, want %v", got, tt.want)
			}
		})
	}
}
