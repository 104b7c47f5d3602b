package core

import "time"

// ProductStatus 是商品状态。
type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
	ProductArchived ProductStatus = "archived"
	ProductDraft    ProductStatus = "draft"
)

// Rating 是商品评分聚合。
type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Inventory 是库存信息。
type Inventory struct {
	Quantity          int  `json:"quantity"`
	LowStockThreshold int  `json:"lowStockThreshold"`
	TrackInventory    bool `json:"trackInventory"`
}

// Analytics 是商品分析计数器。
// 仅由反馈回路写入（存储层原子自增）；召回链路只读。
type Analytics struct {
	Views            int64   `json:"views"`
	Purchases        int64   `json:"purchases"`
	CartAdditions    int64   `json:"cartAdditions"`
	CartAbandonments int64   `json:"cartAbandonments"`
	WishlistCount    int64   `json:"wishlistCount"`
	ConversionRate   float64 `json:"conversionRate"` // purchases/views × 100

	// DailyViews 按日（YYYY-MM-DD）分桶的浏览数
	DailyViews map[string]int64 `json:"dailyViews,omitempty"`
	// MonthlyRevenue 按月（YYYY-MM）分桶的成交金额
	MonthlyRevenue map[string]float64 `json:"monthlyRevenue,omitempty"`
}

// Apply 将一次交互事件落到计数器上。amount 仅对 purchase 生效。
// 每次更新后重算转化率（views > 0 时）。
func (a *Analytics) Apply(event InteractionType, amount float64, now time.Time) {
	switch event {
	case InteractionView:
		a.Views++
		if a.DailyViews == nil {
			a.DailyViews = make(map[string]int64)
		}
		a.DailyViews[now.Format("2006-01-02")]++
	case InteractionPurchase:
		a.Purchases++
		if a.MonthlyRevenue == nil {
			a.MonthlyRevenue = make(map[string]float64)
		}
		a.MonthlyRevenue[now.Format("2006-01")] += amount
	case InteractionCartAdd:
		a.CartAdditions++
	case InteractionCartAbandon:
		a.CartAbandonments++
	case InteractionWishlistAdd:
		a.WishlistCount++
	}

	if a.Views > 0 {
		a.ConversionRate = float64(a.Purchases) / float64(a.Views) * 100
	}
}

// Product 是商品记录的只读视图。
// 计数器由反馈回路写入；目录/库存由外部管理系统维护（不在本模块范围内）。
type Product struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Category    string        `json:"category"`
	Brand       string        `json:"brand,omitempty"`
	Price       float64       `json:"price"`
	Rating      Rating        `json:"rating"`
	Inventory   Inventory     `json:"inventory"`
	Status      ProductStatus `json:"status"`
	Trending    bool          `json:"trending"`
	Featured    bool          `json:"featured"`
	Analytics   Analytics     `json:"analytics"`
}

// InStock 判断商品是否有货。
func (p *Product) InStock() bool {
	return p.Inventory.Quantity > 0
}

// Sellable 判断商品是否可售：active 且有货。业务规则过滤的判据。
func (p *Product) Sellable() bool {
	return p.Status == ProductActive && p.InStock()
}
