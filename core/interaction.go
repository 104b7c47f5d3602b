package core

import "time"

// InteractionType 是交互事件类型。
type InteractionType string

const (
	InteractionView        InteractionType = "view"
	InteractionPurchase    InteractionType = "purchase"
	InteractionCartAdd     InteractionType = "cart_add"
	InteractionCartAbandon InteractionType = "cart_abandon"
	InteractionWishlistAdd InteractionType = "wishlist_add"
)

// Interaction 是一次用户-商品交互事件，追加写入交互日志。
// Timestamp 由服务端在落盘时写入。
type Interaction struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	ProductID string          `json:"productId"`
	Type      InteractionType `json:"type"`

	// Category 事件关联类目（来自 metadata），驱动画像的收藏类目更新
	Category string `json:"category,omitempty"`
	// Amount 成交金额，仅 purchase 有意义；为 0 时回退为商品单价
	Amount float64 `json:"amount,omitempty"`

	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
