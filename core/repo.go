package core

import (
	"context"
	"time"
)

// 仓储接口定义在领域层（core），由基础设施层（store）实现。
// 遵循依赖倒置原则：打分链路只依赖这些读写契约，不关心底层是
// 内存、文档库还是搜索引擎。

// ProductStore 是商品仓储的查询契约。
type ProductStore interface {
	// FindByID 按 ID 查询商品；不存在返回 ErrNotFound
	FindByID(ctx context.Context, id string) (*Product, error)

	// FindByIDs 批量查询商品，结果按 ID 索引；缺失的 ID 静默跳过
	FindByIDs(ctx context.Context, ids []string) (map[string]*Product, error)

	// FindActiveByIDs 批量存在性检查：返回给定 ID 中 active 且有货的子集。
	// 业务规则过滤用一次批量查询替代逐候选查询
	FindActiveByIDs(ctx context.Context, ids []string) (map[string]struct{}, error)

	// FindByCategoryAndPriceRange 查询指定类目集合且价格落在区间内的 active 商品
	FindByCategoryAndPriceRange(ctx context.Context, categories []string, pr PriceRange, limit int) ([]*Product, error)

	// FindTrending 查询 trending 标记的 active 商品，按 views 降序、purchases 降序
	FindTrending(ctx context.Context, limit int) ([]*Product, error)

	// FindPopular 查询 featured 的 active 商品，按 purchases 降序；兜底推荐用
	FindPopular(ctx context.Context, limit int) ([]*Product, error)

	// SearchText 按文本检索 active 商品（名称/描述/类目）
	SearchText(ctx context.Context, query string, limit int) ([]*Product, error)

	// UpdateAnalytics 原子更新商品分析计数器；实现方保证并发事件不丢更新
	UpdateAnalytics(ctx context.Context, productID string, event InteractionType, amount float64, now time.Time) error
}

// UserStore 是用户仓储的查询契约。
type UserStore interface {
	// FindByID 按 ID 查询用户画像；不存在返回 ErrNotFound
	FindByID(ctx context.Context, id string) (*UserProfile, error)

	// FindSimilarCandidates 查询与给定用户共享偏好类目的候选用户（粗筛，上限 limit）。
	// 精确相似度由召回层计算
	FindSimilarCandidates(ctx context.Context, u *UserProfile, limit int) ([]*UserProfile, error)

	// ApplyInteraction 原子更新用户行为画像；实现方保证并发事件不丢更新
	ApplyInteraction(ctx context.Context, userID string, inter *Interaction, now time.Time) error
}

// OrderStore 是订单仓储的查询契约，用于共现与购买历史分析。
type OrderStore interface {
	// FindByCustomer 查询用户在指定状态下的订单
	FindByCustomer(ctx context.Context, customerID string, statuses ...OrderStatus) ([]*Order, error)

	// FindContainingProduct 查询包含指定商品的订单（限定状态）
	FindContainingProduct(ctx context.Context, productID string, statuses ...OrderStatus) ([]*Order, error)

	// HasPurchased 判断用户是否买过指定商品（delivered/shipped 均算）
	HasPurchased(ctx context.Context, customerID, productID string) (bool, error)
}

// InteractionLog 是交互日志的追加写契约。
type InteractionLog interface {
	// Create 追加一条交互事件
	Create(ctx context.Context, inter *Interaction) error
}
