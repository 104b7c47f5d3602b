package core

import "context"

// AssistantContext 是发给外部文本模型的用户上下文摘要。
type AssistantContext struct {
	UserID      string          `json:"userId"`
	Categories  []string        `json:"categories"`
	PriceRange  PriceRange      `json:"priceRange"`
	RecentViews []string        `json:"recentViews,omitempty"`
	Behavior    BehaviorProfile `json:"behaviorProfile"`
}

// Assistant 是外部文本生成服务的契约（仅 personalized 策略使用）。
//
// 实现方必须：
//   - 尊重 ctx 的截止时间（外部服务可能很慢，调用方会设置硬超时）
//   - 返回类目/商品类型级别的文本建议，每条建议后续作为文本检索的 query
//
// 调用方把任何失败（含超时）降级为空结果，永不向上冒泡。
type Assistant interface {
	Suggest(ctx context.Context, actx *AssistantContext) ([]string, error)
}
