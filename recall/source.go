package recall

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// Source 表示一个可复用的召回源（协同过滤/内容/热门/外部模型/...）。
// 你可以把它理解为"可并发 fan-out 的策略单元"。
//
// 约定：
//   - 数据不足（无画像、无种子商品等）返回 (nil, nil)，不算错误
//   - 返回的候选已按 ProductID 去重、按分数降序
//   - 单源失败由上层吞掉并降级为空结果，绝不拖垮整个请求
type Source interface {
	Name() string
	Strategy() core.Strategy
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Candidate, error)
}
