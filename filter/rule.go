package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/dsl"
)

// RuleFilter 是 CEL 表达式过滤器：表达式求值为 true 的候选被剔除。
// 业务侧可以用它下发临时规则（清仓类目、临时下架品牌等），无需发版。
//
// 示例表达式：
//   - `product.brand == "acme"`                       → 屏蔽品牌
//   - `label.recall_source == "recall.trending" && candidate.score < 0.2`
//   - `rctx.category != "" && product.category != rctx.category` → 类目约束
type RuleFilter struct {
	// Expr CEL 表达式；空表达式不剔除任何候选
	Expr string
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	c *core.Candidate,
) (bool, error) {
	if f.Expr == "" || c == nil {
		return false, nil
	}
	return dsl.NewEval(c, rctx).Evaluate(f.Expr)
}
