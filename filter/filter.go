package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// Filter 是逐候选过滤器的抽象接口，用于判断一个候选是否应该被剔除。
// 返回 true 表示剔除，false 表示保留。
//
// 注意：需要批量查询的过滤（如业务规则的存在性检查）应实现为独立的
// pipeline.Node（见 BusinessNode），避免逐候选打存储。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断候选是否应该被剔除
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, c *core.Candidate) (bool, error)
}
