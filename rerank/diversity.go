package rerank

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

// Diversity 是多样性重排 Node：限制同一类目/品牌在结果中的重复次数。
//
// 顺序保持不变（已按分数排好），超出配额的候选被剔除：
//   - 同类目至多 MaxPerCategory 个（<=0 表示该维度不限制）
//   - 同品牌至多 MaxPerBrand 个（<=0 表示该维度不限制；空品牌不占配额）
//
// 类目/品牌取自商品记录，一次批量查询获取；查不到记录的候选原样保留，
// 可售性兜底交给前面的业务规则过滤。
type Diversity struct {
	Products core.ProductStore

	MaxPerCategory int
	MaxPerBrand    int
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	ctx context.Context,
	_ *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(candidates) == 0 || (n.MaxPerCategory <= 0 && n.MaxPerBrand <= 0) {
		return candidates, nil
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c != nil {
			ids = append(ids, c.ProductID)
		}
	}

	products, err := n.Products.FindByIDs(ctx, ids)
	if err != nil {
		// 多样性是锦上添花，查询失败时原样放行
		return candidates, nil
	}

	categoryCount := make(map[string]int, 16)
	brandCount := make(map[string]int, 16)
	out := make([]*core.Candidate, 0, len(candidates))

	for _, c := range candidates {
		if c == nil {
			continue
		}
		p, ok := products[c.ProductID]
		if !ok {
			out = append(out, c)
			continue
		}

		if n.MaxPerCategory > 0 && p.Category != "" &&
			categoryCount[p.Category] >= n.MaxPerCategory {
			c.PutLabel("filtered", utils.Label{Value: "category_cap", Source: n.Name()})
			continue
		}
		if n.MaxPerBrand > 0 && p.Brand != "" &&
			brandCount[p.Brand] >= n.MaxPerBrand {
			c.PutLabel("filtered", utils.Label{Value: "brand_cap", Source: n.Name()})
			continue
		}

		if p.Category != "" {
			categoryCount[p.Category]++
		}
		if p.Brand != "" {
			brandCount[p.Brand]++
		}
		out = append(out, c)
	}

	return out, nil
}
