package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

// BusinessNode 是业务规则过滤 Node：剔除非 active 或无库存的候选。
//
// 实现为一次批量存在性检查（FindActiveByIDs），而不是逐候选查询：
// 候选集可能上百，逐条打存储会把召回省下的时间全还回去。
type BusinessNode struct {
	Products core.ProductStore
}

func (n *BusinessNode) Name() string {
	return "filter.business"
}

func (n *BusinessNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *BusinessNode) Process(
	ctx context.Context,
	_ *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(candidates) == 0 {
		return candidates, nil
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c != nil {
			ids = append(ids, c.ProductID)
		}
	}

	sellable, err := n.Products.FindActiveByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if _, ok := sellable[c.ProductID]; !ok {
			c.PutLabel("filtered", utils.Label{Value: "true", Source: n.Name()})
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
