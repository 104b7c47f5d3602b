// Package postprocess 提供链路末端的结果修饰 Node。
package postprocess

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// Enrich 是商品补全 Node：为最终候选批量挂载完整商品记录，供响应组装。
//
// 补全时查不到商品的候选（目录并发变更、刚下架等）静默丢弃并记日志，
// 绝不因个别缺失让整个响应失败。
type Enrich struct {
	Products core.ProductStore

	Log zerolog.Logger
}

func (n *Enrich) Name() string {
	return "postprocess.enrich"
}

func (n *Enrich) Kind() pipeline.Kind {
	return pipeline.KindPostProcess
}

func (n *Enrich) Process(
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

	products, err := n.Products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		p, ok := products[c.ProductID]
		if !ok {
			n.Log.Warn().Str("product_id", c.ProductID).
				Msg("product missing at enrichment, dropping candidate")
			continue
		}
		c.Product = p
		out = append(out, c)
	}
	return out, nil
}
