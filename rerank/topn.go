package rerank

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// TopN 是截断 Node，在重排后截取前 N 个候选。
//
// N <= 0 时取请求的 limit（最常见用法：直接跟在 Diversity 后面收尾）。
// 候选数不足 N 时原样返回。
type TopN struct {
	N int
}

func (n *TopN) Name() string {
	return "rerank.topn"
}

func (n *TopN) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopN) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	limit := n.N
	if limit <= 0 && rctx != nil {
		limit = rctx.Request.Limit
	}
	if limit <= 0 || len(candidates) <= limit {
		return candidates, nil
	}
	return candidates[:limit], nil
}
