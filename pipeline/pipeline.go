package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/shoprec/core"
)

// Pipeline 把推荐逻辑拆成可组合的 Node 链：Recall → Filter → ReRank → PostProcess。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	cur := candidates
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}
