package recall

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/utils"
)

// Trending 是热门趋势召回源：取 trending 标记的 active 商品，
// 仓储层已按 views 降序、purchases 降序排好，固定分数 0.8。
// 无个性化信号，适合冷启动补充与 hybrid 的保底权重。
type Trending struct {
	Products core.ProductStore

	// Limit 召回条数上限，<=0 时取 20
	Limit int
}

const trendingScore = 0.8

func (r *Trending) Name() string            { return "recall.trending" }
func (r *Trending) Strategy() core.Strategy { return core.StrategyTrending }

func (r *Trending) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Candidate, error) {
	limit := r.Limit
	if limit <= 0 {
		limit = 20
	}

	products, err := r.Products.FindTrending(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Candidate, 0, len(products))
	for _, p := range products {
		c := core.NewCandidate(p.ID, trendingScore, "Trending now", core.StrategyTrending)
		c.PutMeta("views", p.Analytics.Views)
		c.PutMeta("purchases", p.Analytics.Purchases)
		c.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
		out = append(out, c)
	}

	return core.DedupKeepBest(out), nil
}
