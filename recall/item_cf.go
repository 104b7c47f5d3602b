package recall

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/utils"
)

// ItemCF 是基于物品的协同过滤召回源（Item-based CF，订单共现）。
//
// 核心思想："经常被一起买的商品，相互相关"
//
// 算法流程：
//  1. 取包含种子商品的已收货订单
//  2. 统计订单内共现商品：frequency = 同时包含两者的订单数 / 包含种子的订单数
//  3. 丢弃 frequency ≤ MinFrequency 的候选
//     score = frequency × 0.9
//
// 无种子商品（request.ProductID 为空）时直接返回空，不算错误。
type ItemCF struct {
	Orders core.OrderStore

	// MinFrequency 共现频率下限（不含），<=0 时取 0.1
	MinFrequency float64
}

const itemCFScoreFactor = 0.9

func (r *ItemCF) Name() string            { return "recall.item_cf" }
func (r *ItemCF) Strategy() core.Strategy { return core.StrategyItemBased }

func (r *ItemCF) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	if rctx == nil || rctx.Request.ProductID == "" {
		return nil, nil
	}
	seed := rctx.Request.ProductID

	orders, err := r.Orders.FindContainingProduct(ctx, seed, core.OrderDelivered)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}

	minFreq := r.MinFrequency
	if minFreq <= 0 {
		minFreq = 0.1
	}

	// 订单内去重：同一订单里一个商品只算一次共现
	coOccur := make(map[string]int)
	for _, order := range orders {
		seen := make(map[string]struct{}, len(order.Items))
		for _, item := range order.Items {
			if item.ProductID == seed {
				continue
			}
			if _, ok := seen[item.ProductID]; ok {
				continue
			}
			seen[item.ProductID] = struct{}{}
			coOccur[item.ProductID]++
		}
	}

	total := float64(len(orders))
	out := make([]*core.Candidate, 0, len(coOccur))
	for productID, count := range coOccur {
		freq := float64(count) / total
		if freq <= minFreq {
			continue
		}
		c := core.NewCandidate(
			productID,
			freq*itemCFScoreFactor,
			"Frequently bought together",
			core.StrategyItemBased,
		)
		c.PutMeta("frequency", freq)
		c.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
		out = append(out, c)
	}

	return core.DedupKeepBest(out), nil
}
