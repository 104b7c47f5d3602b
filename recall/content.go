package recall

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/utils"
)

// Content 是内容匹配召回源：按用户显式偏好（类目 + 价格区间）圈定
// active 商品，再按特征逐项打分。
//
// 打分规则（命中累加，封顶 1.0）：
//   - 类目命中偏好类目         +0.4
//   - 价格落在偏好区间         +0.3
//   - 品牌命中偏好品牌         +0.2
//   - 评分均值 ≥ 4.0           +0.1
//
// 总分 ≤ MinScore 的候选丢弃。
type Content struct {
	Products core.ProductStore
	Users    core.UserStore

	// MaxCandidates 圈定候选上限，<=0 时取 50
	MaxCandidates int

	// MinScore 分数下限（不含），<=0 时取 0.1
	MinScore float64
}

func (r *Content) Name() string            { return "recall.content" }
func (r *Content) Strategy() core.Strategy { return core.StrategyContentBased }

func (r *Content) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	user, err := r.loadProfile(ctx, rctx)
	if err != nil {
		return nil, err
	}
	if user == nil || len(user.Preferences.Categories) == 0 {
		return nil, nil
	}

	maxN := r.MaxCandidates
	if maxN <= 0 {
		maxN = 50
	}
	minScore := r.MinScore
	if minScore <= 0 {
		minScore = 0.1
	}

	products, err := r.Products.FindByCategoryAndPriceRange(
		ctx, user.Preferences.Categories, user.Preferences.PriceRange, maxN)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Candidate, 0, len(products))
	for _, p := range products {
		score, matched := ContentScore(p, user)
		if score <= minScore {
			continue
		}
		c := core.NewCandidate(p.ID, score, "Matches your preferences", core.StrategyContentBased)
		c.PutMeta("matchedFeatures", matched)
		c.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
		out = append(out, c)
	}

	return core.DedupKeepBest(out), nil
}

func (r *Content) loadProfile(ctx context.Context, rctx *core.RecommendContext) (*core.UserProfile, error) {
	if rctx == nil || rctx.Request.UserID == "" {
		return nil, nil
	}
	if rctx.User != nil {
		return rctx.User, nil
	}
	user, err := r.Users.FindByID(ctx, rctx.Request.UserID)
	if core.IsNotFound(err) {
		return nil, nil
	}
	return user, err
}

// ContentScore 计算商品对用户偏好的内容匹配分，返回分数与命中的特征列表。
func ContentScore(p *core.Product, user *core.UserProfile) (float64, []string) {
	var score float64
	matched := make([]string, 0, 4)

	if containsString(user.Preferences.Categories, p.Category) {
		score += 0.4
		matched = append(matched, "category")
	}
	if user.Preferences.PriceRange.Contains(p.Price) {
		score += 0.3
		matched = append(matched, "price_range")
	}
	if p.Brand != "" && containsString(user.Preferences.Brands, p.Brand) {
		score += 0.2
		matched = append(matched, "brand")
	}
	if p.Rating.Average >= 4.0 {
		score += 0.1
		matched = append(matched, "high_rating")
	}

	if score > 1.0 {
		score = 1.0
	}
	return score, matched
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
