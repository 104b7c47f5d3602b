package recall

import (
	"context"
	"sort"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/utils"
)

// UserCF 是基于用户的协同过滤召回源（User-based CF, u2u → u2i）。
//
// 核心思想："偏好相似的用户，会买相似的商品"
//
// 算法流程：
//  1. 粗筛共享偏好类目的候选用户（仓储层，上限 MaxSimilarUsers）
//  2. 精算相似度 = 类目 Jaccard × 0.7 + 价格区间重叠比 × 0.3
//  3. 丢弃相似度 ≤ MinSimilarity 的用户
//  4. 推荐相似用户已收货订单中、目标用户未买过的商品
//     score = similarity × 0.8
type UserCF struct {
	Users  core.UserStore
	Orders core.OrderStore

	// MaxSimilarUsers 相似用户上限，<=0 时取 20
	MaxSimilarUsers int

	// MinSimilarity 相似度下限（不含），<=0 时取 0.3
	MinSimilarity float64
}

const userCFScoreFactor = 0.8

func (r *UserCF) Name() string            { return "recall.user_cf" }
func (r *UserCF) Strategy() core.Strategy { return core.StrategyUserBased }

func (r *UserCF) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	user, err := r.loadProfile(ctx, rctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	maxUsers := r.MaxSimilarUsers
	if maxUsers <= 0 {
		maxUsers = 20
	}
	minSim := r.MinSimilarity
	if minSim <= 0 {
		minSim = 0.3
	}

	candidates, err := r.Users.FindSimilarCandidates(ctx, user, maxUsers)
	if err != nil {
		return nil, err
	}

	type similarUser struct {
		profile    *core.UserProfile
		similarity float64
	}
	similar := make([]similarUser, 0, len(candidates))
	for _, other := range candidates {
		if other == nil || other.UserID == user.UserID {
			continue
		}
		sim := Similarity(user, other)
		if sim > minSim {
			similar = append(similar, similarUser{profile: other, similarity: sim})
		}
	}
	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].similarity > similar[j].similarity
	})
	if len(similar) > maxUsers {
		similar = similar[:maxUsers]
	}

	// 目标用户已购集合，整体查一次，避免逐商品查订单
	purchased, err := r.purchasedSet(ctx, user.UserID)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Candidate, 0, 64)
	for _, su := range similar {
		orders, err := r.Orders.FindByCustomer(ctx, su.profile.UserID, core.OrderDelivered)
		if err != nil {
			continue
		}
		for _, order := range orders {
			for _, item := range order.Items {
				if _, ok := purchased[item.ProductID]; ok {
					continue
				}
				c := core.NewCandidate(
					item.ProductID,
					su.similarity*userCFScoreFactor,
					"Users with similar preferences also bought this",
					core.StrategyUserBased,
				)
				c.PutMeta("similarity", su.similarity)
				c.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
				out = append(out, c)
			}
		}
	}

	return core.DedupKeepBest(out), nil
}

func (r *UserCF) loadProfile(ctx context.Context, rctx *core.RecommendContext) (*core.UserProfile, error) {
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

func (r *UserCF) purchasedSet(ctx context.Context, userID string) (map[string]struct{}, error) {
	orders, err := r.Orders.FindByCustomer(ctx, userID, core.OrderDelivered, core.OrderShipped)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	for _, order := range orders {
		for _, item := range order.Items {
			set[item.ProductID] = struct{}{}
		}
	}
	return set, nil
}

// Similarity 计算两个用户画像的相似度：
// 偏好类目 Jaccard × 0.7 + 价格区间重叠比 × 0.3，结果在 [0,1]。
func Similarity(a, b *core.UserProfile) float64 {
	return jaccard(a.Preferences.Categories, b.Preferences.Categories)*0.7 +
		a.Preferences.PriceRange.Overlap(b.Preferences.PriceRange)*0.3
}

// jaccard 计算两个字符串集合的 Jaccard 相似度（交集 / 并集）。
func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(a))
	for _, s := range a {
		setA[s] = struct{}{}
	}
	union := make(map[string]struct{}, len(a)+len(b))
	for s := range setA {
		union[s] = struct{}{}
	}
	intersect := 0
	seen := make(map[string]struct{}, len(b))
	for _, s := range b {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		union[s] = struct{}{}
		if _, ok := setA[s]; ok {
			intersect++
		}
	}
	if len(union) == 0 {
		return 0
	}
	return float64(intersect) / float64(len(union))
}
