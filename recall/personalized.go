package recall

import (
	"context"
	"time"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/utils"
)

// Personalized 是外部文本模型辅助的个性化召回源（best-effort）。
//
// 算法流程：
//  1. 汇总用户画像为 AssistantContext
//  2. 带硬超时调用外部文本模型，产出类目/商品类型级文本建议
//  3. 每条建议做一次文本检索，取前 MatchesPerSuggestion 个商品
//     固定分数 0.85
//
// 外部模型任何失败（含超时）都降级为空结果，返回 (nil, nil)：
// 这是唯一一个"失败即静默"写进自身契约的召回源，上层无需区分处理。
type Personalized struct {
	Assistant core.Assistant
	Products  core.ProductStore
	Users     core.UserStore

	// Timeout 外部模型调用的硬超时，<=0 时取 2s
	Timeout time.Duration

	// MatchesPerSuggestion 每条建议检索的商品数，<=0 时取 3
	MatchesPerSuggestion int

	// MaxRecentViews 带给模型的近期浏览条数上限，<=0 时取 5
	MaxRecentViews int
}

const personalizedScore = 0.85

func (r *Personalized) Name() string            { return "recall.personalized" }
func (r *Personalized) Strategy() core.Strategy { return core.StrategyPersonalized }

func (r *Personalized) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Candidate, error) {
	if r.Assistant == nil || rctx == nil || rctx.Request.UserID == "" {
		return nil, nil
	}

	user := rctx.User
	if user == nil {
		var err error
		user, err = r.Users.FindByID(ctx, rctx.Request.UserID)
		if err != nil {
			return nil, nil
		}
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	perSuggestion := r.MatchesPerSuggestion
	if perSuggestion <= 0 {
		perSuggestion = 3
	}

	actx := r.buildContext(user)

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	suggestions, err := r.Assistant.Suggest(callCtx, actx)
	if err != nil || len(suggestions) == 0 {
		// 外部模型失败/超时/空响应：静默降级
		return nil, nil
	}

	out := make([]*core.Candidate, 0, len(suggestions)*perSuggestion)
	for _, suggestion := range suggestions {
		products, err := r.Products.SearchText(ctx, suggestion, perSuggestion)
		if err != nil {
			continue
		}
		for _, p := range products {
			c := core.NewCandidate(
				p.ID,
				personalizedScore,
				"AI suggestion: "+suggestion,
				core.StrategyPersonalized,
			)
			c.PutMeta("aiSuggestion", suggestion)
			c.PutLabel("recall_source", utils.Label{Value: r.Name(), Source: "recall"})
			out = append(out, c)
		}
	}

	return core.DedupKeepBest(out), nil
}

func (r *Personalized) buildContext(user *core.UserProfile) *core.AssistantContext {
	maxViews := r.MaxRecentViews
	if maxViews <= 0 {
		maxViews = 5
	}

	recent := make([]string, 0, maxViews)
	for _, v := range user.RecentViews {
		recent = append(recent, v.ProductID)
		if len(recent) >= maxViews {
			break
		}
	}

	return &core.AssistantContext{
		UserID:      user.UserID,
		Categories:  user.Preferences.Categories,
		PriceRange:  user.Preferences.PriceRange,
		RecentViews: recent,
		Behavior:    user.Behavior,
	}
}
