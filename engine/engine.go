// Package engine 是推荐引擎的编排层：缓存包裹 + 按策略选 Pipeline + 兜底。
package engine

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/rushteam/shoprec/cache"
	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/feedback"
	"github.com/rushteam/shoprec/filter"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/postprocess"
	"github.com/rushteam/shoprec/recall"
	"github.com/rushteam/shoprec/rerank"
)

// Deps 是 Engine 的外部依赖，全部注入，便于用内存实现测试。
type Deps struct {
	Products     core.ProductStore
	Users        core.UserStore
	Orders       core.OrderStore
	Interactions core.InteractionLog
	Cache        core.Cache

	// Assistant 可为 nil：personalized 策略退化为空召回 → 兜底
	Assistant core.Assistant

	Log zerolog.Logger
}

// Engine 是推荐引擎。
//
// 请求链路：缓存查 → 召回（并发）→ 融合 → 业务规则过滤 → 多样性 →
// 截断 → 缓存写 → 商品补全 → 响应。
// 任何策略产出为空或链路出错时降级为热销兜底；只有兜底查询本身失败
// 才向调用方返回错误。
type Engine struct {
	deps Deps
	opts options

	pipelines map[core.Strategy]*pipeline.Pipeline
	enrich    *postprocess.Enrich
	feedback  *feedback.Loop
	log       zerolog.Logger
}

// New 构建引擎：装配召回源与各策略 Pipeline。
func New(deps Deps, opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		deps: deps,
		opts: o,
		log:  deps.Log.With().Str("component", "engine").Logger(),
	}

	e.enrich = &postprocess.Enrich{Products: deps.Products, Log: e.log}
	e.feedback = &feedback.Loop{
		Interactions: deps.Interactions,
		Users:        deps.Users,
		Products:     deps.Products,
		Cache:        deps.Cache,
		Log:          deps.Log,
	}
	e.buildPipelines()
	return e
}

func (e *Engine) source(strategy core.Strategy) recall.Source {
	if src, ok := e.opts.overrides[strategy]; ok {
		return src
	}
	switch strategy {
	case core.StrategyUserBased:
		return &recall.UserCF{Users: e.deps.Users, Orders: e.deps.Orders}
	case core.StrategyItemBased:
		return &recall.ItemCF{Orders: e.deps.Orders}
	case core.StrategyContentBased:
		return &recall.Content{Products: e.deps.Products, Users: e.deps.Users}
	case core.StrategyTrending:
		return &recall.Trending{Products: e.deps.Products}
	case core.StrategyPersonalized:
		return &recall.Personalized{
			Assistant: e.deps.Assistant,
			Products:  e.deps.Products,
			Users:     e.deps.Users,
			Timeout:   e.opts.assistantTimeout,
		}
	}
	return nil
}

// tail 是所有策略共用的链路尾部：业务规则 → 规则表达式 → 多样性 → 截断。
func (e *Engine) tail() []pipeline.Node {
	nodes := []pipeline.Node{
		&filter.BusinessNode{Products: e.deps.Products},
	}
	if e.opts.ruleExpr != "" {
		nodes = append(nodes, &filter.FilterNode{
			Filters: []filter.Filter{&filter.RuleFilter{Expr: e.opts.ruleExpr}},
		})
	}
	nodes = append(nodes,
		&rerank.Diversity{
			Products:       e.deps.Products,
			MaxPerCategory: e.opts.maxPerCategory,
			MaxPerBrand:    e.opts.maxPerBrand,
		},
		&rerank.TopN{}, // N 取请求 limit
	)
	return nodes
}

func (e *Engine) buildPipelines() {
	e.pipelines = make(map[core.Strategy]*pipeline.Pipeline, 6)

	// hybrid：四路并发召回 + 加权融合；personalized 不参与加权，仅单独请求时使用
	fanout := &recall.Fanout{
		Sources: []recall.WeightedSource{
			{Source: e.source(core.StrategyUserBased), Weight: e.opts.weights.UserBased},
			{Source: e.source(core.StrategyItemBased), Weight: e.opts.weights.ItemBased},
			{Source: e.source(core.StrategyContentBased), Weight: e.opts.weights.ContentBased},
			{Source: e.source(core.StrategyTrending), Weight: e.opts.weights.Trending},
		},
		Timeout: e.opts.recallTimeout,
		Log:     e.deps.Log,
	}
	e.pipelines[core.StrategyHybrid] = &pipeline.Pipeline{
		Nodes: append([]pipeline.Node{fanout}, e.tail()...),
	}

	for _, strategy := range []core.Strategy{
		core.StrategyUserBased,
		core.StrategyItemBased,
		core.StrategyContentBased,
		core.StrategyTrending,
		core.StrategyPersonalized,
	} {
		head := &recall.SourceNode{
			Source:  e.source(strategy),
			Timeout: e.opts.recallTimeout,
			Log:     e.deps.Log,
		}
		e.pipelines[strategy] = &pipeline.Pipeline{
			Nodes: append([]pipeline.Node{head}, e.tail()...),
		}
	}
}

// Recommend 处理一次推荐请求，返回已补全商品记录的候选列表。
func (e *Engine) Recommend(ctx context.Context, req core.Request) ([]*core.Candidate, error) {
	req = req.Normalize()
	key := cache.Key(req)

	rctx := core.NewRecommendContext(req)
	e.loadProfile(ctx, rctx)

	// 缓存命中：跳过全部召回，只重做商品补全
	if raw, ok := e.deps.Cache.Get(ctx, key); ok {
		var cached []*core.Candidate
		if err := json.Unmarshal(raw, &cached); err == nil {
			return e.enrich.Process(ctx, rctx, cached)
		}
		e.log.Warn().Str("key", key).Msg("cache payload corrupt, recomputing")
	}

	pl, ok := e.pipelines[req.Strategy]
	if !ok {
		pl = e.pipelines[core.StrategyHybrid]
	}

	candidates, err := pl.Run(ctx, rctx, nil)
	if err != nil {
		e.log.Error().Err(err).Str("strategy", string(req.Strategy)).
			Msg("pipeline failed, serving fallback")
		return e.fallback(ctx, req)
	}
	if len(candidates) == 0 {
		return e.fallback(ctx, req)
	}

	if raw, err := json.Marshal(candidates); err == nil {
		e.deps.Cache.Set(ctx, key, raw, e.opts.cacheTTL)
	}

	return e.enrich.Process(ctx, rctx, candidates)
}

// RecordInteraction 记录一次交互事件并触发画像/计数器更新与缓存失效。
// 永不向调用方返回错误（各步骤尽力而为，见 feedback 包）。
func (e *Engine) RecordInteraction(
	ctx context.Context,
	userID, productID string,
	typ core.InteractionType,
	metadata map[string]any,
) {
	e.feedback.Record(ctx, userID, productID, typ, metadata)
}

// loadProfile 预载用户画像，各召回源共享一次读取。失败不阻塞链路。
func (e *Engine) loadProfile(ctx context.Context, rctx *core.RecommendContext) {
	if rctx.Request.UserID == "" {
		return
	}
	user, err := e.deps.Users.FindByID(ctx, rctx.Request.UserID)
	if err != nil {
		if !core.IsNotFound(err) {
			e.log.Warn().Err(err).Str("user_id", rctx.Request.UserID).
				Msg("profile load failed, recalling without profile")
		}
		return
	}
	rctx.User = user
}

// fallback 返回热销兜底：active 且有货的 featured 商品，按购买数降序。
// 这是唯一可能向上返回错误的路径。
func (e *Engine) fallback(ctx context.Context, req core.Request) ([]*core.Candidate, error) {
	// 多取一些，有货过滤后再截断
	products, err := e.deps.Products.FindPopular(ctx, req.Limit*2)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrNoRecommendations, err)
	}

	out := make([]*core.Candidate, 0, req.Limit)
	for _, p := range products {
		if !p.Sellable() {
			continue
		}
		c := core.NewCandidate(p.ID, 0.5, "Popular product", core.SourceFallback)
		c.Product = p
		out = append(out, c)
		if len(out) >= req.Limit {
			break
		}
	}
	return out, nil
}
