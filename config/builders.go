package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/filter"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/conv"
	"github.com/rushteam/shoprec/postprocess"
	"github.com/rushteam/shoprec/recall"
	"github.com/rushteam/shoprec/rerank"
)

// BuilderDeps 是内置 Node 构建时需要的仓储与外设。
// 召回源直接持有仓储，配置文件只描述拓扑与参数。
type BuilderDeps struct {
	Products  core.ProductStore
	Users     core.UserStore
	Orders    core.OrderStore
	Assistant core.Assistant
	Log       zerolog.Logger
}

// RegisterBuiltins 注入依赖并注册全部内置 Node 类型。
// 在 main 或入口处调用一次；之后 DefaultFactory 即可按配置构建 Pipeline。
func RegisterBuiltins(deps BuilderDeps) {
	Register("recall.fanout", buildFanoutNode(deps))
	Register("recall.user_cf", buildSingleSourceNode(deps, "user_cf"))
	Register("recall.item_cf", buildSingleSourceNode(deps, "item_cf"))
	Register("recall.content", buildSingleSourceNode(deps, "content"))
	Register("recall.trending", buildSingleSourceNode(deps, "trending"))
	Register("recall.personalized", buildSingleSourceNode(deps, "personalized"))
	Register("filter.business", buildBusinessNode(deps))
	Register("filter.rule", buildRuleNode)
	Register("rerank.diversity", buildDiversityNode(deps))
	Register("rerank.topn", buildTopNNode)
	Register("postprocess.enrich", buildEnrichNode(deps))
}

// newSource 按类型名构建召回源。
func newSource(deps BuilderDeps, sourceType string, cfg map[string]any) (recall.Source, error) {
	switch sourceType {
	case "user_cf":
		return &recall.UserCF{
			Users:           deps.Users,
			Orders:          deps.Orders,
			MaxSimilarUsers: conv.ConfigGetInt(cfg, "max_similar_users", 0),
			MinSimilarity:   conv.ConfigGetFloat(cfg, "min_similarity", 0),
		}, nil
	case "item_cf":
		return &recall.ItemCF{
			Orders:       deps.Orders,
			MinFrequency: conv.ConfigGetFloat(cfg, "min_frequency", 0),
		}, nil
	case "content":
		return &recall.Content{
			Products:      deps.Products,
			Users:         deps.Users,
			MaxCandidates: conv.ConfigGetInt(cfg, "max_candidates", 0),
			MinScore:      conv.ConfigGetFloat(cfg, "min_score", 0),
		}, nil
	case "trending":
		return &recall.Trending{
			Products: deps.Products,
			Limit:    conv.ConfigGetInt(cfg, "limit", 0),
		}, nil
	case "personalized":
		src := &recall.Personalized{
			Assistant:            deps.Assistant,
			Products:             deps.Products,
			Users:                deps.Users,
			MatchesPerSuggestion: conv.ConfigGetInt(cfg, "matches_per_suggestion", 0),
			MaxRecentViews:       conv.ConfigGetInt(cfg, "max_recent_views", 0),
		}
		if ms := conv.ConfigGetInt(cfg, "timeout_ms", 0); ms > 0 {
			src.Timeout = time.Duration(ms) * time.Millisecond
		}
		return src, nil
	default:
		return nil, fmt.Errorf("unknown source type: %s", sourceType)
	}
}

func buildFanoutNode(deps BuilderDeps) NodeBuilder {
	return func(cfg map[string]any) (pipeline.Node, error) {
		sourcesCfg, ok := cfg["sources"].([]any)
		if !ok {
			return nil, fmt.Errorf("sources not found or invalid")
		}

		sources := make([]recall.WeightedSource, 0, len(sourcesCfg))
		for _, sc := range sourcesCfg {
			sourceMap, ok := sc.(map[string]any)
			if !ok {
				continue
			}
			sourceType := conv.ConfigGet[string](sourceMap, "type", "")
			src, err := newSource(deps, sourceType, sourceMap)
			if err != nil {
				return nil, err
			}
			sources = append(sources, recall.WeightedSource{
				Source: src,
				Weight: conv.ConfigGetFloat(sourceMap, "weight", 1.0),
			})
		}

		fanout := &recall.Fanout{Sources: sources, Log: deps.Log}
		if ms := conv.ConfigGetInt(cfg, "timeout_ms", 0); ms > 0 {
			fanout.Timeout = time.Duration(ms) * time.Millisecond
		}
		return fanout, nil
	}
}

func buildSingleSourceNode(deps BuilderDeps, sourceType string) NodeBuilder {
	return func(cfg map[string]any) (pipeline.Node, error) {
		src, err := newSource(deps, sourceType, cfg)
		if err != nil {
			return nil, err
		}
		node := &recall.SourceNode{Source: src, Log: deps.Log}
		if ms := conv.ConfigGetInt(cfg, "timeout_ms", 0); ms > 0 {
			node.Timeout = time.Duration(ms) * time.Millisecond
		}
		return node, nil
	}
}

func buildBusinessNode(deps BuilderDeps) NodeBuilder {
	return func(_ map[string]any) (pipeline.Node, error) {
		return &filter.BusinessNode{Products: deps.Products}, nil
	}
}

func buildRuleNode(cfg map[string]any) (pipeline.Node, error) {
	expr := conv.ConfigGet[string](cfg, "expr", "")
	if expr == "" {
		return nil, fmt.Errorf("expr not found")
	}
	return &filter.FilterNode{Filters: []filter.Filter{&filter.RuleFilter{Expr: expr}}}, nil
}

func buildDiversityNode(deps BuilderDeps) NodeBuilder {
	return func(cfg map[string]any) (pipeline.Node, error) {
		return &rerank.Diversity{
			Products:       deps.Products,
			MaxPerCategory: conv.ConfigGetInt(cfg, "max_per_category", 3),
			MaxPerBrand:    conv.ConfigGetInt(cfg, "max_per_brand", 2),
		}, nil
	}
}

func buildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopN{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
}

func buildEnrichNode(deps BuilderDeps) NodeBuilder {
	return func(_ map[string]any) (pipeline.Node, error) {
		return &postprocess.Enrich{Products: deps.Products, Log: deps.Log}, nil
	}
}
