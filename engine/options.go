package engine

import (
	"time"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/recall"
)

// Weights 是 hybrid 融合的固定权重。
type Weights struct {
	UserBased    float64 `yaml:"user_based"`
	ItemBased    float64 `yaml:"item_based"`
	ContentBased float64 `yaml:"content_based"`
	Trending     float64 `yaml:"trending"`
}

// DefaultWeights 返回线上默认权重。
func DefaultWeights() Weights {
	return Weights{
		UserBased:    0.3,
		ItemBased:    0.3,
		ContentBased: 0.25,
		Trending:     0.15,
	}
}

type options struct {
	weights          Weights
	cacheTTL         time.Duration
	recallTimeout    time.Duration
	assistantTimeout time.Duration
	maxPerCategory   int
	maxPerBrand      int
	ruleExpr         string
	overrides        map[core.Strategy]recall.Source
}

func defaultOptions() options {
	return options{
		weights:          DefaultWeights(),
		cacheTTL:         time.Hour,
		recallTimeout:    3 * time.Second,
		assistantTimeout: 2 * time.Second,
		maxPerCategory:   3,
		maxPerBrand:      2,
		overrides:        make(map[core.Strategy]recall.Source),
	}
}

// Option 配置 Engine。
type Option func(*options)

// WithWeights 覆盖 hybrid 融合权重。
func WithWeights(w Weights) Option {
	return func(o *options) { o.weights = w }
}

// WithCacheTTL 覆盖推荐结果缓存 TTL（默认 1h）。
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.cacheTTL = ttl
		}
	}
}

// WithRecallTimeout 覆盖单召回源超时（默认 3s）。
func WithRecallTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.recallTimeout = d
		}
	}
}

// WithAssistantTimeout 覆盖外部文本模型硬超时（默认 2s）。
func WithAssistantTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.assistantTimeout = d
		}
	}
}

// WithDiversityCaps 覆盖多样性配额（<=0 表示该维度不限制）。
func WithDiversityCaps(perCategory, perBrand int) Option {
	return func(o *options) {
		o.maxPerCategory = perCategory
		o.maxPerBrand = perBrand
	}
}

// WithRule 下发 CEL 过滤表达式（空串关闭）。
func WithRule(expr string) Option {
	return func(o *options) { o.ruleExpr = expr }
}

// WithSource 替换某个策略的召回源（测试插桩/灰度替换用）。
func WithSource(strategy core.Strategy, src recall.Source) Option {
	return func(o *options) { o.overrides[strategy] = src }
}
