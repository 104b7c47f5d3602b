package core

import "github.com/rushteam/shoprec/pkg/utils"

// RecommendContext 承载请求/用户画像/实时参数，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	// Request 是本次推荐请求（归一化后）
	Request Request

	// User 是用户画像；召回与过滤只读，写入方仅有反馈回路
	User *UserProfile

	// Labels 是请求级标签，可驱动 Pipeline 行为
	// 例如：新用户、价格敏感、降级标记等
	Labels map[string]utils.Label

	// Params 请求级上下文参数（time_of_day、device、query 等）
	Params map[string]any
}

// NewRecommendContext 基于归一化请求构建上下文。
func NewRecommendContext(req Request) *RecommendContext {
	return &RecommendContext{
		Request: req.Normalize(),
		Params:  make(map[string]any),
	}
}

// PutLabel 写入请求级 Label；同名 key 按默认 Merge 规则累积。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
