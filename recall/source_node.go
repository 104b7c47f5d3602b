package recall

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// SourceNode 把单个召回源适配为 Pipeline Node，用于单策略请求
// （user_based / item_based / content_based / trending / personalized 单独调用）。
// 与 Fanout 一致：源失败记日志并降级为空结果，不向上冒泡。
type SourceNode struct {
	Source Source

	// Timeout 召回超时时间，<=0 时取 3s
	Timeout time.Duration

	Log zerolog.Logger
}

func (n *SourceNode) Name() string        { return "recall.single." + n.Source.Name() }
func (n *SourceNode) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *SourceNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	recallCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	list, err := n.Source.Recall(recallCtx, rctx)
	if err != nil {
		n.Log.Warn().Err(err).Str("source", n.Source.Name()).
			Msg("recall source failed, contributing empty result")
		return nil, nil
	}
	return list, nil
}
