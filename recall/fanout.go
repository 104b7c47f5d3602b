package recall

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

// WeightedSource 是带融合权重的召回源。
type WeightedSource struct {
	Source Source
	Weight float64
}

// Fanout 是混合召回 Node：并发执行多个召回源，并做加权融合。
//
// 并发与隔离：
//   - 所有源同时发起（fan-out/fan-in），每个源有独立超时
//   - 单源失败/超时只贡献空结果并记日志，绝不取消其他源
//   - 融合等全部源落定后进行
//
// 融合语义（同一商品被多个源召回时）：
//   - score += 源内原始分 × 该源权重（可加性）
//   - reason 按源声明顺序以 ", " 拼接（与完成顺序无关）
//   - 每个商品最终只保留一条候选
//
// 输出按融合分降序；同分按 ProductID 升序，保证结果可复现。
type Fanout struct {
	Sources []WeightedSource

	// Timeout 单个召回源的超时时间，<=0 时取 3s
	Timeout time.Duration

	Log zerolog.Logger
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Candidate,
) ([]*core.Candidate, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	timeout := n.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	// 结果按源的声明位置落槽：融合顺序由此固定，与 goroutine 完成顺序无关
	results := make([][]*core.Candidate, len(n.Sources))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, ws := range n.Sources {
		i, ws := i, ws
		eg.Go(func() error {
			recallCtx, cancel := context.WithTimeout(egCtx, timeout)
			defer cancel()

			list, err := ws.Source.Recall(recallCtx, rctx)
			if err != nil {
				// 单源失败降级为空结果，不中断其他召回源
				n.Log.Warn().Err(err).Str("source", ws.Source.Name()).
					Msg("recall source failed, contributing empty result")
				return nil
			}
			results[i] = list
			return nil
		})
	}

	// goroutine 全部返回 nil，Wait 不会失败；等待只为 fan-in
	_ = eg.Wait()

	return n.fuse(results), nil
}

// fuse 按源声明顺序做加权融合。
func (n *Fanout) fuse(results [][]*core.Candidate) []*core.Candidate {
	fused := make(map[string]*core.Candidate)
	order := make([]string, 0, 64)

	for i, ws := range n.Sources {
		weight := ws.Weight
		priority := strconv.Itoa(i)
		for _, c := range results[i] {
			if c == nil {
				continue
			}
			weighted := c.Score * weight

			existing, ok := fused[c.ProductID]
			if !ok {
				merged := core.NewCandidate(c.ProductID, weighted, c.Reason, core.StrategyHybrid)
				merged.Metadata = c.Metadata
				for k, v := range c.Labels {
					merged.PutLabel(k, v)
				}
				merged.PutLabel("recall_priority", utils.Label{Value: priority, Source: "recall"})
				fused[c.ProductID] = merged
				order = append(order, c.ProductID)
				continue
			}

			existing.Score += weighted
			existing.Reason = utils.JoinReason(existing.Reason, c.Reason)
			for k, v := range c.Labels {
				existing.PutLabel(k, v)
			}
			for k, v := range c.Metadata {
				existing.PutMeta(k, v)
			}
		}
	}

	out := make([]*core.Candidate, 0, len(fused))
	for _, id := range order {
		out = append(out, fused[id])
	}
	core.SortCandidates(out)
	return out
}
