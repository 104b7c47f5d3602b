package recall

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/shoprec/core"
)

// stubSource 返回固定候选或固定错误。
type stubSource struct {
	name       string
	strategy   core.Strategy
	candidates []*core.Candidate
	err        error
	delay      time.Duration
}

func (s *stubSource) Name() string            { return s.name }
func (s *stubSource) Strategy() core.Strategy { return s.strategy }

func (s *stubSource) Recall(ctx context.Context, _ *core.RecommendContext) ([]*core.Candidate, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	// 每次调用返回拷贝，融合不会污染源数据
	out := make([]*core.Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func rctxFor(userID string) *core.RecommendContext {
	return core.NewRecommendContext(core.Request{UserID: userID}.Normalize())
}

func TestFanoutWeightedFusion(t *testing.T) {
	n := &Fanout{
		Sources: []WeightedSource{
			{Source: &stubSource{name: "s1", strategy: core.StrategyUserBased, candidates: []*core.Candidate{
				core.NewCandidate("p1", 0.5, "similar users", core.StrategyUserBased),
			}}, Weight: 0.3},
			{Source: &stubSource{name: "s2", strategy: core.StrategyContentBased, candidates: []*core.Candidate{
				core.NewCandidate("p1", 0.4, "matches prefs", core.StrategyContentBased),
				core.NewCandidate("p2", 1.0, "matches prefs", core.StrategyContentBased),
			}}, Weight: 0.25},
		},
		Log: zerolog.Nop(),
	}

	got, err := n.Process(context.Background(), rctxFor("u1"), nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("candidates = %d, want 2", len(got))
	}

	// p2: 1.0×0.25 = 0.25；p1: 0.5×0.3 + 0.4×0.25 = 0.25。同分按 ID 升序。
	if got[0].ProductID != "p1" || got[1].ProductID != "p2" {
		t.Fatalf("order = [%s %s], want [p1 p2]", got[0].ProductID, got[1].ProductID)
	}
	if math.Abs(got[0].Score-0.25) > 1e-9 {
		t.Errorf("p1 score = %v, want 0.25", got[0].Score)
	}
	// reason 按源声明顺序拼接
	if got[0].Reason != "similar users, matches prefs" {
		t.Errorf("p1 reason = %q", got[0].Reason)
	}
	if got[0].Source != core.StrategyHybrid {
		t.Errorf("source = %s, want hybrid", got[0].Source)
	}
}

func TestFanoutIsolatesFailingSource(t *testing.T) {
	n := &Fanout{
		Sources: []WeightedSource{
			{Source: &stubSource{name: "bad", strategy: core.StrategyUserBased,
				err: errors.New("store down")}, Weight: 0.5},
			{Source: &stubSource{name: "good", strategy: core.StrategyTrending, candidates: []*core.Candidate{
				core.NewCandidate("p1", 0.8, "Trending now", core.StrategyTrending),
			}}, Weight: 0.15},
		},
		Log: zerolog.Nop(),
	}

	got, err := n.Process(context.Background(), rctxFor("u1"), nil)
	if err != nil {
		t.Fatalf("failing source must not break the node: %v", err)
	}
	if len(got) != 1 || got[0].ProductID != "p1" {
		t.Fatalf("got %v, want the healthy source's candidate", got)
	}
	if math.Abs(got[0].Score-0.8*0.15) > 1e-9 {
		t.Errorf("score = %v, want %v", got[0].Score, 0.8*0.15)
	}
}

func TestFanoutTimesOutSlowSource(t *testing.T) {
	n := &Fanout{
		Sources: []WeightedSource{
			{Source: &stubSource{name: "slow", strategy: core.StrategyUserBased,
				delay: 500 * time.Millisecond, candidates: []*core.Candidate{
					core.NewCandidate("p9", 1.0, "", core.StrategyUserBased),
				}}, Weight: 0.5},
			{Source: &stubSource{name: "fast", strategy: core.StrategyTrending, candidates: []*core.Candidate{
				core.NewCandidate("p1", 0.8, "Trending now", core.StrategyTrending),
			}}, Weight: 0.5},
		},
		Timeout: 30 * time.Millisecond,
		Log:     zerolog.Nop(),
	}

	start := time.Now()
	got, err := n.Process(context.Background(), rctxFor("u1"), nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 300*time.Millisecond {
		t.Errorf("took %v, slow source must be cut off by its timeout", elapsed)
	}
	if len(got) != 1 || got[0].ProductID != "p1" {
		t.Errorf("got %v, want only the fast source's candidate", got)
	}
}

func TestFanoutEmptySources(t *testing.T) {
	n := &Fanout{Log: zerolog.Nop()}
	got, err := n.Process(context.Background(), rctxFor("u1"), nil)
	if err != nil || got != nil {
		t.Errorf("empty sources = %v, %v; want nil, nil", got, err)
	}
}
