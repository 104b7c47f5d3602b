package filter

import (
	"context"
	"testing"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/utils"
)

func TestRuleFilterShouldFilter(t *testing.T) {
	rctx := core.NewRecommendContext(core.Request{UserID: "u1", Category: "books"}.Normalize())

	lowScore := core.NewCandidate("p1", 0.2, "", core.StrategyTrending)
	highScore := core.NewCandidate("p2", 0.9, "", core.StrategyUserBased)
	highScore.PutLabel("recall_source", utils.Label{Value: "recall.user_cf", Source: "recall"})

	enriched := core.NewCandidate("p3", 0.5, "", core.StrategyHybrid)
	enriched.Product = &core.Product{ID: "p3", Category: "toys", Brand: "acme", Price: 20}

	tests := []struct {
		name      string
		filter    *RuleFilter
		candidate *core.Candidate
		want      bool
	}{
		{
			name:      "score threshold hits",
			filter:    &RuleFilter{Expr: "candidate.score < 0.3"},
			candidate: lowScore,
			want:      true,
		},
		{
			name:      "score threshold passes",
			filter:    &RuleFilter{Expr: "candidate.score < 0.3"},
			candidate: highScore,
			want:      false,
		},
		{
			name:      "algorithm match",
			filter:    &RuleFilter{Expr: `candidate.algorithm == "trending"`},
			candidate: lowScore,
			want:      true,
		},
		{
			name:      "label access",
			filter:    &RuleFilter{Expr: `label.recall_source.contains("user_cf")`},
			candidate: highScore,
			want:      true,
		},
		{
			name:      "product fields",
			filter:    &RuleFilter{Expr: `product.brand == "acme" && product.price < 50.0`},
			candidate: enriched,
			want:      true,
		},
		{
			name:      "request context fields",
			filter:    &RuleFilter{Expr: `rctx.category == "books"`},
			candidate: lowScore,
			want:      true,
		},
		{
			name:      "empty expression never filters",
			filter:    &RuleFilter{},
			candidate: lowScore,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.filter.ShouldFilter(context.Background(), rctx, tt.candidate)
			if err != nil {
				t.Fatalf("ShouldFilter: %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterNodeAppliesFilters(t *testing.T) {
	rctx := core.NewRecommendContext(core.Request{UserID: "u1"}.Normalize())
	candidates := []*core.Candidate{
		core.NewCandidate("p1", 0.9, "", core.StrategyHybrid),
		core.NewCandidate("p2", 0.1, "", core.StrategyHybrid),
	}

	n := &FilterNode{Filters: []Filter{&RuleFilter{Expr: "candidate.score < 0.3"}}}
	got, err := n.Process(context.Background(), rctx, candidates)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(got) != 1 || got[0].ProductID != "p1" {
		t.Fatalf("got %v, want only p1", got)
	}
	if lbl, ok := candidates[1].Labels["filtered"]; !ok || lbl.Source != "filter.rule" {
		t.Errorf("p2 filtered label = %+v", candidates[1].Labels)
	}
}
