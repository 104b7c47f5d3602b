package postprocess

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/store"
)

func TestEnrichAttachesProducts(t *testing.T) {
	products := store.NewMemoryProducts(
		&core.Product{ID: "p1", Name: "headphones", Price: 99},
		&core.Product{ID: "p2", Name: "keyboard", Price: 49},
	)

	in := []*core.Candidate{
		core.NewCandidate("p1", 0.9, "", core.StrategyHybrid),
		core.NewCandidate("ghost", 0.8, "", core.StrategyHybrid),
		core.NewCandidate("p2", 0.7, "", core.StrategyHybrid),
	}

	n := &Enrich{Products: products, Log: zerolog.Nop()}
	got, err := n.Process(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	// 目录里不存在的候选被丢弃
	if len(got) != 2 {
		t.Fatalf("kept %d, want 2", len(got))
	}
	if got[0].Product == nil || got[0].Product.Name != "headphones" {
		t.Errorf("p1 product = %+v", got[0].Product)
	}
	if got[1].Product == nil || got[1].Product.Price != 49 {
		t.Errorf("p2 product = %+v", got[1].Product)
	}
}

func TestEnrichEmptyInput(t *testing.T) {
	n := &Enrich{Products: store.NewMemoryProducts(), Log: zerolog.Nop()}
	got, err := n.Process(context.Background(), nil, nil)
	if err != nil || got != nil {
		t.Errorf("empty input = %v, %v; want nil, nil", got, err)
	}
}
