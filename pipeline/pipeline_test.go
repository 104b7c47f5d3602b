package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rushteam/shoprec/core"
)

// appendNode 往候选列表追加一个固定商品，记录执行顺序。
type appendNode struct {
	name string
	kind Kind
	err  error
}

func (n *appendNode) Name() string { return n.name }
func (n *appendNode) Kind() Kind   { return n.kind }

func (n *appendNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	candidates []*core.Candidate,
) ([]*core.Candidate, error) {
	if n.err != nil {
		return nil, n.err
	}
	return append(candidates, core.NewCandidate(n.name, 1, "", core.StrategyHybrid)), nil
}

func TestPipelineRunsNodesInOrder(t *testing.T) {
	p := &Pipeline{Nodes: []Node{
		&appendNode{name: "a", kind: KindRecall},
		&appendNode{name: "b", kind: KindFilter},
		&appendNode{name: "c", kind: KindReRank},
	}}

	got, err := p.Run(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("candidates = %d, want 3", len(got))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].ProductID != want {
			t.Errorf("pos %d = %s, want %s", i, got[i].ProductID, want)
		}
	}
}

func TestPipelineWrapsNodeError(t *testing.T) {
	sentinel := errors.New("boom")
	p := &Pipeline{Nodes: []Node{
		&appendNode{name: "ok", kind: KindRecall},
		&appendNode{name: "broken", kind: KindFilter, err: sentinel},
	}}

	_, err := p.Run(context.Background(), nil, nil)
	if err == nil {
		t.Fatal("want error")
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("err = %v, want wrapped sentinel", err)
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("err = %v, want node name in message", err)
	}
}

func TestConfigBuildPipeline(t *testing.T) {
	factory := NewNodeFactory()
	factory.Register("append", func(cfg map[string]any) (Node, error) {
		name, _ := cfg["name"].(string)
		return &appendNode{name: name, kind: KindRecall}, nil
	})

	cfg := &Config{}
	cfg.Pipeline.Name = "test"
	cfg.Pipeline.Nodes = []NodeConfig{
		{Type: "append", Config: map[string]any{"name": "n1"}},
		{Type: "append", Config: map[string]any{"name": "n2"}},
	}

	p, err := cfg.BuildPipeline(factory)
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}
	got, err := p.Run(context.Background(), nil, nil)
	if err != nil || len(got) != 2 {
		t.Errorf("built pipeline run = %v, %v", got, err)
	}

	cfg.Pipeline.Nodes = append(cfg.Pipeline.Nodes, NodeConfig{Type: "nope"})
	if _, err := cfg.BuildPipeline(factory); err == nil {
		t.Error("unknown node type must fail the build")
	}
}
