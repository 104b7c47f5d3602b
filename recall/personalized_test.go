package recall

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/store"
)

// stubAssistant 返回固定建议；delay > 0 时先等待（可被 ctx 截断）。
type stubAssistant struct {
	suggestions []string
	delay       time.Duration
}

func (a *stubAssistant) Suggest(ctx context.Context, _ *core.AssistantContext) ([]string, error) {
	if a.delay > 0 {
		select {
		case <-time.After(a.delay):
		case <-ctx.Done():
			return nil, core.ErrAssistantTimeout
		}
	}
	return a.suggestions, nil
}

func TestPersonalizedRecall(t *testing.T) {
	users := store.NewMemoryUsers(&core.UserProfile{
		UserID: "u1",
		Preferences: core.Preferences{
			Categories: []string{"electronics"},
			PriceRange: core.PriceRange{Min: 0, Max: 1000},
		},
	})
	products := store.NewMemoryProducts(
		&core.Product{ID: "p1", Name: "wireless headphones", Category: "electronics",
			Status: core.ProductActive},
		&core.Product{ID: "p2", Name: "headphones stand", Category: "accessories",
			Status: core.ProductActive},
		&core.Product{ID: "p3", Name: "garden hose", Category: "garden",
			Status: core.ProductActive},
	)

	r := &Personalized{
		Assistant: &stubAssistant{suggestions: []string{"headphones"}},
		Products:  products,
		Users:     users,
	}
	rctx := core.NewRecommendContext(core.Request{UserID: "u1"}.Normalize())

	got, err := r.Recall(context.Background(), rctx)
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("candidates = %d, want 2 (name matches)", len(got))
	}
	for _, c := range got {
		if c.Score != 0.85 {
			t.Errorf("%s score = %v, want 0.85", c.ProductID, c.Score)
		}
		if c.Reason != "AI suggestion: headphones" {
			t.Errorf("reason = %q", c.Reason)
		}
		if c.Source != core.StrategyPersonalized {
			t.Errorf("source = %s", c.Source)
		}
	}
}

func TestPersonalizedRecallTimeout(t *testing.T) {
	users := store.NewMemoryUsers(&core.UserProfile{UserID: "u1"})
	r := &Personalized{
		Assistant: &stubAssistant{suggestions: []string{"x"}, delay: time.Second},
		Products:  store.NewMemoryProducts(),
		Users:     users,
		Timeout:   20 * time.Millisecond,
	}
	rctx := core.NewRecommendContext(core.Request{UserID: "u1"}.Normalize())

	start := time.Now()
	got, err := r.Recall(context.Background(), rctx)
	if err != nil || got != nil {
		t.Errorf("timeout = %v, %v; want silent nil, nil", got, err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("took %v, hard timeout not enforced", elapsed)
	}
}

func TestPersonalizedRecallNilAssistant(t *testing.T) {
	r := &Personalized{Products: store.NewMemoryProducts(), Users: store.NewMemoryUsers()}
	rctx := core.NewRecommendContext(core.Request{UserID: "u1"}.Normalize())

	got, err := r.Recall(context.Background(), rctx)
	if err != nil || got != nil {
		t.Errorf("nil assistant = %v, %v; want nil, nil", got, err)
	}
}
