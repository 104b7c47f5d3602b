// Package assistant 提供外部文本生成服务的客户端实现。
package assistant

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/rushteam/shoprec/core"
)

// Ollama 是 Ollama 兼容服务的 core.Assistant 实现（/api/generate）。
//
// 外部模型可能很慢：除调用方 ctx 的截止时间外，客户端自身也带硬超时，
// 两者取更早者。失败语义由调用方（personalized 召回源）兜底为空结果。
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllama 创建客户端。timeout <= 0 时取 2s。
func NewOllama(baseURL, model string, timeout time.Duration) *Ollama {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Ollama{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

var _ core.Assistant = (*Ollama)(nil)

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Suggest 根据用户上下文产出类目/商品类型建议，每行一条。
func (o *Ollama) Suggest(ctx context.Context, actx *core.AssistantContext) ([]string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  o.model,
		Prompt: buildPrompt(actx),
		Stream: false,
		Options: generateOptions{
			Temperature: 0.3,
			TopP:        0.8,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, core.ErrAssistantTimeout
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("assistant: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}

	return ParseSuggestions(out.Response), nil
}

// buildPrompt 把画像摘要组织为约束明确的提示词：只要建议列表，每行一条。
func buildPrompt(actx *core.AssistantContext) string {
	var b strings.Builder
	b.WriteString("You are a shopping assistant. Based on this customer profile, ")
	b.WriteString("suggest product categories or product types they would likely buy next.\n\n")

	fmt.Fprintf(&b, "Preferred categories: %s\n", strings.Join(actx.Categories, ", "))
	fmt.Fprintf(&b, "Price range: %.2f - %.2f\n", actx.PriceRange.Min, actx.PriceRange.Max)
	if len(actx.RecentViews) > 0 {
		fmt.Fprintf(&b, "Recently viewed products: %s\n", strings.Join(actx.RecentViews, ", "))
	}
	fmt.Fprintf(&b, "Total orders: %d, total spent: %.2f\n", actx.Behavior.TotalOrders, actx.Behavior.TotalSpent)
	if len(actx.Behavior.FavoriteCategories) > 0 {
		fmt.Fprintf(&b, "Favorite categories: %s\n", strings.Join(actx.Behavior.FavoriteCategories, ", "))
	}

	b.WriteString("\nRespond with up to 5 suggestions, one per line, no explanations.")
	return b.String()
}

// ParseSuggestions 把模型输出解析为建议列表：按行拆分，
// 去掉常见的序号/列表前缀与空行。
func ParseSuggestions(response string) []string {
	lines := strings.Split(response, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		s := strings.TrimSpace(line)
		s = strings.TrimLeft(s, "-*•")
		// "1. suggestion" / "2) suggestion" 形式的序号
		if i := strings.IndexAny(s, ".)"); i > 0 && i <= 2 && isDigits(s[:i]) {
			s = s[i+1:]
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) >= 5 {
			break
		}
	}
	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
