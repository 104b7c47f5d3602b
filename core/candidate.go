package core

import (
	"sort"

	"github.com/rushteam/shoprec/pkg/utils"
)

// Candidate 是推荐链路中的统一承载结构：商品 ID、分数、解释、来源。
// Reason 面向用户可读；Labels 面向链路观测与策略驱动。
type Candidate struct {
	ProductID string                 `json:"productId"`
	Score     float64                `json:"score"`
	Reason    string                 `json:"reason"`
	Source    Strategy               `json:"algorithm"`
	Metadata  map[string]any         `json:"metadata,omitempty"`
	Labels    map[string]utils.Label `json:"-"`

	// Product 由链路末端的 Enrich 填充，缓存中不落盘
	Product *Product `json:"product,omitempty"`
}

// NewCandidate 创建候选。
func NewCandidate(productID string, score float64, reason string, source Strategy) *Candidate {
	return &Candidate{
		ProductID: productID,
		Score:     score,
		Reason:    reason,
		Source:    source,
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}

// PutMeta 写入 Metadata。
func (c *Candidate) PutMeta(key string, v any) {
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	c.Metadata[key] = v
}

// SortCandidates 按分数降序排序；分数相同时按 ProductID 升序，
// 保证并发召回下的结果可复现。
func SortCandidates(list []*Candidate) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Score != list[j].Score {
			return list[i].Score > list[j].Score
		}
		return list[i].ProductID < list[j].ProductID
	})
}

// DedupKeepBest 按 ProductID 去重，保留分数最高的一条，再按 SortCandidates 排序。
// 单策略召回的标准收尾：保证每个商品至多出现一次。
func DedupKeepBest(list []*Candidate) []*Candidate {
	if len(list) == 0 {
		return list
	}
	best := make(map[string]*Candidate, len(list))
	order := make([]string, 0, len(list))
	for _, c := range list {
		if c == nil {
			continue
		}
		old, ok := best[c.ProductID]
		if !ok {
			best[c.ProductID] = c
			order = append(order, c.ProductID)
			continue
		}
		if c.Score > old.Score {
			best[c.ProductID] = c
		}
	}
	out := make([]*Candidate, 0, len(best))
	for _, id := range order {
		out = append(out, best[id])
	}
	SortCandidates(out)
	return out
}
