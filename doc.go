// Package shoprec 是一个电商推荐引擎（Shop Recommender）。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → ReRank → PostProcess）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - 多路召回加权融合：user_cf / item_cf / content / trending 并发执行后按固定权重融合
// - 缓存与反馈闭环：结果缓存按 用户/商品 维度模式失效，行为事件驱动画像与统计更新
package shoprec

import "github.com/rushteam/shoprec/pipeline"

// 轻量 facade：便于用户直接 import "shoprec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
