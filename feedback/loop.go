// Package feedback 实现交互反馈回路：交互事件 → 画像/计数器更新 → 缓存定向失效。
package feedback

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rushteam/shoprec/cache"
	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/conv"
)

// Loop 是反馈回路。打分链路的跨调用状态（画像、商品计数器）只有它会写。
//
// Record 的四步彼此独立、尽力而为：任何一步失败只记日志，
// 既不回滚其他步骤，也不向触发交互的调用方冒泡。
type Loop struct {
	Interactions core.InteractionLog
	Users        core.UserStore
	Products     core.ProductStore
	Cache        core.Cache

	Log zerolog.Logger

	// Now 注入时钟，便于测试；nil 时取 time.Now
	Now func() time.Time
}

// Record 记录一次用户-商品交互：
//  1. 追加交互事件（服务端时间戳）
//  2. 更新用户行为画像
//  3. 更新商品分析计数器
//  4. 失效该用户与该商品相关的推荐缓存
func (l *Loop) Record(
	ctx context.Context,
	userID, productID string,
	typ core.InteractionType,
	metadata map[string]any,
) {
	now := time.Now()
	if l.Now != nil {
		now = l.Now()
	}

	inter := &core.Interaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: productID,
		Type:      typ,
		Category:  conv.ConfigGet(metadata, "category", ""),
		Amount:    conv.ConfigGetFloat(metadata, "amount", 0),
		Metadata:  metadata,
		Timestamp: now,
	}

	if err := l.Interactions.Create(ctx, inter); err != nil {
		l.logErr(err, "interaction_log", inter)
	}

	if err := l.Users.ApplyInteraction(ctx, userID, inter, now); err != nil {
		l.logErr(err, "user_profile", inter)
	}

	if err := l.Products.UpdateAnalytics(ctx, productID, typ, inter.Amount, now); err != nil {
		l.logErr(err, "product_analytics", inter)
	}

	// 定向失效：该用户的全部推荐 + 所有以该商品为种子的推荐
	l.Cache.DeletePattern(ctx, cache.UserPattern(userID))
	l.Cache.DeletePattern(ctx, cache.ProductPattern(productID))
}

func (l *Loop) logErr(err error, step string, inter *core.Interaction) {
	l.Log.Error().Err(err).
		Str("component", "feedback").
		Str("step", step).
		Str("user_id", inter.UserID).
		Str("product_id", inter.ProductID).
		Str("type", string(inter.Type)).
		Msg("feedback step failed, continuing")
}
