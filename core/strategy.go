package core

// Strategy 表示推荐策略，闭集枚举。
// 用类型化枚举替代字符串分支，便于编译期穷举检查与配置校验。
type Strategy string

const (
	StrategyUserBased    Strategy = "user_based"    // 基于用户的协同过滤（u2u → u2i）
	StrategyItemBased    Strategy = "item_based"    // 基于物品的协同过滤（共现频率）
	StrategyContentBased Strategy = "content_based" // 内容匹配（类目/价格/品牌/评分）
	StrategyHybrid       Strategy = "hybrid"        // 多策略加权融合
	StrategyTrending     Strategy = "trending"      // 热门趋势
	StrategyPersonalized Strategy = "personalized"  // 外部文本模型辅助的个性化召回
)

// AllStrategies 返回全部策略，顺序固定（融合时按此顺序拼接 reason）。
func AllStrategies() []Strategy {
	return []Strategy{
		StrategyUserBased,
		StrategyItemBased,
		StrategyContentBased,
		StrategyHybrid,
		StrategyTrending,
		StrategyPersonalized,
	}
}

// SourceFallback 标记兜底结果的来源，不属于可请求的策略闭集。
const SourceFallback Strategy = "fallback"

// Valid 判断策略是否在闭集内。
func (s Strategy) Valid() bool {
	switch s {
	case StrategyUserBased, StrategyItemBased, StrategyContentBased,
		StrategyHybrid, StrategyTrending, StrategyPersonalized:
		return true
	}
	return false
}

// ParseStrategy 解析策略字符串；未知值回退为 hybrid（与线上默认分支一致）。
func ParseStrategy(s string) Strategy {
	st := Strategy(s)
	if st.Valid() {
		return st
	}
	return StrategyHybrid
}
