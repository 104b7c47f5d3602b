package core

import "time"

// PriceRange 是价格区间，闭区间 [Min, Max]。
type PriceRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Contains 判断价格是否落在区间内。
func (p PriceRange) Contains(price float64) bool {
	return price >= p.Min && price <= p.Max
}

// Overlap 计算两个区间的重叠比例（重叠长度 / 并集长度），范围 [0,1]。
// 并集长度为 0 时返回 0。
func (p PriceRange) Overlap(o PriceRange) float64 {
	overlap := minF(p.Max, o.Max) - maxF(p.Min, o.Min)
	if overlap < 0 {
		overlap = 0
	}
	union := maxF(p.Max, o.Max) - minF(p.Min, o.Min)
	if union <= 0 {
		return 0
	}
	return overlap / union
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Preferences 是用户的显式偏好（注册/设置页维护，召回只读）。
type Preferences struct {
	Categories []string   `json:"categories"`
	Brands     []string   `json:"brands"`
	PriceRange PriceRange `json:"priceRange"`
}

// BehaviorProfile 是用户行为画像的聚合统计。
// 仅由反馈回路写入；打分链路只读，最终一致即可。
type BehaviorProfile struct {
	BrowsingSessions   int       `json:"browsingSessions"`
	TotalOrders        int       `json:"totalOrders"`
	TotalSpent         float64   `json:"totalSpent"`
	AverageOrderValue  float64   `json:"averageOrderValue"`
	LastPurchaseDate   time.Time `json:"lastPurchaseDate"`
	FavoriteCategories []string  `json:"favoriteCategories"`
	DevicePreference   string    `json:"devicePreference"`
	TimePreference     string    `json:"timePreference"`
}

// RecentView 是一次商品浏览记录。
type RecentView struct {
	ProductID string    `json:"productId"`
	ViewedAt  time.Time `json:"viewedAt"`
	Duration  int       `json:"duration"` // 秒
}

// UserProfile 是用户画像：显式偏好 + 行为聚合 + 近期浏览。
//
// 设计要点：
//  维度        作用
//  显式偏好    内容召回 / 相似用户计算
//  行为聚合    个性化召回上下文 / 实时调权
//  近期浏览    会话级信号
//
// 写入方仅有反馈回路；并发读写依赖存储层的原子更新语义。
type UserProfile struct {
	UserID      string          `json:"userId"`
	Preferences Preferences     `json:"preferences"`
	Behavior    BehaviorProfile `json:"behaviorProfile"`
	RecentViews []RecentView    `json:"recentViews,omitempty"`
}

// NewUserProfile 创建一个空画像。
func NewUserProfile(userID string) *UserProfile {
	return &UserProfile{UserID: userID}
}

// ApplyInteraction 将一次交互落到行为画像上：
//   - 任意交互：浏览会话数 +1
//   - purchase：订单数 +1、累计消费 += 金额、重算平均客单价、记录最近购买时间
//   - 带类目的交互：类目不在收藏列表时追加（幂等）
//
// 调用方（仅反馈回路）负责存储层的原子性。
func (p *UserProfile) ApplyInteraction(inter *Interaction, now time.Time) {
	p.Behavior.BrowsingSessions++

	if inter.Type == InteractionPurchase {
		p.Behavior.TotalOrders++
		p.Behavior.TotalSpent += inter.Amount
		if p.Behavior.TotalOrders > 0 {
			p.Behavior.AverageOrderValue = p.Behavior.TotalSpent / float64(p.Behavior.TotalOrders)
		}
		p.Behavior.LastPurchaseDate = now
	}

	if inter.Category != "" && !p.HasFavoriteCategory(inter.Category) {
		p.Behavior.FavoriteCategories = append(p.Behavior.FavoriteCategories, inter.Category)
	}
}

// HasFavoriteCategory 判断类目是否已在收藏列表。
func (p *UserProfile) HasFavoriteCategory(category string) bool {
	for _, c := range p.Behavior.FavoriteCategories {
		if c == category {
			return true
		}
	}
	return false
}

// AddRecentView 追加一次浏览记录，保留最近 maxSize 条。
func (p *UserProfile) AddRecentView(productID string, duration int, now time.Time, maxSize int) {
	p.RecentViews = append(p.RecentViews, RecentView{
		ProductID: productID,
		ViewedAt:  now,
		Duration:  duration,
	})
	if maxSize > 0 && len(p.RecentViews) > maxSize {
		p.RecentViews = p.RecentViews[len(p.RecentViews)-maxSize:]
	}
}
