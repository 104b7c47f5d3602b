package core

// DefaultLimit 是单次推荐请求的默认返回条数。
const DefaultLimit = 10

// RequestContext 是请求级场景信息，可选；参与缓存 key 计算。
// 字段为固定结构体而非 map，保证序列化结果确定（缓存 key 可复现）。
type RequestContext struct {
	CurrentSession []string `json:"currentSession,omitempty"` // 当前会话浏览的商品 ID
	TimeOfDay      string   `json:"timeOfDay,omitempty"`
	Device         string   `json:"device,omitempty"`
	Location       string   `json:"location,omitempty"`
	Occasion       string   `json:"occasion,omitempty"`
}

// Request 是一次推荐请求，按调用构造、调用内不可变。
type Request struct {
	UserID    string          // 必填
	ProductID string          // 可选：item_based 的种子商品
	Category  string          // 可选：类目约束
	Limit     int             // 返回条数上限，<=0 时取 DefaultLimit
	Strategy  Strategy        // 推荐策略
	Context   *RequestContext // 可选场景信息
}

// Normalize 返回归一化后的请求副本：补默认 limit、校正非法策略。
// 原请求保持不可变。
func (r Request) Normalize() Request {
	if r.Limit <= 0 {
		r.Limit = DefaultLimit
	}
	if !r.Strategy.Valid() {
		r.Strategy = StrategyHybrid
	}
	return r
}
