package cache

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/rushteam/shoprec/core"
)

// 缓存 key 布局：recommendations:<strategy>:<userID>:<productID|none>:<category|none>:<limit>[:<b64(context)>]
//
// 前 6 段保持明文，定向失效（按用户/按商品的通配删除）依赖这一结构；
// 只有 context 段做 base64 编码以约束 key 长度与字符集。
// 同一请求必然产生同一 key：字段顺序固定，context 为结构体，序列化结果确定。

const keyPrefix = "recommendations"

// Key 由归一化后的请求生成缓存 key。
func Key(req core.Request) string {
	req = req.Normalize()

	productID := req.ProductID
	if productID == "" {
		productID = "none"
	}
	category := req.Category
	if category == "" {
		category = "none"
	}

	parts := []string{
		keyPrefix,
		string(req.Strategy),
		req.UserID,
		productID,
		category,
		fmt.Sprintf("%d", req.Limit),
	}

	if req.Context != nil {
		if raw, err := json.Marshal(req.Context); err == nil {
			parts = append(parts, base64.RawURLEncoding.EncodeToString(raw))
		}
	}

	return strings.Join(parts, ":")
}

// UserPattern 返回失效某个用户全部推荐缓存的通配模式。
func UserPattern(userID string) string {
	return fmt.Sprintf("%s:*:%s:*", keyPrefix, userID)
}

// ProductPattern 返回失效某个商品相关推荐缓存的通配模式。
func ProductPattern(productID string) string {
	return fmt.Sprintf("%s:*:*:%s:*", keyPrefix, productID)
}
