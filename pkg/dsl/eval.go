package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/shoprec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量和函数
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		// 定义变量类型
		cel.Variable("candidate", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("product", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是规则 DSL 解释器，使用 CEL (Common Expression Language) 实现。
// 业务侧可以用表达式下发临时过滤规则，无需改代码发版。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：candidate.score > 0.7 / candidate.algorithm == "trending"
//   - 标签：label.recall_source.contains("trending")
//   - 商品：product.price < 100.0 && product.category == "electronics"
//   - 逻辑：label.category == "A" && candidate.score > 0.8
//   - 存在性：label.recall_source != null
//
// 示例：
//   - `product.brand == "acme" && candidate.score < 0.3` → 低分 acme 商品
//   - `rctx.category != "" && product.category != rctx.category` → 类目约束
type Eval struct {
	candidate *core.Candidate
	rctx      *core.RecommendContext
	env       *cel.Env
}

// NewEval 创建一个新的 DSL 解释器。
func NewEval(candidate *core.Candidate, rctx *core.RecommendContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{
		candidate: candidate,
		rctx:      rctx,
		env:       env,
	}
}

// Evaluate 解析并执行 DSL 表达式，返回布尔结果。
// 空表达式恒为 true。表达式必须返回布尔值。
//
// 注意：CEL 访问不存在的 key 会报错，存在性检查请用 label.key != null。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	if e.env == nil {
		return false, fmt.Errorf("cel env not initialized")
	}

	// 编译表达式
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}

	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func (e *Eval) buildInput() map[string]interface{} {
	// label.recall_source 直接取 value，与链路内的 Label 语义对齐
	labelAccessor := make(map[string]interface{})
	for k, v := range e.candidate.Labels {
		labelAccessor[k] = v.Value
	}

	candidate := map[string]interface{}{
		"product_id": e.candidate.ProductID,
		"score":      e.candidate.Score,
		"reason":     e.candidate.Reason,
		"algorithm":  string(e.candidate.Source),
		"metadata":   e.candidate.Metadata,
	}

	// 商品记录可能尚未 enrich，提供空 map 兜底
	product := map[string]interface{}{}
	if p := e.candidate.Product; p != nil {
		product = map[string]interface{}{
			"id":       p.ID,
			"category": p.Category,
			"brand":    p.Brand,
			"price":    p.Price,
			"status":   string(p.Status),
			"trending": p.Trending,
			"rating":   p.Rating.Average,
			"stock":    p.Inventory.Quantity,
		}
	}

	rctx := map[string]interface{}{}
	if e.rctx != nil {
		rctx = map[string]interface{}{
			"user_id":    e.rctx.Request.UserID,
			"product_id": e.rctx.Request.ProductID,
			"category":   e.rctx.Request.Category,
			"strategy":   string(e.rctx.Request.Strategy),
			"params":     e.rctx.Params,
		}
	}

	return map[string]interface{}{
		"candidate": candidate,
		"label":     labelAccessor,
		"product":   product,
		"rctx":      rctx,
	}
}
