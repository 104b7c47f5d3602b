package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "UNAVAILABLE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "cache", "recall"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 服务不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeTimeout       = "TIMEOUT"        // 外部调用超时
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleStore     = "store"     // 存储模块
	ModuleCache     = "cache"     // 缓存模块
	ModuleRecall    = "recall"    // 召回模块
	ModuleAssistant = "assistant" // 外部文本模型
	ModuleEngine    = "engine"    // 推荐引擎
)

// 通用领域错误
var (
	// ErrNotFound 表示资源不存在
	ErrNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: not found")

	// ErrCacheMiss 表示缓存 key 不存在（缓存后端内部使用，永不暴露给引擎调用方）
	ErrCacheMiss = NewDomainError(ModuleCache, ErrorCodeNotFound, "cache: key not found")

	// ErrAssistantTimeout 表示外部文本模型调用超时
	ErrAssistantTimeout = NewDomainError(ModuleAssistant, ErrorCodeTimeout, "assistant: request timed out")

	// ErrNoRecommendations 表示连兜底查询都失败，唯一向上冒泡的失败
	ErrNoRecommendations = NewDomainError(ModuleEngine, ErrorCodeUnavailable, "engine: no recommendations available")
)

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsTimeout 检查错误是否为 TIMEOUT。
func IsTimeout(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeTimeout
	}
	return false
}

// IsUnavailable 检查错误是否为 UNAVAILABLE。
func IsUnavailable(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnavailable
	}
	return false
}
