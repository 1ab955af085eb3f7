package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - Store 错误：NOT_FOUND
//   - 数据源错误：UNREACHABLE（文件缺失 / 远端存储不可达）
//   - 解析错误：MALFORMED（单行解析失败，调用方本地吸收并计数）
//   - 重载错误：RELOAD_IN_FLIGHT（并发重载被拒绝）
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "UNREACHABLE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "catalog", "embedding"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*DomainError)
	return ok
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound       = "NOT_FOUND"        // 资源不存在（key / 版本 / 实体）
	ErrorCodeUnreachable    = "UNREACHABLE"      // 数据源不可达（文件缺失、远端存储故障）
	ErrorCodeMalformed      = "MALFORMED"        // 单条记录格式错误（跳过并计数，不致命）
	ErrorCodeReloadInFlight = "RELOAD_IN_FLIGHT" // 已有重载在进行中
	ErrorCodeInvalidInput   = "INVALID_INPUT"    // 输入无效
)

// 模块名称常量
const (
	ModuleStore     = "store"     // 存储模块
	ModuleParser    = "parser"    // 解析模块
	ModuleEmbedding = "embedding" // 嵌入数据源模块
	ModuleCatalog   = "catalog"   // 目录模块
	ModuleModel     = "model"     // 模型版本模块
	ModuleReload    = "reload"    // 重载协调模块
)

// 通用错误检查函数

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsUnreachable 检查错误是否为 UNREACHABLE
func IsUnreachable(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnreachable
	}
	return false
}

// IsMalformed 检查错误是否为 MALFORMED
func IsMalformed(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeMalformed
	}
	return false
}

// IsReloadInFlight 检查错误是否为 RELOAD_IN_FLIGHT
func IsReloadInFlight(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeReloadInFlight
	}
	return false
}
