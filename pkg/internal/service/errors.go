package service

import "fmt"

// ValidationError 请求参数不满足业务约束，映射为 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}

	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NotFoundError 目标资源不存在，映射为 404.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ForbiddenError 调用方不是资源所有者，映射为 403.
type ForbiddenError struct {
	Resource string
	ID       string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("access to %s %s denied", e.Resource, e.ID)
}

// InvalidStateError 对象当前状态不允许该操作（如没有进行中的分片会话），映射为 400.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid state: %s", e.Reason)
}

// ConfigurationError 服务端配置不合法（如分片大小低于下限），映射为 500.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// StorageBackendError 对象存储后端调用失败，映射为 502.
type StorageBackendError struct {
	Op  string
	Err error
}

func (e *StorageBackendError) Error() string {
	return fmt.Sprintf("storage backend %s failed: %v", e.Op, e.Err)
}

func (e *StorageBackendError) Unwrap() error {
	return e.Err
}
