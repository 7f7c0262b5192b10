package storage

import (
	"github.com/dep2p/go-svcaddr/internal/core/storage/engine"
)

// 重导出 engine 包的错误
var (
	// ErrNotFound 键不存在
	ErrNotFound = engine.ErrNotFound

	// ErrClosed 存储已关闭
	ErrClosed = engine.ErrClosed

	// ErrInvalidConfig 无效配置
	ErrInvalidConfig = engine.ErrInvalidConfig

	// ErrTransactionConflict 事务冲突
	ErrTransactionConflict = engine.ErrTransactionConflict
)

// IsNotFound 检查是否为 ErrNotFound
func IsNotFound(err error) bool {
	return engine.IsNotFound(err)
}

// IsConflict 检查是否为事务冲突
func IsConflict(err error) bool {
	return engine.IsConflict(err)
}
