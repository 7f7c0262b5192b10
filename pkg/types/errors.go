package types

import "errors"

// ============================================================================
//                              标识相关错误
// ============================================================================

var (
	// ErrEmptyDurableID 空 DurableID
	ErrEmptyDurableID = errors.New("empty durable id")

	// ErrInvalidDurableID 无效的 DurableID 字符串
	ErrInvalidDurableID = errors.New("invalid durable id: must be a UUID")

	// ErrEmptyAlias 空别名
	ErrEmptyAlias = errors.New("empty alias")

	// ErrInvalidAlias 语法无效的别名
	ErrInvalidAlias = errors.New("invalid alias")

	// ErrNoIdentifier 既没有 DurableID 也没有别名
	ErrNoIdentifier = errors.New("address has no identifier")
)
