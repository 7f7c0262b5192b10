package addrcache

import (
	"errors"

	"github.com/dep2p/go-svcaddr/pkg/types"
)

var (
	// ErrNotFound 标识没有已知映射
	ErrNotFound = errors.New("addrcache: identity not found")

	// ErrEmptyDurableID 空 DurableID
	ErrEmptyDurableID = types.ErrEmptyDurableID

	// ErrEmptyAlias 空别名
	ErrEmptyAlias = types.ErrEmptyAlias

	// ErrInvalidAlias 语法无效的别名
	ErrInvalidAlias = types.ErrInvalidAlias
)

// IsNotFound 检查是否为 ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
