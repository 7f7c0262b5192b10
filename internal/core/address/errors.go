package address

import (
	"errors"

	"github.com/dep2p/go-svcaddr/pkg/types"
)

var (
	// ErrInvalidDurableID 无法解析的 UUID 字符串
	ErrInvalidDurableID = types.ErrInvalidDurableID

	// ErrNoIdentifier 编码中既没有 UUID 也没有别名
	ErrNoIdentifier = types.ErrNoIdentifier

	// ErrResolverClosed 解析器已关闭
	ErrResolverClosed = errors.New("address: resolver closed")
)
