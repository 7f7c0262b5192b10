package recipient

import (
	"errors"

	"github.com/dep2p/go-svcaddr/pkg/types"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("recipient: not found")

	// ErrRecipientExists 记录已存在
	ErrRecipientExists = errors.New("recipient: already exists")

	// ErrStoreClosed 存储已关闭
	ErrStoreClosed = errors.New("recipient: store closed")

	// ErrEmptyDurableID 记录缺少 DurableID
	ErrEmptyDurableID = types.ErrEmptyDurableID
)
