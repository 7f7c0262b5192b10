package svcaddr

import (
	"github.com/dep2p/go-svcaddr/internal/core/addrcache"
	"github.com/dep2p/go-svcaddr/internal/core/recipient"
)

// 公共错误定义
var (
	// ErrClosed Book 已关闭后访问存储
	ErrClosed = recipient.ErrStoreClosed

	// ErrNotFound 缓存中没有该标识的映射
	ErrNotFound = addrcache.ErrNotFound

	// ErrRecipientNotFound 存储中没有该记录
	ErrRecipientNotFound = recipient.ErrNotFound

	// ErrRecipientExists 重复插入记录
	ErrRecipientExists = recipient.ErrRecipientExists
)
