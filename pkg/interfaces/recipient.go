package interfaces

import (
	"context"

	"github.com/dep2p/go-svcaddr/pkg/types"
)

// RecipientStore 联系人记录存储
//
// 写事务提交后，所有别名变化会报告给 MappingSink。
type RecipientStore interface {
	RecordSource

	// Read 在只读事务中执行 fn
	Read(ctx context.Context, fn func(tx RecipientReader) error) error

	// Write 在读写事务中执行 fn，fn 返回 nil 时提交
	Write(ctx context.Context, fn func(tx RecipientWriter) error) error

	// Close 关闭存储
	Close() error
}

// RecipientReader 只读事务视图
type RecipientReader interface {
	// Fetch 读取单条记录，不存在返回 ErrNotFound
	Fetch(id types.DurableID) (types.Recipient, error)

	// FetchByAlias 按别名读取记录，不存在返回 ErrNotFound
	FetchByAlias(alias types.Alias) (types.Recipient, error)

	// Enumerate 遍历全部记录，fn 返回 false 时停止
	Enumerate(fn func(rec types.Recipient) bool) error

	// Count 记录总数
	Count() (int, error)
}

// RecipientWriter 读写事务视图
type RecipientWriter interface {
	RecipientReader

	// Insert 插入新记录，已存在返回 ErrRecipientExists
	Insert(rec types.Recipient) error

	// Update 更新已有记录，不存在返回 ErrNotFound
	Update(rec types.Recipient) error

	// Upsert 插入或更新
	Upsert(rec types.Recipient) error

	// Delete 删除记录，不存在返回 ErrNotFound
	Delete(id types.DurableID) error
}

// MappingSink 接收已提交的别名变化
//
// 删除带别名的记录时 alias 为空。
type MappingSink func(id types.DurableID, alias types.Alias)
