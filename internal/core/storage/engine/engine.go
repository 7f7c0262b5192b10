package engine

import (
	"github.com/dep2p/go-svcaddr/pkg/interfaces"
)

// InternalEngine 内部扩展接口
//
// 在公共 Engine 接口之上提供迭代器、事务和维护操作。
type InternalEngine interface {
	interfaces.Engine

	// NewIterator 创建迭代器，opts 为 nil 时使用默认选项
	//
	// 调用者负责在使用后调用 Close()。
	NewIterator(opts *IteratorOptions) Iterator

	// NewPrefixIterator 创建仅遍历指定前缀的迭代器
	NewPrefixIterator(prefix []byte) Iterator

	// NewTransaction 创建事务
	//
	// writable 为 false 时为只读事务。调用者负责 Commit() 或 Discard()。
	NewTransaction(writable bool) Transaction

	// Start 启动后台任务（值日志 GC）
	Start() error

	// Sync 同步数据到磁盘
	Sync() error

	// Stats 获取统计信息快照
	Stats() *Stats
}

// Iterator 迭代器接口
//
// 迭代器保持创建时的快照视图。使用模式:
//
//	iter := eng.NewPrefixIterator(prefix)
//	defer iter.Close()
//
//	for iter.First(); iter.Valid(); iter.Next() {
//	    key, value := iter.Key(), iter.Value()
//	}
//	if err := iter.Error(); err != nil {
//	    return err
//	}
type Iterator interface {
	// First 移动到第一个键值对
	First() bool

	// Next 移动到下一个键值对
	Next() bool

	// Valid 当前位置是否有效
	Valid() bool

	// Key 返回当前键的副本
	Key() []byte

	// Value 返回当前值的副本
	Value() []byte

	// Close 释放迭代器资源，可重复调用
	Close()

	// Error 返回迭代过程中的错误
	Error() error
}

// IteratorOptions 迭代器选项
type IteratorOptions struct {
	// Prefix 仅迭代具有此前缀的键
	Prefix []byte

	// Reverse 是否反向迭代
	Reverse bool

	// PrefetchSize 预取数量（0 表示使用默认值）
	PrefetchSize int

	// PrefetchValues 是否预取值
	PrefetchValues bool
}

// DefaultIteratorOptions 返回默认迭代器选项
func DefaultIteratorOptions() *IteratorOptions {
	return &IteratorOptions{
		PrefetchSize:   100,
		PrefetchValues: true,
	}
}

// Transaction 事务接口
//
//	txn := eng.NewTransaction(true)
//	defer txn.Discard()
//
//	if err := txn.Set(key, value); err != nil {
//	    return err
//	}
//	return txn.Commit()
type Transaction interface {
	// Get 读取值，键不存在返回 ErrNotFound
	Get(key []byte) ([]byte, error)

	// Set 设置值（仅读写事务）
	Set(key, value []byte) error

	// Delete 删除键（仅读写事务）
	Delete(key []byte) error

	// NewIterator 在事务视图内创建迭代器
	//
	// 迭代器的生命周期不能超过事务。
	NewIterator(opts *IteratorOptions) Iterator

	// Commit 提交事务，写冲突返回 ErrTransactionConflict
	Commit() error

	// Discard 丢弃事务，可多次调用
	Discard()
}

// Stats 引擎统计信息
type Stats struct {
	KeyCount    int64 `json:"key_count"`
	DiskSize    int64 `json:"disk_size"`
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	NumWrites   int64 `json:"num_writes"`
	NumReads    int64 `json:"num_reads"`
	NumDeletes  int64 `json:"num_deletes"`
}

// ToPublicStats 转换为公共统计信息
func (s *Stats) ToPublicStats() *interfaces.EngineStats {
	return &interfaces.EngineStats{
		KeyCount:    s.KeyCount,
		DiskSize:    s.DiskSize,
		CacheHits:   s.CacheHits,
		CacheMisses: s.CacheMisses,
	}
}
