package badger

import (
	"bytes"
	"sync/atomic"

	"github.com/dep2p/go-svcaddr/internal/core/storage/engine"
	"github.com/dgraph-io/badger/v4"
)

// Iterator BadgerDB 迭代器实现
type Iterator struct {
	txn     *badger.Txn
	iter    *badger.Iterator
	prefix  []byte
	ownsTxn bool
	started bool
	closed  atomic.Bool
	err     error
}

// newIterator 在 txn 上创建迭代器；ownsTxn 为 true 时 Close 会丢弃 txn
func newIterator(txn *badger.Txn, opts *engine.IteratorOptions, ownsTxn bool) *Iterator {
	if opts == nil {
		opts = engine.DefaultIteratorOptions()
	}

	badgerOpts := badger.DefaultIteratorOptions
	badgerOpts.Reverse = opts.Reverse
	badgerOpts.PrefetchValues = opts.PrefetchValues
	if opts.PrefetchSize > 0 {
		badgerOpts.PrefetchSize = opts.PrefetchSize
	}
	if len(opts.Prefix) > 0 {
		badgerOpts.Prefix = opts.Prefix
	}

	return &Iterator{
		txn:     txn,
		iter:    txn.NewIterator(badgerOpts),
		prefix:  opts.Prefix,
		ownsTxn: ownsTxn,
	}
}

// First 移动到第一个键值对
func (it *Iterator) First() bool {
	if it.closed.Load() {
		return false
	}
	it.started = true
	if len(it.prefix) > 0 {
		it.iter.Seek(it.prefix)
	} else {
		it.iter.Rewind()
	}
	return it.Valid()
}

// Next 移动到下一个键值对
func (it *Iterator) Next() bool {
	if it.closed.Load() {
		return false
	}
	if !it.started {
		return it.First()
	}
	it.iter.Next()
	return it.Valid()
}

// Valid 检查迭代器是否指向有效位置
func (it *Iterator) Valid() bool {
	if it.closed.Load() || !it.iter.Valid() {
		return false
	}
	if len(it.prefix) > 0 && !bytes.HasPrefix(it.iter.Item().Key(), it.prefix) {
		return false
	}
	return true
}

// Key 返回当前键的副本
func (it *Iterator) Key() []byte {
	if !it.Valid() {
		return nil
	}
	return it.iter.Item().KeyCopy(nil)
}

// Value 返回当前值的副本
func (it *Iterator) Value() []byte {
	if !it.Valid() {
		return nil
	}
	value, err := it.iter.Item().ValueCopy(nil)
	if err != nil {
		it.err = err
		return nil
	}
	return value
}

// Close 关闭迭代器
func (it *Iterator) Close() {
	if it.closed.Swap(true) {
		return
	}
	it.iter.Close()
	if it.ownsTxn {
		it.txn.Discard()
	}
}

// Error 返回迭代过程中的错误
func (it *Iterator) Error() error {
	return it.err
}

// closedIterator 已丢弃事务上创建的空迭代器
type closedIterator struct {
	err error
}

func (c closedIterator) First() bool   { return false }
func (c closedIterator) Next() bool    { return false }
func (c closedIterator) Valid() bool   { return false }
func (c closedIterator) Key() []byte   { return nil }
func (c closedIterator) Value() []byte { return nil }
func (c closedIterator) Close()        {}
func (c closedIterator) Error() error  { return c.err }

// 编译时检查接口实现
var (
	_ engine.Iterator = (*Iterator)(nil)
	_ engine.Iterator = closedIterator{}
)
