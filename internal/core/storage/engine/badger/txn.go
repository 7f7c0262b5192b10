package badger

import (
	"sync/atomic"

	"github.com/dep2p/go-svcaddr/internal/core/storage/engine"
	"github.com/dgraph-io/badger/v4"
)

// Transaction BadgerDB 事务实现
type Transaction struct {
	txn       *badger.Txn
	writable  bool
	committed atomic.Bool
	discarded atomic.Bool
}

// Get 在事务中读取值
func (t *Transaction) Get(key []byte) ([]byte, error) {
	if t.discarded.Load() {
		return nil, engine.ErrTransactionDiscarded
	}
	if len(key) == 0 {
		return nil, engine.ErrEmptyKey
	}

	item, err := t.txn.Get(key)
	if err != nil {
		return nil, convertError(err)
	}
	return item.ValueCopy(nil)
}

// Set 在事务中设置值
func (t *Transaction) Set(key, value []byte) error {
	if err := t.checkWritable(key); err != nil {
		return err
	}
	return convertError(t.txn.Set(key, value))
}

// Delete 在事务中删除键
func (t *Transaction) Delete(key []byte) error {
	if err := t.checkWritable(key); err != nil {
		return err
	}
	return convertError(t.txn.Delete(key))
}

func (t *Transaction) checkWritable(key []byte) error {
	if t.discarded.Load() {
		return engine.ErrTransactionDiscarded
	}
	if !t.writable {
		return engine.ErrReadOnly
	}
	if len(key) == 0 {
		return engine.ErrEmptyKey
	}
	return nil
}

// NewIterator 在事务中创建迭代器
//
// 关闭迭代器不会丢弃事务。
func (t *Transaction) NewIterator(opts *engine.IteratorOptions) engine.Iterator {
	if t.discarded.Load() {
		return closedIterator{err: engine.ErrTransactionDiscarded}
	}
	return newIterator(t.txn, opts, false)
}

// Commit 提交事务
func (t *Transaction) Commit() error {
	if t.discarded.Load() {
		return engine.ErrTransactionDiscarded
	}
	if t.committed.Swap(true) {
		return nil
	}
	return convertError(t.txn.Commit())
}

// Discard 丢弃事务
func (t *Transaction) Discard() {
	if t.discarded.Swap(true) {
		return
	}
	if t.committed.Load() {
		return
	}
	t.txn.Discard()
}

// 编译时检查接口实现
var _ engine.Transaction = (*Transaction)(nil)
