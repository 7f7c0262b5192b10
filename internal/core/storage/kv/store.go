package kv

import (
	"encoding/json"

	"github.com/dep2p/go-svcaddr/internal/core/storage/engine"
)

// Store 带前缀隔离的 KV 存储
//
// 所有键都会自动加上前缀，读出的键会去掉前缀。
type Store struct {
	engine engine.InternalEngine
	prefix []byte
}

// New 创建新的 KVStore
func New(eng engine.InternalEngine, prefix []byte) *Store {
	return &Store{
		engine: eng,
		prefix: append([]byte(nil), prefix...),
	}
}

// prefixKey 为键添加前缀
func (s *Store) prefixKey(key []byte) []byte {
	if len(s.prefix) == 0 {
		return key
	}
	prefixed := make([]byte, len(s.prefix)+len(key))
	copy(prefixed, s.prefix)
	copy(prefixed[len(s.prefix):], key)
	return prefixed
}

// stripPrefix 从键中移除前缀
func (s *Store) stripPrefix(key []byte) []byte {
	if len(s.prefix) == 0 || len(key) < len(s.prefix) {
		return key
	}
	return key[len(s.prefix):]
}

// ============= 基础操作 =============

// Get 获取指定键的值
func (s *Store) Get(key []byte) ([]byte, error) {
	return s.engine.Get(s.prefixKey(key))
}

// Put 设置键值对
func (s *Store) Put(key, value []byte) error {
	return s.engine.Put(s.prefixKey(key), value)
}

// Delete 删除指定键
func (s *Store) Delete(key []byte) error {
	return s.engine.Delete(s.prefixKey(key))
}

// Has 检查键是否存在
func (s *Store) Has(key []byte) (bool, error) {
	return s.engine.Has(s.prefixKey(key))
}

// GetJSON 获取并反序列化 JSON 值
func (s *Store) GetJSON(key []byte, v interface{}) error {
	data, err := s.Get(key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// PutJSON 序列化并存储 JSON 值
func (s *Store) PutJSON(key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Put(key, data)
}

// ============= 前缀迭代 =============

// PrefixScan 扫描指定子前缀的所有键值对
//
// 回调返回 false 时停止扫描。回调收到的 key 已去除 Store 的前缀。
func (s *Store) PrefixScan(subPrefix []byte, fn func(key, value []byte) bool) error {
	iter := s.engine.NewPrefixIterator(s.prefixKey(subPrefix))
	defer iter.Close()
	return s.scan(iter, fn)
}

// Count 统计指定子前缀的键数量
func (s *Store) Count(subPrefix []byte) (int64, error) {
	var count int64
	err := s.PrefixScan(subPrefix, func(_, _ []byte) bool {
		count++
		return true
	})
	return count, err
}

func (s *Store) scan(iter engine.Iterator, fn func(key, value []byte) bool) error {
	for iter.First(); iter.Valid(); iter.Next() {
		if !fn(s.stripPrefix(iter.Key()), iter.Value()) {
			break
		}
	}
	return iter.Error()
}

// ============= 事务 =============

// Transaction 带前缀的事务
type Transaction struct {
	store *Store
	txn   engine.Transaction
}

// NewTransaction 创建新的事务
func (s *Store) NewTransaction(writable bool) *Transaction {
	return &Transaction{
		store: s,
		txn:   s.engine.NewTransaction(writable),
	}
}

// Get 在事务中获取值
func (t *Transaction) Get(key []byte) ([]byte, error) {
	return t.txn.Get(t.store.prefixKey(key))
}

// Set 在事务中设置值
func (t *Transaction) Set(key, value []byte) error {
	return t.txn.Set(t.store.prefixKey(key), value)
}

// Delete 在事务中删除键
func (t *Transaction) Delete(key []byte) error {
	return t.txn.Delete(t.store.prefixKey(key))
}

// GetJSON 在事务中获取并反序列化 JSON
func (t *Transaction) GetJSON(key []byte, v interface{}) error {
	data, err := t.Get(key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// SetJSON 在事务中序列化并存储 JSON
func (t *Transaction) SetJSON(key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return t.Set(key, data)
}

// PrefixScan 在事务视图内扫描子前缀
func (t *Transaction) PrefixScan(subPrefix []byte, fn func(key, value []byte) bool) error {
	opts := engine.DefaultIteratorOptions()
	opts.Prefix = t.store.prefixKey(subPrefix)

	iter := t.txn.NewIterator(opts)
	defer iter.Close()
	return t.store.scan(iter, fn)
}

// Commit 提交事务
func (t *Transaction) Commit() error {
	return t.txn.Commit()
}

// Discard 丢弃事务
func (t *Transaction) Discard() {
	t.txn.Discard()
}

// ============= 辅助方法 =============

// Prefix 返回当前 Store 的前缀
func (s *Store) Prefix() []byte {
	return s.prefix
}

// SubStore 创建子存储（在当前前缀基础上添加子前缀）
func (s *Store) SubStore(subPrefix []byte) *Store {
	newPrefix := make([]byte, len(s.prefix)+len(subPrefix))
	copy(newPrefix, s.prefix)
	copy(newPrefix[len(s.prefix):], subPrefix)

	return &Store{
		engine: s.engine,
		prefix: newPrefix,
	}
}

// Engine 返回底层存储引擎
func (s *Store) Engine() engine.InternalEngine {
	return s.engine
}
