package recipient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-svcaddr/internal/core/storage/engine"
	"github.com/dep2p/go-svcaddr/internal/core/storage/kv"
	pkgif "github.com/dep2p/go-svcaddr/pkg/interfaces"
	"github.com/dep2p/go-svcaddr/pkg/lib/log"
	"github.com/dep2p/go-svcaddr/pkg/types"
)

var logger = log.Logger("core/recipient")

// Store 联系人记录存储
//
// 记录以 JSON 保存在 KV 引擎中，并维护别名 → DurableID 的二级索引，
// 保证同一别名只属于一条记录。写事务提交后，调用方写入记录的别名变化
// 按发生顺序报告给 MappingSink（同一 DurableID 只报告最后一次）。
type Store struct {
	kv     *kv.Store
	clock  clock.Clock
	closed atomic.Bool

	sinkMu sync.RWMutex
	sink   pkgif.MappingSink
}

var _ pkgif.RecipientStore = (*Store)(nil)

// Option Store 构造选项
type Option func(*Store)

// WithClock 设置 UpdatedAt 的时间源
func WithClock(clk clock.Clock) Option {
	return func(s *Store) {
		if clk != nil {
			s.clock = clk
		}
	}
}

// WithSink 设置映射变化接收者
func WithSink(sink pkgif.MappingSink) Option {
	return func(s *Store) {
		s.sink = sink
	}
}

// New 在引擎上创建联系人存储
func New(eng engine.InternalEngine, opts ...Option) *Store {
	s := &Store{
		kv:    kv.New(eng, rootPrefix),
		clock: clock.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetSink 替换映射变化接收者
func (s *Store) SetSink(sink pkgif.MappingSink) {
	s.sinkMu.Lock()
	s.sink = sink
	s.sinkMu.Unlock()
}

// Read 在只读事务中执行 fn
func (s *Store) Read(ctx context.Context, fn func(tx pkgif.RecipientReader) error) error {
	if err := s.check(ctx); err != nil {
		return err
	}

	txn := s.kv.NewTransaction(false)
	defer txn.Discard()

	return fn(&readTx{txn: txn})
}

// Write 在读写事务中执行 fn
//
// fn 返回错误时事务被丢弃，不报告任何变化。提交冲突返回
// engine.ErrTransactionConflict（可用 storage.IsConflict 判断），由调用方重试。
func (s *Store) Write(ctx context.Context, fn func(tx pkgif.RecipientWriter) error) error {
	if err := s.check(ctx); err != nil {
		return err
	}

	txn := s.kv.NewTransaction(true)
	defer txn.Discard()

	wtx := &writeTx{
		readTx: readTx{txn: txn},
		now:    s.clock.Now().UTC(),
		index:  make(map[types.DurableID]int),
	}
	if err := fn(wtx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := txn.Commit(); err != nil {
		return fmt.Errorf("commit recipients: %w", err)
	}

	s.report(wtx.changes)
	return nil
}

// FetchAll 返回全部记录
func (s *Store) FetchAll(ctx context.Context) ([]types.Recipient, error) {
	var out []types.Recipient
	err := s.Read(ctx, func(tx pkgif.RecipientReader) error {
		return tx.Enumerate(func(rec types.Recipient) bool {
			out = append(out, rec)
			return true
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Close 关闭存储（不关闭底层引擎），可多次调用
func (s *Store) Close() error {
	s.closed.Store(true)
	return nil
}

func (s *Store) check(ctx context.Context) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	return ctx.Err()
}

func (s *Store) report(changes []mappingChange) {
	if len(changes) == 0 {
		return
	}

	s.sinkMu.RLock()
	sink := s.sink
	s.sinkMu.RUnlock()
	if sink == nil {
		return
	}

	for _, ch := range changes {
		sink(ch.id, ch.alias)
	}
	logger.Debug("已报告映射变化", "count", len(changes))
}

// ============================================================================
//                              事务视图
// ============================================================================

type mappingChange struct {
	id    types.DurableID
	alias types.Alias
}

// readTx 只读视图
type readTx struct {
	txn *kv.Transaction
}

// Fetch 读取单条记录
func (tx *readTx) Fetch(id types.DurableID) (types.Recipient, error) {
	if id.IsEmpty() {
		return types.Recipient{}, ErrEmptyDurableID
	}

	var rec types.Recipient
	if err := tx.txn.GetJSON(recordKey(id), &rec); err != nil {
		if engine.IsNotFound(err) {
			return types.Recipient{}, ErrNotFound
		}
		return types.Recipient{}, fmt.Errorf("fetch recipient %s: %w", id, err)
	}
	return rec, nil
}

// FetchByAlias 按别名读取记录
func (tx *readTx) FetchByAlias(alias types.Alias) (types.Recipient, error) {
	if err := alias.Validate(); err != nil {
		return types.Recipient{}, err
	}

	raw, err := tx.txn.Get(aliasKey(alias))
	if err != nil {
		if engine.IsNotFound(err) {
			return types.Recipient{}, ErrNotFound
		}
		return types.Recipient{}, fmt.Errorf("fetch alias %s: %w", alias, err)
	}
	id, ok := idFromBytes(raw)
	if !ok {
		return types.Recipient{}, fmt.Errorf("fetch alias %s: %w", alias, engine.ErrCorrupted)
	}
	return tx.Fetch(id)
}

// Enumerate 遍历全部记录，按 DurableID 字节序
func (tx *readTx) Enumerate(fn func(rec types.Recipient) bool) error {
	var decodeErr error
	err := tx.txn.PrefixScan(recordPrefix, func(key, value []byte) bool {
		var rec types.Recipient
		if err := json.Unmarshal(value, &rec); err != nil {
			decodeErr = fmt.Errorf("decode recipient %x: %w", key, err)
			return false
		}
		return fn(rec)
	})
	if err != nil {
		return err
	}
	return decodeErr
}

// Count 记录总数
func (tx *readTx) Count() (int, error) {
	n := 0
	err := tx.txn.PrefixScan(recordPrefix, func(_, _ []byte) bool {
		n++
		return true
	})
	return n, err
}

// writeTx 读写视图
type writeTx struct {
	readTx
	now     time.Time
	changes []mappingChange
	index   map[types.DurableID]int
}

// Insert 插入新记录
func (tx *writeTx) Insert(rec types.Recipient) error {
	if err := validate(rec); err != nil {
		return err
	}
	if _, err := tx.Fetch(rec.ID); err == nil {
		return ErrRecipientExists
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return tx.put(rec, "")
}

// Update 更新已有记录
func (tx *writeTx) Update(rec types.Recipient) error {
	if err := validate(rec); err != nil {
		return err
	}
	existing, err := tx.Fetch(rec.ID)
	if err != nil {
		return err
	}
	return tx.put(rec, existing.Alias)
}

// Upsert 插入或更新
func (tx *writeTx) Upsert(rec types.Recipient) error {
	if err := validate(rec); err != nil {
		return err
	}
	existing, err := tx.Fetch(rec.ID)
	switch {
	case err == nil:
		return tx.put(rec, existing.Alias)
	case errors.Is(err, ErrNotFound):
		return tx.put(rec, "")
	default:
		return err
	}
}

// Delete 删除记录
func (tx *writeTx) Delete(id types.DurableID) error {
	existing, err := tx.Fetch(id)
	if err != nil {
		return err
	}
	if err := tx.txn.Delete(recordKey(id)); err != nil {
		return err
	}
	if !existing.Alias.IsEmpty() {
		if err := tx.dropAliasIndex(existing.Alias, id); err != nil {
			return err
		}
		tx.record(id, "")
	}
	return nil
}

// put 写入记录并维护别名索引
//
// 别名原先属于另一条记录时，那条记录的别名被清除。
func (tx *writeTx) put(rec types.Recipient, previous types.Alias) error {
	rec.UpdatedAt = tx.now

	if previous != rec.Alias && !previous.IsEmpty() {
		if err := tx.dropAliasIndex(previous, rec.ID); err != nil {
			return err
		}
	}

	if !rec.Alias.IsEmpty() {
		if err := tx.claimAlias(rec.Alias, rec.ID); err != nil {
			return err
		}
	}

	if err := tx.txn.SetJSON(recordKey(rec.ID), rec); err != nil {
		return fmt.Errorf("store recipient %s: %w", rec.ID, err)
	}

	if previous != rec.Alias {
		tx.record(rec.ID, rec.Alias)
	}
	return nil
}

// claimAlias 让别名索引指向 id，并从原持有者记录中移除该别名
func (tx *writeTx) claimAlias(alias types.Alias, id types.DurableID) error {
	raw, err := tx.txn.Get(aliasKey(alias))
	switch {
	case err == nil:
		if holder, ok := idFromBytes(raw); ok && holder != id {
			other, err := tx.Fetch(holder)
			if err == nil && other.Alias == alias {
				other.Alias = ""
				other.UpdatedAt = tx.now
				if err := tx.txn.SetJSON(recordKey(holder), other); err != nil {
					return err
				}
			} else if err != nil && !errors.Is(err, ErrNotFound) {
				return err
			}
		}
	case !engine.IsNotFound(err):
		return err
	}
	return tx.txn.Set(aliasKey(alias), id[:])
}

// dropAliasIndex 别名索引仍指向 id 时删除
func (tx *writeTx) dropAliasIndex(alias types.Alias, id types.DurableID) error {
	raw, err := tx.txn.Get(aliasKey(alias))
	if err != nil {
		if engine.IsNotFound(err) {
			return nil
		}
		return err
	}
	if holder, ok := idFromBytes(raw); ok && holder == id {
		return tx.txn.Delete(aliasKey(alias))
	}
	return nil
}

func (tx *writeTx) record(id types.DurableID, alias types.Alias) {
	if i, ok := tx.index[id]; ok {
		tx.changes[i].alias = alias
		return
	}
	tx.index[id] = len(tx.changes)
	tx.changes = append(tx.changes, mappingChange{id: id, alias: alias})
}

func validate(rec types.Recipient) error {
	if rec.ID.IsEmpty() {
		return ErrEmptyDurableID
	}
	if !rec.Alias.IsEmpty() {
		if err := rec.Alias.Validate(); err != nil {
			return err
		}
	}
	return nil
}
