package badger

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dep2p/go-svcaddr/internal/core/storage/engine"
	"github.com/dep2p/go-svcaddr/pkg/lib/log"
	"github.com/dgraph-io/badger/v4"
)

var logger = log.Logger("storage/badger")

// Engine BadgerDB 存储引擎
type Engine struct {
	db     *badger.DB
	config *engine.Config
	closed atomic.Bool

	stats struct {
		numReads    atomic.Int64
		numWrites   atomic.Int64
		numDeletes  atomic.Int64
		cacheHits   atomic.Int64
		cacheMisses atomic.Int64
	}

	gcCtx    context.Context
	gcCancel context.CancelFunc
	gcWg     sync.WaitGroup
}

// New 创建新的 BadgerDB 存储引擎
func New(cfg *engine.Config) (*Engine, error) {
	if cfg == nil {
		return nil, engine.ErrInvalidConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.EnsureDir(); err != nil {
		return nil, err
	}

	db, err := badger.Open(buildOptions(cfg))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		db:       db,
		config:   cfg,
		gcCtx:    ctx,
		gcCancel: cancel,
	}, nil
}

// buildOptions 根据配置构建 BadgerDB 选项
func buildOptions(cfg *engine.Config) badger.Options {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path).
			WithSyncWrites(cfg.SyncWrites).
			WithReadOnly(cfg.ReadOnly)
	}

	opts = opts.
		WithNumVersionsToKeep(1).
		WithBlockCacheSize(cfg.BlockCacheSize).
		WithZSTDCompressionLevel(cfg.Compression)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}
	return opts
}

// badgerLogger 将 engine.Logger 适配到 badger.Logger
type badgerLogger struct {
	logger engine.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warningf(format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Infof(format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf(format, args...)
}

// Start 启动存储引擎的后台任务
func (e *Engine) Start() error {
	if e.closed.Load() {
		return engine.ErrClosed
	}
	if e.config.GCInterval > 0 && !e.config.InMemory {
		e.startGC()
	}
	return nil
}

// startGC 启动值日志垃圾回收
func (e *Engine) startGC() {
	e.gcWg.Add(1)
	go func() {
		defer e.gcWg.Done()

		ticker := time.NewTicker(e.config.GCInterval)
		defer ticker.Stop()

		for {
			select {
			case <-e.gcCtx.Done():
				return
			case <-ticker.C:
				e.runGC()
			}
		}
	}()
}

// runGC 执行垃圾回收，直到没有可回收的空间
func (e *Engine) runGC() {
	for !e.closed.Load() {
		if err := e.db.RunValueLogGC(e.config.GCDiscardRatio); err != nil {
			if !errors.Is(err, badger.ErrNoRewrite) {
				logger.Debug("值日志 GC 结束", "error", err)
			}
			return
		}
	}
}

// Get 获取指定键的值
func (e *Engine) Get(key []byte) ([]byte, error) {
	if e.closed.Load() {
		return nil, engine.ErrClosed
	}
	if len(key) == 0 {
		return nil, engine.ErrEmptyKey
	}

	var value []byte
	err := e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				e.stats.cacheMisses.Add(1)
				return engine.ErrNotFound
			}
			return err
		}
		e.stats.cacheHits.Add(1)
		value, err = item.ValueCopy(nil)
		return err
	})
	e.stats.numReads.Add(1)

	if err != nil {
		return nil, err
	}
	return value, nil
}

// Put 设置键值对
func (e *Engine) Put(key, value []byte) error {
	if err := e.checkWritable(key); err != nil {
		return err
	}

	err := e.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err == nil {
		e.stats.numWrites.Add(1)
	}
	return convertError(err)
}

// Delete 删除指定键，键不存在时不返回错误
func (e *Engine) Delete(key []byte) error {
	if err := e.checkWritable(key); err != nil {
		return err
	}

	err := e.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err == nil {
		e.stats.numDeletes.Add(1)
	}
	return convertError(err)
}

// Has 检查键是否存在
func (e *Engine) Has(key []byte) (bool, error) {
	_, err := e.Get(key)
	switch {
	case err == nil:
		return true, nil
	case engine.IsNotFound(err):
		return false, nil
	default:
		return false, err
	}
}

// checkWritable 写操作的公共前置检查
func (e *Engine) checkWritable(key []byte) error {
	if e.closed.Load() {
		return engine.ErrClosed
	}
	if e.config.ReadOnly {
		return engine.ErrReadOnly
	}
	if len(key) == 0 {
		return engine.ErrEmptyKey
	}
	return nil
}

// Close 关闭存储引擎，可重复调用
func (e *Engine) Close() error {
	if e.closed.Swap(true) {
		return nil
	}

	e.gcCancel()
	e.gcWg.Wait()

	return e.db.Close()
}

// NewIterator 创建新的迭代器
func (e *Engine) NewIterator(opts *engine.IteratorOptions) engine.Iterator {
	txn := e.db.NewTransaction(false)
	return newIterator(txn, opts, true)
}

// NewPrefixIterator 创建前缀迭代器
func (e *Engine) NewPrefixIterator(prefix []byte) engine.Iterator {
	opts := engine.DefaultIteratorOptions()
	opts.Prefix = prefix
	return e.NewIterator(opts)
}

// NewTransaction 创建新的事务
func (e *Engine) NewTransaction(writable bool) engine.Transaction {
	return &Transaction{
		txn:      e.db.NewTransaction(writable),
		writable: writable && !e.config.ReadOnly,
	}
}

// Sync 同步数据到磁盘
func (e *Engine) Sync() error {
	if e.closed.Load() {
		return engine.ErrClosed
	}
	return e.db.Sync()
}

// Stats 获取引擎统计信息
func (e *Engine) Stats() *engine.Stats {
	lsm, vlog := e.db.Size()
	return &engine.Stats{
		KeyCount:    e.countKeys(),
		DiskSize:    lsm + vlog,
		CacheHits:   e.stats.cacheHits.Load(),
		CacheMisses: e.stats.cacheMisses.Load(),
		NumWrites:   e.stats.numWrites.Load(),
		NumReads:    e.stats.numReads.Load(),
		NumDeletes:  e.stats.numDeletes.Load(),
	}
}

// countKeys 统计键数量（仅遍历键，不读值）
func (e *Engine) countKeys() int64 {
	var count int64
	err := e.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		logger.Debug("统计键数量失败", "error", err)
		return 0
	}
	return count
}

// convertError 转换 BadgerDB 错误到引擎错误
func convertError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return engine.ErrNotFound
	case errors.Is(err, badger.ErrEmptyKey):
		return engine.ErrEmptyKey
	case errors.Is(err, badger.ErrTxnTooBig):
		return engine.ErrTransactionTooLarge
	case errors.Is(err, badger.ErrConflict):
		return engine.ErrTransactionConflict
	case errors.Is(err, badger.ErrDiscardedTxn):
		return engine.ErrTransactionDiscarded
	case errors.Is(err, badger.ErrReadOnlyTxn):
		return engine.ErrReadOnly
	default:
		return err
	}
}

// 编译时检查接口实现
var _ engine.InternalEngine = (*Engine)(nil)
