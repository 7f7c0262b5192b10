package storage

import (
	"time"

	"github.com/dep2p/go-svcaddr/config"
	"github.com/dep2p/go-svcaddr/internal/core/storage/engine"
)

// Config Storage 模块配置
type Config struct {
	// Path BadgerDB 数据库目录（InMemory 时忽略）
	Path string

	// InMemory 内存模式
	InMemory bool

	// SyncWrites 是否同步写入
	SyncWrites bool

	// GCInterval 垃圾回收间隔，0 表示禁用
	GCInterval time.Duration

	// GCDiscardRatio 垃圾回收丢弃比例
	GCDiscardRatio float64

	// BlockCacheSize 块缓存大小（字节）
	BlockCacheSize int64

	// Compression 压缩级别（0 禁用）
	Compression int
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Path:           "./data/svcaddr.db",
		GCInterval:     10 * time.Minute,
		GCDiscardRatio: 0.5,
		BlockCacheSize: 64 << 20,
		Compression:    1,
	}
}

// ConfigFromUnified 从统一配置创建 Storage 配置
func ConfigFromUnified(cfg *config.Config) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}

	sc := cfg.Storage
	if sc.DataDir != "" {
		c.Path = sc.DBPath()
	}
	c.InMemory = sc.InMemory
	c.SyncWrites = sc.SyncWrites
	c.GCInterval = sc.GCInterval.Duration()
	if sc.BlockCacheMB > 0 {
		c.BlockCacheSize = int64(sc.BlockCacheMB) << 20
	}
	return c
}

// ToEngineConfig 转换为引擎配置
func (c *Config) ToEngineConfig() *engine.Config {
	ec := engine.DefaultConfig(c.Path)
	ec.InMemory = c.InMemory
	ec.SyncWrites = c.SyncWrites
	ec.GCInterval = c.GCInterval
	ec.GCDiscardRatio = c.GCDiscardRatio
	ec.BlockCacheSize = c.BlockCacheSize
	ec.Compression = c.Compression
	if c.InMemory {
		ec.Path = ""
		ec.GCInterval = 0
	}
	return ec.WithLogger(engineLogger{})
}

// Validate 验证配置，并修正过小的 GC 参数
func (c *Config) Validate() error {
	if !c.InMemory && c.Path == "" {
		return ErrInvalidConfig
	}
	if c.GCInterval < 0 {
		return ErrInvalidConfig
	}
	if c.GCInterval > 0 && c.GCInterval < time.Minute {
		c.GCInterval = time.Minute
	}
	if c.GCDiscardRatio <= 0 || c.GCDiscardRatio > 1 {
		c.GCDiscardRatio = 0.5
	}
	return nil
}

// WithPath 设置存储路径
func (c Config) WithPath(path string) Config {
	c.Path = path
	return c
}

// WithInMemory 切换内存模式
func (c Config) WithInMemory(inMemory bool) Config {
	c.InMemory = inMemory
	return c
}

// WithSyncWrites 设置同步写入
func (c Config) WithSyncWrites(sync bool) Config {
	c.SyncWrites = sync
	return c
}
