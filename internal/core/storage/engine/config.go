package engine

import (
	"os"
	"path/filepath"
	"time"
)

// Config 存储引擎配置
//
// 生产环境使用磁盘目录；InMemory 模式不落盘，进程退出即丢失，
// 用于测试和一次性命令。
type Config struct {
	// Path 数据目录路径（InMemory 为 false 时必需）
	Path string

	// InMemory 是否使用纯内存模式
	InMemory bool

	// SyncWrites 是否同步写入
	SyncWrites bool

	// ReadOnly 是否只读模式
	ReadOnly bool

	// Logger 日志记录器，nil 时禁用 badger 日志
	Logger Logger

	// BlockCacheSize 块缓存大小（字节）
	BlockCacheSize int64

	// Compression ZSTD 压缩级别，0 表示禁用
	Compression int

	// GCInterval 值日志垃圾回收间隔，0 表示禁用
	GCInterval time.Duration

	// GCDiscardRatio 垃圾回收丢弃比例
	GCDiscardRatio float64
}

// Logger 日志接口（badger 要求的 printf 风格）
type Logger interface {
	Errorf(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// DefaultConfig 返回默认配置
func DefaultConfig(path string) *Config {
	return &Config{
		Path:           path,
		BlockCacheSize: 64 << 20, // 64MB
		Compression:    1,
		GCInterval:     10 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// InMemoryConfig 返回内存模式配置
func InMemoryConfig() *Config {
	cfg := DefaultConfig("")
	cfg.InMemory = true
	cfg.GCInterval = 0
	return cfg
}

// Validate 验证配置
func (c *Config) Validate() error {
	if !c.InMemory && c.Path == "" {
		return ErrInvalidConfig
	}
	if c.InMemory && c.ReadOnly {
		return ErrInvalidConfig
	}
	if c.GCDiscardRatio < 0 || c.GCDiscardRatio > 1 {
		return ErrInvalidConfig
	}
	return nil
}

// EnsureDir 确保数据目录存在（内存模式下无操作）
func (c *Config) EnsureDir() error {
	if c.InMemory {
		return nil
	}
	absPath, err := filepath.Abs(c.Path)
	if err != nil {
		return err
	}
	c.Path = absPath
	return os.MkdirAll(c.Path, 0o755)
}

// WithLogger 设置日志记录器
func (c *Config) WithLogger(logger Logger) *Config {
	c.Logger = logger
	return c
}
