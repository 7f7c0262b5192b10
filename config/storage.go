package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// StorageConfig 存储配置
//
// 数据目录结构：
//
//	${DataDir}/
//	└── svcaddr.db/        # BadgerDB 数据库
type StorageConfig struct {
	// DataDir 数据目录路径
	DataDir string `json:"data_dir" yaml:"data_dir" env:"DATA_DIR"`

	// InMemory 使用内存模式（不落盘，进程退出即丢失）
	InMemory bool `json:"in_memory" yaml:"in_memory" env:"IN_MEMORY"`

	// SyncWrites 每次写入同步到磁盘
	SyncWrites bool `json:"sync_writes" yaml:"sync_writes" env:"SYNC_WRITES"`

	// GCInterval value log 垃圾回收间隔，0 表示禁用
	GCInterval Duration `json:"gc_interval" yaml:"gc_interval" env:"GC_INTERVAL"`

	// BlockCacheMB 块缓存大小（MB）
	BlockCacheMB int `json:"block_cache_mb" yaml:"block_cache_mb"`
}

// DefaultStorageConfig 返回默认的存储配置
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		DataDir:      "./data",
		GCInterval:   Duration(10 * time.Minute),
		BlockCacheMB: 64,
	}
}

// Validate 验证存储配置
func (c *StorageConfig) Validate() error {
	if !c.InMemory && c.DataDir == "" {
		return fmt.Errorf("storage: data_dir cannot be empty")
	}
	if c.GCInterval < 0 {
		return fmt.Errorf("storage: gc_interval cannot be negative")
	}
	if c.BlockCacheMB <= 0 {
		return fmt.Errorf("storage: block_cache_mb must be positive")
	}
	return nil
}

// DBPath 返回 BadgerDB 数据库路径
func (c *StorageConfig) DBPath() string {
	return filepath.Join(c.DataDir, "svcaddr.db")
}
