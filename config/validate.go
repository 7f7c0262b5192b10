package config

import (
	"errors"
	"fmt"
)

// ValidateAll 验证整个配置，Config.Validate 的别名
func ValidateAll(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}
	return c.Validate()
}

// ValidateAndFix 验证配置并修复可以安全修复的问题
//
//   - sweep_every 非正 → 默认值
//   - 空的日志级别/格式 → 默认值
//   - 无数据目录且未启用内存模式 → 默认数据目录
//   - 空的指标前缀、非正的块缓存 → 默认值
func ValidateAndFix(c *Config) (*Config, error) {
	if c == nil {
		return NewConfig(), nil
	}

	if c.Cache.SweepEvery <= 0 {
		c.Cache.SweepEvery = DefaultCacheConfig().SweepEvery
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogConfig().Level
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogConfig().Format
	}
	if !c.Storage.InMemory && c.Storage.DataDir == "" {
		c.Storage.DataDir = DefaultStorageConfig().DataDir
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsConfig().Namespace
	}
	if c.Storage.BlockCacheMB <= 0 {
		c.Storage.BlockCacheMB = DefaultStorageConfig().BlockCacheMB
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed after fixes: %w", err)
	}
	return c, nil
}

// MustValidate 验证失败时 panic，仅用于初始化和测试
func MustValidate(c *Config) {
	if err := c.Validate(); err != nil {
		panic(fmt.Sprintf("config validation failed: %v", err))
	}
}
