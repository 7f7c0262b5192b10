// Package config 提供统一的配置管理
//
// 主 Config 结构体嵌入所有子配置，每个子配置在独立文件中定义：
//   - identity.go - 本地身份
//   - storage.go  - 存储目录与引擎参数
//   - cache.go    - 身份缓存与地址句柄
//   - metrics.go  - Prometheus 指标
//   - log.go      - 日志
//
// 加载顺序：默认值 → 配置文件（JSON 或 YAML）→ SVCADDR_* 环境变量。
//
//	cfg, err := config.Load("svcaddr.yaml")
//	if err != nil {
//	    return err
//	}
package config

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Config 是 svcaddr 的完整配置结构
type Config struct {
	// Identity 本地身份
	Identity IdentityConfig `json:"identity" yaml:"identity"`

	// Storage 存储配置
	Storage StorageConfig `json:"storage" yaml:"storage"`

	// Cache 身份缓存配置
	Cache CacheConfig `json:"cache" yaml:"cache"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Log 日志配置
	Log LogConfig `json:"log" yaml:"log"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Identity: DefaultIdentityConfig(),
		Storage:  DefaultStorageConfig(),
		Cache:    DefaultCacheConfig(),
		Metrics:  DefaultMetricsConfig(),
		Log:      DefaultLogConfig(),
	}
}

// Validate 验证所有子配置
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Identity.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}

// FromJSON 从 JSON 解析配置，缺失字段保留默认值
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse json config: %w", err)
	}
	return cfg, nil
}

// ToJSON 序列化为缩进 JSON
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
