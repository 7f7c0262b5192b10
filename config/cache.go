package config

import "fmt"

// CacheConfig 身份缓存与地址句柄配置
type CacheConfig struct {
	// WarmOnStart 启动时从联系人存储预热缓存
	WarmOnStart bool `json:"warm_on_start" yaml:"warm_on_start" env:"WARM_ON_START"`

	// EmitEvents 映射重新分配时在事件总线上发出 EvtMappingChanged
	EmitEvents bool `json:"emit_events" yaml:"emit_events" env:"EMIT_EVENTS"`

	// SweepEvery 每注册多少个句柄清扫一次失效弱引用
	SweepEvery int `json:"sweep_every" yaml:"sweep_every"`
}

// DefaultCacheConfig 返回默认缓存配置
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		WarmOnStart: true,
		EmitEvents:  true,
		SweepEvery:  256,
	}
}

// Validate 验证缓存配置
func (c CacheConfig) Validate() error {
	if c.SweepEvery <= 0 {
		return fmt.Errorf("cache: sweep_every must be positive")
	}
	return nil
}
