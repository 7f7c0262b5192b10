package config

import (
	"fmt"
	"regexp"
)

var metricNamespaceRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// MetricsConfig Prometheus 指标配置
type MetricsConfig struct {
	// Enable 注册身份缓存指标收集器
	Enable bool `json:"enable" yaml:"enable" env:"METRICS"`

	// Namespace 指标名前缀
	Namespace string `json:"namespace" yaml:"namespace"`
}

// DefaultMetricsConfig 返回默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enable:    false,
		Namespace: "svcaddr",
	}
}

// Validate 验证指标配置
func (c MetricsConfig) Validate() error {
	if !metricNamespaceRe.MatchString(c.Namespace) {
		return fmt.Errorf("metrics: invalid namespace %q", c.Namespace)
	}
	return nil
}
