package config

import "fmt"

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别：debug, info, warn, error
	Level string `json:"level" yaml:"level" env:"LOG_LEVEL"`

	// Format 输出格式：text, json
	Format string `json:"format" yaml:"format" env:"LOG_FORMAT"`

	// FxEvents 输出依赖注入容器事件
	FxEvents bool `json:"fx_events" yaml:"fx_events"`
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: "text",
	}
}

// Validate 验证日志配置
func (c LogConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log: invalid level %q", c.Level)
	}
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log: invalid format %q", c.Format)
	}
	return nil
}
