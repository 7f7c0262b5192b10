package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-svcaddr/config"
	"github.com/dep2p/go-svcaddr/internal/core/address"
	pkgif "github.com/dep2p/go-svcaddr/pkg/interfaces"
	"github.com/dep2p/go-svcaddr/pkg/lib/log"
)

var logger = log.Logger("core/metrics")

// Config 指标配置
type Config struct {
	// Enabled 是否注册采集器
	Enabled bool

	// Namespace 指标名前缀
	Namespace string
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	d := config.DefaultMetricsConfig()
	return Config{
		Enabled:   d.Enable,
		Namespace: d.Namespace,
	}
}

// ConfigFromUnified 从统一配置创建指标配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return Config{
		Enabled:   cfg.Metrics.Enable,
		Namespace: cfg.Metrics.Namespace,
	}
}

// Params Metrics 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config      `optional:"true"`
	Resolver   *address.Resolver   `optional:"true"`
	Cache      pkgif.IdentityCache `optional:"true"`
}

// Result Metrics 模块输出
type Result struct {
	fx.Out

	Registry  *prometheus.Registry
	Gatherer  prometheus.Gatherer
	Collector *CacheCollector
}

// Module 是 metrics 的 Fx 模块
//
// 始终提供独立的 *prometheus.Registry；metrics.enable 开启时在其上注册
// CacheCollector（优先以 address.Resolver 为数据源，以包含兴趣注册表规模）。
var Module = fx.Module("metrics",
	fx.Provide(NewFromParams),
)

// NewFromParams 从参数创建注册表和采集器
func NewFromParams(p Params) (Result, error) {
	cfg := ConfigFromUnified(p.UnifiedCfg)
	reg := prometheus.NewRegistry()
	res := Result{Registry: reg, Gatherer: reg}

	if !cfg.Enabled {
		return res, nil
	}

	var src StatsSource
	switch {
	case p.Resolver != nil:
		src = p.Resolver
	case p.Cache != nil:
		src = p.Cache
	default:
		logger.Warn("指标已启用但没有统计来源")
		return res, nil
	}

	c := NewCacheCollector(src, cfg.Namespace)
	if err := reg.Register(c); err != nil {
		return Result{}, err
	}
	res.Collector = c
	logger.Debug("身份缓存指标已注册", "namespace", cfg.Namespace)
	return res, nil
}
