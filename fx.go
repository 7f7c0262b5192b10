package svcaddr

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-svcaddr/config"
	"github.com/dep2p/go-svcaddr/internal/core/addrcache"
	"github.com/dep2p/go-svcaddr/internal/core/address"
	"github.com/dep2p/go-svcaddr/internal/core/eventbus"
	"github.com/dep2p/go-svcaddr/internal/core/metrics"
	"github.com/dep2p/go-svcaddr/internal/core/recipient"
	"github.com/dep2p/go-svcaddr/internal/core/storage"
	"github.com/dep2p/go-svcaddr/pkg/lib/log"
)

var fxLogger = log.Logger("svcaddr/fx")

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. EventBus, Storage
//  2. Recipient（依赖 Storage；提交后的别名变化转交 IdentityCache）
//  3. AddrCache（启动时从 Recipient 预热）
//  4. Address（订阅 AddrCache 的映射变更）
//  5. Metrics（读取 Address/AddrCache 统计）
//
// OnStop 按相反顺序执行。
func buildFxApp(cfg *config.Config, o *options, b *Book) *fx.App {
	modules := []fx.Option{
		fx.Supply(cfg),

		eventbus.Module(),
		storage.Module(),
		recipient.Module(),
		addrcache.Module(),
		address.Module(),
		metrics.Module,
	}

	if len(o.fxOptions) > 0 {
		modules = append(modules, o.fxOptions...)
	}

	modules = append(modules,
		fx.Invoke(injectBookComponents(b)),
		fx.WithLogger(newFxEventLogger(cfg.Log)),
	)

	return fx.New(modules...)
}

// newFxEventLogger 默认丢弃 Fx 事件，log.fx_events 开启时使用 zap 开发模式输出
func newFxEventLogger(lc config.LogConfig) func() fxevent.Logger {
	return func() fxevent.Logger {
		if !lc.FxEvents {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}
		zl, err := zap.NewDevelopment()
		if err != nil {
			fxLogger.Warn("创建 Fx 事件日志失败，改为丢弃", "error", err)
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}
		return &fxevent.ZapLogger{Logger: zl}
	}
}

// bookInjectParams Book 组件注入参数
type bookInjectParams struct {
	fx.In

	Cache    *addrcache.Cache
	Resolver *address.Resolver
	Store    *recipient.Store
	Bus      *eventbus.Bus
	Registry *prometheus.Registry
}

// injectBookComponents 创建 Book 组件注入函数
func injectBookComponents(b *Book) interface{} {
	return func(p bookInjectParams) {
		b.cache = p.Cache
		b.resolver = p.Resolver
		b.store = p.Store
		b.bus = p.Bus
		b.registry = p.Registry
	}
}
