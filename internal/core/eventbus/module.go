package eventbus

import (
	"context"

	pkgif "github.com/dep2p/go-svcaddr/pkg/interfaces"
	"go.uber.org/fx"
)

// Result Fx 模块输出
type Result struct {
	fx.Out

	EventBus pkgif.EventBus
	Bus      *Bus
}

// Module 返回 Fx 模块
//
// 提供 pkgif.EventBus，OnStop 时关闭全部订阅。
func Module() fx.Option {
	return fx.Module("eventbus",
		fx.Provide(ProvideEventBus),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideEventBus 提供 EventBus 实例
func ProvideEventBus() Result {
	bus := NewBus()
	return Result{
		EventBus: bus,
		Bus:      bus,
	}
}

func registerLifecycle(lc fx.Lifecycle, bus *Bus) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			logger.Debug("关闭事件总线")
			return bus.Close()
		},
	})
}
