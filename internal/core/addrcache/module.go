package addrcache

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-svcaddr/config"
	pkgif "github.com/dep2p/go-svcaddr/pkg/interfaces"
)

// Params 身份缓存依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
	EventBus   pkgif.EventBus `optional:"true"`
	Clock      clock.Clock    `optional:"true"`
}

// Result 身份缓存模块输出
type Result struct {
	fx.Out

	Cache         *Cache
	IdentityCache pkgif.IdentityCache
}

// Module 返回身份缓存 Fx 模块
//
// 提供:
//   - *Cache / pkgif.IdentityCache
//
// 生命周期:
//   - OnStart: cache.warm_on_start 开启且存在 pkgif.RecordSource 时预热
//   - OnStop: 关闭事件发射器
func Module() fx.Option {
	return fx.Module("addrcache",
		fx.Provide(ProvideCache),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideCache 按配置创建缓存
func ProvideCache(p Params) (Result, error) {
	cfg := p.UnifiedCfg
	if cfg == nil {
		cfg = config.NewConfig()
	}

	opts := []Option{WithClock(p.Clock)}
	if cfg.Cache.EmitEvents && p.EventBus != nil {
		opts = append(opts, WithEventBus(p.EventBus))
	}

	c := New(opts...)
	return Result{Cache: c, IdentityCache: c}, nil
}

type lifecycleInput struct {
	fx.In

	LC         fx.Lifecycle
	Cache      *Cache
	UnifiedCfg *config.Config     `optional:"true"`
	Source     pkgif.RecordSource `optional:"true"`
}

func registerLifecycle(in lifecycleInput) error {
	cfg := in.UnifiedCfg
	if cfg == nil {
		cfg = config.NewConfig()
	}
	local, err := cfg.Identity.Local()
	if err != nil {
		return err
	}

	in.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !cfg.Cache.WarmOnStart {
				in.Cache.Warm(nil, local)
				return nil
			}
			// 存储不可用不阻止启动
			n, err := in.Cache.WarmFromStore(ctx, in.Source, local)
			if err == nil {
				logger.Info("身份缓存已预热", "records", n)
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			return in.Cache.Close()
		},
	})
	return nil
}
