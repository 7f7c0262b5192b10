package address

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-svcaddr/config"
	pkgif "github.com/dep2p/go-svcaddr/pkg/interfaces"
)

// Params 模块输入依赖
type Params struct {
	fx.In

	Cache      pkgif.IdentityCache
	UnifiedCfg *config.Config `optional:"true"`
}

// Result 模块输出
type Result struct {
	fx.Out

	Resolver *Resolver
}

// Module 返回地址句柄 Fx 模块
//
// 提供 *Resolver；OnStop 时取消对缓存变更的订阅。
func Module() fx.Option {
	return fx.Module("address",
		fx.Provide(ProvideResolver),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideResolver 按配置创建解析器
func ProvideResolver(p Params) (Result, error) {
	cfg := p.UnifiedCfg
	if cfg == nil {
		cfg = config.NewConfig()
	}

	local, err := cfg.Identity.Local()
	if err != nil {
		return Result{}, err
	}

	r := NewResolver(p.Cache,
		WithLocalIdentity(local),
		WithSweepEvery(cfg.Cache.SweepEvery),
	)
	return Result{Resolver: r}, nil
}

func registerLifecycle(lc fx.Lifecycle, r *Resolver) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return r.Close()
		},
	})
}
