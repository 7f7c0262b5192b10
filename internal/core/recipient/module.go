package recipient

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-svcaddr/internal/core/storage/engine"
	pkgif "github.com/dep2p/go-svcaddr/pkg/interfaces"
)

// Params 联系人存储模块依赖
type Params struct {
	fx.In

	Engine engine.InternalEngine
	Clock  clock.Clock `optional:"true"`
}

// Result 联系人存储模块输出
type Result struct {
	fx.Out

	Store          *Store
	RecipientStore pkgif.RecipientStore
	Source         pkgif.RecordSource
}

// Module 返回联系人存储 Fx 模块
//
// 提供:
//   - *Store / pkgif.RecipientStore / pkgif.RecordSource
//
// 生命周期:
//   - 存在 pkgif.IdentityCache 时，提交后的别名变化转交 Reassign
//   - OnStop: 关闭存储
func Module() fx.Option {
	return fx.Module("recipient",
		fx.Provide(ProvideStore),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideStore 创建联系人存储
func ProvideStore(p Params) Result {
	s := New(p.Engine, WithClock(p.Clock))
	return Result{Store: s, RecipientStore: s, Source: s}
}

type lifecycleInput struct {
	fx.In

	LC    fx.Lifecycle
	Store *Store
	Cache pkgif.IdentityCache `optional:"true"`
}

func registerLifecycle(in lifecycleInput) {
	if in.Cache != nil {
		in.Store.SetSink(in.Cache.Reassign)
	}

	in.LC.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			in.Store.SetSink(nil)
			return in.Store.Close()
		},
	})
}
