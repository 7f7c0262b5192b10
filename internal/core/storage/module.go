package storage

import (
	"context"

	"github.com/dep2p/go-svcaddr/config"
	"github.com/dep2p/go-svcaddr/internal/core/storage/engine"
	"github.com/dep2p/go-svcaddr/internal/core/storage/engine/badger"
	"github.com/dep2p/go-svcaddr/internal/core/storage/kv"
	pkgif "github.com/dep2p/go-svcaddr/pkg/interfaces"
	"github.com/dep2p/go-svcaddr/pkg/lib/log"
	"go.uber.org/fx"
)

var logger = log.Logger("core/storage")

// Params Storage 模块依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Result Storage 模块提供的结果
type Result struct {
	fx.Out

	Engine       engine.InternalEngine
	PublicEngine pkgif.Engine
	Config       Config
}

// Module 返回 Storage Fx 模块
//
// 提供:
//   - engine.InternalEngine / pkgif.Engine: 存储引擎实例
//   - Config: 存储配置
//
// 生命周期:
//   - OnStart: 启动引擎（GC 等后台任务）
//   - OnStop: 关闭引擎
func Module() fx.Option {
	return fx.Module("storage",
		fx.Provide(ProvideStorage),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideStorage 提供存储引擎和配置
func ProvideStorage(p Params) (Result, error) {
	cfg := ConfigFromUnified(p.UnifiedCfg)
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	eng, err := NewEngine(cfg)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Engine:       eng,
		PublicEngine: eng,
		Config:       cfg,
	}, nil
}

func registerLifecycle(lc fx.Lifecycle, eng engine.InternalEngine) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if err := eng.Start(); err != nil {
				logger.Error("存储引擎启动失败", "error", err)
				return err
			}
			logger.Debug("存储引擎已启动")
			return nil
		},
		OnStop: func(_ context.Context) error {
			if err := eng.Close(); err != nil {
				logger.Warn("存储引擎关闭失败", "error", err)
				return err
			}
			logger.Debug("存储引擎已关闭")
			return nil
		},
	})
}

// NewEngine 根据配置创建存储引擎
func NewEngine(cfg Config) (engine.InternalEngine, error) {
	logger.Debug("创建存储引擎", "path", cfg.Path, "in_memory", cfg.InMemory)
	eng, err := badger.New(cfg.ToEngineConfig())
	if err != nil {
		logger.Error("创建存储引擎失败", "error", err)
		return nil, err
	}
	return eng, nil
}

// NewKVStore 创建带前缀的 KVStore
func NewKVStore(eng engine.InternalEngine, prefix []byte) *kv.Store {
	return kv.New(eng, prefix)
}

// Open 打开持久化存储引擎
func Open(path string) (engine.InternalEngine, error) {
	return NewEngine(DefaultConfig().WithPath(path))
}

// OpenInMemory 打开内存存储引擎
func OpenInMemory() (engine.InternalEngine, error) {
	return NewEngine(DefaultConfig().WithInMemory(true))
}

// InternalEngine 是 engine.InternalEngine 的类型别名
type InternalEngine = engine.InternalEngine

// KVStore 是 kv.Store 的类型别名
type KVStore = kv.Store
