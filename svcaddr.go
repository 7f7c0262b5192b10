package svcaddr

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/multierr"

	"github.com/dep2p/go-svcaddr/config"
	"github.com/dep2p/go-svcaddr/internal/core/addrcache"
	"github.com/dep2p/go-svcaddr/internal/core/address"
	"github.com/dep2p/go-svcaddr/internal/core/eventbus"
	"github.com/dep2p/go-svcaddr/internal/core/recipient"
	pkgif "github.com/dep2p/go-svcaddr/pkg/interfaces"
	"github.com/dep2p/go-svcaddr/pkg/lib/log"
)

var logger = log.Logger("svcaddr")

const stopTimeout = 10 * time.Second

// Book 身份解析入口
//
// 持有身份缓存、地址句柄工厂和联系人存储，生命周期由内部 Fx 应用管理。
// 所有方法并发安全。
type Book struct {
	mu     sync.Mutex
	app    *fx.App
	cfg    *config.Config
	closed bool

	cache    *addrcache.Cache
	resolver *address.Resolver
	store    *recipient.Store
	bus      *eventbus.Bus
	registry *prometheus.Registry
}

// New 创建并启动 Book
//
// 启动时打开存储并按 cache.warm_on_start 预热身份缓存。
func New(ctx context.Context, opts ...Option) (*Book, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	cfg, err := o.resolveConfig()
	if err != nil {
		return nil, err
	}

	b := &Book{cfg: cfg}
	b.app = buildFxApp(cfg, o, b)
	if err := b.app.Err(); err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}

	startCtx, cancel := context.WithTimeout(ctx, o.startTimeout)
	defer cancel()

	if err := b.app.Start(startCtx); err != nil {
		logger.Error("启动失败", "error", err)
		return nil, fmt.Errorf("start: %w", err)
	}

	logger.Info("svcaddr 已启动",
		"data_dir", cfg.Storage.DataDir,
		"in_memory", cfg.Storage.InMemory,
		"durable_ids", b.cache.Stats().DurableIDs)
	return b, nil
}

// Config 返回生效的配置副本
func (b *Book) Config() config.Config {
	return *b.cfg
}

// Cache 返回身份缓存
func (b *Book) Cache() pkgif.IdentityCache {
	return b.cache
}

// Resolver 返回地址句柄工厂
func (b *Book) Resolver() *Resolver {
	return b.resolver
}

// Store 返回联系人记录存储
//
// 写事务提交后的别名变化会自动通过 Reassign 传播到缓存和句柄。
func (b *Book) Store() pkgif.RecipientStore {
	return b.store
}

// EventBus 返回事件总线（cache.emit_events 开启时发布 EvtMappingChanged）
func (b *Book) EventBus() pkgif.EventBus {
	return b.bus
}

// Metrics 返回 Prometheus 注册表
//
// metrics.enable 关闭时注册表为空。
func (b *Book) Metrics() *prometheus.Registry {
	return b.registry
}

// Stats 返回缓存与句柄统计
func (b *Book) Stats() CacheStats {
	return b.resolver.Stats()
}

// Address 创建地址句柄
func (b *Book) Address(id DurableID, alias Alias, trust TrustLevel) *Address {
	return b.resolver.New(id, alias, trust)
}

// Local 返回本地用户的地址句柄，未配置本地身份时返回 nil
func (b *Book) Local() *Address {
	return b.resolver.Local()
}

// Reassign 权威地把 alias 分配给 id（alias 为空表示清除）
//
// 只更新内存映射；需要持久化时通过 Store().Write 更新记录。
func (b *Book) Reassign(id DurableID, alias Alias) {
	b.cache.Reassign(id, alias)
}

// Put 持久化一条记录（插入或更新）
func (b *Book) Put(ctx context.Context, rec Recipient) error {
	return b.store.Write(ctx, func(tx pkgif.RecipientWriter) error {
		return tx.Upsert(rec)
	})
}

// Remove 删除一条记录
func (b *Book) Remove(ctx context.Context, id DurableID) error {
	return b.store.Write(ctx, func(tx pkgif.RecipientWriter) error {
		return tx.Delete(id)
	})
}

// Close 停止所有组件并关闭存储，可多次调用
func (b *Book) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	// 先断开句柄更新，再按反向顺序停止模块
	err := b.resolver.Close()
	err = multierr.Append(err, b.app.Stop(ctx))
	if err != nil {
		logger.Warn("关闭时出现错误", "error", err)
		return err
	}

	logger.Info("svcaddr 已关闭")
	return nil
}
