package address

import (
	"fmt"
	"sync"
	"sync/atomic"

	pkgif "github.com/dep2p/go-svcaddr/pkg/interfaces"
	"github.com/dep2p/go-svcaddr/pkg/lib/log"
	"github.com/dep2p/go-svcaddr/pkg/types"
)

var logger = log.Logger("core/address")

// callerErrorReporter 身份缓存可选实现，用于统一统计调用方误用
type callerErrorReporter interface {
	ReportCallerError()
}

// Resolver 地址句柄工厂
//
// 进程内共享的长生命周期对象：持有身份缓存与关注登记表，
// 并订阅一次缓存的映射变更，把变更分发给登记的句柄。
type Resolver struct {
	cache    pkgif.IdentityCache
	registry *registry
	local    types.LocalIdentity

	localOnce sync.Once
	localAddr *Address

	cancel    func()
	closeOnce sync.Once

	misuse    atomic.Uint64
	refreshes atomic.Uint64
}

// Option Resolver 构造选项
type Option func(*Resolver)

// WithLocalIdentity 设置本地用户身份（IsLocal 使用）
func WithLocalIdentity(local types.LocalIdentity) Option {
	return func(r *Resolver) {
		r.local = local
	}
}

// WithSweepEvery 设置失效关注的清扫周期（按登记次数）
func WithSweepEvery(n int) Option {
	return func(r *Resolver) {
		r.registry = newRegistry(n)
	}
}

// NewResolver 创建解析器并订阅缓存的映射变更
func NewResolver(cache pkgif.IdentityCache, opts ...Option) *Resolver {
	r := &Resolver{
		cache:    cache,
		registry: newRegistry(defaultSweepEvery),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.cancel = cache.OnMappingChange(r.mappingChanged)
	return r
}

// New 构造地址句柄
//
// 缺失的一方先从缓存补全，然后通过 Resolve 取得令牌。句柄在补全别名之前
// 登记变更关注，补全期间的 Reassign 不会被漏掉。补全的标识来自缓存本身，
// 以低信任度参与 Resolve，不会覆盖期间发生的重新分配。
//
// 两个标识都为空属于调用方误用：记录警告并返回不完整的句柄，它不参与任何映射。
func (r *Resolver) New(id types.DurableID, alias types.Alias, trust types.TrustLevel) *Address {
	if id.IsEmpty() && alias.IsEmpty() {
		r.reportMisuse("构造地址时没有任何标识")
	}

	a := &Address{r: r, id: id, alias: alias}

	prefilledID := false
	if id.IsEmpty() && !alias.IsEmpty() {
		if found, err := r.cache.LookupDurable(alias); err == nil {
			a.id = found
			prefilledID = true
		}
	}

	a.watch()

	resolveAlias := alias
	if prefilledID {
		a.confirmAlias(a.id, alias)
	} else if alias.IsEmpty() && !id.IsEmpty() {
		a.mu.Lock()
		gen := a.aliasGen
		a.mu.Unlock()

		if found, err := r.cache.LookupAlias(id); err == nil {
			a.mu.Lock()
			if a.aliasGen == gen {
				a.alias = found
				resolveAlias = found
			}
			a.mu.Unlock()
		}
	}

	if prefilledID || resolveAlias != alias {
		trust = types.TrustLow
	}

	a.token = r.cache.Resolve(a.id, resolveAlias, trust)
	return a
}

// FromDurableID 只用 DurableID 构造（低信任度）
func (r *Resolver) FromDurableID(id types.DurableID) *Address {
	return r.New(id, "", types.TrustLow)
}

// FromAlias 只用别名构造（低信任度）
func (r *Resolver) FromAlias(alias types.Alias) *Address {
	return r.New(types.EmptyDurableID, alias, types.TrustLow)
}

// Parse 从 UUID 字符串和别名构造
//
// uuidString 为空表示未知；格式错误返回 ErrInvalidDurableID，不构造句柄。
func (r *Resolver) Parse(uuidString string, alias types.Alias, trust types.TrustLevel) (*Address, error) {
	var id types.DurableID
	if uuidString != "" {
		parsed, err := types.ParseDurableID(uuidString)
		if err != nil {
			r.reportMisuse("无效的 UUID 字符串", "uuid", uuidString)
			return nil, fmt.Errorf("parse address %q: %w", uuidString, err)
		}
		id = parsed
	}
	return r.New(id, alias, trust), nil
}

// Local 返回本地用户的地址，本地身份未知时返回 nil
func (r *Resolver) Local() *Address {
	r.localOnce.Do(func() {
		if !r.local.IsEmpty() {
			r.localAddr = r.New(r.local.ID, r.local.Alias, types.TrustHigh)
		}
	})
	return r.localAddr
}

// Cache 返回底层身份缓存
func (r *Resolver) Cache() pkgif.IdentityCache {
	return r.cache
}

// mappingChanged 缓存变更回调（缓存锁已释放）
//
// 先在登记表锁内取出存活句柄，释放后逐个作废别名。不在这里读取缓存：
// 同一 id 的两次通知交错时，推送读到的值可能让旧值覆盖新值。
func (r *Resolver) mappingChanged(id types.DurableID) {
	handles := r.registry.live(id)
	if len(handles) == 0 {
		return
	}

	for _, a := range handles {
		a.invalidateAlias()
	}
	r.refreshes.Add(uint64(len(handles)))
	logger.Debug("已作废地址句柄别名", "uuid", id.ShortString(), "handles", len(handles))
}

// Sweep 立即清扫已被回收的句柄
func (r *Resolver) Sweep() {
	r.registry.sweep()
}

// Stats 缓存统计加上句柄层统计
func (r *Resolver) Stats() types.CacheStats {
	s := r.cache.Stats()
	if _, ok := r.cache.(callerErrorReporter); !ok {
		s.CallerErrors += r.misuse.Load()
	}
	s.WatchedIDs = r.registry.watched()
	s.ObserverRefresh = r.refreshes.Load()
	return s
}

// Misuse 返回句柄层记录的调用方误用次数
func (r *Resolver) Misuse() uint64 {
	return r.misuse.Load()
}

// Close 取消对缓存变更的订阅，可多次调用
//
// 已构造的句柄仍可使用，但不再收到别名更新。
func (r *Resolver) Close() error {
	r.closeOnce.Do(func() {
		if r.cancel != nil {
			r.cancel()
		}
	})
	return nil
}

func (r *Resolver) reportMisuse(msg string, args ...any) {
	r.misuse.Add(1)
	if rep, ok := r.cache.(callerErrorReporter); ok {
		rep.ReportCallerError()
	}
	logger.Warn(msg, args...)
}
