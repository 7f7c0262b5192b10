package addrcache

import (
	"sync"

	"github.com/benbjohnson/clock"

	pkgif "github.com/dep2p/go-svcaddr/pkg/interfaces"
	"github.com/dep2p/go-svcaddr/pkg/lib/log"
	"github.com/dep2p/go-svcaddr/pkg/types"
)

var logger = log.Logger("core/addrcache")

// Cache 身份缓存
//
// 维护 DurableID ⇄ 别名双向映射，以及每个标识到哈希令牌的映射。
// 四张表只在 mu 下访问；回调和事件发射都在释放 mu 之后进行。
//
// 令牌一旦为某个 DurableID 发出，在进程生命周期内不再改变。
// 别名只能配对一个 DurableID：把别名分给新的 DurableID 时，
// 旧 DurableID 失去别名但保留令牌。
type Cache struct {
	mu             sync.RWMutex
	durableToAlias map[types.DurableID]types.Alias
	aliasToDurable map[types.Alias]types.DurableID
	durableToToken map[types.DurableID]types.HashToken
	aliasToToken   map[types.Alias]types.HashToken

	lmu       sync.RWMutex
	listeners []listenerEntry
	nextLID   uint64

	clock clock.Clock
	mint  func() types.HashToken

	bus     pkgif.EventBus
	emitter pkgif.Emitter

	stats counters
}

var _ pkgif.IdentityCache = (*Cache)(nil)

type listenerEntry struct {
	id uint64
	fn pkgif.MappingListener
}

// change 一次映射变化，锁外发布
type change struct {
	id        types.DurableID
	alias     types.Alias
	previous  types.Alias
	displaced types.DurableID
}

// New 创建空的身份缓存
func New(opts ...Option) *Cache {
	c := &Cache{
		durableToAlias: make(map[types.DurableID]types.Alias),
		aliasToDurable: make(map[types.Alias]types.DurableID),
		durableToToken: make(map[types.DurableID]types.HashToken),
		aliasToToken:   make(map[types.Alias]types.HashToken),
		clock:          clock.New(),
		mint:           types.NewHashToken,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.bus != nil {
		em, err := c.bus.Emitter(new(types.EvtMappingChanged))
		if err != nil {
			logger.Warn("无法创建映射变更发射器", "error", err)
		} else {
			c.emitter = em
		}
	}
	return c
}

// ============================================================================
//                              令牌解析
// ============================================================================

// Resolve 返回标识对应的稳定哈希令牌
//
// 令牌选择顺序：DurableID 已有令牌 → 别名已有令牌 → 新铸造。
// 选中的令牌缓存到所有给出的标识下。
//
// TrustLow 且给出 DurableID 时别名被忽略（不配对，也不缓存令牌）。
// TrustHigh 且两者都给出时记录配对；别名原先属于别的 DurableID，
// 或该 DurableID 原先有别的别名时，旧配对被撤销并通知订阅者。
//
// 两个标识都为空时返回一个不缓存的新令牌。
func (c *Cache) Resolve(id types.DurableID, alias types.Alias, trust types.TrustLevel) types.HashToken {
	if trust == types.TrustHigh {
		c.stats.resolvesHigh.Add(1)
	} else {
		c.stats.resolvesLow.Add(1)
	}

	if !alias.IsEmpty() {
		if err := alias.Validate(); err != nil {
			c.stats.callerErrors.Add(1)
			logger.Warn("Resolve 收到无效别名，已忽略", "alias", alias, "error", err)
			alias = ""
		}
	}
	if trust != types.TrustHigh && !id.IsEmpty() {
		alias = ""
	}

	if id.IsEmpty() && alias.IsEmpty() {
		c.stats.minted.Add(1)
		return c.mint()
	}

	var changes []change

	c.mu.Lock()
	if !id.IsEmpty() && !alias.IsEmpty() {
		changes = c.pairLocked(id, alias)
	}

	token, ok := types.EmptyHashToken, false
	if !id.IsEmpty() {
		token, ok = c.durableToToken[id]
	}
	if !ok && !alias.IsEmpty() {
		token, ok = c.aliasToToken[alias]
	}
	if !ok {
		token = c.mint()
		c.stats.minted.Add(1)
	}

	if !alias.IsEmpty() {
		c.aliasToToken[alias] = token
	}
	if !id.IsEmpty() {
		c.durableToToken[id] = token
	}
	c.mu.Unlock()

	c.publish(changes)
	return token
}

// pairLocked 记录 id ⇄ alias 配对并撤销冲突的旧配对，不动令牌
//
// 返回已有配对被改变的 DurableID（新建配对不算变化）。
func (c *Cache) pairLocked(id types.DurableID, alias types.Alias) []change {
	var changes []change

	if prev, ok := c.aliasToDurable[alias]; ok && prev != id {
		if c.durableToAlias[prev] == alias {
			delete(c.durableToAlias, prev)
		}
		changes = append(changes, change{id: prev, previous: alias})
	}

	old, hadOld := c.durableToAlias[id]
	if hadOld && old != alias {
		if c.aliasToDurable[old] == id {
			delete(c.aliasToDurable, old)
		}
	}

	c.durableToAlias[id] = alias
	c.aliasToDurable[alias] = id

	if hadOld && old != alias {
		var displaced types.DurableID
		if len(changes) > 0 {
			displaced = changes[0].id
		}
		changes = append(changes, change{id: id, alias: alias, previous: old, displaced: displaced})
	}
	return changes
}

// ============================================================================
//                              查询
// ============================================================================

// LookupAlias 查询 DurableID 当前配对的别名
func (c *Cache) LookupAlias(id types.DurableID) (types.Alias, error) {
	if id.IsEmpty() {
		c.stats.callerErrors.Add(1)
		logger.Warn("LookupAlias 收到空 DurableID")
		return "", ErrEmptyDurableID
	}

	c.mu.RLock()
	alias, ok := c.durableToAlias[id]
	c.mu.RUnlock()

	if !ok {
		return "", ErrNotFound
	}
	return alias, nil
}

// LookupDurable 查询别名当前配对的 DurableID
//
// 空别名返回 ErrEmptyAlias，语法无效返回 ErrInvalidAlias，二者都与
// ErrNotFound 区分。
func (c *Cache) LookupDurable(alias types.Alias) (types.DurableID, error) {
	if err := alias.Validate(); err != nil {
		c.stats.callerErrors.Add(1)
		logger.Warn("LookupDurable 收到无效别名", "alias", alias, "error", err)
		return types.EmptyDurableID, err
	}

	c.mu.RLock()
	id, ok := c.aliasToDurable[alias]
	c.mu.RUnlock()

	if !ok {
		return types.EmptyDurableID, ErrNotFound
	}
	return id, nil
}

// LookupToken 查询 DurableID 已发出的令牌（不铸造）
func (c *Cache) LookupToken(id types.DurableID) (types.HashToken, error) {
	if id.IsEmpty() {
		return types.EmptyHashToken, ErrEmptyDurableID
	}

	c.mu.RLock()
	token, ok := c.durableToToken[id]
	c.mu.RUnlock()

	if !ok {
		return types.EmptyHashToken, ErrNotFound
	}
	return token, nil
}

// ============================================================================
//                              重新分配
// ============================================================================

// Reassign 权威地把 alias 分配给 id，alias 为空表示清除 id 的别名
//
//  1. 令牌：id 已有令牌；否则 id 的旧别名未被他人占用时继承其令牌；
//     否则新别名尚未配对时继承新别名的令牌；否则铸造
//  2. id 原先的别名与新别名不同时，从两张别名表中删除旧别名
//  3. 记录 id → alias 和 id 的令牌
//  4. alias 原先属于别的 DurableID 时，该 DurableID 失去别名（保留令牌），
//     alias 改为指向 id
//  5. 释放锁后通知：先被夺走别名的 DurableID，再 id
//
// 空 id 或无效别名视为调用方误用，记录后忽略。
func (c *Cache) Reassign(id types.DurableID, alias types.Alias) {
	if id.IsEmpty() {
		c.stats.callerErrors.Add(1)
		logger.Warn("Reassign 收到空 DurableID，已忽略", "alias", alias)
		return
	}
	if !alias.IsEmpty() {
		if err := alias.Validate(); err != nil {
			c.stats.callerErrors.Add(1)
			logger.Warn("Reassign 收到无效别名，已忽略", "uuid", id, "alias", alias, "error", err)
			return
		}
	}

	c.mu.Lock()

	old, hadOld := c.durableToAlias[id]
	oldUnclaimed := false
	if hadOld {
		owner, claimed := c.aliasToDurable[old]
		oldUnclaimed = !claimed || owner == id
	}

	token, ok := c.durableToToken[id]
	if !ok && hadOld && oldUnclaimed {
		token, ok = c.aliasToToken[old]
	}
	// 扩展行为：新别名未配对但已有令牌（只凭别名构造过句柄）时由 id 继承，
	// 使 Reassign 前后的句柄哈希一致；否则在下面铸造新令牌。
	if !ok && !alias.IsEmpty() {
		if _, claimed := c.aliasToDurable[alias]; !claimed {
			token, ok = c.aliasToToken[alias]
		}
	}
	if !ok {
		token = c.mint()
		c.stats.minted.Add(1)
	}

	if hadOld && old != alias && oldUnclaimed {
		delete(c.aliasToDurable, old)
		delete(c.aliasToToken, old)
	}

	if alias.IsEmpty() {
		delete(c.durableToAlias, id)
	} else {
		c.durableToAlias[id] = alias
	}
	c.durableToToken[id] = token

	var displaced types.DurableID
	if !alias.IsEmpty() {
		if prev, ok := c.aliasToDurable[alias]; ok && prev != id {
			if c.durableToAlias[prev] == alias {
				delete(c.durableToAlias, prev)
			}
			displaced = prev
		}
		c.aliasToDurable[alias] = id
		c.aliasToToken[alias] = token
	}

	c.mu.Unlock()

	c.stats.reassignments.Add(1)
	logger.Debug("映射已重新分配", "uuid", id.ShortString(), "alias", alias, "previous", old)

	changes := make([]change, 0, 2)
	if !displaced.IsEmpty() {
		changes = append(changes, change{id: displaced, previous: alias})
	}
	changes = append(changes, change{id: id, alias: alias, previous: old, displaced: displaced})
	c.publish(changes)
}

// ============================================================================
//                              变更通知
// ============================================================================

// OnMappingChange 注册映射变更回调，返回取消函数（可多次调用）
//
// 回调在缓存锁释放后同步调用，可以安全地回调 Lookup*。
// 回调内不得调用 Reassign 或 Resolve。
func (c *Cache) OnMappingChange(fn pkgif.MappingListener) (cancel func()) {
	if fn == nil {
		return func() {}
	}

	c.lmu.Lock()
	c.nextLID++
	lid := c.nextLID
	c.listeners = append(c.listeners, listenerEntry{id: lid, fn: fn})
	c.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.lmu.Lock()
			defer c.lmu.Unlock()
			for i, l := range c.listeners {
				if l.id == lid {
					c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// publish 通知回调并发出事件，调用时不得持有 mu
func (c *Cache) publish(changes []change) {
	if len(changes) == 0 {
		return
	}

	c.lmu.RLock()
	listeners := make([]pkgif.MappingListener, len(c.listeners))
	for i, l := range c.listeners {
		listeners[i] = l.fn
	}
	c.lmu.RUnlock()

	now := c.clock.Now()
	for _, ch := range changes {
		c.stats.broadcasts.Add(1)
		for _, fn := range listeners {
			fn(ch.id)
		}
		if c.emitter != nil {
			evt := types.EvtMappingChanged{
				ID:        ch.id,
				Alias:     ch.alias,
				Previous:  ch.previous,
				Displaced: ch.displaced,
				Time:      now,
			}
			if err := c.emitter.Emit(evt); err != nil {
				logger.Debug("映射变更事件发射失败", "error", err)
			}
		}
	}
}

// Close 关闭事件发射器并清空回调
func (c *Cache) Close() error {
	c.lmu.Lock()
	c.listeners = nil
	c.lmu.Unlock()

	if c.emitter != nil {
		return c.emitter.Close()
	}
	return nil
}
