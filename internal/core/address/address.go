package address

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dep2p/go-svcaddr/pkg/types"
)

// Address 联系人地址句柄
//
// 持有可选的 DurableID、可选的别名，以及构造时从身份缓存取得的令牌。
// 令牌构造后不变，Hash/Key 可以放心用作容器键。
//
// 缺失的标识在读取时向缓存查询并记入句柄（有意的记忆化）。DurableID
// 一旦已知就不再改变；Reassign 的通知作废记入的别名，下次读取时重新查询。
//
// Address 必须以指针传递，并且只能由 Resolver 构造。
type Address struct {
	r     *Resolver
	token types.HashToken

	mu         sync.Mutex
	id         types.DurableID
	alias      types.Alias
	aliasGen   uint64
	registered bool
}

// ============================================================================
//                              标识访问
// ============================================================================

// DurableID 返回 DurableID
//
// 句柄只有别名时向缓存查询，查到后记入句柄并登记变更关注（一次）。
func (a *Address) DurableID() (types.DurableID, bool) {
	a.mu.Lock()
	id, alias := a.id, a.alias
	a.mu.Unlock()

	if !id.IsEmpty() {
		return id, true
	}
	if alias.IsEmpty() {
		return types.EmptyDurableID, false
	}

	found, err := a.r.cache.LookupDurable(alias)
	if err != nil {
		return types.EmptyDurableID, false
	}

	a.mu.Lock()
	learned := a.id.IsEmpty()
	if learned {
		a.id = found
	}
	id = a.id
	a.mu.Unlock()

	a.watch()
	if learned {
		a.confirmAlias(id, alias)
	}
	return id, true
}

// Alias 返回别名
//
// 句柄只有 DurableID 时向缓存查询并记入句柄。查询期间别名被作废时重新查询，
// 不记入已过期的值。
func (a *Address) Alias() (types.Alias, bool) {
	for {
		a.mu.Lock()
		id, alias, gen := a.id, a.alias, a.aliasGen
		a.mu.Unlock()

		if !alias.IsEmpty() {
			return alias, true
		}
		if id.IsEmpty() {
			return "", false
		}

		found, err := a.r.cache.LookupAlias(id)

		a.mu.Lock()
		if a.aliasGen != gen {
			a.mu.Unlock()
			continue
		}
		if err == nil && a.alias.IsEmpty() {
			a.alias = found
		}
		alias = a.alias
		a.mu.Unlock()

		return alias, !alias.IsEmpty()
	}
}

// watch 句柄知道 DurableID 后登记一次变更关注
func (a *Address) watch() {
	a.mu.Lock()
	id := a.id
	first := !id.IsEmpty() && !a.registered
	if first {
		a.registered = true
	}
	a.mu.Unlock()

	if first {
		a.r.registry.add(id, a)
	}
}

// confirmAlias 登记后复核别名仍属于 id
//
// DurableID 是在登记之前查到的，期间的变更通知不会送达本句柄；
// 别名已不指向 id 时作废句柄中的别名。
func (a *Address) confirmAlias(id types.DurableID, alias types.Alias) {
	if owner, err := a.r.cache.LookupDurable(alias); err == nil && owner == id {
		return
	}
	a.invalidateAlias()
}

// invalidateAlias 变更通知回调：作废别名，下次 Alias() 重新读取缓存
func (a *Address) invalidateAlias() {
	a.mu.Lock()
	a.alias = ""
	a.aliasGen++
	a.mu.Unlock()
}

// ============================================================================
//                              比较与哈希
// ============================================================================

// Equal 判断两个句柄是否表示同一身份
//
// 双方 DurableID 都已知时比较 DurableID；否则任一方有别名时比较别名；
// 都没有时不相等。
func (a *Address) Equal(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	if a == other {
		return true
	}

	if id, ok := a.DurableID(); ok {
		if otherID, ok := other.DurableID(); ok {
			return id == otherID
		}
	}

	alias, ok := a.Alias()
	otherAlias, otherOK := other.Alias()
	if ok || otherOK {
		return alias == otherAlias
	}
	return false
}

// Hash 返回 64 位哈希，O(1)，不触发解析
func (a *Address) Hash() uint64 {
	return a.token.Sum64()
}

// Key 返回可比较的令牌，用作 Go map 键
//
//	byAddr := map[types.HashToken]*Address{}
//	byAddr[addr.Key()] = addr
func (a *Address) Key() types.HashToken {
	return a.token
}

// IsComplete 至少有一个非空标识
func (a *Address) IsComplete() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.id.IsEmpty() || !a.alias.IsEmpty()
}

// Compare 按显示字符串排序：-1, 0, +1
func (a *Address) Compare(other *Address) int {
	return strings.Compare(a.DisplayString(), other.DisplayString())
}

// ============================================================================
//                              展示
// ============================================================================

// DisplayString 别名已知时返回别名，否则返回 UUID 字符串
func (a *Address) DisplayString() string {
	if alias, ok := a.Alias(); ok {
		return alias.String()
	}
	if id, ok := a.DurableID(); ok {
		return id.String()
	}
	return ""
}

// ServiceIdentifier 返回发给服务端的标识
//
// preferDurable 为 true 且 DurableID 已知时返回 UUID 字符串，否则返回别名；
// 首选标识缺失时退回另一个。
func (a *Address) ServiceIdentifier(preferDurable bool) string {
	id, hasID := a.DurableID()
	alias, hasAlias := a.Alias()

	switch {
	case preferDurable && hasID:
		return id.String()
	case hasAlias:
		return alias.String()
	case hasID:
		return id.String()
	default:
		return ""
	}
}

// IsLocal 是否为本地用户自己的地址
func (a *Address) IsLocal() bool {
	local := a.r.Local()
	return local != nil && a.Equal(local)
}

// Copy 以当前标识构造新的句柄（低信任度）
func (a *Address) Copy() *Address {
	id, _ := a.DurableID()
	alias, _ := a.Alias()
	return a.r.New(id, alias, types.TrustLow)
}

// String 实现 fmt.Stringer
func (a *Address) String() string {
	a.mu.Lock()
	id, alias := a.id, a.alias
	a.mu.Unlock()

	aliasStr, idStr := "nil", "nil"
	if !alias.IsEmpty() {
		aliasStr = alias.String()
	}
	if !id.IsEmpty() {
		idStr = id.String()
	}
	return fmt.Sprintf("<Address alias: %s, uuid: %s>", aliasStr, idStr)
}
