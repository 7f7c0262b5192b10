package address

import (
	"sync"
	"weak"

	"github.com/dep2p/go-svcaddr/pkg/types"
)

// defaultSweepEvery 默认每注册多少次清扫一次
const defaultSweepEvery = 256

// registry DurableID → 关注该 DurableID 的句柄（弱引用）
//
// 句柄被回收后弱引用变为 nil，由 live 惰性剔除；从不被广播的 DurableID
// 由周期性 sweep 回收，防止条目无限增长。
type registry struct {
	mu         sync.Mutex
	entries    map[types.DurableID][]weak.Pointer[Address]
	adds       int
	sweepEvery int
}

func newRegistry(sweepEvery int) *registry {
	if sweepEvery <= 0 {
		sweepEvery = defaultSweepEvery
	}
	return &registry{
		entries:    make(map[types.DurableID][]weak.Pointer[Address]),
		sweepEvery: sweepEvery,
	}
}

// add 登记句柄对 id 的关注
func (r *registry) add(id types.DurableID, a *Address) {
	wp := weak.Make(a)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[id] = append(r.entries[id], wp)
	r.adds++
	if r.adds%r.sweepEvery == 0 {
		r.sweepLocked()
	}
}

// live 返回 id 下仍存活的句柄，同时剔除失效引用
func (r *registry) live(id types.DurableID) []*Address {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, ok := r.entries[id]
	if !ok {
		return nil
	}

	var out []*Address
	kept := pruneInto(list, func(a *Address) { out = append(out, a) })
	if len(kept) == 0 {
		delete(r.entries, id)
	} else {
		r.entries[id] = kept
	}
	return out
}

// sweep 清扫所有条目
func (r *registry) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
}

func (r *registry) sweepLocked() {
	for id, list := range r.entries {
		kept := pruneInto(list, nil)
		if len(kept) == 0 {
			delete(r.entries, id)
		} else {
			r.entries[id] = kept
		}
	}
}

// watched 当前有登记的 DurableID 数（含尚未剔除的失效项）
func (r *registry) watched() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// size 某个 DurableID 下的弱引用数（含失效项）
func (r *registry) size(id types.DurableID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries[id])
}

// pruneInto 原地保留仍存活的弱引用，visit 收到每个存活句柄
func pruneInto(list []weak.Pointer[Address], visit func(*Address)) []weak.Pointer[Address] {
	kept := list[:0]
	for _, wp := range list {
		a := wp.Value()
		if a == nil {
			continue
		}
		if visit != nil {
			visit(a)
		}
		kept = append(kept, wp)
	}
	clear(list[len(kept):])
	return kept
}
