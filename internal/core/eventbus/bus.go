package eventbus

import (
	"reflect"
	"sync"
	"sync/atomic"

	pkgif "github.com/dep2p/go-svcaddr/pkg/interfaces"
	"github.com/dep2p/go-svcaddr/pkg/lib/log"
)

var logger = log.Logger("core/eventbus")

// defaultBufSize 订阅通道默认缓冲
const defaultBufSize = 16

// Bus 事件总线
//
// 每个事件类型对应一个 node，node 持有订阅者列表与发射器引用计数。
type Bus struct {
	mu     sync.RWMutex
	nodes  map[reflect.Type]*node
	closed atomic.Bool
}

var _ pkgif.EventBus = (*Bus)(nil)

// node 单个事件类型的分发节点
type node struct {
	lk        sync.Mutex
	typ       reflect.Type
	sinks     []*Subscription
	nEmitters atomic.Int32
	keepLast  bool
	last      interface{}
	dropped   atomic.Int64
}

// NewBus 创建新的事件总线
func NewBus() *Bus {
	return &Bus{
		nodes: make(map[reflect.Type]*node),
	}
}

// eventElemType 校验并取出事件类型（必须是指针）
func eventElemType(eventType interface{}) (reflect.Type, error) {
	if eventType == nil {
		return nil, ErrInvalidEventType
	}
	typ := reflect.TypeOf(eventType)
	if typ.Kind() != reflect.Ptr {
		return nil, ErrNonPointerType
	}
	return typ.Elem(), nil
}

// Subscribe 订阅事件
func (b *Bus) Subscribe(eventType interface{}, opts ...pkgif.SubscriptionOpt) (pkgif.Subscription, error) {
	if b.closed.Load() {
		return nil, ErrClosed
	}
	typ, err := eventElemType(eventType)
	if err != nil {
		return nil, err
	}

	settings := pkgif.SubscriptionSettings{Buffer: defaultBufSize}
	for _, opt := range opts {
		opt(&settings)
	}
	if settings.Buffer < 0 {
		settings.Buffer = 0
	}

	sub := &Subscription{
		bus:  b,
		typ:  typ,
		name: settings.Name,
		out:  make(chan interface{}, settings.Buffer),
	}

	b.withNode(typ, func(n *node) {
		n.sinks = append(n.sinks, sub)
		if n.keepLast && n.last != nil {
			select {
			case sub.out <- n.last:
			default:
			}
		}
	})

	return sub, nil
}

// Emitter 获取发射器
func (b *Bus) Emitter(eventType interface{}, opts ...pkgif.EmitterOpt) (pkgif.Emitter, error) {
	if b.closed.Load() {
		return nil, ErrClosed
	}
	typ, err := eventElemType(eventType)
	if err != nil {
		return nil, err
	}

	var settings pkgif.EmitterSettings
	for _, opt := range opts {
		opt(&settings)
	}

	var n *node
	b.withNode(typ, func(nd *node) {
		n = nd
		n.nEmitters.Add(1)
		if settings.Stateful {
			n.keepLast = true
		}
	})

	return &Emitter{bus: b, node: n, typ: typ}, nil
}

// EventTypes 返回当前已注册的事件类型（零值实例）
func (b *Bus) EventTypes() []interface{} {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]interface{}, 0, len(b.nodes))
	for typ := range b.nodes {
		out = append(out, reflect.Zero(typ).Interface())
	}
	return out
}

// Dropped 返回某事件类型因缓冲区满而丢弃的事件数
func (b *Bus) Dropped(eventType interface{}) int64 {
	typ, err := eventElemType(eventType)
	if err != nil {
		return 0
	}
	b.mu.RLock()
	n, ok := b.nodes[typ]
	b.mu.RUnlock()
	if !ok {
		return 0
	}
	return n.dropped.Load()
}

// Close 关闭总线并关闭所有订阅
//
// 之后的 Subscribe/Emitter 返回 ErrClosed，已有发射器的 Emit 静默丢弃。
func (b *Bus) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	b.mu.Lock()
	var subs []*Subscription
	for _, n := range b.nodes {
		n.lk.Lock()
		subs = append(subs, n.sinks...)
		n.lk.Unlock()
	}
	b.mu.Unlock()

	for _, s := range subs {
		_ = s.Close()
	}
	return nil
}

// withNode 在节点锁内执行 cb，节点不存在时创建
func (b *Bus) withNode(typ reflect.Type, cb func(*node)) {
	b.mu.Lock()
	n, ok := b.nodes[typ]
	if !ok {
		n = &node{typ: typ}
		b.nodes[typ] = n
	}
	n.lk.Lock()
	b.mu.Unlock()

	cb(n)
	n.lk.Unlock()
}

// tryDropNode 没有订阅者和发射器时删除节点
func (b *Bus) tryDropNode(typ reflect.Type) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n, ok := b.nodes[typ]
	if !ok {
		return
	}
	n.lk.Lock()
	idle := len(n.sinks) == 0 && n.nEmitters.Load() == 0
	n.lk.Unlock()
	if idle {
		delete(b.nodes, typ)
	}
}

// removeSub 从节点移除订阅（调用方持有的 out 通道随后由调用方关闭）
func (b *Bus) removeSub(sub *Subscription) {
	b.mu.Lock()
	n, ok := b.nodes[sub.typ]
	if !ok {
		b.mu.Unlock()
		return
	}
	n.lk.Lock()
	b.mu.Unlock()

	for i, s := range n.sinks {
		if s == sub {
			n.sinks = append(n.sinks[:i], n.sinks[i+1:]...)
			break
		}
	}
	idle := len(n.sinks) == 0 && n.nEmitters.Load() == 0
	n.lk.Unlock()

	if idle {
		b.tryDropNode(sub.typ)
	}
}

// emit 非阻塞地分发到所有订阅者
func (n *node) emit(event interface{}) {
	n.lk.Lock()
	defer n.lk.Unlock()

	if n.keepLast {
		n.last = event
	}

	for _, sub := range n.sinks {
		select {
		case sub.out <- event:
		default:
			dropped := n.dropped.Add(1)
			// 每 100 次告警一次
			if dropped%100 == 1 {
				logger.Warn("慢消费者，事件被丢弃",
					"type", n.typ.String(),
					"subscriber", sub.name,
					"dropped", dropped)
			}
		}
	}
}
