package eventbus

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// Subscription 订阅
type Subscription struct {
	bus       *Bus
	typ       reflect.Type
	name      string
	out       chan interface{}
	closeOnce sync.Once
}

// Out 返回事件通道
func (s *Subscription) Out() <-chan interface{} {
	return s.out
}

// Close 取消订阅，可并发多次调用
//
// 先从节点摘除（之后不会再有发送），再关闭通道。
func (s *Subscription) Close() error {
	s.closeOnce.Do(func() {
		s.bus.removeSub(s)
		close(s.out)
	})
	return nil
}

// Emitter 事件发射器
type Emitter struct {
	bus       *Bus
	node      *node
	typ       reflect.Type
	closed    atomic.Bool
	closeOnce sync.Once
}

// Emit 发射事件
//
// 事件必须是发射器类型的值（不是指针）。总线关闭后静默丢弃。
func (e *Emitter) Emit(event interface{}) error {
	if e.closed.Load() {
		return ErrEmitterClosed
	}
	if reflect.TypeOf(event) != e.typ {
		return ErrWrongEventType
	}
	if e.bus.closed.Load() {
		return nil
	}
	e.node.emit(event)
	return nil
}

// Close 关闭发射器，引用计数归零时尝试回收节点
func (e *Emitter) Close() error {
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		if e.node.nEmitters.Add(-1) == 0 {
			e.bus.tryDropNode(e.typ)
		}
	})
	return nil
}
