package interfaces

// EventBus 进程内事件总线
//
// 事件类型以指针形式注册：Subscribe(new(types.EvtMappingChanged))。
type EventBus interface {
	// Subscribe 订阅指定类型的事件
	Subscribe(eventType interface{}, opts ...SubscriptionOpt) (Subscription, error)

	// Emitter 获取指定事件类型的发射器
	Emitter(eventType interface{}, opts ...EmitterOpt) (Emitter, error)

	// EventTypes 返回当前已注册的事件类型
	EventTypes() []interface{}
}

// Subscription 事件订阅
type Subscription interface {
	// Out 返回接收事件的通道，Close 后通道被关闭
	Out() <-chan interface{}

	// Close 取消订阅
	Close() error
}

// Emitter 事件发射器
type Emitter interface {
	// Emit 发射事件（非阻塞，慢订阅者会丢事件）
	Emit(event interface{}) error

	// Close 关闭发射器
	Close() error
}

// SubscriptionOpt 订阅选项
type SubscriptionOpt func(*SubscriptionSettings)

// EmitterOpt 发射器选项
type EmitterOpt func(*EmitterSettings)

// SubscriptionSettings 订阅设置
type SubscriptionSettings struct {
	Buffer int
	Name   string
}

// EmitterSettings 发射器设置
type EmitterSettings struct {
	Stateful bool
}

// BufSize 设置订阅缓冲区大小
func BufSize(size int) SubscriptionOpt {
	return func(s *SubscriptionSettings) {
		s.Buffer = size
	}
}

// Name 为订阅命名（用于慢消费者日志）
func Name(name string) SubscriptionOpt {
	return func(s *SubscriptionSettings) {
		s.Name = name
	}
}

// Stateful 有状态发射器：新订阅者会立即收到最后一个事件
func Stateful() EmitterOpt {
	return func(s *EmitterSettings) {
		s.Stateful = true
	}
}
