package eventbus

import "errors"

var (
	// ErrClosed 事件总线已关闭
	ErrClosed = errors.New("eventbus closed")

	// ErrInvalidEventType 无效的事件类型
	ErrInvalidEventType = errors.New("invalid event type")

	// ErrNonPointerType 事件类型必须以指针形式给出
	ErrNonPointerType = errors.New("event type must be a pointer")

	// ErrEmitterClosed 发射器已关闭
	ErrEmitterClosed = errors.New("emitter closed")

	// ErrWrongEventType 发射的事件与发射器类型不符
	ErrWrongEventType = errors.New("event does not match emitter type")
)
