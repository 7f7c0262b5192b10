package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	pkgif "github.com/dep2p/go-svcaddr/pkg/interfaces"
	"github.com/dep2p/go-svcaddr/pkg/types"
	"go.uber.org/fx"
)

type testEvent struct {
	Value int
}

func recv(t *testing.T, sub pkgif.Subscription) interface{} {
	t.Helper()
	select {
	case evt, ok := <-sub.Out():
		if !ok {
			t.Fatal("subscription channel closed")
		}
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return nil
}

func TestBus_EmitAndReceive(t *testing.T) {
	bus := NewBus()

	sub, err := bus.Subscribe(new(testEvent))
	if err != nil {
		t.Fatalf("Subscribe() failed: %v", err)
	}
	defer sub.Close()

	em, err := bus.Emitter(new(testEvent))
	if err != nil {
		t.Fatalf("Emitter() failed: %v", err)
	}
	defer em.Close()

	if err := em.Emit(testEvent{Value: 42}); err != nil {
		t.Fatalf("Emit() failed: %v", err)
	}

	got := recv(t, sub).(testEvent)
	if got.Value != 42 {
		t.Errorf("received %d, want 42", got.Value)
	}
}

func TestBus_InvalidEventTypes(t *testing.T) {
	bus := NewBus()

	if _, err := bus.Subscribe(nil); err != ErrInvalidEventType {
		t.Errorf("Subscribe(nil) = %v, want ErrInvalidEventType", err)
	}
	if _, err := bus.Subscribe(testEvent{}); err != ErrNonPointerType {
		t.Errorf("Subscribe(value) = %v, want ErrNonPointerType", err)
	}
	if _, err := bus.Emitter(testEvent{}); err != ErrNonPointerType {
		t.Errorf("Emitter(value) = %v, want ErrNonPointerType", err)
	}
}

func TestEmitter_WrongType(t *testing.T) {
	bus := NewBus()
	em, _ := bus.Emitter(new(testEvent))
	defer em.Close()

	if err := em.Emit(&testEvent{}); err != ErrWrongEventType {
		t.Errorf("Emit(pointer) = %v, want ErrWrongEventType", err)
	}
	if err := em.Emit("x"); err != ErrWrongEventType {
		t.Errorf("Emit(string) = %v, want ErrWrongEventType", err)
	}
}

func TestEmitter_Closed(t *testing.T) {
	bus := NewBus()
	em, _ := bus.Emitter(new(testEvent))

	if err := em.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := em.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}
	if err := em.Emit(testEvent{}); err != ErrEmitterClosed {
		t.Errorf("Emit after Close = %v, want ErrEmitterClosed", err)
	}
}

func TestBus_Stateful(t *testing.T) {
	bus := NewBus()
	em, _ := bus.Emitter(new(testEvent), Stateful())
	defer em.Close()

	_ = em.Emit(testEvent{Value: 1})
	_ = em.Emit(testEvent{Value: 2})

	sub, _ := bus.Subscribe(new(testEvent))
	defer sub.Close()

	got := recv(t, sub).(testEvent)
	if got.Value != 2 {
		t.Errorf("late subscriber got %d, want last event 2", got.Value)
	}
}

func TestBus_SlowConsumerDrops(t *testing.T) {
	bus := NewBus()
	sub, _ := bus.Subscribe(new(testEvent), BufSize(1), Name("slow"))
	defer sub.Close()

	em, _ := bus.Emitter(new(testEvent))
	defer em.Close()

	for i := 0; i < 5; i++ {
		if err := em.Emit(testEvent{Value: i}); err != nil {
			t.Fatalf("Emit() failed: %v", err)
		}
	}

	if got := bus.Dropped(new(testEvent)); got != 4 {
		t.Errorf("Dropped() = %d, want 4", got)
	}
	if got := recv(t, sub).(testEvent); got.Value != 0 {
		t.Errorf("first buffered event = %d, want 0", got.Value)
	}
}

func TestBus_NodeDroppedWhenIdle(t *testing.T) {
	bus := NewBus()
	sub, _ := bus.Subscribe(new(testEvent))
	em, _ := bus.Emitter(new(testEvent))

	if n := len(bus.EventTypes()); n != 1 {
		t.Fatalf("EventTypes() len = %d, want 1", n)
	}

	_ = sub.Close()
	_ = em.Close()

	if n := len(bus.EventTypes()); n != 0 {
		t.Errorf("EventTypes() len after close = %d, want 0", n)
	}
}

func TestBus_Close(t *testing.T) {
	bus := NewBus()
	sub, _ := bus.Subscribe(new(testEvent))
	em, _ := bus.Emitter(new(testEvent))

	if err := bus.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	if _, ok := <-sub.Out(); ok {
		t.Error("subscription channel still open after bus Close")
	}
	if err := em.Emit(testEvent{}); err != nil {
		t.Errorf("Emit after bus Close = %v, want nil", err)
	}
	if _, err := bus.Subscribe(new(testEvent)); err != ErrClosed {
		t.Errorf("Subscribe after Close = %v, want ErrClosed", err)
	}
}

func TestBus_ConcurrentEmitters(t *testing.T) {
	bus := NewBus()
	sub, _ := bus.Subscribe(new(types.EvtMappingChanged), BufSize(200))
	defer sub.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			em, err := bus.Emitter(new(types.EvtMappingChanged))
			if err != nil {
				t.Errorf("Emitter() failed: %v", err)
				return
			}
			defer em.Close()
			for j := 0; j < 10; j++ {
				_ = em.Emit(types.EvtMappingChanged{ID: types.NewDurableID()})
			}
		}()
	}
	wg.Wait()

	for i := 0; i < 100; i++ {
		recv(t, sub)
	}
}

func TestModule_Lifecycle(t *testing.T) {
	var bus pkgif.EventBus
	var sub pkgif.Subscription

	app := fx.New(
		Module(),
		fx.NopLogger,
		fx.Invoke(func(b pkgif.EventBus) {
			bus = b
			sub, _ = b.Subscribe(new(testEvent))
		}),
	)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		t.Fatalf("app.Start() failed: %v", err)
	}
	if bus == nil {
		t.Fatal("EventBus not injected")
	}
	if err := app.Stop(ctx); err != nil {
		t.Fatalf("app.Stop() failed: %v", err)
	}

	if _, ok := <-sub.Out(); ok {
		t.Error("subscription still open after app stop")
	}
}
