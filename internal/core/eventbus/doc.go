// Package eventbus 实现进程内事件总线
//
// 提供类型安全的事件发布/订阅：
//   - 事件类型以指针注册，按 reflect.Type 分发
//   - 订阅通道带缓冲，发射非阻塞，慢消费者丢事件并告警
//   - 发射器引用计数，空闲节点自动回收
//   - 有状态发射器（Stateful）向新订阅者补发最后一个事件
//
// 身份缓存在映射重新分配后发出 types.EvtMappingChanged，
// 供不持有地址句柄的消费者（审计、同步）使用：
//
//	sub, _ := bus.Subscribe(new(types.EvtMappingChanged))
//	defer sub.Close()
//	for evt := range sub.Out() {
//	    e := evt.(types.EvtMappingChanged)
//	    // ...
//	}
package eventbus
