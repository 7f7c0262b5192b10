// Package addrcache 实现身份解析缓存
//
// 一个联系人可以通过两种标识被认识：稳定的 DurableID（UUID）和可以
// 转移的别名（例如电话号码）。Cache 维护二者的双向映射，并为每个逻辑
// 身份分配一个在进程生命周期内不变的 HashToken，使地址句柄可以安全地
// 作为哈希容器的键。
//
// # 信任度
//
// Resolve 的 trust 参数由调用方给出：TrustLow 且带 DurableID 时，别名
// 不会覆盖已有配对；TrustHigh 时配对无条件记录。
//
// # 重新分配
//
// Reassign 是权威更新入口（例如目录查询得到新的别名）。别名转移到新
// DurableID 时，旧 DurableID 失去别名但保留令牌。完成后在锁外同步调用
// OnMappingChange 回调，并可选地在事件总线上发出 EvtMappingChanged。
//
// # 预热
//
// 进程启动时调用 Warm/WarmFromStore 从联系人存储预填映射；存储不可用时
// 缓存以空状态启动，随后续 Resolve 自愈。
package addrcache
