// Package types 定义 svcaddr 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 svcaddr 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - ids.go       - DurableID（稳定标识）, Alias（可重新分配的别名）
//   - token.go     - HashToken（身份生命周期内恒定的哈希令牌）
//   - trust.go     - TrustLevel（映射可信度）
//   - recipient.go - Recipient（存储层记录）, LocalIdentity
//   - events.go    - 映射变更事件
//   - stats.go     - 缓存统计快照
//   - errors.go    - 公共错误定义
//
// # 标识约定
//
// 两种标识都使用零值表示"缺失"：
//
//	var id types.DurableID   // IsEmpty() == true
//	var alias types.Alias    // IsEmpty() == true
//
// 因此所有接受"可选标识"的 API 都直接传零值，不使用指针。
package types
