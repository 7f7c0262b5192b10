package interfaces

import (
	"context"

	"github.com/dep2p/go-svcaddr/pkg/types"
)

// IdentityCache DurableID ⇄ 别名双向映射与哈希令牌缓存
//
// 所有方法并发安全且可线性化。
type IdentityCache interface {
	// Resolve 返回标识对应的稳定哈希令牌
	//
	// TrustHigh 且两个标识都给出时记录配对；TrustLow 且给出 DurableID 时
	// 忽略别名。两个标识都为空时返回一个不缓存的新令牌。
	Resolve(id types.DurableID, alias types.Alias, trust types.TrustLevel) types.HashToken

	// LookupAlias 查询 DurableID 当前配对的别名
	LookupAlias(id types.DurableID) (types.Alias, error)

	// LookupDurable 查询别名当前配对的 DurableID
	LookupDurable(alias types.Alias) (types.DurableID, error)

	// Reassign 权威地把 alias 分配给 id（alias 为空表示清除），并通知订阅者
	Reassign(id types.DurableID, alias types.Alias)

	// OnMappingChange 注册映射变更回调，返回取消函数
	//
	// 回调在缓存锁释放后同步调用。
	OnMappingChange(fn MappingListener) (cancel func())

	// Stats 返回统计快照
	Stats() types.CacheStats
}

// MappingListener 映射变更回调，参数为映射发生变化的 DurableID
type MappingListener func(id types.DurableID)

// RecordSource 缓存预热的数据来源
type RecordSource interface {
	// FetchAll 返回全部联系人记录
	FetchAll(ctx context.Context) ([]types.Recipient, error)
}
