// Package recipient 实现联系人记录存储
//
// 记录（DurableID、别名、更新时间）以 JSON 保存在存储引擎的 "c/" 命名空间下，
// 并维护别名二级索引：
//
//	c/r/<uuid>   记录
//	c/a/<alias>  别名 → uuid
//
// 读写都在事务作用域内进行：
//
//	err := store.Write(ctx, func(tx interfaces.RecipientWriter) error {
//	    return tx.Upsert(types.Recipient{ID: id, Alias: "+15550100"})
//	})
//
// 写事务提交后，别名变化报告给 MappingSink。Fx 装配时 sink 为
// IdentityCache.Reassign，使可信的记录更新传播到所有活跃的地址句柄。
package recipient
