// Package address 实现自愈的联系人地址句柄
//
// Address 由 Resolver 构造，构造时从身份缓存取得不变的哈希令牌，
// 因此可以长期作为容器键；缺失的标识在读取时从缓存补全。
//
//	r := address.NewResolver(cache)
//	a := r.FromDurableID(id)     // 此时别名未知
//	cache.Reassign(id, "+15551234")
//	alias, _ := a.Alias()        // "+15551234"，同一个句柄
//
// # 变更关注
//
// 句柄一旦知道 DurableID 就登记到 Resolver 的关注表（DurableID → 弱引用
// 列表）。缓存广播某个 DurableID 变化时，Resolver 取出仍存活的句柄，在不
// 持有任何锁的情况下重新查询别名并写回句柄。句柄被回收后无需注销：失效
// 的弱引用在广播时惰性剔除，并按登记次数周期性清扫。
//
// # 锁顺序
//
// 句柄锁只保护句柄自己的字段，持有期间不调用缓存；关注表锁只在取出/剔除
// 引用时持有，不在持有期间触碰句柄。
package address
