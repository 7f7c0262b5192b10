package types

import "time"

// EvtMappingChanged DurableID ↔ 别名映射被重新分配
//
// 由身份缓存在 Reassign 完成后（锁已释放）发出。
// Displaced 为被夺走别名的旧 DurableID（没有则为空）。
type EvtMappingChanged struct {
	ID        DurableID
	Alias     Alias
	Previous  Alias
	Displaced DurableID
	Time      time.Time
}
