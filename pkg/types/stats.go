package types

import "time"

// CacheStats 身份缓存统计快照
type CacheStats struct {
	// 映射规模
	DurableIDs int
	Aliases    int
	Pairs      int

	// 累计计数
	TokensMinted    uint64
	ResolvesLow     uint64
	ResolvesHigh    uint64
	Reassignments   uint64
	Broadcasts      uint64
	CallerErrors    uint64
	WarmedRecords   uint64
	WarmedAt        time.Time
	WatchedIDs      int
	ObserverRefresh uint64
}
