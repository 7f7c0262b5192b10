package addrcache

import (
	"sync/atomic"
	"time"

	"github.com/dep2p/go-svcaddr/pkg/types"
)

// counters 累计计数，不受缓存锁保护
type counters struct {
	minted        atomic.Uint64
	resolvesLow   atomic.Uint64
	resolvesHigh  atomic.Uint64
	reassignments atomic.Uint64
	broadcasts    atomic.Uint64
	callerErrors  atomic.Uint64
	warmed        atomic.Uint64
	warmedAt      atomic.Int64
}

// Stats 返回统计快照
//
// 映射规模在读锁下取得；计数器是各自独立的原子值，
// 与映射规模之间不保证同一时刻。
func (c *Cache) Stats() types.CacheStats {
	c.mu.RLock()
	s := types.CacheStats{
		DurableIDs: len(c.durableToToken),
		Aliases:    len(c.aliasToToken),
		Pairs:      len(c.aliasToDurable),
	}
	c.mu.RUnlock()

	s.TokensMinted = c.stats.minted.Load()
	s.ResolvesLow = c.stats.resolvesLow.Load()
	s.ResolvesHigh = c.stats.resolvesHigh.Load()
	s.Reassignments = c.stats.reassignments.Load()
	s.Broadcasts = c.stats.broadcasts.Load()
	s.CallerErrors = c.stats.callerErrors.Load()
	s.WarmedRecords = c.stats.warmed.Load()
	if ns := c.stats.warmedAt.Load(); ns != 0 {
		s.WarmedAt = time.Unix(0, ns)
	}
	return s
}

// ReportCallerError 记录一次调用方误用（供地址句柄层使用）
func (c *Cache) ReportCallerError() {
	c.stats.callerErrors.Add(1)
}
