package metrics

import (
	"github.com/dep2p/go-svcaddr/pkg/types"
)

// StatsSource 提供身份缓存统计快照
//
// addrcache.Cache 只报告缓存本身；address.Resolver 额外报告兴趣注册表的规模。
type StatsSource interface {
	Stats() types.CacheStats
}
