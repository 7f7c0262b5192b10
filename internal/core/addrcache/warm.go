package addrcache

import (
	"context"
	"fmt"

	pkgif "github.com/dep2p/go-svcaddr/pkg/interfaces"
	"github.com/dep2p/go-svcaddr/pkg/types"
)

// Warm 用本地身份和已知联系人记录预填缓存
//
// 本地身份（任一标识非空时）先以高信任度写入，随后每条记录一次高信任度
// Resolve。同一标识的重复记录以后写为准。返回写入的记录数（含本地身份）。
func (c *Cache) Warm(records []types.Recipient, local types.LocalIdentity) int {
	n := 0
	if !local.IsEmpty() {
		c.Resolve(local.ID, local.Alias, types.TrustHigh)
		n++
	}

	for _, rec := range records {
		if rec.ID.IsEmpty() && rec.Alias.IsEmpty() {
			continue
		}
		c.Resolve(rec.ID, rec.Alias, types.TrustHigh)
		n++
	}

	c.stats.warmed.Add(uint64(n))
	c.stats.warmedAt.Store(c.clock.Now().UnixNano())
	logger.Debug("身份缓存预热完成", "records", n)
	return n
}

// WarmFromStore 从记录源预热
//
// 记录源不可用时仍写入本地身份，缓存保持可用并随后续 Resolve 自愈；
// 错误被记录并返回，调用方决定是否继续启动。
func (c *Cache) WarmFromStore(ctx context.Context, src pkgif.RecordSource, local types.LocalIdentity) (int, error) {
	if src == nil {
		return c.Warm(nil, local), nil
	}

	records, err := src.FetchAll(ctx)
	if err != nil {
		logger.Warn("读取联系人记录失败，缓存以空状态启动", "error", err)
		return c.Warm(nil, local), fmt.Errorf("warm identity cache: %w", err)
	}
	return c.Warm(records, local), nil
}
