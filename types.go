package svcaddr

import (
	"github.com/dep2p/go-svcaddr/internal/core/address"
	"github.com/dep2p/go-svcaddr/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════

type (
	// Address 自更新地址句柄
	Address = address.Address

	// Resolver 地址句柄工厂
	Resolver = address.Resolver

	// DurableID 持久标识（UUID）
	DurableID = types.DurableID

	// Alias 可重新分配的别名
	Alias = types.Alias

	// HashToken 稳定的哈希令牌
	HashToken = types.HashToken

	// TrustLevel 配对来源的可信度
	TrustLevel = types.TrustLevel

	// Recipient 联系人记录
	Recipient = types.Recipient

	// LocalIdentity 本地用户身份
	LocalIdentity = types.LocalIdentity

	// CacheStats 身份缓存统计
	CacheStats = types.CacheStats

	// EvtMappingChanged 映射变更事件
	EvtMappingChanged = types.EvtMappingChanged
)

const (
	// TrustLow 低信任，不改变已有配对
	TrustLow = types.TrustLow

	// TrustHigh 高信任，无条件记录配对
	TrustHigh = types.TrustHigh
)

// NewDurableID 生成随机 DurableID
func NewDurableID() DurableID {
	return types.NewDurableID()
}

// ParseDurableID 解析 UUID 字符串
func ParseDurableID(s string) (DurableID, error) {
	return types.ParseDurableID(s)
}
