package types

// TrustLevel 调用方对标识配对来源的可信度
type TrustLevel int

const (
	// TrustLow 低信任：同时提供 DurableID 时忽略别名，不允许覆盖已有映射
	TrustLow TrustLevel = iota
	// TrustHigh 高信任：无条件记录 DurableID ↔ 别名配对
	TrustHigh
)

// String 返回可读名称
func (t TrustLevel) String() string {
	switch t {
	case TrustLow:
		return "low"
	case TrustHigh:
		return "high"
	default:
		return "unknown"
	}
}
