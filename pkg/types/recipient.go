package types

import "time"

// Recipient 存储层中的联系人记录
//
// 只有 ID 是必需的；Alias 为空表示尚不知道别名。
type Recipient struct {
	ID        DurableID `json:"uuid"`
	Alias     Alias     `json:"alias,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocalIdentity 本地用户自身的身份
type LocalIdentity struct {
	ID    DurableID
	Alias Alias
}

// IsEmpty 两个标识都缺失
func (l LocalIdentity) IsEmpty() bool {
	return l.ID.IsEmpty() && l.Alias.IsEmpty()
}
