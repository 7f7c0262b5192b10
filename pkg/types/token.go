package types

import (
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/spaolacci/murmur3"
)

// HashToken 逻辑身份的哈希令牌
//
// 令牌由 128 位随机数生成，在进程生命周期内对同一身份保持不变。
// HashToken 可比较，地址句柄用它作为 map 键的替代物：
//
//	seen := map[types.HashToken]*address.Address{}
//	seen[addr.Key()] = addr
type HashToken [16]byte

// EmptyHashToken 空令牌
var EmptyHashToken HashToken

// NewHashToken 生成新的随机令牌
func NewHashToken() HashToken {
	return HashToken(uuid.New())
}

// IsEmpty 是否为空
func (t HashToken) IsEmpty() bool {
	return t == EmptyHashToken
}

// Sum64 将令牌折叠为 64 位整数哈希
func (t HashToken) Sum64() uint64 {
	return murmur3.Sum64(t[:])
}

// String 返回十六进制表示
func (t HashToken) String() string {
	return hex.EncodeToString(t[:])
}
