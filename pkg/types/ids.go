package types

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ============================================================================
//                              DurableID - 稳定标识
// ============================================================================

// DurableID 身份的稳定不透明标识（账户 UUID）
//
// 零值表示缺失。DurableID 可比较，可直接作为 map 键。
type DurableID uuid.UUID

// EmptyDurableID 空标识
var EmptyDurableID DurableID

// NewDurableID 生成随机 DurableID
func NewDurableID() DurableID {
	return DurableID(uuid.New())
}

// ParseDurableID 解析 UUID 字符串
//
// 空字符串返回 ErrEmptyDurableID，格式错误返回 ErrInvalidDurableID。
func ParseDurableID(s string) (DurableID, error) {
	if s == "" {
		return EmptyDurableID, ErrEmptyDurableID
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return EmptyDurableID, ErrInvalidDurableID
	}
	return DurableID(u), nil
}

// MustParseDurableID 解析失败时 panic，仅用于测试和常量
func MustParseDurableID(s string) DurableID {
	id, err := ParseDurableID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// IsEmpty 是否为空
func (id DurableID) IsEmpty() bool {
	return id == EmptyDurableID
}

// String 返回规范的 UUID 字符串，空标识返回 ""
func (id DurableID) String() string {
	if id.IsEmpty() {
		return ""
	}
	return uuid.UUID(id).String()
}

// ShortString 返回前 8 个字符，用于日志
func (id DurableID) ShortString() string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

// MarshalText 实现 encoding.TextMarshaler
func (id DurableID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler，空文本解析为空标识
func (id *DurableID) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*id = EmptyDurableID
		return nil
	}
	parsed, err := ParseDurableID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ============================================================================
//                              Alias - 别名
// ============================================================================

// Alias 可重新分配的次要标识（例如电话号码）
//
// 空字符串表示缺失。
type Alias string

// maxAliasLen 别名最大长度
const maxAliasLen = 64

// IsEmpty 是否为空
func (a Alias) IsEmpty() bool {
	return a == ""
}

// String 返回字符串形式
func (a Alias) String() string {
	return string(a)
}

// Validate 校验别名的语法
//
// 空别名返回 ErrEmptyAlias；包含空白或控制字符、或超长返回 ErrInvalidAlias。
// 不校验号码格式本身（E.164 等属于调用方策略）。
func (a Alias) Validate() error {
	if a.IsEmpty() {
		return ErrEmptyAlias
	}
	if len(a) > maxAliasLen {
		return ErrInvalidAlias
	}
	if strings.IndexFunc(string(a), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) >= 0 {
		return ErrInvalidAlias
	}
	return nil
}
