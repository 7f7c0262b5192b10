package address

import (
	"encoding/json"
	"fmt"

	"github.com/dep2p/go-svcaddr/pkg/types"
)

// wireAddress 持久化格式
//
// 已知 UUID 时只写 UUID，别名在解码时从缓存取得。
type wireAddress struct {
	UUID  string `json:"uuid,omitempty"`
	Alias string `json:"alias,omitempty"`
}

// MarshalJSON 实现 json.Marshaler
func (a *Address) MarshalJSON() ([]byte, error) {
	var w wireAddress
	if id, ok := a.DurableID(); ok {
		w.UUID = id.String()
	} else if alias, ok := a.Alias(); ok {
		w.Alias = alias.String()
	}
	return json.Marshal(w)
}

// Decode 从 MarshalJSON 的输出重建句柄（低信任度）
//
// 带 UUID 时忽略编码里的别名，改用缓存中的当前别名。
func (r *Resolver) Decode(data []byte) (*Address, error) {
	var w wireAddress
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode address: %w", err)
	}

	if w.UUID != "" {
		id, err := types.ParseDurableID(w.UUID)
		if err != nil {
			return nil, fmt.Errorf("decode address: %w", err)
		}
		return r.New(id, "", types.TrustLow), nil
	}

	if w.Alias == "" {
		return nil, ErrNoIdentifier
	}
	return r.New(types.EmptyDurableID, types.Alias(w.Alias), types.TrustLow), nil
}
