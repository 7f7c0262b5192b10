package config

import (
	"fmt"

	"github.com/dep2p/go-svcaddr/pkg/types"
)

// IdentityConfig 本地用户身份
//
// 预热身份缓存时以高信任度首先写入。两个字段都可以为空。
type IdentityConfig struct {
	// LocalUUID 本地 DurableID（UUID 字符串）
	LocalUUID string `json:"local_uuid" yaml:"local_uuid" env:"LOCAL_UUID"`

	// LocalAlias 本地别名（如电话号码）
	LocalAlias string `json:"local_alias" yaml:"local_alias" env:"LOCAL_ALIAS"`
}

// DefaultIdentityConfig 返回默认身份配置（未知身份）
func DefaultIdentityConfig() IdentityConfig {
	return IdentityConfig{}
}

// Validate 验证身份配置
func (c IdentityConfig) Validate() error {
	_, err := c.Local()
	return err
}

// Local 解析为 types.LocalIdentity
func (c IdentityConfig) Local() (types.LocalIdentity, error) {
	var local types.LocalIdentity

	if c.LocalUUID != "" {
		id, err := types.ParseDurableID(c.LocalUUID)
		if err != nil {
			return local, fmt.Errorf("identity: local_uuid: %w", err)
		}
		local.ID = id
	}

	if c.LocalAlias != "" {
		alias := types.Alias(c.LocalAlias)
		if err := alias.Validate(); err != nil {
			return local, fmt.Errorf("identity: local_alias: %w", err)
		}
		local.Alias = alias
	}

	return local, nil
}

// WithLocal 设置本地身份
func (c IdentityConfig) WithLocal(id types.DurableID, alias types.Alias) IdentityConfig {
	c.LocalUUID = ""
	if !id.IsEmpty() {
		c.LocalUUID = id.String()
	}
	c.LocalAlias = alias.String()
	return c
}
