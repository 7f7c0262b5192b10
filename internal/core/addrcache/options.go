package addrcache

import (
	"github.com/benbjohnson/clock"

	pkgif "github.com/dep2p/go-svcaddr/pkg/interfaces"
	"github.com/dep2p/go-svcaddr/pkg/types"
)

// Option 缓存构造选项
type Option func(*Cache)

// WithClock 设置时间源（测试中使用 clock.NewMock）
func WithClock(clk clock.Clock) Option {
	return func(c *Cache) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithEventBus 在映射变化时发出 types.EvtMappingChanged
func WithEventBus(bus pkgif.EventBus) Option {
	return func(c *Cache) {
		c.bus = bus
	}
}

// WithTokenSource 替换令牌铸造函数
//
// 函数必须在进程生命周期内不产生重复令牌。
func WithTokenSource(mint func() types.HashToken) Option {
	return func(c *Cache) {
		if mint != nil {
			c.mint = mint
		}
	}
}
