package svcaddr

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-svcaddr/config"
	"github.com/dep2p/go-svcaddr/pkg/types"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 配置来源（二选一）
	config     *config.Config
	configFile string

	// 覆盖项
	local    *types.LocalIdentity
	inMemory bool
	dataDir  string
	metrics  *bool

	startTimeout time.Duration

	// 用户自定义 Fx 选项
	fxOptions []fx.Option
}

const defaultStartTimeout = 15 * time.Second

func newOptions() *options {
	return &options{startTimeout: defaultStartTimeout}
}

// resolveConfig 按来源加载配置并应用覆盖项
func (o *options) resolveConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case o.config != nil:
		cp := *o.config
		cfg = &cp
	default:
		cfg, err = config.Load(o.configFile)
		if err != nil {
			return nil, err
		}
	}

	if o.local != nil {
		cfg.Identity = cfg.Identity.WithLocal(o.local.ID, o.local.Alias)
	}
	if o.dataDir != "" {
		cfg.Storage.DataDir = o.dataDir
	}
	if o.inMemory {
		cfg.Storage.InMemory = true
	}
	if o.metrics != nil {
		cfg.Metrics.Enable = *o.metrics
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// WithConfig 使用给定配置（会被复制，不读取文件与环境变量）
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("config is nil")
		}
		o.config = cfg
		return nil
	}
}

// WithConfigFile 从 JSON/YAML 文件加载配置，再应用 SVCADDR_* 环境变量
func WithConfigFile(path string) Option {
	return func(o *options) error {
		o.configFile = path
		return nil
	}
}

// WithLocalIdentity 设置本地用户身份
func WithLocalIdentity(id DurableID, alias Alias) Option {
	return func(o *options) error {
		if !alias.IsEmpty() {
			if err := alias.Validate(); err != nil {
				return fmt.Errorf("local alias: %w", err)
			}
		}
		o.local = &types.LocalIdentity{ID: id, Alias: alias}
		return nil
	}
}

// WithInMemoryStorage 使用内存存储（进程退出后记录丢失）
func WithInMemoryStorage() Option {
	return func(o *options) error {
		o.inMemory = true
		return nil
	}
}

// WithDataDir 设置数据目录
func WithDataDir(dir string) Option {
	return func(o *options) error {
		if dir == "" {
			return errors.New("data dir is empty")
		}
		o.dataDir = dir
		return nil
	}
}

// WithMetrics 开关 Prometheus 指标采集
func WithMetrics(enable bool) Option {
	return func(o *options) error {
		o.metrics = &enable
		return nil
	}
}

// WithStartTimeout 设置启动超时（包括缓存预热）
func WithStartTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("invalid start timeout %s", d)
		}
		o.startTimeout = d
		return nil
	}
}

// WithFxOptions 追加自定义 Fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.fxOptions = append(o.fxOptions, opts...)
		return nil
	}
}
