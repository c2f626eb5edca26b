// Configuration options for rxlite
// 配置选项：日志与契约违规处理
package rxlite

import (
	"log/slog"
)

// ============================================================================
// 配置选项
// ============================================================================

// Option 配置选项接口
type Option interface {
	Apply(config *Config)
}

// Config 配置结构。派生操作符继承上游的配置
type Config struct {
	// Logger 记录订阅生命周期（Debug级别）与契约违规（Error级别）
	Logger *slog.Logger

	// OnContractViolation 处理契约违规；默认panic
	OnContractViolation func(err *ContractViolationError)
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Logger:              slog.Default(),
		OnContractViolation: panicOnViolation,
	}
}

func newConfig(options []Option) *Config {
	config := DefaultConfig()
	for _, opt := range options {
		if opt != nil {
			opt.Apply(config)
		}
	}
	return config
}

// reportViolation 记录并交给处理器
func (c *Config) reportViolation(err *ContractViolationError) {
	c.Logger.Error("contract violation", "op", err.Op, "reason", err.Reason)
	if c.OnContractViolation != nil {
		c.OnContractViolation(err)
	}
}

func panicOnViolation(err *ContractViolationError) {
	panic(err)
}

// ============================================================================
// 选项实现
// ============================================================================

// WithLogger 使用指定的日志记录器
func WithLogger(logger *slog.Logger) Option {
	return &loggerOption{logger: logger}
}

// loggerOption 日志选项
type loggerOption struct {
	logger *slog.Logger
}

// Apply 应用日志选项
func (o *loggerOption) Apply(config *Config) {
	if o.logger != nil {
		config.Logger = o.logger
	}
}

// WithContractViolationHandler 使用指定的契约违规处理器，测试中可用来代替panic
func WithContractViolationHandler(handler func(err *ContractViolationError)) Option {
	return &violationOption{handler: handler}
}

// violationOption 契约违规选项
type violationOption struct {
	handler func(err *ContractViolationError)
}

// Apply 应用契约违规选项
func (o *violationOption) Apply(config *Config) {
	config.OnContractViolation = o.handler
}
