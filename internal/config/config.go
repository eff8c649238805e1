// Package config 定义 gohowmany 的配置结构、默认值与校验规则。
package config

import (
	"errors"
	"fmt"
	"strings"

	"gohowmany/internal/quality"
)

// Config 是完整配置。YAML 与 TOML 使用相同的字段名。
type Config struct {
	Scan       ScanConfig       `yaml:"scan" toml:"scan"`
	Cache      CacheConfig      `yaml:"cache" toml:"cache"`
	Complexity ComplexityConfig `yaml:"complexity" toml:"complexity"`
	Output     OutputConfig     `yaml:"output" toml:"output"`
	Logging    LoggingConfig    `yaml:"logging" toml:"logging"`
}

// ScanConfig 控制遍历与并发。
type ScanConfig struct {
	Workers        int      `yaml:"workers" toml:"workers"`
	Exclude        []string `yaml:"exclude" toml:"exclude"`
	DefaultIgnores bool     `yaml:"default_ignores" toml:"default_ignores"`
	Gitignore      bool     `yaml:"gitignore" toml:"gitignore"`
	SkipHidden     bool     `yaml:"skip_hidden" toml:"skip_hidden"`
	SkipGenerated  bool     `yaml:"skip_generated" toml:"skip_generated"`
	MaxDepth       int      `yaml:"max_depth" toml:"max_depth"`
	LinesOnly      bool     `yaml:"lines_only" toml:"lines_only"`
}

// CacheConfig 控制行统计缓存。Path 为空时使用用户缓存目录。
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path" toml:"path"`
}

// ComplexityConfig 控制结构分析与估算参数。
type ComplexityConfig struct {
	AttachMode  string        `yaml:"attach_mode" toml:"attach_mode"`
	DetailLimit int           `yaml:"detail_limit" toml:"detail_limit"`
	Rates       quality.Rates `yaml:"rates" toml:"rates"`
}

// OutputConfig 控制输出格式与导出。
type OutputConfig struct {
	Format      string `yaml:"format" toml:"format"`
	File        string `yaml:"file" toml:"file"`
	MetricsFile string `yaml:"metrics_file" toml:"metrics_file"`
}

// LoggingConfig 控制 slog 日志。
type LoggingConfig struct {
	Level            string `yaml:"level" toml:"level"`
	Format           string `yaml:"format" toml:"format"`
	File             string `yaml:"file" toml:"file"`
	IncludeTimestamp bool   `yaml:"include_timestamp" toml:"include_timestamp"`
}

// 支持的枚举值。
var (
	AttachModes   = []string{"recent", "enclosing"}
	OutputFormats = []string{"table", "json", "yaml"}
	LogLevels     = []string{"debug", "info", "warn", "error"}
	LogFormats    = []string{"text", "json"}
)

// DefaultConfig 返回默认配置。
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Workers:        0,
			DefaultIgnores: true,
			Gitignore:      true,
			SkipHidden:     true,
			SkipGenerated:  true,
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Complexity: ComplexityConfig{
			AttachMode:  "recent",
			DetailLimit: 10,
			Rates:       quality.DefaultRates(),
		},
		Output: OutputConfig{
			Format: "table",
		},
		Logging: LoggingConfig{
			Level:            "warn",
			Format:           "text",
			IncludeTimestamp: true,
		},
	}
}

// Validate 检查数值范围与枚举值，一次返回全部问题。
func (c *Config) Validate() error {
	var errs []error
	if c.Scan.Workers < 0 {
		errs = append(errs, fmt.Errorf("scan.workers must be >= 0, got %d", c.Scan.Workers))
	}
	if c.Scan.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("scan.max_depth must be >= 0, got %d", c.Scan.MaxDepth))
	}
	if c.Complexity.DetailLimit < 0 {
		errs = append(errs, fmt.Errorf("complexity.detail_limit must be >= 0, got %d", c.Complexity.DetailLimit))
	}
	rates := c.Complexity.Rates
	if rates.CodeLine < 0 || rates.DocLine < 0 || rates.CommentLine < 0 {
		errs = append(errs, errors.New("complexity.rates must not be negative"))
	}
	errs = appendChoice(errs, "complexity.attach_mode", c.Complexity.AttachMode, AttachModes)
	errs = appendChoice(errs, "output.format", c.Output.Format, OutputFormats)
	errs = appendChoice(errs, "logging.level", c.Logging.Level, LogLevels)
	errs = appendChoice(errs, "logging.format", c.Logging.Format, LogFormats)
	return errors.Join(errs...)
}

func appendChoice(errs []error, field string, value string, choices []string) []error {
	for _, choice := range choices {
		if strings.EqualFold(value, choice) {
			return errs
		}
	}
	return append(errs, fmt.Errorf("%s must be one of %s, got %q", field, strings.Join(choices, "|"), value))
}
