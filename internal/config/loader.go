package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// envPattern 匹配 ${VAR} 与 ${VAR:-default}。
var envPattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)(?::-([^}]*))?\}`)

// Loader 负责定位、读取并解码配置文件。
type Loader struct {
	// home 为空时取 $HOME，测试中可替换
	home string
}

// NewLoader 创建配置加载器。
func NewLoader() *Loader {
	return &Loader{home: os.Getenv("HOME")}
}

// Load 从指定路径或默认位置读取配置；都不存在时返回默认配置。
// 按后缀选择解码器：.toml 使用 TOML，其余按 YAML 解析。
func (l *Loader) Load(configPath string) (*Config, string, error) {
	cfg := DefaultConfig()

	filePath := l.resolveConfigPath(configPath)
	if filePath == "" {
		return cfg, "", nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, filePath, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))
	if strings.EqualFold(filepath.Ext(filePath), ".toml") {
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return nil, filePath, fmt.Errorf("parsing config file: %w", err)
		}
	} else if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, filePath, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, filePath, fmt.Errorf("invalid config %s: %w", filePath, err)
	}
	return cfg, filePath, nil
}

// DefaultPaths 返回按优先级排列的默认配置位置。
func (l *Loader) DefaultPaths() []string {
	paths := []string{
		"gohowmany.yaml",
		"gohowmany.toml",
		filepath.Join(".gohowmany", "config.yaml"),
	}
	if l.home != "" {
		paths = append(paths, filepath.Join(l.home, ".gohowmany", "config.yaml"))
	}
	return paths
}

func (l *Loader) resolveConfigPath(configPath string) string {
	if configPath != "" {
		return configPath
	}
	for _, path := range l.DefaultPaths() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// expandEnvVars 展开环境变量引用，未设置且无默认值时替换为空串。
func expandEnvVars(input string) string {
	return envPattern.ReplaceAllStringFunc(input, func(match string) string {
		submatches := envPattern.FindStringSubmatch(match)
		if value, ok := os.LookupEnv(submatches[1]); ok {
			return value
		}
		return submatches[2]
	})
}
