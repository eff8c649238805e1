package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir string, name string, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestDefaultConfigIsValid 验证默认配置本身能通过校验。
func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "recent", cfg.Complexity.AttachMode)
	assert.Equal(t, "table", cfg.Output.Format)
	assert.True(t, cfg.Cache.Enabled)
	assert.InDelta(t, 0.2, cfg.Complexity.Rates.CodeLine, 1e-9)
}

// TestLoadYAMLWithEnvExpansion 验证 YAML 解析与 ${VAR} / ${VAR:-default} 展开。
func TestLoadYAMLWithEnvExpansion(t *testing.T) {
	t.Setenv("GOHOWMANY_TEST_WORKERS", "6")
	dir := t.TempDir()
	path := writeConfig(t, dir, "gohowmany.yaml", `
scan:
  workers: ${GOHOWMANY_TEST_WORKERS}
  exclude:
    - "**/vendor/**"
cache:
  enabled: false
  path: ${GOHOWMANY_TEST_UNSET:-/tmp/gohowmany-cache.zst}
complexity:
  attach_mode: enclosing
output:
  format: json
logging:
  level: debug
`)

	cfg, used, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 6, cfg.Scan.Workers)
	assert.Equal(t, []string{"**/vendor/**"}, cfg.Scan.Exclude)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "/tmp/gohowmany-cache.zst", cfg.Cache.Path)
	assert.Equal(t, "enclosing", cfg.Complexity.AttachMode)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// 未出现的字段保持默认值
	assert.True(t, cfg.Scan.DefaultIgnores)
	assert.Equal(t, 10, cfg.Complexity.DetailLimit)
}

// TestLoadTOML 验证 .toml 后缀走 TOML 解码。
func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "gohowmany.toml", `
[scan]
workers = 3
lines_only = true

[complexity]
detail_limit = 25

[complexity.rates]
code_line = 0.3
doc_line = 0.5
comment_line = 0.1

[output]
format = "yaml"
`)

	cfg, _, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Scan.Workers)
	assert.True(t, cfg.Scan.LinesOnly)
	assert.Equal(t, 25, cfg.Complexity.DetailLimit)
	assert.InDelta(t, 0.3, cfg.Complexity.Rates.CodeLine, 1e-9)
	assert.Equal(t, "yaml", cfg.Output.Format)
}

// TestLoadRejectsInvalidValues 验证校验错误会汇总返回。
func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "bad.yaml", `
scan:
  workers: -1
complexity:
  attach_mode: nearest
output:
  format: html
`)

	_, _, err := NewLoader().Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan.workers")
	assert.Contains(t, err.Error(), "complexity.attach_mode")
	assert.Contains(t, err.Error(), "output.format")
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "broken.toml", "[scan\nworkers = ")

	_, _, err := NewLoader().Load(path)
	assert.ErrorContains(t, err, "parsing config file")

	_, _, err = NewLoader().Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "reading config file")
}

// TestDefaultLocations 验证未指定路径时按默认位置查找，找不到则返回默认配置。
func TestDefaultLocations(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	loader := &Loader{home: filepath.Join(dir, "home")}
	cfg, used, err := loader.Load("")
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, DefaultConfig(), cfg)

	writeConfig(t, dir, filepath.Join("home", ".gohowmany", "config.yaml"), "output:\n  format: json\n")
	cfg, used, err = loader.Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "home", ".gohowmany", "config.yaml"), used)
	assert.Equal(t, "json", cfg.Output.Format)

	// 当前目录的配置优先于 home 目录
	writeConfig(t, dir, "gohowmany.yaml", "output:\n  format: yaml\n")
	cfg, used, err = loader.Load("")
	require.NoError(t, err)
	assert.Equal(t, "gohowmany.yaml", used)
	assert.Equal(t, "yaml", cfg.Output.Format)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("GOHOWMANY_SET", "value")
	assert.Equal(t, "a=value", expandEnvVars("a=${GOHOWMANY_SET}"))
	assert.Equal(t, "b=", expandEnvVars("b=${GOHOWMANY_NOT_SET_AT_ALL}"))
	assert.Equal(t, "c=fallback", expandEnvVars("c=${GOHOWMANY_NOT_SET_AT_ALL:-fallback}"))
	assert.Equal(t, "d=value", expandEnvVars("d=${GOHOWMANY_SET:-fallback}"))
	assert.Equal(t, "$HOME stays", expandEnvVars("$HOME stays"))
}
