package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI 在进程内执行根命令，返回标准输出与标准错误。
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := newRootCmd("test")
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// writeProject 创建一个含 Go 源文件与 README 的最小项目，并返回项目目录与配置文件路径。
func writeProject(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	project := filepath.Join(dir, "project")
	require.NoError(t, os.MkdirAll(project, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(project, "main.go"), []byte(strings.Join([]string{
		"package main",
		"",
		"func pick(a int) int {",
		"\tif a > 1 {",
		"\t\treturn a",
		"\t}",
		"\treturn 1",
		"}",
	}, "\n")), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(project, "README.md"), []byte("# demo\n"), 0o644))

	configPath := filepath.Join(dir, "gohowmany.yaml")
	content := "cache:\n  path: " + filepath.Join(dir, "cache", "stats.cache") + "\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	return project, configPath
}

// TestScanCommandJSON 验证 scan 输出 JSON、导出文件并写入缓存与指标。
func TestScanCommandJSON(t *testing.T) {
	project, configPath := writeProject(t)
	output := filepath.Join(t.TempDir(), "out", "result.json")
	metricsFile := filepath.Join(t.TempDir(), "scan.prom")

	stdout, stderr, err := runCLI(t, "scan", project,
		"--config", configPath,
		"--format", "json",
		"--output", output,
		"--metrics-file", metricsFile,
	)
	require.NoError(t, err)
	assert.Contains(t, stderr, "result exported to")

	var decoded struct {
		RunID string `json:"run_id"`
		Total struct {
			TotalFiles int `json:"total_files"`
		} `json:"total"`
		Complexity struct {
			FunctionCount int `json:"function_count"`
		} `json:"complexity"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &decoded))
	assert.NotEmpty(t, decoded.RunID)
	assert.Equal(t, 2, decoded.Total.TotalFiles)
	assert.Equal(t, 1, decoded.Complexity.FunctionCount)

	assert.FileExists(t, output)
	assert.FileExists(t, filepath.Join(filepath.Dir(configPath), "cache", "stats.cache"))

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "gohowmany_files_scanned_total")
}

// TestScanCommandTable 验证默认 table 输出与 --lines-only。
func TestScanCommandTable(t *testing.T) {
	project, configPath := writeProject(t)

	stdout, _, err := runCLI(t, "scan", project, "--config", configPath, "--no-cache", "--lines-only")
	require.NoError(t, err)
	assert.Contains(t, stdout, "main.go")
	assert.Contains(t, stdout, "Markdown")
	assert.Contains(t, stdout, "code health")
	assert.NotContains(t, stdout, "HOTSPOTS")
}

func TestScanCommandRejectsBadFlags(t *testing.T) {
	project, configPath := writeProject(t)

	_, _, err := runCLI(t, "scan", project, "--config", configPath, "--format", "xml")
	assert.ErrorContains(t, err, "output.format")

	_, _, err = runCLI(t, "scan", project, "--config", configPath, "--attach", "sideways")
	assert.ErrorContains(t, err, "complexity.attach_mode")

	_, _, err = runCLI(t, "scan", project, "--config", configPath, "--exclude", "[bad")
	assert.ErrorContains(t, err, "invalid exclude pattern")

	_, _, err = runCLI(t, "scan", project, "--config", configPath, "--max-depth", "-1")
	assert.ErrorContains(t, err, "scan.max_depth")
}

// TestHotspotsCommand 验证 hotspots 输出函数明细。
func TestHotspotsCommand(t *testing.T) {
	project, configPath := writeProject(t)

	stdout, _, err := runCLI(t, "hotspots", project, "--config", configPath, "--no-cache", "--top", "5")
	require.NoError(t, err)
	assert.Contains(t, stdout, "FUNCTION")
	assert.Contains(t, stdout, "pick")
	assert.Contains(t, stdout, "main.go:3-8")

	_, _, err = runCLI(t, "hotspots", project, "--config", configPath, "--top", "0")
	assert.ErrorContains(t, err, "top must be greater than 0")
}

func TestLanguageAndVersionCommands(t *testing.T) {
	_, configPath := writeProject(t)

	stdout, _, err := runCLI(t, "language", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Go")
	assert.Contains(t, stdout, "Rust")
	assert.Contains(t, stdout, "(lines only)")
	assert.Contains(t, stdout, "md")

	stdout, _, err = runCLI(t, "version", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "gohowmany version test")
}

func TestMissingConfigFile(t *testing.T) {
	_, _, err := runCLI(t, "version", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config file")
}
