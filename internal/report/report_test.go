package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"gohowmany/internal/model"
)

// sampleResult 构造一个包含文件、语言、复杂度与错误的结果。
func sampleResult() model.ScanResult {
	stats := model.FileStats{TotalLines: 12, CodeLines: 8, CommentLines: 1, DocLines: 1, BlankLines: 2, FileSize: 120}
	total := model.NewCodeStats()
	total.AddFile("go", stats)

	detail := model.FunctionComplexityDetail{
		FunctionInfo: model.FunctionInfo{
			Name:                 "Handle",
			ParentClass:          "Server",
			LineCount:            8,
			CyclomaticComplexity: 12,
			CognitiveComplexity:  9,
			NestingDepth:         3,
			ParameterCount:       2,
			StartLine:            3,
			EndLine:              12,
		},
		FilePath:                "server.go",
		ComplexityLevel:         model.LevelMedium,
		MaintainabilityConcerns: []string{"High cyclomatic complexity (12)"},
	}

	return model.ScanResult{
		RunID:       "run-1",
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		ScannedPath: "/repo",
		Files: []model.FileResult{
			{
				Path:      "server.go",
				Language:  "Go",
				Extension: "go",
				Stats:     stats,
				Complexity: &model.ComplexityStats{
					FunctionCount:        1,
					CyclomaticComplexity: 12,
				},
			},
			{Path: "README.md", Language: "Markdown", Extension: "md", Stats: model.FileStats{TotalLines: 3}},
		},
		Languages: []model.LanguageSummary{
			{Language: "Go", Extensions: []string{"go"}, Files: 1, Stats: stats, Functions: 1, CyclomaticComplexity: 12},
		},
		Total: total,
		Complexity: model.ComplexityStats{
			FunctionCount:        1,
			CyclomaticComplexity: 12,
			FunctionDetails:      []model.FunctionComplexityDetail{detail},
			Quality:              model.QualityMetrics{CodeHealthScore: 71.25, AvgComplexity: 12},
		},
		Time:   model.TimeEstimate{TotalHuman: "2m"},
		Errors: []model.ScanError{{Path: "broken.go", Error: "permission denied"}},
	}
}

// TestPrintTable 验证表格包含文件、语言、质量与热点各段。
func TestPrintTable(t *testing.T) {
	var buffer bytes.Buffer
	require.NoError(t, PrintTable(&buffer, sampleResult()))

	output := buffer.String()
	assert.Contains(t, output, "SCANNED PATH")
	assert.Contains(t, output, "server.go")
	assert.Contains(t, output, "README.md")
	assert.Contains(t, output, "LANGUAGE")
	assert.Contains(t, output, "TOTAL")
	assert.Contains(t, output, "code health")
	assert.Contains(t, output, "71.2")
	assert.Contains(t, output, "(Medium)")
	assert.Contains(t, output, "HOTSPOTS")
	assert.Contains(t, output, "Server.Handle")
	assert.Contains(t, output, "server.go:3-12")
	assert.Contains(t, output, "High cyclomatic complexity (12)")
	assert.Contains(t, output, "broken.go")
	assert.NotContains(t, output, "cache hits")
}

func TestPrintHotspotsEmpty(t *testing.T) {
	var buffer bytes.Buffer
	require.NoError(t, PrintHotspots(&buffer, nil))
	assert.Equal(t, "no functions detected\n", buffer.String())
}

// TestPrintJSONRoundTrip 验证 JSON 输出可以被重新解析，且进程内字段不会泄露。
func TestPrintJSONRoundTrip(t *testing.T) {
	var buffer bytes.Buffer
	require.NoError(t, Render(&buffer, "JSON", sampleResult()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded["run_id"])

	files := decoded["files"].([]any)
	first := files[0].(map[string]any)
	assert.NotContains(t, first, "Functions")
	assert.Contains(t, first, "complexity")
	second := files[1].(map[string]any)
	assert.NotContains(t, second, "complexity")
}

// TestPrintYAMLInlinesFunctionInfo 验证 YAML 中函数明细平铺而不是嵌套。
func TestPrintYAMLInlinesFunctionInfo(t *testing.T) {
	var buffer bytes.Buffer
	require.NoError(t, Render(&buffer, "yml", sampleResult()))

	var decoded struct {
		Complexity struct {
			Details []map[string]any `yaml:"function_complexity_details"`
		} `yaml:"complexity"`
	}
	require.NoError(t, yaml.Unmarshal(buffer.Bytes(), &decoded))
	require.Len(t, decoded.Complexity.Details, 1)
	assert.Equal(t, "Handle", decoded.Complexity.Details[0]["name"])
	assert.Equal(t, "server.go", decoded.Complexity.Details[0]["file_path"])
}

func TestRenderUnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, "csv", sampleResult())
	assert.ErrorContains(t, err, "unsupported format")
}

// TestWriteFileCreatesDirectories 验证导出时自动创建目录。
func TestWriteFileCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "result.yaml")
	require.NoError(t, WriteFile(path, FormatForPath(path, FormatJSON), sampleResult()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "run_id: run-1")

	assert.Error(t, WriteFile(path, FormatTable, sampleResult()))
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatForPath("a/b.json", FormatYAML))
	assert.Equal(t, FormatYAML, FormatForPath("a/b.YML", FormatJSON))
	assert.Equal(t, FormatJSON, FormatForPath("a/b.out", FormatJSON))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestPrintStopsOnWriteError(t *testing.T) {
	assert.Error(t, PrintJSON(failingWriter{}, sampleResult()))
	assert.Error(t, PrintYAML(failingWriter{}, sampleResult()))
	assert.Error(t, PrintTable(failingWriter{}, sampleResult()))
}
