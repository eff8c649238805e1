package quality

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gohowmany/internal/model"
)

func fn(name string, lines, cyclomatic, cognitive, params, nesting int) model.FunctionInfo {
	return model.FunctionInfo{
		Name:                 name,
		LineCount:            lines,
		CyclomaticComplexity: cyclomatic,
		CognitiveComplexity:  cognitive,
		ParameterCount:       params,
		NestingDepth:         nesting,
		StartLine:            1,
		EndLine:              lines,
		ReturnPathCount:      1,
	}
}

// TestEmptyInputBaseline 验证没有函数、没有行时得到基线分数且不会除零。
func TestEmptyInputBaseline(t *testing.T) {
	metrics := New().QualityMetrics(nil, model.FileStats{}, nil)

	assert.InDelta(t, 50.0, metrics.MaintainabilityIndex, 1e-9)
	assert.Zero(t, metrics.DocumentationCoverage)
	assert.Zero(t, metrics.AvgComplexity)
	assert.InDelta(t, 65.0, metrics.FunctionSizeHealth, 1e-9)
	assert.InDelta(t, 80.0, metrics.NestingDepthHealth, 1e-9)
	assert.InDelta(t, 57.75, metrics.CodeHealthScore, 1e-9)
	assert.InDelta(t, 4.0, metrics.CodeDuplicationRatio, 1e-9)
	assert.Zero(t, metrics.TechnicalDebtRatio)
}

// TestHealthyFileMetrics 验证简单函数 + 20% 文档率时的各项得分。
func TestHealthyFileMetrics(t *testing.T) {
	stats := model.FileStats{TotalLines: 140, CodeLines: 100, CommentLines: 10, DocLines: 10, BlankLines: 20}
	metrics := New().QualityMetrics([]model.FunctionInfo{fn("small", 10, 3, 4, 2, 1)}, stats, nil)

	assert.InDelta(t, 100.0, metrics.MaintainabilityIndex, 1e-9)
	assert.InDelta(t, 100.0, metrics.DocumentationCoverage, 1e-9)
	assert.InDelta(t, 3.0, metrics.AvgComplexity, 1e-9)
	assert.InDelta(t, 100.0, metrics.FunctionSizeHealth, 1e-9)
	assert.InDelta(t, 100.0, metrics.NestingDepthHealth, 1e-9)
	assert.InDelta(t, 92.5, metrics.CodeHealthScore, 1e-9)
	assert.InDelta(t, 2.0, metrics.CodeDuplicationRatio, 1e-9)
	assert.Zero(t, metrics.TechnicalDebtRatio)
}

// TestTechnicalDebtAndOutliers 验证复杂、过长、深嵌套函数的罚分累加与归一化。
func TestTechnicalDebtAndOutliers(t *testing.T) {
	functions := []model.FunctionInfo{
		fn("tangled", 120, 25, 30, 7, 7),
		fn("long", 60, 7, 8, 1, 2),
	}
	stats := model.FileStats{TotalLines: 1200, CodeLines: 1000, BlankLines: 200}
	metrics := New().QualityMetrics(functions, stats, nil)

	assert.InDelta(t, 90.0, metrics.TechnicalDebtRatio, 1e-9)
	assert.InDelta(t, 0.0, metrics.FunctionSizeHealth, 1e-9)
	assert.InDelta(t, 67.5, metrics.NestingDepthHealth, 1e-9)
	assert.InDelta(t, 23.5, metrics.MaintainabilityIndex, 1e-9)
	assert.InDelta(t, 16.0, metrics.AvgComplexity, 1e-9)
	// 1200 行：基线 8，密度 0.83 加 3，无注释加 2
	assert.InDelta(t, 13.0, metrics.CodeDuplicationRatio, 1e-9)
}

// TestMaintainabilityFallback 验证无函数时按文件形态估算。
func TestMaintainabilityFallback(t *testing.T) {
	cases := []struct {
		name  string
		stats model.FileStats
		want  float64
	}{
		{"well documented", model.FileStats{TotalLines: 200, CodeLines: 100, DocLines: 30}, 95},
		{"sparse comments", model.FileStats{TotalLines: 200, CodeLines: 100, CommentLines: 10}, 85},
		{"huge undocumented", model.FileStats{TotalLines: 5000, CodeLines: 4000}, 40},
		{"tiny config", model.FileStats{TotalLines: 5, CodeLines: 5}, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, maintainabilityIndex(nil, tc.stats), 1e-9)
		})
	}
}

// TestProjectDuplicationBuckets 验证项目级重复率按总行数分档。
func TestProjectDuplicationBuckets(t *testing.T) {
	calculator := New()
	for lines, want := range map[int64]float64{0: 5, 1000: 5, 1001: 10, 5001: 15, 10001: 20} {
		stats := model.NewCodeStats()
		stats.TotalLines = lines
		assert.InDelta(t, want, calculator.ProjectQualityMetrics(nil, stats, nil).CodeDuplicationRatio, 1e-9, "lines=%d", lines)
	}
}

// TestClassifyComplexity 验证分桶边界。
func TestClassifyComplexity(t *testing.T) {
	calculator := New()
	cases := map[int]model.ComplexityLevel{
		1: model.LevelVeryLow, 5: model.LevelVeryLow,
		6: model.LevelLow, 10: model.LevelLow,
		11: model.LevelMedium, 20: model.LevelMedium,
		21: model.LevelHigh, 50: model.LevelHigh,
		51: model.LevelVeryHigh, 400: model.LevelVeryHigh,
	}
	for complexity, want := range cases {
		assert.Equal(t, want, calculator.ClassifyComplexity(complexity), "complexity=%d", complexity)
	}
	assert.Equal(t, "Medium", calculator.ComplexityLabel(12.7))
	assert.Equal(t, "Very Low", calculator.ComplexityLabel(1.2))
}

// TestMaintainabilityConcerns 验证所有阈值检查及其顺序。
func TestMaintainabilityConcerns(t *testing.T) {
	calculator := New()

	bad := fn("bad", 51, 11, 16, 6, 5)
	bad.HasRecursion = true
	bad.ReturnPathCount = 6
	assert.Equal(t, []string{
		"Function is too long (>50 lines)",
		"High cyclomatic complexity",
		"High cognitive complexity",
		"Too many parameters",
		"Deep nesting detected",
		"Contains recursion",
		"Multiple return paths",
	}, calculator.MaintainabilityConcerns(bad))

	clean := calculator.MaintainabilityConcerns(fn("clean", 50, 10, 15, 5, 4))
	assert.NotNil(t, clean)
	assert.Empty(t, clean)
}

// TestFileComplexity 验证单文件汇总中的计数、分布与方法挂接统计。
func TestFileComplexity(t *testing.T) {
	functions := []model.FunctionInfo{
		fn("a", 4, 1, 1, 0, 0),
		fn("b", 12, 6, 8, 3, 2),
		fn("c", 30, 12, 20, 1, 4),
	}
	structures := []model.StructureInfo{
		{Name: "Widget", StructureType: model.StructureClass, Methods: functions[:2]},
		{Name: "Empty", StructureType: model.StructureClass},
		{Name: "app", StructureType: model.StructureNamespace},
		{Name: "Shape", StructureType: model.StructureInterface},
	}
	stats := model.FileStats{TotalLines: 60, CodeLines: 50, CommentLines: 5, BlankLines: 5}

	result := New().FileComplexity("src/widget.cs", stats, functions, structures)

	assert.Equal(t, 3, result.FunctionCount)
	assert.Equal(t, 2, result.ClassCount)
	assert.Equal(t, 1, result.InterfaceCount)
	assert.Equal(t, 1, result.ModuleCount)
	assert.Equal(t, 4, result.TotalStructures)
	assert.InDelta(t, 1.0, result.MethodsPerClass, 1e-9)
	assert.Equal(t, 30, result.MaxFunctionLength)
	assert.Equal(t, 4, result.MinFunctionLength)
	assert.Equal(t, 4, result.MaxNestingDepth)
	assert.Equal(t, 3, result.MaxParameters)
	assert.InDelta(t, 19.0/3, result.CyclomaticComplexity, 1e-9)
	assert.Equal(t, model.ComplexityDistribution{VeryLow: 1, Low: 1, Medium: 1}, result.ComplexityDistribution)
	assert.Equal(t, result.FunctionCount, result.ComplexityDistribution.Total())

	require.Len(t, result.FunctionDetails, 3)
	assert.Equal(t, "src/widget.cs", result.FunctionDetails[2].FilePath)
	assert.Equal(t, model.LevelMedium, result.FunctionDetails[2].ComplexityLevel)
	assert.Contains(t, result.FunctionDetails[2].MaintainabilityConcerns, "High cyclomatic complexity")
	assert.NotNil(t, result.ComplexityByExtension)
}

// TestFileComplexityWithoutFunctions 验证空文件的复杂度汇总保持零值与满分可维护性。
func TestFileComplexityWithoutFunctions(t *testing.T) {
	result := New().FileComplexity("notes.xyz", model.FileStats{}, nil, nil)

	assert.Zero(t, result.FunctionCount)
	assert.Zero(t, result.MinFunctionLength)
	assert.Zero(t, result.CyclomaticComplexity)
	assert.InDelta(t, 100.0, result.MaintainabilityIndex, 1e-9)
	assert.NotNil(t, result.FunctionDetails)
	assert.Empty(t, result.FunctionDetails)
}

// TestProjectComplexityByExtension 验证按后缀的加权平均与项目级合并。
func TestProjectComplexityByExtension(t *testing.T) {
	files := []FileAnalysis{
		{
			Path:      "a.go",
			Extension: "go",
			Functions: []model.FunctionInfo{fn("f1", 5, 2, 2, 0, 1), fn("f2", 5, 4, 4, 0, 2)},
			Structures: []model.StructureInfo{
				{Name: "Store", StructureType: model.StructureStruct},
			},
		},
		{Path: "b.go", Extension: "go", Functions: []model.FunctionInfo{fn("g", 10, 9, 9, 1, 3)}},
		{Path: "c.py"},
	}
	stats := model.NewCodeStats()
	stats.AddFile("go", model.FileStats{TotalLines: 900, CodeLines: 800, CommentLines: 100})
	stats.AddFile("go", model.FileStats{TotalLines: 500, CodeLines: 400})
	stats.AddFile("py", model.FileStats{TotalLines: 100, CodeLines: 90})

	result := New().ProjectComplexity(stats, files)

	assert.Equal(t, 3, result.FunctionCount)
	assert.Equal(t, 1, result.StructCount)
	assert.InDelta(t, 5.0, result.CyclomaticComplexity, 1e-9)
	assert.Equal(t, result.FunctionCount, result.ComplexityDistribution.Total())
	assert.Empty(t, result.FunctionDetails)

	goStats := result.ComplexityByExtension["go"]
	assert.Equal(t, 2, goStats.FileCount)
	assert.Equal(t, 3, goStats.FunctionCount)
	assert.Equal(t, 1, goStats.StructCount)
	assert.InDelta(t, 5.0, goStats.CyclomaticComplexity, 1e-9)
	assert.InDelta(t, 20.0/3, goStats.AverageFunctionLength, 1e-9)
	assert.InDelta(t, 2.0, goStats.AverageNestingDepth, 1e-9)
	assert.Equal(t, 3, goStats.MaxNestingDepth)
	assert.InDelta(t, 281.0/3, goStats.MaintainabilityIndex, 1e-9)
	assert.InDelta(t, 50.0, goStats.QualityScore, 1e-9)

	pyStats := result.ComplexityByExtension["py"]
	assert.Equal(t, 1, pyStats.FileCount)
	assert.Zero(t, pyStats.FunctionCount)

	// 1500 行落在 1000-5000 档
	assert.InDelta(t, 10.0, result.Quality.CodeDuplicationRatio, 1e-9)
}

// TestProjectMaintainabilityUsesAverages 验证项目可维护性用平均值代入，且无函数时为 100。
func TestProjectMaintainabilityUsesAverages(t *testing.T) {
	calculator := New()
	empty := calculator.ProjectComplexity(model.NewCodeStats(), nil)
	assert.InDelta(t, 100.0, empty.MaintainabilityIndex, 1e-9)

	files := []FileAnalysis{{Path: "x.rs", Functions: []model.FunctionInfo{fn("a", 10, 2, 2, 2, 0), fn("b", 30, 6, 6, 0, 0)}}}
	result := calculator.ProjectComplexity(model.NewCodeStats(), files)
	// 平均长度 20、圈复杂度 4、认知复杂度 4、参数 1：30 + 22 + 22 + 17
	assert.InDelta(t, 91.0, result.MaintainabilityIndex, 1e-9)
	assert.Contains(t, result.ComplexityByExtension, "rs")
}

// TestScoresAlwaysBounded 用随机输入验证所有评分落在 [0,100] 且分布守恒。
func TestScoresAlwaysBounded(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	calculator := New()

	for i := 0; i < 500; i++ {
		stats := model.FileStats{
			CodeLines:    random.Int63n(20000),
			CommentLines: random.Int63n(5000),
			DocLines:     random.Int63n(5000),
			BlankLines:   random.Int63n(3000),
		}
		stats.TotalLines = stats.CodeLines + stats.CommentLines + stats.DocLines + stats.BlankLines

		functions := make([]model.FunctionInfo, random.Intn(30))
		for j := range functions {
			functions[j] = fn("f", 1+random.Intn(400), 1+random.Intn(80), 1+random.Intn(120), random.Intn(12), random.Intn(15))
		}

		metrics := calculator.QualityMetrics(functions, stats, nil)
		for name, value := range map[string]float64{
			"health":          metrics.CodeHealthScore,
			"maintainability": metrics.MaintainabilityIndex,
			"documentation":   metrics.DocumentationCoverage,
			"size":            metrics.FunctionSizeHealth,
			"nesting":         metrics.NestingDepthHealth,
			"duplication":     metrics.CodeDuplicationRatio,
			"debt":            metrics.TechnicalDebtRatio,
		} {
			assert.GreaterOrEqual(t, value, 0.0, name)
			assert.LessOrEqual(t, value, 100.0, name)
		}
		assert.GreaterOrEqual(t, metrics.AvgComplexity, 0.0)

		summary := calculator.FileComplexity("f.go", stats, functions, nil)
		assert.Equal(t, len(functions), summary.ComplexityDistribution.Total())
	}
}

// TestRatios 验证占比保留两位小数且空文件全为零。
func TestRatios(t *testing.T) {
	ratios := Ratios(model.FileStats{TotalLines: 100, CodeLines: 60, CommentLines: 10, DocLines: 10, BlankLines: 20})
	assert.Equal(t, model.Ratios{
		CodeRatio:          0.6,
		CommentRatio:       0.1,
		DocRatio:           0.1,
		BlankRatio:         0.2,
		CommentToCode:      0.17,
		DocToCode:          0.17,
		DocumentationRatio: 0.2,
	}, ratios)

	assert.Equal(t, model.Ratios{}, Ratios(model.FileStats{}))
}

// TestEstimateTime 验证默认行耗时、格式化与生产率换算。
func TestEstimateTime(t *testing.T) {
	stats := model.NewCodeStats()
	stats.TotalLines = 1000
	stats.TotalCodeLines = 600
	stats.TotalDocLines = 100
	stats.TotalCommentLines = 50

	estimate := EstimateTime(stats, DefaultRates())
	assert.InDelta(t, 120.0, estimate.CodeMinutes, 1e-9)
	assert.InDelta(t, 50.0, estimate.DocMinutes, 1e-9)
	assert.InDelta(t, 5.0, estimate.CommentMinutes, 1e-9)
	assert.InDelta(t, 175.0, estimate.TotalMinutes, 1e-9)
	assert.Equal(t, "2h 55m", estimate.TotalHuman)
	assert.InDelta(t, 342.857, estimate.LinesPerHour, 1e-9)
	assert.InDelta(t, 0.365, estimate.DevelopmentDays, 1e-9)

	empty := EstimateTime(model.NewCodeStats(), DefaultRates())
	assert.Zero(t, empty.LinesPerHour)
	assert.Equal(t, "0m", empty.TotalHuman)
}

func TestFormatMinutes(t *testing.T) {
	cases := map[int64]string{
		0:    "0m",
		45:   "45m",
		61:   "1h 1m",
		1440: "1d 0h",
		1505: "1d 1h 5m",
	}
	for minutes, want := range cases {
		assert.Equal(t, want, FormatMinutes(minutes))
	}
}
