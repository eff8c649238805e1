package quality

import "gohowmany/internal/model"

// 健康度加权系数。
const (
	weightMaintainability = 0.30
	weightDocumentation   = 0.20
	weightComplexity      = 0.25
	weightFunctionSize    = 0.15
	weightNesting         = 0.10
)

// QualityMetrics 计算单文件的健康度指标。
func (c *Calculator) QualityMetrics(functions []model.FunctionInfo, stats model.FileStats, _ []model.StructureInfo) model.QualityMetrics {
	return c.metrics(functions, stats, fileDuplication(stats))
}

// ProjectQualityMetrics 用合并后的项目统计复用单文件公式，重复率按项目规模分档。
func (c *Calculator) ProjectQualityMetrics(functions []model.FunctionInfo, stats model.CodeStats, _ []model.StructureInfo) model.QualityMetrics {
	return c.metrics(functions, stats.AsFileStats(), projectDuplication(stats.TotalLines))
}

func (c *Calculator) metrics(functions []model.FunctionInfo, stats model.FileStats, duplication float64) model.QualityMetrics {
	maintainability := maintainabilityIndex(functions, stats)
	documentation := documentationCoverage(stats)
	avgComplexity := averageComplexity(functions)
	size := functionSizeHealth(functions, stats)
	nesting := nestingDepthHealth(functions, stats)

	health := maintainability*weightMaintainability +
		documentation*weightDocumentation +
		(100-min(avgComplexity*10, 100))*weightComplexity +
		size*weightFunctionSize +
		nesting*weightNesting

	return model.QualityMetrics{
		CodeHealthScore:       clamp(health),
		MaintainabilityIndex:  maintainability,
		DocumentationCoverage: documentation,
		AvgComplexity:         avgComplexity,
		FunctionSizeHealth:    size,
		NestingDepthHealth:    nesting,
		CodeDuplicationRatio:  duplication,
		TechnicalDebtRatio:    technicalDebt(functions, documentation),
	}
}

// maintainabilityScore 是单个函数的可维护性得分，满分 130 会在外层截断到 100。
func maintainabilityScore(length, cyclomatic, cognitive, params float64) float64 {
	return max(0, 50-length) +
		max(0, 30-cyclomatic*2) +
		max(0, 30-cognitive*2) +
		max(0, 20-params*3)
}

// averageFunctionScore 对所有函数的得分取平均；没有函数时返回 fallback。
func averageFunctionScore(functions []model.FunctionInfo, fallback float64) float64 {
	if len(functions) == 0 {
		return fallback
	}
	total := 0.0
	for _, fn := range functions {
		total += maintainabilityScore(float64(fn.LineCount), float64(fn.CyclomaticComplexity), float64(fn.CognitiveComplexity), float64(fn.ParameterCount))
	}
	return clamp(total / float64(len(functions)))
}

// maintainabilityIndex 在未识别出函数时按文件形态估算，基线 85。
func maintainabilityIndex(functions []model.FunctionInfo, stats model.FileStats) float64 {
	if len(functions) > 0 {
		return averageFunctionScore(functions, 0)
	}

	score := 85.0
	if stats.TotalLines > 1000 {
		score -= min(float64(stats.TotalLines-1000)/100, 30)
	}
	ratio := float64(stats.CommentLines+stats.DocLines) / float64(max(stats.CodeLines, 1))
	switch {
	case ratio > 0.2:
		score += 10
	case ratio < 0.05:
		score -= 15
	}
	// 代码极少的文件多半是配置
	if stats.CodeLines < 10 {
		score -= 20
	}
	return clamp(score)
}

// documentationCoverage 以 20% 注释率为满分。
func documentationCoverage(stats model.FileStats) float64 {
	if stats.CodeLines <= 0 {
		return 0
	}
	coverage := float64(stats.CommentLines+stats.DocLines) / float64(stats.CodeLines) * 100
	return clamp(coverage * 5)
}

func averageComplexity(functions []model.FunctionInfo) float64 {
	total := 0
	for _, fn := range functions {
		total += fn.CyclomaticComplexity
	}
	return average(total, len(functions))
}

func functionSizeHealth(functions []model.FunctionInfo, stats model.FileStats) float64 {
	if len(functions) == 0 {
		score := 75.0
		units := max(stats.CodeLines/20, 1)
		perUnit := float64(stats.CodeLines) / float64(units)
		switch {
		case perUnit > 50:
			score -= (perUnit - 50) * 0.5
		case perUnit < 5:
			score -= (5 - perUnit) * 2
		}
		if stats.TotalLines > 500 {
			score -= min(float64(stats.TotalLines-500)/100, 25)
		}
		return clamp(score)
	}

	score := 100.0
	total := 0
	for _, fn := range functions {
		total += fn.LineCount
		switch {
		case fn.LineCount > 100:
			score -= 10
		case fn.LineCount > 50:
			score -= 5
		}
	}
	if avg := average(total, len(functions)); avg > 20 {
		score -= (avg - 20) * 2
	}
	return clamp(score)
}

func nestingDepthHealth(functions []model.FunctionInfo, stats model.FileStats) float64 {
	if len(functions) == 0 {
		score := 80.0
		density := float64(stats.CodeLines) / float64(max(stats.TotalLines, 1))
		switch {
		case density > 0.8:
			score -= 20
		case density > 0.6:
			score -= 10
		}
		if stats.TotalLines > 1000 {
			score -= 15
		}
		return clamp(score)
	}

	score := 100.0
	total := 0
	for _, fn := range functions {
		total += fn.NestingDepth
		switch {
		case fn.NestingDepth > 8:
			score -= 15
		case fn.NestingDepth > 5:
			score -= 10
		}
	}
	if avg := average(total, len(functions)); avg > 3 {
		score -= (avg - 3) * 15
	}
	return clamp(score)
}

// fileDuplication 按文件规模和密度粗略估算重复率，不做真正的克隆检测。
func fileDuplication(stats model.FileStats) float64 {
	var score float64
	switch {
	case stats.TotalLines > 2000:
		score = 12
	case stats.TotalLines > 1000:
		score = 8
	case stats.TotalLines > 500:
		score = 5
	default:
		score = 2
	}

	if float64(stats.CodeLines)/float64(max(stats.TotalLines, 1)) > 0.8 {
		score += 3
	}
	ratio := float64(stats.CommentLines+stats.DocLines) / float64(max(stats.CodeLines, 1))
	switch {
	case ratio > 0.2:
		score -= 2
	case ratio < 0.05:
		score += 2
	}
	return min(max(score, 0), 25)
}

// projectDuplication 按项目总行数分档，返回值已是百分比。
func projectDuplication(totalLines int64) float64 {
	switch {
	case totalLines > 10000:
		return 20
	case totalLines > 5000:
		return 15
	case totalLines > 1000:
		return 10
	default:
		return 5
	}
}

// technicalDebt 累加复杂度、长度、文档和嵌套的罚分，再按每个函数 50 分归一化。
func technicalDebt(functions []model.FunctionInfo, documentation float64) float64 {
	if len(functions) == 0 {
		return 0
	}

	debt := 0.0
	for _, fn := range functions {
		switch {
		case fn.CyclomaticComplexity > 20:
			debt += 20
		case fn.CyclomaticComplexity > 10:
			debt += 10
		case fn.CyclomaticComplexity > 5:
			debt += 5
		}
		switch {
		case fn.LineCount > 100:
			debt += 15
		case fn.LineCount > 50:
			debt += 10
		}
		if fn.NestingDepth > 5 {
			debt += float64(fn.NestingDepth-5) * 5
		}
	}
	if documentation < 20 {
		debt += 30 - documentation
	}
	return clamp(debt / float64(len(functions)*50) * 100)
}
