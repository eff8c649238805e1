// Package quality 把分析器输出的函数与结构体信息归约为复杂度汇总和健康度评分。
//
// 所有计算都是纯函数：输入为空时返回基线分数，不会出现除零或 panic。
package quality

import (
	"path/filepath"
	"strings"

	"gohowmany/internal/model"
)

// FileAnalysis 是单个文件交给项目级汇总的输入。
type FileAnalysis struct {
	Path       string
	Extension  string
	Stats      model.FileStats
	Functions  []model.FunctionInfo
	Structures []model.StructureInfo
}

// Calculator 无状态，可在多个 goroutine 间共享。
type Calculator struct{}

// New 创建聚合器。
func New() *Calculator {
	return &Calculator{}
}

// FileComplexity 计算单文件的复杂度汇总，并附带函数明细与质量指标。
func (c *Calculator) FileComplexity(path string, stats model.FileStats, functions []model.FunctionInfo, structures []model.StructureInfo) model.ComplexityStats {
	result := c.summarize(functions, structures)
	result.MaintainabilityIndex = averageFunctionScore(functions, 100)
	result.FunctionDetails = c.FunctionDetails(functions, path)
	result.ComplexityByExtension = map[string]model.ExtensionComplexity{}
	result.Quality = c.QualityMetrics(functions, stats, structures)
	return result
}

// ProjectComplexity 合并所有文件的函数与结构体，得到项目级汇总和按后缀的拆分。
// 项目级结果不含函数明细，需要时由调用方按需生成。
func (c *Calculator) ProjectComplexity(stats model.CodeStats, files []FileAnalysis) model.ComplexityStats {
	var functions []model.FunctionInfo
	var structures []model.StructureInfo
	byExtension := make(map[string]model.ExtensionComplexity)

	for _, file := range files {
		functions = append(functions, file.Functions...)
		structures = append(structures, file.Structures...)

		ext := file.Extension
		if ext == "" {
			ext = extensionOf(file.Path)
		}
		entry := byExtension[ext]
		mergeExtension(&entry, file)
		byExtension[ext] = entry
	}

	result := c.summarize(functions, structures)
	result.MaintainabilityIndex = projectMaintainability(result)
	result.ComplexityByExtension = byExtension
	result.FunctionDetails = []model.FunctionComplexityDetail{}
	result.Quality = c.ProjectQualityMetrics(functions, stats, structures)
	return result
}

// summarize 计算文件级与项目级共享的计数、均值与分布。
func (c *Calculator) summarize(functions []model.FunctionInfo, structures []model.StructureInfo) model.ComplexityStats {
	result := model.ComplexityStats{FunctionCount: len(functions)}

	var cyclomatic, cognitive, length, nesting, params int
	for i, fn := range functions {
		cyclomatic += fn.CyclomaticComplexity
		cognitive += fn.CognitiveComplexity
		length += fn.LineCount
		nesting += fn.NestingDepth
		params += fn.ParameterCount

		if i == 0 || fn.LineCount < result.MinFunctionLength {
			result.MinFunctionLength = fn.LineCount
		}
		result.MaxFunctionLength = max(result.MaxFunctionLength, fn.LineCount)
		result.MaxNestingDepth = max(result.MaxNestingDepth, fn.NestingDepth)
		result.MaxParameters = max(result.MaxParameters, fn.ParameterCount)
		addToDistribution(&result.ComplexityDistribution, fn.CyclomaticComplexity)
	}

	result.CyclomaticComplexity = average(cyclomatic, len(functions))
	result.CognitiveComplexity = average(cognitive, len(functions))
	result.AverageFunctionLength = average(length, len(functions))
	result.AverageNestingDepth = average(nesting, len(functions))
	result.AverageParameters = average(params, len(functions))

	result.StructureDistribution = structureDistribution(structures)
	dist := result.StructureDistribution
	result.ClassCount = dist.Classes
	result.InterfaceCount = dist.Interfaces
	result.TraitCount = dist.Traits
	result.EnumCount = dist.Enums
	result.StructCount = dist.Structs
	result.ModuleCount = dist.Modules
	result.TotalStructures = len(structures)
	result.MethodsPerClass = methodsPerClass(structures)
	return result
}

// FunctionDetails 为每个函数附加文件路径、复杂度等级和可维护性关注点。
func (c *Calculator) FunctionDetails(functions []model.FunctionInfo, path string) []model.FunctionComplexityDetail {
	details := make([]model.FunctionComplexityDetail, 0, len(functions))
	for _, fn := range functions {
		details = append(details, model.FunctionComplexityDetail{
			FunctionInfo:            fn,
			FilePath:                path,
			ComplexityLevel:         c.ClassifyComplexity(fn.CyclomaticComplexity),
			MaintainabilityConcerns: c.MaintainabilityConcerns(fn),
		})
	}
	return details
}

// ClassifyComplexity 按圈复杂度分桶：1-5 / 6-10 / 11-20 / 21-50 / 51+。
// 小于 1 的值不会由分析器产生，这里与原始分桶一致归入最高档。
func (c *Calculator) ClassifyComplexity(complexity int) model.ComplexityLevel {
	switch {
	case complexity >= 1 && complexity <= 5:
		return model.LevelVeryLow
	case complexity >= 6 && complexity <= 10:
		return model.LevelLow
	case complexity >= 11 && complexity <= 20:
		return model.LevelMedium
	case complexity >= 21 && complexity <= 50:
		return model.LevelHigh
	default:
		return model.LevelVeryHigh
	}
}

// ComplexityLabel 返回平均复杂度的可读标签，供表格输出使用。
func (c *Calculator) ComplexityLabel(complexity float64) string {
	switch c.ClassifyComplexity(int(complexity)) {
	case model.LevelVeryLow:
		return "Very Low"
	case model.LevelLow:
		return "Low"
	case model.LevelMedium:
		return "Medium"
	case model.LevelHigh:
		return "High"
	default:
		return "Very High"
	}
}

// MaintainabilityConcerns 列出函数触发的阈值检查。
func (c *Calculator) MaintainabilityConcerns(fn model.FunctionInfo) []string {
	concerns := []string{}
	if fn.LineCount > 50 {
		concerns = append(concerns, "Function is too long (>50 lines)")
	}
	if fn.CyclomaticComplexity > 10 {
		concerns = append(concerns, "High cyclomatic complexity")
	}
	if fn.CognitiveComplexity > 15 {
		concerns = append(concerns, "High cognitive complexity")
	}
	if fn.ParameterCount > 5 {
		concerns = append(concerns, "Too many parameters")
	}
	if fn.NestingDepth > 4 {
		concerns = append(concerns, "Deep nesting detected")
	}
	if fn.HasRecursion {
		concerns = append(concerns, "Contains recursion")
	}
	if fn.ReturnPathCount > 5 {
		concerns = append(concerns, "Multiple return paths")
	}
	return concerns
}

// mergeExtension 把一个文件的函数指标按函数数加权合入后缀汇总。
func mergeExtension(entry *model.ExtensionComplexity, file FileAnalysis) {
	entry.FileCount++

	dist := structureDistribution(file.Structures)
	entry.ClassCount += dist.Classes
	entry.InterfaceCount += dist.Interfaces
	entry.TraitCount += dist.Traits
	entry.EnumCount += dist.Enums
	entry.StructCount += dist.Structs
	entry.TotalStructures += len(file.Structures)

	classes, methods := 0, 0
	for _, st := range file.Structures {
		if st.StructureType == model.StructureClass {
			classes++
			methods += len(st.Methods)
		}
	}
	if entry.ClassCount > 0 {
		previous := entry.MethodsPerClass * float64(entry.ClassCount-classes)
		entry.MethodsPerClass = (previous + float64(methods)) / float64(entry.ClassCount)
	}

	count := len(file.Functions)
	if count == 0 {
		return
	}
	var cyclomatic, cognitive, length, nesting, params int
	for _, fn := range file.Functions {
		cyclomatic += fn.CyclomaticComplexity
		cognitive += fn.CognitiveComplexity
		length += fn.LineCount
		nesting += fn.NestingDepth
		params += fn.ParameterCount
		entry.MaxNestingDepth = max(entry.MaxNestingDepth, fn.NestingDepth)
	}

	before := entry.FunctionCount
	entry.FunctionCount += count
	weigh := func(current float64, total int) float64 {
		return (current*float64(before) + float64(total)) / float64(entry.FunctionCount)
	}
	entry.CyclomaticComplexity = weigh(entry.CyclomaticComplexity, cyclomatic)
	entry.CognitiveComplexity = weigh(entry.CognitiveComplexity, cognitive)
	entry.AverageFunctionLength = weigh(entry.AverageFunctionLength, length)
	entry.AverageNestingDepth = weigh(entry.AverageNestingDepth, nesting)
	entry.AverageParameters = weigh(entry.AverageParameters, params)
	entry.MaintainabilityIndex = weigh(entry.MaintainabilityIndex, 0) + averageFunctionScore(file.Functions, 0)*float64(count)/float64(entry.FunctionCount)
	entry.QualityScore = clamp(100 - entry.CyclomaticComplexity*10)
}

// projectMaintainability 用平均值代入单函数公式；没有函数时为满分。
func projectMaintainability(stats model.ComplexityStats) float64 {
	if stats.FunctionCount == 0 {
		return 100
	}
	return clamp(maintainabilityScore(stats.AverageFunctionLength, stats.CyclomaticComplexity, stats.CognitiveComplexity, stats.AverageParameters))
}

func addToDistribution(dist *model.ComplexityDistribution, complexity int) {
	switch {
	case complexity >= 1 && complexity <= 5:
		dist.VeryLow++
	case complexity >= 6 && complexity <= 10:
		dist.Low++
	case complexity >= 11 && complexity <= 20:
		dist.Medium++
	case complexity >= 21 && complexity <= 50:
		dist.High++
	default:
		dist.VeryHigh++
	}
}

// structureDistribution 统计各结构种类；命名空间计入模块。
func structureDistribution(structures []model.StructureInfo) model.StructureDistribution {
	var dist model.StructureDistribution
	for _, st := range structures {
		switch st.StructureType {
		case model.StructureClass:
			dist.Classes++
		case model.StructureInterface:
			dist.Interfaces++
		case model.StructureTrait:
			dist.Traits++
		case model.StructureEnum:
			dist.Enums++
		case model.StructureStruct:
			dist.Structs++
		case model.StructureModule, model.StructureNamespace:
			dist.Modules++
		}
	}
	return dist
}

func methodsPerClass(structures []model.StructureInfo) float64 {
	classes, methods := 0, 0
	for _, st := range structures {
		if st.StructureType == model.StructureClass {
			classes++
			methods += len(st.Methods)
		}
	}
	return average(methods, classes)
}

func extensionOf(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "unknown"
	}
	return ext
}

func average(total, count int) float64 {
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

func clamp(value float64) float64 {
	return min(max(value, 0), 100)
}
