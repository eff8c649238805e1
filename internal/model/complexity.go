package model

// StructureType 表示类型级声明的种类。
type StructureType string

const (
	StructureClass     StructureType = "class"
	StructureInterface StructureType = "interface"
	StructureStruct    StructureType = "struct"
	StructureEnum      StructureType = "enum"
	StructureTrait     StructureType = "trait"
	StructureModule    StructureType = "module"
	StructureNamespace StructureType = "namespace"
)

// Visibility 表示声明的可见性。
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityPrivate   Visibility = "private"
	VisibilityProtected Visibility = "protected"
	VisibilityInternal  Visibility = "internal"
	VisibilityUnknown   Visibility = "unknown"
)

// ComplexityLevel 是按圈复杂度分桶得到的等级。
type ComplexityLevel string

const (
	LevelVeryLow  ComplexityLevel = "very_low"
	LevelLow      ComplexityLevel = "low"
	LevelMedium   ComplexityLevel = "medium"
	LevelHigh     ComplexityLevel = "high"
	LevelVeryHigh ComplexityLevel = "very_high"
)

// FunctionInfo 描述一个被识别出的可调用单元。
//
// 生命周期：
// - 匹配到声明行时创建
// - 作用域未关闭前逐行累加指标
// - 作用域关闭时追加到输出序列
//
// ParentClass 只在结构体扫描之后的方法挂接阶段写入，函数扫描本身不会设置它。
type FunctionInfo struct {
	Name                 string     `json:"name" yaml:"name"`
	LineCount            int        `json:"line_count" yaml:"line_count"`
	CyclomaticComplexity int        `json:"cyclomatic_complexity" yaml:"cyclomatic_complexity"`
	CognitiveComplexity  int        `json:"cognitive_complexity" yaml:"cognitive_complexity"`
	NestingDepth         int        `json:"nesting_depth" yaml:"nesting_depth"`
	ParameterCount       int        `json:"parameter_count" yaml:"parameter_count"`
	ReturnPathCount      int        `json:"return_path_count" yaml:"return_path_count"`
	StartLine            int        `json:"start_line" yaml:"start_line"`
	EndLine              int        `json:"end_line" yaml:"end_line"`
	IsMethod             bool       `json:"is_method" yaml:"is_method"`
	ParentClass          string     `json:"parent_class,omitempty" yaml:"parent_class,omitempty"`
	LocalVariableCount   int        `json:"local_variable_count" yaml:"local_variable_count"`
	HasRecursion         bool       `json:"has_recursion" yaml:"has_recursion"`
	HasExceptionHandling bool       `json:"has_exception_handling" yaml:"has_exception_handling"`
	Visibility           Visibility `json:"visibility" yaml:"visibility"`
}

// StructureInfo 描述一个类型级声明。
type StructureInfo struct {
	Name             string         `json:"name" yaml:"name"`
	StructureType    StructureType  `json:"structure_type" yaml:"structure_type"`
	LineCount        int            `json:"line_count" yaml:"line_count"`
	StartLine        int            `json:"start_line" yaml:"start_line"`
	EndLine          int            `json:"end_line" yaml:"end_line"`
	Methods          []FunctionInfo `json:"methods" yaml:"methods"`
	Properties       int            `json:"properties" yaml:"properties"`
	Visibility       Visibility     `json:"visibility" yaml:"visibility"`
	InheritanceDepth int            `json:"inheritance_depth" yaml:"inheritance_depth"`
	InterfaceCount   int            `json:"interface_count" yaml:"interface_count"`
}

// Contains 判断某行是否落在结构体的行区间内。
func (s StructureInfo) Contains(line int) bool {
	return line >= s.StartLine && line <= s.EndLine
}

// QualityMetrics 是面向开发者的健康度指标。
// 除 AvgComplexity 外，所有字段都落在 [0,100]。
type QualityMetrics struct {
	CodeHealthScore       float64 `json:"code_health_score" yaml:"code_health_score"`
	MaintainabilityIndex  float64 `json:"maintainability_index" yaml:"maintainability_index"`
	DocumentationCoverage float64 `json:"documentation_coverage" yaml:"documentation_coverage"`
	AvgComplexity         float64 `json:"avg_complexity" yaml:"avg_complexity"`
	FunctionSizeHealth    float64 `json:"function_size_health" yaml:"function_size_health"`
	NestingDepthHealth    float64 `json:"nesting_depth_health" yaml:"nesting_depth_health"`
	CodeDuplicationRatio  float64 `json:"code_duplication_ratio" yaml:"code_duplication_ratio"`
	TechnicalDebtRatio    float64 `json:"technical_debt_ratio" yaml:"technical_debt_ratio"`
}

// FunctionComplexityDetail 是带文件路径、等级与关注点的函数明细。
type FunctionComplexityDetail struct {
	FunctionInfo            `yaml:",inline"`
	FilePath                string          `json:"file_path" yaml:"file_path"`
	ComplexityLevel         ComplexityLevel `json:"complexity_level" yaml:"complexity_level"`
	MaintainabilityConcerns []string        `json:"maintainability_concerns" yaml:"maintainability_concerns"`
}

// ComplexityDistribution 按圈复杂度分桶计数，五个桶之和等于函数总数。
type ComplexityDistribution struct {
	VeryLow  int `json:"very_low_complexity" yaml:"very_low_complexity"`
	Low      int `json:"low_complexity" yaml:"low_complexity"`
	Medium   int `json:"medium_complexity" yaml:"medium_complexity"`
	High     int `json:"high_complexity" yaml:"high_complexity"`
	VeryHigh int `json:"very_high_complexity" yaml:"very_high_complexity"`
}

// Total 返回五个桶的计数之和。
func (d ComplexityDistribution) Total() int {
	return d.VeryLow + d.Low + d.Medium + d.High + d.VeryHigh
}

// StructureDistribution 按结构种类计数。
type StructureDistribution struct {
	Classes    int `json:"classes" yaml:"classes"`
	Interfaces int `json:"interfaces" yaml:"interfaces"`
	Traits     int `json:"traits" yaml:"traits"`
	Enums      int `json:"enums" yaml:"enums"`
	Structs    int `json:"structs" yaml:"structs"`
	Modules    int `json:"modules" yaml:"modules"`
}

// ExtensionComplexity 是某个后缀下的复杂度汇总。
type ExtensionComplexity struct {
	FileCount             int     `json:"file_count" yaml:"file_count"`
	FunctionCount         int     `json:"function_count" yaml:"function_count"`
	ClassCount            int     `json:"class_count" yaml:"class_count"`
	InterfaceCount        int     `json:"interface_count" yaml:"interface_count"`
	TraitCount            int     `json:"trait_count" yaml:"trait_count"`
	EnumCount             int     `json:"enum_count" yaml:"enum_count"`
	StructCount           int     `json:"struct_count" yaml:"struct_count"`
	TotalStructures       int     `json:"total_structures" yaml:"total_structures"`
	CyclomaticComplexity  float64 `json:"cyclomatic_complexity" yaml:"cyclomatic_complexity"`
	CognitiveComplexity   float64 `json:"cognitive_complexity" yaml:"cognitive_complexity"`
	MaintainabilityIndex  float64 `json:"maintainability_index" yaml:"maintainability_index"`
	AverageFunctionLength float64 `json:"average_function_length" yaml:"average_function_length"`
	MaxNestingDepth       int     `json:"max_nesting_depth" yaml:"max_nesting_depth"`
	AverageNestingDepth   float64 `json:"average_nesting_depth" yaml:"average_nesting_depth"`
	MethodsPerClass       float64 `json:"methods_per_class" yaml:"methods_per_class"`
	AverageParameters     float64 `json:"average_parameters_per_function" yaml:"average_parameters_per_function"`
	QualityScore          float64 `json:"quality_score" yaml:"quality_score"`
}

// ComplexityStats 是文件级或项目级的复杂度汇总。
type ComplexityStats struct {
	FunctionCount          int                            `json:"function_count" yaml:"function_count"`
	ClassCount             int                            `json:"class_count" yaml:"class_count"`
	InterfaceCount         int                            `json:"interface_count" yaml:"interface_count"`
	TraitCount             int                            `json:"trait_count" yaml:"trait_count"`
	EnumCount              int                            `json:"enum_count" yaml:"enum_count"`
	StructCount            int                            `json:"struct_count" yaml:"struct_count"`
	ModuleCount            int                            `json:"module_count" yaml:"module_count"`
	TotalStructures        int                            `json:"total_structures" yaml:"total_structures"`
	CyclomaticComplexity   float64                        `json:"cyclomatic_complexity" yaml:"cyclomatic_complexity"`
	CognitiveComplexity    float64                        `json:"cognitive_complexity" yaml:"cognitive_complexity"`
	MaintainabilityIndex   float64                        `json:"maintainability_index" yaml:"maintainability_index"`
	AverageFunctionLength  float64                        `json:"average_function_length" yaml:"average_function_length"`
	MaxFunctionLength      int                            `json:"max_function_length" yaml:"max_function_length"`
	MinFunctionLength      int                            `json:"min_function_length" yaml:"min_function_length"`
	MaxNestingDepth        int                            `json:"max_nesting_depth" yaml:"max_nesting_depth"`
	AverageNestingDepth    float64                        `json:"average_nesting_depth" yaml:"average_nesting_depth"`
	MethodsPerClass        float64                        `json:"methods_per_class" yaml:"methods_per_class"`
	AverageParameters      float64                        `json:"average_parameters_per_function" yaml:"average_parameters_per_function"`
	MaxParameters          int                            `json:"max_parameters_per_function" yaml:"max_parameters_per_function"`
	ComplexityByExtension  map[string]ExtensionComplexity `json:"complexity_by_extension" yaml:"complexity_by_extension"`
	ComplexityDistribution ComplexityDistribution         `json:"complexity_distribution" yaml:"complexity_distribution"`
	StructureDistribution  StructureDistribution          `json:"structure_distribution" yaml:"structure_distribution"`
	FunctionDetails        []FunctionComplexityDetail     `json:"function_complexity_details" yaml:"function_complexity_details"`
	Quality                QualityMetrics                 `json:"quality_metrics" yaml:"quality_metrics"`
}
