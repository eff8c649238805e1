// Package languages 实现按语言划分的复杂度分析器。
//
// 所有分析器共用同一个逐行扫描引擎，语言差异集中在 grammar 中描述：
// 声明识别、作用域规则、分支关键字、异常关键字、属性识别等。
// 分析器不持有跨调用状态，可以被多个 goroutine 同时使用。
package languages

import (
	"fmt"
	"strings"

	"gohowmany/internal/classifier"
	"gohowmany/internal/model"
)

// Analyzer 定义单语言复杂度分析器接口。
type Analyzer interface {
	// Name 返回语言名称（例如 Go、Rust）。
	Name() string
	// Extensions 返回该语言支持的后缀列表（小写，不含点号）。
	Extensions() []string
	// AnalyzeFunctions 从原始行序列中识别函数，ParentClass 不会被设置。
	AnalyzeFunctions(lines []string) ([]model.FunctionInfo, error)
	// AnalyzeStructures 从原始行序列中识别类型级声明，并完成方法挂接。
	AnalyzeStructures(lines []string) ([]model.StructureInfo, error)
	// Analyze 复用分类器已经产出的逐行结果，一次完成两遍扫描与方法挂接。
	Analyze(lines []classifier.Line) Result
}

// Result 是一次完整分析的输出。
// Functions 中被挂接到结构体的函数已写入 ParentClass。
type Result struct {
	Functions  []model.FunctionInfo
	Structures []model.StructureInfo
}

// AttachMode 决定方法如何挂接到结构体。
type AttachMode uint8

const (
	// AttachMostRecent 挂接到起始行不晚于函数起始行、且最近声明的结构体。
	AttachMostRecent AttachMode = iota
	// AttachEnclosing 挂接到行区间包含函数的最内层结构体。
	AttachEnclosing
)

// String 返回挂接模式名称。
func (m AttachMode) String() string {
	if m == AttachEnclosing {
		return "enclosing"
	}
	return "recent"
}

// ParseAttachMode 解析命令行/配置中的挂接模式，空字符串视为默认值。
func ParseAttachMode(value string) (AttachMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "recent", "most-recent":
		return AttachMostRecent, nil
	case "enclosing":
		return AttachEnclosing, nil
	default:
		return AttachMostRecent, fmt.Errorf("unknown attach mode %q (expected recent or enclosing)", value)
	}
}

// languageAnalyzer 是 grammar 驱动的分析器实现。
type languageAnalyzer struct {
	grammar *grammar
	syntax  *classifier.CommentSyntax
	attach  AttachMode
}

func newLanguageAnalyzer(g *grammar, table *classifier.PatternTable, attach AttachMode) *languageAnalyzer {
	syntax, ok := table.Lookup(g.extensions[0])
	if !ok {
		syntax = &classifier.CommentSyntax{}
	}
	if g.forceEnclosing {
		attach = AttachEnclosing
	}
	return &languageAnalyzer{grammar: g, syntax: syntax, attach: attach}
}

func (a *languageAnalyzer) Name() string {
	return a.grammar.name
}

func (a *languageAnalyzer) Extensions() []string {
	return append([]string(nil), a.grammar.extensions...)
}

func (a *languageAnalyzer) AnalyzeFunctions(lines []string) ([]model.FunctionInfo, error) {
	pass := scanFunctions(a.grammar, a.classify(lines))
	return pass.functions, nil
}

func (a *languageAnalyzer) AnalyzeStructures(lines []string) ([]model.StructureInfo, error) {
	return a.Analyze(a.classify(lines)).Structures, nil
}

func (a *languageAnalyzer) Analyze(lines []classifier.Line) Result {
	pass := scanFunctions(a.grammar, lines)
	structures := scanStructures(a.grammar, lines, pass)
	functions := attachMethods(pass.functions, structures, a.attach)
	return Result{Functions: functions, Structures: structures}
}

// classify 让原始行走一遍与统计层相同的分类状态机，保证两边对注释区域的判断一致。
func (a *languageAnalyzer) classify(lines []string) []classifier.Line {
	return classifier.ClassifyLines(a.syntax, lines)
}
