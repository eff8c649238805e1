package languages

import (
	"path/filepath"
	"sort"
	"strings"

	"gohowmany/internal/classifier"
	"gohowmany/internal/model"
)

// LanguageDescriptor 用于对外展示语言及后缀信息。
type LanguageDescriptor struct {
	Name       string   `json:"name" yaml:"name"`
	Extensions []string `json:"extensions" yaml:"extensions"`
}

// Registry 管理语言分析器注册与后缀映射。
// 构建完成后只读，可以在多个 goroutine 之间共享而无需加锁。
type Registry struct {
	analyzers     []Analyzer
	analyzerByExt map[string]Analyzer
}

// Option 定制注册表构建。
type Option func(*registryOptions)

type registryOptions struct {
	attach AttachMode
	table  *classifier.PatternTable
}

// WithAttachMode 设置方法挂接模式，默认 AttachMostRecent。
func WithAttachMode(mode AttachMode) Option {
	return func(o *registryOptions) {
		o.attach = mode
	}
}

// WithPatternTable 指定分析器内部使用的注释模式表，默认使用内置模式表。
func WithPatternTable(table *classifier.PatternTable) Option {
	return func(o *registryOptions) {
		o.table = table
	}
}

// NewRegistry 创建并注册所有内置语言分析器。
func NewRegistry(opts ...Option) *Registry {
	options := registryOptions{attach: AttachMostRecent}
	for _, opt := range opts {
		opt(&options)
	}
	if options.table == nil {
		options.table = classifier.DefaultTable()
	}

	grammars := []*grammar{
		rustGrammar(),
		pythonGrammar(),
		javascriptGrammar(),
		javaGrammar(),
		cppGrammar(),
		goGrammar(),
		csharpGrammar(),
		phpGrammar(),
		rubyGrammar(),
		swiftGrammar(),
		kotlinGrammar(),
		dartGrammar(),
		erlangGrammar(),
		perlGrammar(),
		rGrammar(),
		matlabGrammar(),
		elixirGrammar(),
		juliaGrammar(),
		luaGrammar(),
		zigGrammar(),
		clojureGrammar(),
		haskellGrammar(),
	}

	registry := &Registry{
		analyzers:     make([]Analyzer, 0, len(grammars)),
		analyzerByExt: make(map[string]Analyzer),
	}

	for _, g := range grammars {
		analyzer := newLanguageAnalyzer(g.compile(), options.table, options.attach)
		registry.analyzers = append(registry.analyzers, analyzer)
		for _, ext := range analyzer.Extensions() {
			registry.analyzerByExt[normalizeExtension(ext)] = analyzer
		}
	}

	return registry
}

// AnalyzerForFile 根据文件后缀查找分析器。
func (r *Registry) AnalyzerForFile(path string) (Analyzer, bool) {
	return r.AnalyzerForExtension(filepath.Ext(path))
}

// AnalyzerForExtension 根据后缀查找分析器，大小写不敏感，前导点号可有可无。
// 未登记的后缀返回 (nil, false)。
func (r *Registry) AnalyzerForExtension(ext string) (Analyzer, bool) {
	analyzer, ok := r.analyzerByExt[normalizeExtension(ext)]
	return analyzer, ok
}

// Analyze 对一个文件的已分类行执行结构分析。
// 没有对应分析器的文件返回空结果，而不是错误。
func (r *Registry) Analyze(path string, lines []classifier.Line) Result {
	analyzer, ok := r.AnalyzerForFile(path)
	if !ok {
		return Result{Functions: []model.FunctionInfo{}, Structures: []model.StructureInfo{}}
	}
	return analyzer.Analyze(lines)
}

// Languages 返回已注册语言清单。
func (r *Registry) Languages() []LanguageDescriptor {
	result := make([]LanguageDescriptor, 0, len(r.analyzers))
	for _, analyzer := range r.analyzers {
		extensions := analyzer.Extensions()
		sort.Strings(extensions)
		result = append(result, LanguageDescriptor{
			Name:       analyzer.Name(),
			Extensions: extensions,
		})
	}

	sort.Slice(result, func(i int, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// ExtensionsForLanguage 返回指定语言对应的全部后缀，语言名大小写不敏感。
func (r *Registry) ExtensionsForLanguage(language string) []string {
	for _, analyzer := range r.analyzers {
		if strings.EqualFold(analyzer.Name(), language) {
			extensions := analyzer.Extensions()
			sort.Strings(extensions)
			return extensions
		}
	}
	return nil
}

func normalizeExtension(ext string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
}
