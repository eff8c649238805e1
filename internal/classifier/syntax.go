package classifier

import (
	"sort"
	"strings"
	"sync"
)

// Pair 表示一对开闭标记，例如块注释 /* */ 或 Lua 长字符串 [[ ]]。
type Pair struct {
	Open  string
	Close string
}

// Quote 描述一种字符串字面量。
type Quote struct {
	Open  string
	Close string
	// Escape 为 true 时反斜杠会转义下一个字符。
	Escape bool
	// Multiline 为 false 时字符串在行尾强制结束，避免未闭合引号吞掉后续整个文件。
	Multiline bool
}

// ApostropheMode 决定单引号的词法含义。
type ApostropheMode uint8

const (
	// ApostropheQuote 表示单引号总是开启字符串/字符字面量（按 Quotes 中的定义）。
	ApostropheQuote ApostropheMode = iota
	// ApostropheChar 表示只有形如 'a' 或 '\n' 时才是字符字面量，其余（Rust 生命周期、Haskell 撇号）按代码处理。
	ApostropheChar
	// ApostropheTranspose 表示紧跟标识符或右括号的单引号是转置运算符（MATLAB/Julia）。
	ApostropheTranspose
	// ApostropheCode 表示单引号永远是普通代码（Lisp 的 quote）。
	ApostropheCode
)

// CommentSyntax 是某个文件后缀的词法模式表项。
//
// 匹配优先级（同一位置）：
//  1. 文档块注释（仅当本行尚无代码）
//  2. 普通块注释
//  3. 行级文档注释（仅当本行尚无代码）
//  4. 行注释
//  5. 原始字符串 / 字符串字面量
type CommentSyntax struct {
	Line     []string
	Doc      []string
	Block    []Pair
	DocBlock []Pair
	// Directive 是必须位于行首的整行块（Ruby 的 =begin/=end）。
	Directive []Pair
	// DocDirective 与 Directive 相同但计为文档（Perl 的 POD）。
	DocDirective []Pair
	Nested       bool
	Quotes       []Quote
	Apostrophe   ApostropheMode
	// RawStrings 开启 Rust 风格 r#"..."# 原始字符串识别。
	RawStrings bool
	// Prose 表示非注释的非空行都是文档（reStructuredText、AsciiDoc 等）。
	Prose bool
	// Markdown 使用专门的 Markdown 处理流程。
	Markdown bool
}

// PatternTable 是后缀到词法模式的只读映射。
// 构建后不再修改，可在多个 goroutine 间无锁共享。
type PatternTable struct {
	byExt map[string]*CommentSyntax
}

// Lookup 按后缀查找词法模式，后缀大小写不敏感且可以带点号。
func (t *PatternTable) Lookup(ext string) (*CommentSyntax, bool) {
	syntax, ok := t.byExt[normalizeExt(ext)]
	return syntax, ok
}

// Extensions 返回表中全部后缀（已排序）。
func (t *PatternTable) Extensions() []string {
	result := make([]string, 0, len(t.byExt))
	for ext := range t.byExt {
		result = append(result, ext)
	}
	sort.Strings(result)
	return result
}

// NewPatternTable 用给定映射构建模式表，映射会被复制。
func NewPatternTable(entries map[string]CommentSyntax) *PatternTable {
	table := &PatternTable{byExt: make(map[string]*CommentSyntax, len(entries))}
	for ext, syntax := range entries {
		copied := syntax
		table.byExt[normalizeExt(ext)] = &copied
	}
	return table
}

// DefaultTable 返回进程级共享的内置模式表。
var DefaultTable = sync.OnceValue(func() *PatternTable {
	return NewPatternTable(builtinSyntaxes())
})

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

var (
	cStyleBlock = []Pair{{Open: "/*", Close: "*/"}}
	javadoc     = []Pair{{Open: "/**", Close: "*/"}}

	doubleQuote     = Quote{Open: `"`, Close: `"`, Escape: true}
	singleQuote     = Quote{Open: `'`, Close: `'`, Escape: true}
	tripleDouble    = Quote{Open: `"""`, Close: `"""`, Escape: true, Multiline: true}
	tripleSingle    = Quote{Open: `'''`, Close: `'''`, Escape: true, Multiline: true}
	multilineDouble = Quote{Open: `"`, Close: `"`, Escape: true, Multiline: true}
	templateQuote   = Quote{Open: "`", Close: "`", Escape: true, Multiline: true}
	goRawQuote      = Quote{Open: "`", Close: "`", Multiline: true}
)

// builtinSyntaxes 汇总全部内置后缀。
func builtinSyntaxes() map[string]CommentSyntax {
	entries := make(map[string]CommentSyntax)
	register := func(syntax CommentSyntax, extensions ...string) {
		for _, ext := range extensions {
			entries[ext] = syntax
		}
	}

	register(CommentSyntax{
		Line:       []string{"//"},
		Doc:        []string{"///", "//!"},
		Block:      cStyleBlock,
		DocBlock:   []Pair{{Open: "/**", Close: "*/"}, {Open: "/*!", Close: "*/"}},
		Nested:     true,
		Quotes:     []Quote{multilineDouble, singleQuote},
		Apostrophe: ApostropheChar,
		RawStrings: true,
	}, "rs")

	register(CommentSyntax{
		Line:     []string{"//"},
		Doc:      []string{"//!"},
		Block:    cStyleBlock,
		DocBlock: javadoc,
		Quotes:   []Quote{templateQuote, doubleQuote, singleQuote},
	}, "js", "jsx", "ts", "tsx", "mjs", "cjs")

	register(CommentSyntax{
		Line:     []string{"#"},
		DocBlock: []Pair{{Open: `"""`, Close: `"""`}, {Open: `'''`, Close: `'''`}},
		Quotes:   []Quote{tripleDouble, tripleSingle, doubleQuote, singleQuote},
	}, "py", "pyw", "pyi")

	register(CommentSyntax{
		Line:     []string{"//"},
		Block:    cStyleBlock,
		DocBlock: javadoc,
		Quotes:   []Quote{tripleDouble, doubleQuote, singleQuote},
	}, "java", "scala", "groovy")

	register(CommentSyntax{
		Line:     []string{"//"},
		Block:    cStyleBlock,
		DocBlock: []Pair{{Open: "/**", Close: "*/"}, {Open: "/*!", Close: "*/"}},
		Quotes:   []Quote{doubleQuote, singleQuote},
	}, "c", "h", "cpp", "cc", "cxx", "hpp", "hh", "hxx", "mm")

	register(CommentSyntax{
		Line:   []string{"//"},
		Doc:    []string{"//"},
		Block:  cStyleBlock,
		Quotes: []Quote{goRawQuote, doubleQuote, singleQuote},
	}, "go")

	register(CommentSyntax{
		Line:     []string{"//"},
		Doc:      []string{"///"},
		Block:    cStyleBlock,
		DocBlock: javadoc,
		Quotes: []Quote{
			tripleDouble,
			{Open: `@"`, Close: `"`, Multiline: true},
			doubleQuote,
			singleQuote,
		},
	}, "cs")

	register(CommentSyntax{
		Line:     []string{"//", "#"},
		Block:    cStyleBlock,
		DocBlock: javadoc,
		Quotes:   []Quote{multilineDouble, {Open: `'`, Close: `'`, Escape: true, Multiline: true}},
	}, "php", "phtml")

	register(CommentSyntax{
		Line:      []string{"#"},
		Doc:       []string{"##"},
		Directive: []Pair{{Open: "=begin", Close: "=end"}},
		Quotes:    []Quote{doubleQuote, singleQuote},
	}, "rb", "rbw", "rake", "gemspec")

	register(CommentSyntax{
		Line:     []string{"//"},
		Doc:      []string{"///"},
		Block:    cStyleBlock,
		DocBlock: javadoc,
		Nested:   true,
		Quotes:   []Quote{tripleDouble, doubleQuote},
	}, "swift")

	register(CommentSyntax{
		Line:     []string{"//"},
		Block:    cStyleBlock,
		DocBlock: javadoc,
		Nested:   true,
		Quotes:   []Quote{tripleDouble, doubleQuote, singleQuote},
	}, "kt", "kts")

	register(CommentSyntax{
		Line:     []string{"//"},
		Doc:      []string{"///"},
		Block:    cStyleBlock,
		DocBlock: javadoc,
		Nested:   true,
		Quotes:   []Quote{tripleDouble, tripleSingle, doubleQuote, singleQuote},
	}, "dart")

	register(CommentSyntax{
		Line:   []string{"%"},
		Doc:    []string{"%%"},
		Quotes: []Quote{doubleQuote, singleQuote},
	}, "erl", "hrl")

	register(CommentSyntax{
		Line: []string{"#"},
		DocDirective: []Pair{
			{Open: "=pod", Close: "=cut"},
			{Open: "=head", Close: "=cut"},
			{Open: "=over", Close: "=cut"},
			{Open: "=item", Close: "=cut"},
			{Open: "=begin", Close: "=cut"},
			{Open: "=encoding", Close: "=cut"},
		},
		Quotes: []Quote{doubleQuote, singleQuote},
	}, "pl", "pm", "perl", "pod", "t")

	register(CommentSyntax{
		Line:   []string{"#"},
		Doc:    []string{"#'"},
		Quotes: []Quote{multilineDouble, {Open: `'`, Close: `'`, Escape: true, Multiline: true}},
	}, "r")

	register(CommentSyntax{
		Line:       []string{"%"},
		Doc:        []string{"%%"},
		Directive:  []Pair{{Open: "%{", Close: "%}"}},
		Quotes:     []Quote{doubleQuote, {Open: `'`, Close: `'`}},
		Apostrophe: ApostropheTranspose,
	}, "m", "mlx")

	register(CommentSyntax{
		Line:     []string{"#"},
		Doc:      []string{"@doc", "@moduledoc", "@typedoc"},
		DocBlock: []Pair{{Open: `@doc """`, Close: `"""`}, {Open: `@moduledoc """`, Close: `"""`}, {Open: `@typedoc """`, Close: `"""`}},
		Quotes:   []Quote{tripleDouble, doubleQuote, singleQuote},
	}, "ex", "exs")

	register(CommentSyntax{
		Line:       []string{"#"},
		Block:      []Pair{{Open: "#=", Close: "=#"}},
		DocBlock:   []Pair{{Open: `"""`, Close: `"""`}},
		Nested:     true,
		Quotes:     []Quote{tripleDouble, doubleQuote, singleQuote},
		Apostrophe: ApostropheTranspose,
	}, "jl")

	register(CommentSyntax{
		Line:   []string{"--"},
		Doc:    []string{"---"},
		Block:  []Pair{{Open: "--[[", Close: "]]"}},
		Quotes: []Quote{{Open: "[[", Close: "]]", Multiline: true}, doubleQuote, singleQuote},
	}, "lua")

	register(CommentSyntax{
		Line:   []string{"//"},
		Doc:    []string{"///", "//!"},
		Quotes: []Quote{doubleQuote, singleQuote},
	}, "zig")

	register(CommentSyntax{
		Line:       []string{";"},
		Doc:        []string{";;"},
		Quotes:     []Quote{multilineDouble},
		Apostrophe: ApostropheCode,
	}, "clj", "cljs", "cljc", "edn")

	register(CommentSyntax{
		Line:       []string{"--"},
		Doc:        []string{"-- |", "-- ^"},
		Block:      []Pair{{Open: "{-", Close: "-}"}},
		DocBlock:   []Pair{{Open: "{-|", Close: "-}"}},
		Nested:     true,
		Quotes:     []Quote{doubleQuote, singleQuote},
		Apostrophe: ApostropheChar,
	}, "hs", "lhs")

	register(CommentSyntax{
		Line:   []string{"--"},
		Block:  cStyleBlock,
		Nested: true,
		Quotes: []Quote{singleQuote, doubleQuote},
	}, "sql")

	register(CommentSyntax{
		Line:   []string{"#"},
		Doc:    []string{"##"},
		Quotes: []Quote{doubleQuote, {Open: `'`, Close: `'`}},
	}, "sh", "bash", "zsh", "fish", "yaml", "yml", "toml", "mk")

	register(CommentSyntax{
		Block:  []Pair{{Open: "<!--", Close: "-->"}},
		Quotes: []Quote{doubleQuote, singleQuote},
	}, "html", "htm", "xml", "vue", "svelte")

	register(CommentSyntax{
		Block:    cStyleBlock,
		DocBlock: javadoc,
		Quotes:   []Quote{doubleQuote, singleQuote},
	}, "css")

	register(CommentSyntax{
		Line:     []string{"//"},
		Doc:      []string{"///"},
		Block:    cStyleBlock,
		DocBlock: javadoc,
		Quotes:   []Quote{doubleQuote, singleQuote},
	}, "scss", "less", "sass")

	register(CommentSyntax{Line: []string{".."}, Prose: true}, "rst")
	register(CommentSyntax{Line: []string{"//"}, Block: []Pair{{Open: "////", Close: "////"}}, Prose: true}, "adoc", "asciidoc")
	register(CommentSyntax{Prose: true}, "txt")
	register(CommentSyntax{Markdown: true}, "md", "markdown", "rmd")

	return entries
}
