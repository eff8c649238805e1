package languages

import (
	"regexp"
	"strings"

	"gohowmany/internal/classifier"
	"gohowmany/internal/model"
)

// layout 描述函数体边界的判定方式。
type layout uint8

const (
	// layoutBlock：作用域计数器回到 0 时关闭（花括号、do/end、括号）。
	layoutBlock layout = iota
	// layoutIndent：遇到缩进不深于声明行的代码行时关闭。
	layoutIndent
	// layoutTerminator：遇到以 '.' 结尾的代码行时关闭（Erlang）。
	layoutTerminator
)

// structureDecl 是结构体声明谓词的匹配结果。
type structureDecl struct {
	name       string
	kind       model.StructureType
	visibility model.Visibility
	// wholeFile 表示结构体作用域延伸到文件末尾或下一个同类声明（package、module 等）。
	wholeFile bool
}

// extra 是语言特有的认知复杂度加权项。
type extra struct {
	token  string
	weight int
}

// recursionStyle 描述递归调用的识别方式。
type recursionStyle uint8

const (
	recurseCall recursionStyle = iota // name(
	recurseWord                       // name 作为独立单词出现即可
	recurseLisp                       // (name
)

// grammar 描述一种语言的词法启发式。
// 未设置的钩子使用引擎的默认行为。
type grammar struct {
	name       string
	extensions []string

	layout layout
	scope  scopeCounter
	// structureScope 为结构体单独指定作用域规则（R 的 setRefClass(...) 以括号界定）。
	structureScope scopeCounter

	// declare 判断一行是否为函数声明，返回函数名。
	declare func(trimmed string) (string, bool)
	// params 统计参数个数，signature 是拼接后的完整签名。
	params func(signature string, name string) int
	// method 判断声明是否为方法（而非自由函数/扩展函数），indented 表示声明行有缩进。
	method func(signature string, indented bool) bool
	// visibility 从签名中读取显式可见性，无法判断时返回空值。
	visibility        func(signature string) model.Visibility
	defaultVisibility model.Visibility
	// sections 是 "private" / "public:" 一类的分段可见性标记。
	sections map[string]model.Visibility
	// memberDefault 是进入某种结构体后成员的默认可见性。
	memberDefault map[model.StructureType]model.Visibility

	// bodyless 判断签名是否为没有函数体的声明（默认以 ';' 结尾）。
	bodyless func(signature string) bool
	// oneLiner 判断签名是否为单表达式形式，匹配后立即关闭。
	oneLiner func(signature string) bool
	// continues 判断一行是否是上一条声明的续行（'{'、where、throws ...）。
	continues func(trimmed string) bool
	// skipBodyless 为 true 时丢弃没有函数体的声明（C/C++ 原型）。
	skipBodyless bool
	// splitOnDeclaration 为 true 时，函数只剩自身一层时遇到新声明即结束（MATLAB 无 end 的函数）。
	splitOnDeclaration bool
	// headSignature 为 true 时签名只取声明行（Lisp 的声明与函数体共用括号）。
	headSignature bool
	// sameUnit 判断一行是否为同名函数的另一个子句（Haskell 方程、Erlang 子句）。
	sameUnit func(name string, trimmed string) bool
	// bodyMarker 分隔声明行中的签名与函数体，递归检测只看标记之后的部分；为空时取函数名之后的部分。
	bodyMarker string
	recursion  recursionStyle
	// recursionWords 出现即视为递归（Clojure 的 recur）。
	recursionWords []string

	branches   []string
	flat       []string
	extras     []extra
	returns    []string
	exceptions []string
	// guard 为行首守卫符号（Haskell 的 '|'），每个守卫计一个分支。
	guard  string
	locals *regexp.Regexp

	structure func(trimmed string) (structureDecl, bool)
	// inheritance 统计签名中列出的父类型/接口/混入数量。
	inheritance func(signature string) int
	// property 判断一行是否为成员变量声明，kind 为当前最内层结构体类型。
	property func(trimmed string, kind model.StructureType) bool
	// forceEnclosing 表示语言自身追踪类上下文，总是按包含关系挂接（Ruby）。
	forceEnclosing bool

	// region 返回参与分析的行（PHP 只分析 <?php ... ?> 内部）。
	region func(lines []classifier.Line) []bool

	flatSet map[string]bool
}

// compile 预计算派生字段，在注册表构建时调用一次。
func (g *grammar) compile() *grammar {
	g.flatSet = make(map[string]bool, len(g.flat))
	for _, token := range g.flat {
		g.flatSet[token] = true
	}
	if g.scope == nil && g.layout != layoutIndent {
		g.scope = braceScope{open: '{', close: '}'}
	}
	if g.structureScope == nil {
		g.structureScope = g.scope
	}
	if g.defaultVisibility == "" {
		g.defaultVisibility = model.VisibilityPublic
	}
	if g.continues == nil {
		g.continues = braceContinuation
	}
	if g.bodyless == nil {
		g.bodyless = endsWithSemicolon
	}
	return g
}

// cyclomatic 返回一行代码贡献的分支数。
func (g *grammar) cyclomatic(code string, trimmed string) int {
	total := countTokens(code, g.branches)
	if g.guard != "" && strings.HasPrefix(trimmed, g.guard) && !strings.HasPrefix(trimmed, g.guard+g.guard) {
		total++
	}
	return total
}

// cognitive 返回一行代码贡献的认知复杂度。
// 嵌套敏感的结构乘以 multiplier，平坦结构与语言附加项固定计分。
func (g *grammar) cognitive(code string, trimmed string, multiplier int) int {
	if multiplier < 1 {
		multiplier = 1
	}

	total := 0
	for _, token := range g.branches {
		if g.flatSet[token] {
			continue
		}
		total += countToken(code, token) * multiplier
	}
	for _, token := range g.flat {
		total += countToken(code, token)
	}
	if g.guard != "" && strings.HasPrefix(trimmed, g.guard) && !strings.HasPrefix(trimmed, g.guard+g.guard) {
		total += multiplier
	}
	for _, item := range g.extras {
		total += countToken(code, item.token) * item.weight
	}
	return total
}

func (g *grammar) parameterCount(signature string, name string) int {
	if g.params != nil {
		return g.params(signature, name)
	}
	return CountParameters(afterName(signature, name))
}

func (g *grammar) visibilityOf(signature string, section model.Visibility) model.Visibility {
	if g.visibility != nil {
		if visibility := g.visibility(signature); visibility != "" {
			return visibility
		}
	}
	if section != "" {
		return section
	}
	return g.defaultVisibility
}

// activeLines 返回参与分析的行标记。
func (g *grammar) activeLines(lines []classifier.Line) []bool {
	if g.region != nil {
		return g.region(lines)
	}
	active := make([]bool, len(lines))
	for i := range active {
		active[i] = true
	}
	return active
}

// braceContinuation 是花括号语言的默认续行判断。
func braceContinuation(trimmed string) bool {
	return hasAnyPrefix(trimmed, "{", ")", ",", ":", "->", "=>", "where", "throws", "extends",
		"implements", "with", "const", "noexcept", "override", "final", "&&", "||", ".")
}

func endsWithSemicolon(signature string) bool {
	return strings.HasSuffix(strings.TrimSpace(signature), ";")
}

// endsOpen 判断签名是否明显未写完（以 '=' / '=>' / ',' / '(' 等结尾）。
func endsOpen(signature string) bool {
	trimmed := strings.TrimSpace(signature)
	for _, suffix := range []string{"=", "=>", "->", ",", "(", ":", "|"} {
		if strings.HasSuffix(trimmed, suffix) {
			return true
		}
	}
	return false
}
