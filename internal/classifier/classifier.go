// Package classifier 提供表驱动的行分类能力。
//
// 同一个状态机同时服务两类调用方：
// - 统计层：把文件内容归类为 blank/code/comment/doc 并生成 FileStats
// - 复杂度分析器：拿到每行“去掉注释、清空字符串内容”后的代码文本
//
// 两者共用一次分类结果，因此对“哪一行是注释”的判断永远一致。
package classifier

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"gohowmany/internal/model"
)

// Kind 表示单行的分类结果。
type Kind uint8

const (
	KindBlank Kind = iota
	KindCode
	KindComment
	KindDoc
)

// String 返回分类名称。
func (k Kind) String() string {
	switch k {
	case KindCode:
		return "code"
	case KindComment:
		return "comment"
	case KindDoc:
		return "doc"
	default:
		return "blank"
	}
}

// Line 是一行源码的分类结果。
type Line struct {
	Kind Kind
	// Text 是原始行内容（已去掉行尾换行符）。
	Text string
	// Code 是仅保留代码部分的文本：注释被移除，字符串只保留定界符。
	Code string
}

// Classifier 持有注入的模式表。
type Classifier struct {
	table *PatternTable
}

// New 创建分类器；table 为空时使用内置模式表。
func New(table *PatternTable) *Classifier {
	if table == nil {
		table = DefaultTable()
	}
	return &Classifier{table: table}
}

// Table 返回分类器使用的模式表。
func (c *Classifier) Table() *PatternTable {
	return c.table
}

// Classify 对整份文件内容做一次分类，返回行统计和逐行结果。
// 未登记的后缀按“非空行皆为代码”处理。
func (c *Classifier) Classify(ext string, content []byte) (model.FileStats, []Line) {
	syntax, ok := c.table.Lookup(ext)
	if !ok {
		syntax = &CommentSyntax{}
	}

	lines := ClassifyLines(syntax, SplitLines(content))
	stats := Tally(lines)
	stats.FileSize = int64(len(content))
	return stats, lines
}

// ClassifyLines 用给定词法模式对行序列分类。
func ClassifyLines(syntax *CommentSyntax, lines []string) []Line {
	if syntax == nil {
		syntax = &CommentSyntax{}
	}
	if syntax.Markdown {
		return classifyMarkdown(lines)
	}

	engine := &fsmEngine{syntax: syntax}
	result := make([]Line, 0, len(lines))
	for _, text := range lines {
		result = append(result, engine.processLine(normalizeLine(text)))
	}
	return result
}

// Tally 根据逐行分类结果汇总 FileStats（不含 FileSize）。
func Tally(lines []Line) model.FileStats {
	var stats model.FileStats
	for _, line := range lines {
		stats.TotalLines++
		switch line.Kind {
		case KindCode:
			stats.CodeLines++
		case KindComment:
			stats.CommentLines++
		case KindDoc:
			stats.DocLines++
		default:
			stats.BlankLines++
		}
	}
	return stats
}

// SplitLines 把文件内容切分为行，兼容 \r\n 与 \n，末尾换行不产生空行。
func SplitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	text := string(content)
	text = strings.TrimSuffix(text, "\n")
	parts := strings.Split(text, "\n")
	for i, part := range parts {
		parts[i] = normalizeLine(part)
	}
	return parts
}

// normalizeLine 用于去除每行末尾的换行符。
// 该函数适配 Windows 的 \r\n 与 Unix 的 \n。
func normalizeLine(line string) string {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line
}

// fsmEngine 记录跨行的词法状态。
// 块注释支持嵌套时用 depth 计数，而不是单一布尔值。
type fsmEngine struct {
	syntax *CommentSyntax

	block      *Pair
	blockDoc   bool
	blockDepth int

	directive    *Pair
	directiveDoc bool

	quote         *Quote
	inRawString   bool
	rawHashCount  int
	lastCodeRune  rune
	lineHasCode   bool
	lineHasDoc    bool
	lineHasRemark bool
}

// processLine 分析一行文本。
func (e *fsmEngine) processLine(text string) Line {
	trimmed := strings.TrimSpace(text)

	// 整行指令块（=begin/=end、=pod/=cut）优先级最高，只要处于该状态整行都属于注释。
	if e.directive != nil {
		kind := KindComment
		if e.directiveDoc {
			kind = KindDoc
		}
		if hasDirective(trimmed, e.directive.Close) {
			e.directive = nil
		}
		if trimmed == "" {
			kind = KindBlank
		}
		return Line{Kind: kind, Text: text}
	}

	if e.block == nil && e.quote == nil && !e.inRawString {
		for i := range e.syntax.DocDirective {
			if hasDirective(trimmed, e.syntax.DocDirective[i].Open) {
				e.directive = &e.syntax.DocDirective[i]
				e.directiveDoc = true
				return Line{Kind: KindDoc, Text: text}
			}
		}
		for i := range e.syntax.Directive {
			if hasDirective(trimmed, e.syntax.Directive[i].Open) {
				e.directive = &e.syntax.Directive[i]
				e.directiveDoc = false
				return Line{Kind: KindComment, Text: text}
			}
		}
	}

	e.lineHasCode = false
	e.lineHasDoc = false
	e.lineHasRemark = false
	e.lastCodeRune = 0

	// 跨行未闭合的字符串，当前行默认属于 code。
	if e.quote != nil || e.inRawString {
		e.lineHasCode = true
	}

	var code strings.Builder
	code.Grow(len(text))

	for idx := 0; idx < len(text); {
		rest := text[idx:]

		if e.block != nil {
			idx += e.consumeBlock(rest)
			continue
		}

		if e.inRawString {
			idx += e.consumeRawString(rest, &code)
			continue
		}

		if e.quote != nil {
			idx += e.consumeQuote(rest, &code)
			continue
		}

		current, size := utf8.DecodeRuneInString(rest)
		if unicode.IsSpace(current) {
			// 空白字符不参与分类，仅推进扫描。
			code.WriteRune(current)
			idx += size
			continue
		}

		if consumed, ok := e.tryOpenBlock(rest); ok {
			idx += consumed
			continue
		}

		if !e.lineHasCode && hasAnyPrefix(rest, e.syntax.Doc) {
			e.lineHasDoc = true
			break
		}

		if hasAnyPrefix(rest, e.syntax.Line) {
			e.lineHasRemark = true
			break
		}

		if consumed, ok := e.tryOpenString(rest, &code); ok {
			e.lineHasCode = true
			idx += consumed
			continue
		}

		e.lineHasCode = true
		e.lastCodeRune = current
		code.WriteRune(current)
		idx += size
	}

	if e.quote != nil && !e.quote.Multiline {
		e.quote = nil
	}

	line := Line{Text: text, Code: strings.TrimRight(code.String(), " \t")}
	switch {
	case trimmed == "":
		line.Kind = KindBlank
	case e.lineHasCode && e.syntax.Prose:
		line.Kind = KindDoc
		line.Code = ""
	case e.lineHasCode:
		line.Kind = KindCode
	case e.lineHasDoc:
		line.Kind = KindDoc
	case e.lineHasRemark:
		line.Kind = KindComment
	default:
		line.Kind = KindBlank
	}
	if line.Kind != KindCode {
		line.Code = ""
	}
	return line
}

// tryOpenBlock 检测文档块注释和普通块注释的开头。
func (e *fsmEngine) tryOpenBlock(rest string) (int, bool) {
	// /**/ 是空注释而不是文档块的开始。
	if strings.HasPrefix(rest, "/**/") && len(e.syntax.Block) > 0 {
		e.lineHasRemark = true
		return 4, true
	}

	if !e.lineHasCode {
		for i := range e.syntax.DocBlock {
			pair := &e.syntax.DocBlock[i]
			if strings.HasPrefix(rest, pair.Open) {
				e.enterBlock(pair, true)
				return len(pair.Open), true
			}
		}
	}

	for i := range e.syntax.Block {
		pair := &e.syntax.Block[i]
		if strings.HasPrefix(rest, pair.Open) {
			e.enterBlock(pair, false)
			return len(pair.Open), true
		}
	}
	return 0, false
}

func (e *fsmEngine) enterBlock(pair *Pair, doc bool) {
	e.block = pair
	e.blockDoc = doc
	// 新进入注释时深度从 1 开始。
	e.blockDepth = 1
	e.markRemark()
}

func (e *fsmEngine) markRemark() {
	if e.blockDoc {
		e.lineHasDoc = true
		return
	}
	e.lineHasRemark = true
}

// consumeBlock 在块注释内部推进，返回消费的字节数。
func (e *fsmEngine) consumeBlock(rest string) int {
	e.markRemark()

	// 在注释内部继续遇到开头标记时深度 +1，实现嵌套注释。
	if e.syntax.Nested && e.block.Open != e.block.Close && strings.HasPrefix(rest, e.block.Open) {
		e.blockDepth++
		return len(e.block.Open)
	}
	// 遇到结束标记时深度 -1，直到回到 0 才算完全离开注释态。
	if strings.HasPrefix(rest, e.block.Close) {
		consumed := len(e.block.Close)
		e.blockDepth--
		if e.blockDepth <= 0 {
			e.block = nil
			e.blockDepth = 0
		}
		return consumed
	}
	_, size := utf8.DecodeRuneInString(rest)
	return size
}

// tryOpenString 检测字符串字面量与原始字符串的开头。
func (e *fsmEngine) tryOpenString(rest string, code *strings.Builder) (int, bool) {
	if e.syntax.RawStrings {
		if consumed, ok := e.tryStartRawString(rest); ok {
			code.WriteString(`"`)
			return consumed, true
		}
	}

	if rest[0] == '\'' {
		switch e.syntax.Apostrophe {
		case ApostropheCode:
			return 0, false
		case ApostropheChar:
			if !looksLikeCharLiteral(rest) {
				return 0, false
			}
		case ApostropheTranspose:
			if isTransposeContext(e.lastCodeRune) {
				return 0, false
			}
		}
	}

	for i := range e.syntax.Quotes {
		quote := &e.syntax.Quotes[i]
		if strings.HasPrefix(rest, quote.Open) {
			e.quote = quote
			e.lastCodeRune = '"'
			code.WriteString(quote.Open)
			return len(quote.Open), true
		}
	}
	return 0, false
}

// consumeQuote 在字符串内部推进；字符串内容不写入代码文本。
func (e *fsmEngine) consumeQuote(rest string, code *strings.Builder) int {
	e.lineHasCode = true

	// 反斜杠优先，避免把 \" 误判成闭合。
	if e.quote.Escape && rest[0] == '\\' {
		if len(rest) > 1 {
			_, size := utf8.DecodeRuneInString(rest[1:])
			return 1 + size
		}
		return 1
	}
	if strings.HasPrefix(rest, e.quote.Close) {
		code.WriteString(e.quote.Close)
		consumed := len(e.quote.Close)
		e.quote = nil
		return consumed
	}
	_, size := utf8.DecodeRuneInString(rest)
	return size
}

// tryStartRawString 检测并进入 Rust 原始字符串状态：r"...", r#"..."#, br"..."。
func (e *fsmEngine) tryStartRawString(rest string) (int, bool) {
	cursor := 0
	if strings.HasPrefix(rest, "br") {
		cursor = 2
	} else if rest[0] == 'r' {
		cursor = 1
	} else {
		return 0, false
	}

	// 前一个字符是标识符的一部分时（例如 bar"），不是原始字符串前缀。
	if isIdentRune(e.lastCodeRune) {
		return 0, false
	}

	hashCount := 0
	for cursor < len(rest) && rest[cursor] == '#' {
		hashCount++
		cursor++
	}
	if cursor >= len(rest) || rest[cursor] != '"' {
		return 0, false
	}

	e.inRawString = true
	e.rawHashCount = hashCount
	e.lastCodeRune = '"'
	return cursor + 1, true
}

// consumeRawString 在原始字符串内部推进。
// 结束符是 " 加上与开头数量一致的 #。
func (e *fsmEngine) consumeRawString(rest string, code *strings.Builder) int {
	e.lineHasCode = true
	if rest[0] == '"' {
		terminator := `"` + strings.Repeat("#", e.rawHashCount)
		if strings.HasPrefix(rest, terminator) {
			e.inRawString = false
			code.WriteString(`"`)
			return len(terminator)
		}
	}
	_, size := utf8.DecodeRuneInString(rest)
	return size
}

// looksLikeCharLiteral 用于区分字符字面量和生命周期标识（如 'a）。
func looksLikeCharLiteral(rest string) bool {
	runes := []rune(rest)
	if len(runes) < 3 {
		return false
	}
	// 普通字符：'a'
	if runes[1] != '\\' && runes[2] == '\'' {
		return true
	}
	// 转义字符：'\n'、'\''
	if runes[1] == '\\' && len(runes) > 3 && runes[3] == '\'' {
		return true
	}
	// 十六进制或 unicode 转义：'\x41'、'\u{1F600}'
	if runes[1] == '\\' {
		closing := strings.IndexRune(string(runes[2:]), '\'')
		return closing > 0 && closing <= 10
	}
	return false
}

// isTransposeContext 判断单引号前面的字符是否构成转置运算：a'、x(1)'、m]'。
func isTransposeContext(previous rune) bool {
	return isIdentRune(previous) || previous == ')' || previous == ']' || previous == '}' || previous == '\'' || previous == '.'
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func hasAnyPrefix(text string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(text, prefix) {
			return true
		}
	}
	return false
}

// hasDirective 判断当前行是否以指令开头（例如 =begin、=cut）。
// 指令之后必须是行尾、空白或字母数字（=head1）。
func hasDirective(trimmed string, directive string) bool {
	if !strings.HasPrefix(trimmed, directive) {
		return false
	}
	if len(trimmed) == len(directive) {
		return true
	}
	next, _ := utf8.DecodeRuneInString(trimmed[len(directive):])
	return unicode.IsSpace(next) || unicode.IsDigit(next) || directive[0] == '%'
}
