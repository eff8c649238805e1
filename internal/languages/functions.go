package languages

import (
	"strings"

	"gohowmany/internal/classifier"
	"gohowmany/internal/model"
)

// functionPass 是函数扫描的输出。
// body 标记属于某个函数单元的行，heads 标记函数声明起始行，结构体扫描据此区分成员与局部变量。
type functionPass struct {
	functions []model.FunctionInfo
	body      []bool
	heads     []bool
}

// openUnit 是正在扫描的函数单元。
//
// 生命周期：
// - 匹配到声明行时创建
// - 签名括号闭合前持续拼接签名（多行参数列表）
// - 作用域关闭、被下一条非续行代码截断、或到达文件末尾时输出
type openUnit struct {
	info      model.FunctionInfo
	indent    int
	level     int
	opened    bool
	closed    bool
	bodyless  bool
	signature string
	sigDepth  int
	sigDone   bool
	indents   indentTracker
}

type functionScanner struct {
	g         *grammar
	pass      functionPass
	cur       *openUnit
	section   model.Visibility
	functions []model.FunctionInfo
}

// scanFunctions 对已分类的行执行函数扫描。
// 同一时刻只有一个函数单元处于打开状态，嵌套声明（闭包、内部函数）计入外层函数体。
func scanFunctions(g *grammar, lines []classifier.Line) functionPass {
	s := &functionScanner{
		g: g,
		pass: functionPass{
			body:  make([]bool, len(lines)),
			heads: make([]bool, len(lines)),
		},
	}

	active := g.activeLines(lines)
	for i, line := range lines {
		if line.Kind != classifier.KindCode || !active[i] {
			continue
		}
		s.line(i, line.Code)
	}
	if s.cur != nil {
		s.finish()
	}

	s.pass.functions = s.functions
	return s.pass
}

func (s *functionScanner) line(i int, code string) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return
	}
	indent := indentWidth(code)

	if s.cur != nil && s.yields(trimmed, indent) {
		s.finish()
	}

	if s.cur == nil {
		if visibility, ok := s.g.sections[trimmed]; ok {
			s.section = visibility
			return
		}
		if indent == 0 {
			s.section = ""
		}
		if s.g.structure != nil {
			if decl, ok := s.g.structure(trimmed); ok {
				s.section = s.g.memberDefault[decl.kind]
			}
		}
		name, ok := s.g.declare(trimmed)
		if !ok {
			return
		}
		s.begin(i, name, indent)
	} else if s.g.splitOnDeclaration && s.cur.opened && s.cur.level <= 1 {
		if name, ok := s.g.declare(trimmed); ok {
			s.finish()
			s.begin(i, name, indent)
		}
	}

	s.consume(i, code, trimmed, indent)
	if s.cur.closed {
		s.finish()
	}
}

// yields 判断打开的函数单元是否应在当前行之前结束。
func (s *functionScanner) yields(trimmed string, indent int) bool {
	u := s.cur
	if u.sigDepth > 0 {
		return false
	}

	switch s.g.layout {
	case layoutIndent:
		if indent > u.indent {
			return false
		}
		if s.g.continues(trimmed) || endsOpen(u.signature) && !u.sigDone {
			return false
		}
		if s.g.sameUnit != nil && s.g.sameUnit(u.info.Name, trimmed) {
			return false
		}
		return true
	case layoutTerminator:
		return false
	default:
		// 已进入函数体的单元只由作用域计数关闭
		if u.opened {
			return false
		}
		return !s.g.continues(trimmed) && !endsOpen(u.signature)
	}
}

func (s *functionScanner) begin(i int, name string, indent int) {
	s.cur = &openUnit{
		info: model.FunctionInfo{
			Name:                 name,
			CyclomaticComplexity: 1,
			CognitiveComplexity:  1,
			StartLine:            i + 1,
			EndLine:              i + 1,
		},
		indent: indent,
	}
	s.pass.heads[i] = true
}

func (s *functionScanner) consume(i int, code string, trimmed string, indent int) {
	g := s.g
	u := s.cur
	first := i+1 == u.info.StartLine
	inSignature := !u.sigDone

	s.pass.body[i] = true
	u.info.LineCount++
	u.info.EndLine = i + 1

	// 进入函数体之前的行都拼进签名，供无函数体/单表达式判断使用
	if inSignature || (!u.opened && g.layout == layoutBlock) {
		if u.signature == "" {
			u.signature = trimmed
		} else {
			u.signature += " " + trimmed
		}
	}
	if inSignature {
		u.sigDepth += strings.Count(trimmed, "(") - strings.Count(trimmed, ")")
		if u.sigDepth <= 0 || g.headSignature {
			u.sigDepth = 0
			s.completeSignature(u)
		}
	}

	multiplier := 1
	switch g.layout {
	case layoutIndent:
		if !first && !inSignature {
			// 函数体第一层记为 1
			level := u.indents.push(indent)
			multiplier = level
			if level > u.info.NestingDepth {
				u.info.NestingDepth = level
			}
		}
	case layoutTerminator:
		scope := g.scope.scan(code)
		start := u.level
		multiplier = start + 1
		if peak := start + scope.peak; peak > u.info.NestingDepth {
			u.info.NestingDepth = peak
		}
		u.level = max(start+scope.open-scope.close, 0)
		u.opened = true
		if strings.HasSuffix(trimmed, ".") && !strings.HasSuffix(trimmed, "..") {
			u.closed = true
		}
	default:
		// 函数体本身的块记为第 1 层，乘数取本行开启块之后的层级
		scope := g.scope.scan(code)
		start := u.level
		peak := start + scope.peak
		multiplier = max(peak, 1)
		if peak > 0 {
			u.opened = true
		}
		if peak > u.info.NestingDepth {
			u.info.NestingDepth = peak
		}
		u.level = start + scope.open - scope.close
		if u.opened && u.level <= 0 {
			u.closed = true
		}
	}

	// 尚未进入函数体时检查无函数体声明与单表达式形式
	if !u.opened && u.sigDone && !u.closed {
		switch {
		case g.bodyless(u.signature):
			u.closed = true
			u.bodyless = true
		case g.oneLiner != nil && g.oneLiner(u.signature):
			u.closed = true
		}
	}

	u.info.CyclomaticComplexity += g.cyclomatic(code, trimmed)
	u.info.CognitiveComplexity += g.cognitive(code, trimmed, multiplier)
	u.info.ReturnPathCount += countTokens(code, g.returns)
	if hasAnyToken(code, g.exceptions) {
		u.info.HasExceptionHandling = true
	}

	head := first || inSignature || (g.sameUnit != nil && g.sameUnit(u.info.Name, trimmed))
	if head {
		if hasRecursiveCall(s.headBody(code), u.info.Name, g.recursion) {
			u.info.HasRecursion = true
		}
		return
	}

	if g.locals != nil && g.locals.MatchString(trimmed) {
		u.info.LocalVariableCount++
	}
	if hasRecursiveCall(code, u.info.Name, g.recursion) || hasAnyToken(code, g.recursionWords) {
		u.info.HasRecursion = true
	}
}

// headBody 返回声明行中函数体的部分：bodyMarker 之后的文本，未设置标记时取函数名之后的文本。
func (s *functionScanner) headBody(code string) string {
	if s.g.bodyMarker != "" {
		return afterMarker(code, s.g.bodyMarker)
	}
	name := s.cur.info.Name
	if index := indexToken(code, name); index >= 0 {
		return code[index+len(name):]
	}
	return ""
}

// completeSignature 在签名拼接完整后计算参数、方法标记与可见性。
func (s *functionScanner) completeSignature(u *openUnit) {
	u.sigDone = true
	u.info.ParameterCount = s.g.parameterCount(u.signature, u.info.Name)
	if s.g.method != nil {
		u.info.IsMethod = s.g.method(u.signature, u.indent > 0)
	}
	u.info.Visibility = s.g.visibilityOf(u.signature, s.section)
}

func (s *functionScanner) finish() {
	u := s.cur
	s.cur = nil
	if !u.sigDone {
		s.completeSignature(u)
	}
	if u.bodyless && s.g.skipBodyless {
		return
	}
	if len(s.g.returns) == 0 && u.info.ReturnPathCount == 0 {
		// 没有 return 关键字的语言以最后一个表达式为唯一返回路径
		u.info.ReturnPathCount = 1
	}
	s.functions = append(s.functions, u.info)
}
