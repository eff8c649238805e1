package languages

import (
	"strings"
	"unicode/utf8"
)

// lineScope 是一行代码对作用域层级的影响。
// peak 是行内相对行首达到的最大层级增量。
type lineScope struct {
	open  int
	close int
	peak  int
}

// scopeCounter 计算单行代码的作用域增量。
// 输入是已去掉注释、清空字符串内容的代码文本。
type scopeCounter interface {
	scan(code string) lineScope
}

// braceScope 统计成对的单字符定界符（{} 或 Lisp 的 ()）。
type braceScope struct {
	open  byte
	close byte
}

func (s braceScope) scan(code string) lineScope {
	var result lineScope
	level := 0
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case s.open:
			result.open++
			level++
			if level > result.peak {
				result.peak = level
			}
		case s.close:
			result.close++
			level--
		}
	}
	return result
}

// keywordScope 统计 do/end 风格的关键字作用域。
//
// 规则：
// - lead 中的关键字只有出现在行首、'=' 或 '(' 之后才算开启（排除 Ruby 的后置 if）
// - inline 中的关键字出现在任何位置都算开启
// - call 中的关键字只有紧跟 '(' 时才算开启（Erlang 的 fun(...)）
// - 前面是 '.'/':'、后面是 ':' 的关键字视为符号或方法名，不计入
// - bracketAware 时括号内的关键字不计入（Julia/MATLAB 的 a[end]）
type keywordScope struct {
	lead         []string
	inline       []string
	call         []string
	closers      []string
	loopDo       []string
	braces       bool
	bracketAware bool
}

func (s keywordScope) scan(code string) lineScope {
	var result lineScope
	level := 0
	depth := 0
	firstWord := ""
	previous := byte(0)

	bump := func(delta int) {
		if delta > 0 {
			result.open++
		} else {
			result.close++
		}
		level += delta
		if level > result.peak {
			result.peak = level
		}
	}

	for i := 0; i < len(code); {
		c := code[i]
		switch {
		case c == '(' || c == '[':
			depth++
			previous = c
			i++
			continue
		case c == ')' || c == ']':
			if depth > 0 {
				depth--
			}
			previous = c
			i++
			continue
		case s.braces && c == '{':
			bump(1)
			previous = c
			i++
			continue
		case s.braces && c == '}':
			bump(-1)
			previous = c
			i++
			continue
		case c == ' ' || c == '\t':
			i++
			continue
		}

		r, size := utf8.DecodeRuneInString(code[i:])
		if !isIdentRune(r) {
			previous = c
			i += size
			continue
		}

		end := i
		for end < len(code) {
			next, width := utf8.DecodeRuneInString(code[end:])
			if !isIdentRune(next) {
				break
			}
			end += width
		}
		word := code[i:end]
		isFirst := firstWord == ""
		if isFirst {
			firstWord = word
		}

		symbol := previous == '.' || previous == ':' || previous == '@' || previous == '$' ||
			(end < len(code) && code[end] == ':' && !strings.HasPrefix(code[end:], "::"))
		inBrackets := s.bracketAware && depth > 0

		if !symbol && !inBrackets {
			switch {
			case contains(s.closers, word):
				bump(-1)
			case contains(s.inline, word):
				if !(word == "do" && contains(s.loopDo, firstWord) && !isFirst) {
					bump(1)
				}
			case contains(s.lead, word) && (isFirst || previous == '=' || previous == '('):
				bump(1)
			case contains(s.call, word) && nextNonSpace(code, end) == '(':
				bump(1)
			}
		}

		previous = code[end-1]
		i = end
	}

	return result
}

func contains(list []string, word string) bool {
	for _, item := range list {
		if item == word {
			return true
		}
	}
	return false
}

func nextNonSpace(text string, from int) byte {
	for i := from; i < len(text); i++ {
		if text[i] != ' ' && text[i] != '\t' {
			return text[i]
		}
	}
	return 0
}

// indentWidth 返回行首缩进宽度，制表符按 4 列计。
func indentWidth(line string) int {
	width := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			width++
		case '\t':
			width += 4
		default:
			return width
		}
	}
	return width
}

// indentTracker 以缩进栈估算缩进语言的嵌套层级。
type indentTracker struct {
	levels []int
}

// push 记录一行主体代码的缩进，返回当前层级（函数体第一层为 1）。
func (t *indentTracker) push(indent int) int {
	for len(t.levels) > 0 && t.levels[len(t.levels)-1] > indent {
		t.levels = t.levels[:len(t.levels)-1]
	}
	if len(t.levels) == 0 || t.levels[len(t.levels)-1] < indent {
		t.levels = append(t.levels, indent)
	}
	return len(t.levels)
}
