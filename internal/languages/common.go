package languages

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CountParameters 统计签名中第一个 '(' 与其匹配的 ')' 之间的参数个数。
//
// 约束说明：
// - ()、<>、{}、[] 分别维护独立深度，只有四者都为 0 时的逗号才是参数分隔符
// - 双引号与反引号字符串内的逗号不计入
// - "->" / "=>" 中的 '>' 不会被当作泛型闭合
// - 参数列表为空或只有空白时返回 0；末尾多余的逗号不会多计一个参数
func CountParameters(signature string) int {
	open := strings.IndexByte(signature, '(')
	if open < 0 {
		return 0
	}

	var paren, angle, brace, bracket int
	var quote rune
	escaped := false
	segments := 0
	segmentHasContent := false
	previous := rune(0)

loop:
	for _, r := range signature[open+1:] {
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == quote:
				quote = 0
			}
			previous = r
			continue
		}

		switch r {
		case '"', '`':
			quote = r
		case '(':
			paren++
		case ')':
			if paren == 0 {
				break loop
			}
			paren--
		case '<':
			angle++
		case '>':
			if angle > 0 && previous != '-' && previous != '=' {
				angle--
			}
		case '{':
			brace++
		case '}':
			if brace > 0 {
				brace--
			}
		case '[':
			bracket++
		case ']':
			if bracket > 0 {
				bracket--
			}
		case ',':
			if paren == 0 && angle == 0 && brace == 0 && bracket == 0 {
				if segmentHasContent {
					segments++
				}
				segmentHasContent = false
				previous = r
				continue
			}
		}

		if !unicode.IsSpace(r) {
			segmentHasContent = true
		}
		previous = r
	}

	if segmentHasContent {
		segments++
	}
	return segments
}

// afterName 返回签名中函数名之后（跳过泛型参数）的部分，用于定位真正的参数列表。
// 找不到函数名时返回原签名。
func afterName(signature string, name string) string {
	if name == "" {
		return signature
	}
	for offset := 0; offset < len(signature); {
		index := strings.Index(signature[offset:], name)
		if index < 0 {
			break
		}
		start := offset + index
		end := start + len(name)
		offset = end
		if !isWordAt(signature, start, end) {
			continue
		}

		rest := strings.TrimLeft(signature[end:], " \t")
		if strings.HasPrefix(rest, "<") || strings.HasPrefix(rest, "[") {
			rest = skipBalanced(rest)
			rest = strings.TrimLeft(rest, " \t")
		}
		if strings.HasPrefix(rest, "(") {
			return rest
		}
	}
	return signature
}

// skipBalanced 跳过开头成对的 <...> 或 [...]。
func skipBalanced(text string) string {
	open := text[0]
	closer := byte('>')
	if open == '[' {
		closer = ']'
	}
	depth := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return text[i+1:]
			}
		}
	}
	return text
}

// afterMarker 返回第一个位于括号之外的 marker 之后的文本，没有则返回空串。
func afterMarker(code string, marker string) string {
	depth := 0
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case '(', '[':
			depth++
			continue
		case ')', ']':
			if depth > 0 {
				depth--
			}
			continue
		}
		if depth == 0 && strings.HasPrefix(code[i:], marker) {
			// "==" / "=>" / ">=" 不是赋值号
			if marker == "=" && (strings.HasPrefix(code[i:], "==") || strings.HasPrefix(code[i:], "=>") ||
				(i > 0 && strings.ContainsRune("=!<>:+-*/", rune(code[i-1])))) {
				continue
			}
			return code[i+len(marker):]
		}
	}
	return ""
}

// countTokens 统计一组记号在代码中出现的总次数。
func countTokens(code string, tokens []string) int {
	total := 0
	for _, token := range tokens {
		total += countToken(code, token)
	}
	return total
}

// countToken 统计单个记号出现次数。
// 纯标识符记号按整词匹配，其余记号（&&、?.、.map( 等）按子串匹配。
func countToken(code string, token string) int {
	if token == "" {
		return 0
	}
	if !isIdentifier(token) {
		return strings.Count(code, token)
	}

	count := 0
	for offset := 0; offset < len(code); {
		index := strings.Index(code[offset:], token)
		if index < 0 {
			break
		}
		start := offset + index
		end := start + len(token)
		if isWordAt(code, start, end) {
			count++
		}
		offset = end
	}
	return count
}

func hasAnyToken(code string, tokens []string) bool {
	for _, token := range tokens {
		if countToken(code, token) > 0 {
			return true
		}
	}
	return false
}

// isWordAt 判断 text[start:end] 两侧是否为单词边界。
func isWordAt(text string, start int, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isIdentRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isIdentRune(r) {
			return false
		}
	}
	return true
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isIdentifier(text string) bool {
	for _, r := range text {
		if !isIdentRune(r) {
			return false
		}
	}
	return text != ""
}

func hasAnyPrefix(text string, prefixes ...string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}
	return false
}

// hasRecursiveCall 判断代码中是否包含对 name 的调用。
func hasRecursiveCall(code string, name string, style recursionStyle) bool {
	if name == "" || code == "" {
		return false
	}
	// 限定名（Class.method / obj:method）只取最后一段
	if index := strings.LastIndexAny(name, ".:"); index >= 0 && index+1 < len(name) {
		name = name[index+1:]
	}

	for offset := 0; offset < len(code); {
		index := strings.Index(code[offset:], name)
		if index < 0 {
			return false
		}
		start := offset + index
		end := start + len(name)
		offset = end
		if !isWordAt(code, start, end) {
			continue
		}

		switch style {
		case recurseWord:
			return true
		case recurseLisp:
			if start > 0 && code[start-1] == '(' {
				return true
			}
		default:
			if nextNonSpace(code, end) == '(' {
				return true
			}
		}
	}
	return false
}

// countInheritance 在签名中定位继承标记，统计其后逗号分隔的条目数。
// 遇到 stops 中的任一标记（where、'{' 等）即截断。
func countInheritance(signature string, markers []string, stops []string) int {
	position := -1
	length := 0
	for _, marker := range markers {
		index := indexOutsideParens(signature, marker)
		if index >= 0 && (position < 0 || index < position) {
			position = index
			length = len(marker)
		}
	}
	if position < 0 {
		return 0
	}

	clause := signature[position+length:]
	for _, stop := range stops {
		if index := indexToken(clause, stop); index >= 0 {
			clause = clause[:index]
		}
	}
	// 后续的 implements/with 也是继承条目，统一换成逗号
	for _, marker := range markers {
		if isIdentifier(marker) {
			clause = replaceWord(clause, marker, ",")
		}
	}

	count := 0
	depth := 0
	hasContent := false
	for _, r := range clause {
		switch r {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				if hasContent {
					count++
				}
				hasContent = false
				continue
			}
		}
		if depth == 0 && isIdentRune(r) {
			hasContent = true
		}
	}
	if hasContent {
		count++
	}
	return count
}

// indexToken 查找记号位置，标识符记号要求整词匹配。
func indexToken(text string, token string) int {
	if !isIdentifier(token) {
		return strings.Index(text, token)
	}
	for offset := 0; offset < len(text); {
		index := strings.Index(text[offset:], token)
		if index < 0 {
			return -1
		}
		start := offset + index
		if isWordAt(text, start, start+len(token)) {
			return start
		}
		offset = start + len(token)
	}
	return -1
}

// indexOutsideParens 与 indexToken 相同，但忽略圆括号内的匹配（主构造函数参数中的 ':' 等）。
func indexOutsideParens(text string, token string) int {
	depth := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
			continue
		case ')':
			if depth > 0 {
				depth--
			}
			continue
		}
		if depth > 0 || !strings.HasPrefix(text[i:], token) {
			continue
		}
		if isIdentifier(token) && !isWordAt(text, i, i+len(token)) {
			continue
		}
		// 单独的 ':' 不匹配 "::"
		if token == ":" && (strings.HasPrefix(text[i:], "::") || (i > 0 && text[i-1] == ':')) {
			continue
		}
		return i
	}
	return -1
}

func replaceWord(text string, word string, replacement string) string {
	var builder strings.Builder
	for {
		index := indexToken(text, word)
		if index < 0 {
			builder.WriteString(text)
			return builder.String()
		}
		builder.WriteString(text[:index])
		builder.WriteString(replacement)
		text = text[index+len(word):]
	}
}

// submatch 返回正则第一个捕获组。
func submatch(re *regexp.Regexp, text string) (string, bool) {
	match := re.FindStringSubmatch(text)
	if match == nil || len(match) < 2 || match[1] == "" {
		return "", false
	}
	return match[1], true
}

// declareBy 用正则构造声明谓词，排除 excluded 中的名称（多为控制流关键字）。
func declareBy(re *regexp.Regexp, excluded ...string) func(string) (string, bool) {
	return func(trimmed string) (string, bool) {
		name, ok := submatch(re, trimmed)
		if !ok || contains(excluded, name) {
			return "", false
		}
		return name, true
	}
}

// firstWordAfter 返回 keyword 之后的第一个标识符。
func firstWordAfter(text string, keyword string) string {
	index := indexToken(text, keyword)
	if index < 0 {
		return ""
	}
	rest := strings.TrimLeft(text[index+len(keyword):], " \t")
	end := 0
	for end < len(rest) {
		r, size := utf8.DecodeRuneInString(rest[end:])
		if !isIdentRune(r) && r != '.' && r != ':' {
			break
		}
		end += size
	}
	return strings.Trim(rest[:end], ".:")
}

// cFamilyControl 是容易被误判为函数声明的 C 系控制流关键字。
var cFamilyControl = []string{
	"if", "for", "while", "switch", "catch", "return", "sizeof", "new", "else", "do",
	"foreach", "using", "lock", "fixed", "typeof", "nameof", "when", "synchronized",
	"throw", "case", "delete", "await", "yield", "defined",
}
