package classifier

import "strings"

// classifyMarkdown 处理 Markdown：
// - ``` / ~~~ 围栏代码块与缩进代码块计为 code
// - <!-- --> 计为 comment
// - 其余非空正文计为 doc
func classifyMarkdown(lines []string) []Line {
	result := make([]Line, 0, len(lines))
	fenceMarker := ""
	inHTMLComment := false
	inIndented := false
	previousBlank := true

	for _, raw := range lines {
		text := normalizeLine(raw)
		trimmed := strings.TrimSpace(text)
		indented := strings.HasPrefix(text, "    ") || strings.HasPrefix(text, "\t")

		if trimmed == "" {
			result = append(result, Line{Kind: KindBlank, Text: text})
			previousBlank = true
			continue
		}

		kind := KindDoc
		stillIndented := false
		switch {
		case inHTMLComment:
			inHTMLComment = !strings.Contains(trimmed, "-->")
			kind = KindComment

		case fenceMarker == "" && strings.HasPrefix(trimmed, "<!--"):
			inHTMLComment = !strings.Contains(trimmed[4:], "-->")
			kind = KindComment

		case fenceMarker != "":
			// 关闭围栏必须与开启围栏使用同一种符号。
			if strings.HasPrefix(trimmed, fenceMarker) {
				fenceMarker = ""
			}
			kind = KindCode

		case strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~"):
			fenceMarker = trimmed[:3]
			kind = KindCode

		// 缩进代码块必须跟在空行之后，否则只是段落或列表项的续行。
		case indented && (previousBlank || inIndented):
			kind = KindCode
			stillIndented = true
		}

		inIndented = stillIndented
		previousBlank = false

		line := Line{Kind: kind, Text: text}
		if kind == KindCode {
			line.Code = text
		}
		result = append(result, line)
	}

	return result
}
