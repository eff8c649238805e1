package languages

import (
	"regexp"
	"strings"

	"gohowmany/internal/model"
)

const kotlinModifiers = `(?:(?:public|private|protected|internal|override|open|abstract|final|suspend|inline|infix|operator|tailrec|external|actual|expect|data|sealed|inner|enum|annotation|value|const|lateinit|@\w+(?:\([^)]*\))?)\s+)*`

var (
	kotlinFunction  = regexp.MustCompile(`^` + kotlinModifiers + `fun\s+(?:<[^>]*>\s*)?(?:([\w.<>?]+)\.)?([A-Za-z_]\w*)\s*\(`)
	kotlinStructure = regexp.MustCompile(`^` + kotlinModifiers + `(fun\s+interface|class|interface|object)\s+([A-Za-z_]\w*)`)
	kotlinCompanion = regexp.MustCompile(`^` + kotlinModifiers + `companion\s+object\b\s*([A-Za-z_]\w*)?`)
	kotlinProperty  = regexp.MustCompile(`^` + kotlinModifiers + `(?:val|var)\s`)
	kotlinLocal     = regexp.MustCompile(`^(?:val|var)\s`)
)

func kotlinGrammar() *grammar {
	return &grammar{
		name:       "Kotlin",
		extensions: []string{"kt", "kts"},
		declare: func(trimmed string) (string, bool) {
			match := kotlinFunction.FindStringSubmatch(trimmed)
			if match == nil {
				return "", false
			}
			return match[2], true
		},
		oneLiner: func(signature string) bool {
			return expressionBody(signature, "=")
		},
		method: func(signature string, indented bool) bool {
			match := kotlinFunction.FindStringSubmatch(signature)
			return indented && (match == nil || match[1] == "")
		},
		visibility: modifierVisibility,
		bodyMarker: "{",
		branches:   []string{"if", "for", "while", "when", "catch", "&&", "||"},
		flat:       []string{"else"},
		extras: []extra{
			{token: "?.", weight: 1},
			{token: "?:", weight: 1},
			{token: "!!", weight: 1},
			{token: "suspend", weight: 1},
			{token: "launch", weight: 1},
			{token: "async", weight: 1},
			{token: ".let", weight: 1},
			{token: ".also", weight: 1},
			{token: ".apply", weight: 1},
			{token: ".run", weight: 1},
		},
		returns:    []string{"return"},
		exceptions: []string{"try", "catch", "finally", "throw"},
		locals:     kotlinLocal,
		structure: func(trimmed string) (structureDecl, bool) {
			if match := kotlinCompanion.FindStringSubmatch(trimmed); match != nil {
				name := match[1]
				if name == "" {
					name = "Companion"
				}
				return structureDecl{name: name, kind: model.StructureClass}, true
			}
			match := kotlinStructure.FindStringSubmatch(trimmed)
			if match == nil {
				return structureDecl{}, false
			}
			decl := structureDecl{name: match[2], kind: model.StructureClass, visibility: modifierVisibility(trimmed)}
			switch {
			case strings.HasSuffix(match[1], "interface"):
				decl.kind = model.StructureInterface
			case indexToken(trimmed[:strings.Index(trimmed, match[1])], "enum") >= 0:
				decl.kind = model.StructureEnum
			}
			return decl, true
		},
		inheritance: func(signature string) int {
			return countInheritance(signature, []string{":"}, []string{"where", "{"})
		},
		property: func(trimmed string, kind model.StructureType) bool {
			return kind != model.StructureEnum && kotlinProperty.MatchString(trimmed)
		},
	}
}

// expressionBody 判断签名是否为 "= expr" / "=> expr" 形式的单表达式函数：
// 标记位于括号之外、其后有内容、并且之前没有出现 '{'。
func expressionBody(signature string, marker string) bool {
	rest := afterMarker(signature, marker)
	if strings.TrimSpace(rest) == "" {
		return false
	}
	head := signature[:len(signature)-len(rest)-len(marker)]
	return !strings.Contains(head, "{")
}
