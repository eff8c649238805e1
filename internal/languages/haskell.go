package languages

import (
	"regexp"
	"strings"

	"gohowmany/internal/model"
)

var (
	haskellSignature = regexp.MustCompile(`^([a-z_][\w']*)\s*::`)
	haskellEquation  = regexp.MustCompile(`^([a-z_][\w']*)((?:\s+[^=|\s]+)*)\s*(?:=|\|)`)
	haskellStructure = regexp.MustCompile(`^(module|data|newtype|type|class)\s+(?:\([^)]*\)\s*=>\s*|[A-Z][\w']*\s+[a-z]\w*\s*=>\s*)?([A-Z][\w.']*)`)
	haskellLocal     = regexp.MustCompile(`^(?:let|where)\s`)
	haskellField     = regexp.MustCompile(`^[{,]\s*[a-z_][\w']*(?:\s*,\s*[a-z_][\w']*)*\s*::`)
)

var haskellKeywords = []string{
	"module", "import", "data", "type", "newtype", "class", "instance", "where", "let", "in",
	"if", "then", "else", "case", "of", "do", "deriving", "infixl", "infixr", "infix", "default", "foreign",
}

func haskellGrammar() *grammar {
	return &grammar{
		name:       "Haskell",
		extensions: []string{"hs", "lhs"},
		layout:     layoutIndent,
		declare: func(trimmed string) (string, bool) {
			for _, re := range []*regexp.Regexp{haskellSignature, haskellEquation} {
				if name, ok := submatch(re, trimmed); ok && !contains(haskellKeywords, name) {
					return name, true
				}
			}
			return "", false
		},
		sameUnit: func(name string, trimmed string) bool {
			return hasAnyPrefix(trimmed, name+" ", name+"::")
		},
		continues: func(trimmed string) bool {
			return hasAnyPrefix(trimmed, "|", "where", "=", "->", "=>", ",", ")", "deriving")
		},
		params:     haskellParams,
		bodyMarker: "=",
		recursion:  recurseWord,
		guard:      "|",
		branches:   []string{"if", "case", "&&", "||"},
		flat:       []string{"else"},
		extras: []extra{
			{token: ">>=", weight: 1},
			{token: "<$>", weight: 1},
			{token: "<*>", weight: 1},
			{token: "do", weight: 1},
			{token: `\`, weight: 1},
			{token: "unsafePerformIO", weight: 3},
		},
		exceptions: []string{"catch", "throw", "throwIO", "error", "handle", "bracket"},
		locals:     haskellLocal,
		structure: func(trimmed string) (structureDecl, bool) {
			match := haskellStructure.FindStringSubmatch(trimmed)
			if match == nil {
				return structureDecl{}, false
			}
			kinds := map[string]model.StructureType{
				"module":  model.StructureModule,
				"data":    model.StructureClass,
				"newtype": model.StructureStruct,
				"type":    model.StructureStruct,
				"class":   model.StructureInterface,
			}
			return structureDecl{name: match[2], kind: kinds[match[1]], wholeFile: match[1] == "module"}, true
		},
		inheritance: func(signature string) int {
			index := strings.Index(signature, "=>")
			if index < 0 || !strings.HasPrefix(signature, "class") {
				return 0
			}
			context := strings.Trim(strings.TrimSpace(strings.TrimPrefix(signature[:index], "class")), "()")
			if context == "" {
				return 0
			}
			return strings.Count(context, ",") + 1
		},
		property: func(trimmed string, kind model.StructureType) bool {
			return kind != model.StructureModule && haskellField.MatchString(trimmed)
		},
	}
}

// haskellParams 有类型签名时按 "->" 个数计参数，否则统计方程左侧的参数模式。
func haskellParams(signature string, name string) int {
	if index := strings.Index(signature, "::"); index >= 0 {
		typ := signature[index+2:]
		if context := strings.Index(typ, "=>"); context >= 0 {
			typ = typ[context+2:]
		}
		// 括号内的函数类型是单个参数
		depth, count := 0, 0
		for i := 0; i < len(typ); i++ {
			switch typ[i] {
			case '(', '[':
				depth++
			case ')', ']':
				depth--
			case '-':
				if depth == 0 && i+1 < len(typ) && typ[i+1] == '>' {
					count++
				}
			}
		}
		return count
	}
	match := haskellEquation.FindStringSubmatch(signature)
	if match == nil {
		return 0
	}
	return len(strings.Fields(match[2]))
}
