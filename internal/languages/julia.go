package languages

import (
	"regexp"
	"strings"

	"gohowmany/internal/model"
)

var (
	juliaFunction  = regexp.MustCompile(`^(?:function|macro)\s+(?:[\w.]+\.)?([A-Za-z_]\w*!?)`)
	juliaShortForm = regexp.MustCompile(`^([A-Za-z_]\w*!?)\s*(?:\{[^}]*\})?\s*\((?:[^()]|\([^()]*\))*\)\s*(?:::\s*[\w{}.]+\s*)?(?:where\s+.*)?=[^=]`)
	juliaStructure = regexp.MustCompile(`^(?:(mutable\s+struct|struct)|(abstract\s+type)|(primitive\s+type)|(module|baremodule))\s+([A-Za-z_]\w*)`)
	juliaLocal     = regexp.MustCompile(`^(?:local\s+)?[a-z_]\w*(?:::\S+)?\s*=[^=]`)
	juliaField     = regexp.MustCompile(`^[a-z_]\w*(?:\s*::\s*\S+)?$`)
)

func juliaGrammar() *grammar {
	return &grammar{
		name:       "Julia",
		extensions: []string{"jl"},
		scope: keywordScope{
			lead:         []string{"if", "for", "while", "let", "quote", "try", "struct", "mutable", "module", "baremodule", "macro", "abstract", "primitive"},
			inline:       []string{"function", "do", "begin"},
			closers:      []string{"end"},
			bracketAware: true,
		},
		declare: func(trimmed string) (string, bool) {
			if name, ok := submatch(juliaFunction, trimmed); ok {
				return name, true
			}
			return declareBy(juliaShortForm, "if", "for", "while", "return")(trimmed)
		},
		oneLiner: func(signature string) bool {
			return !hasAnyPrefix(signature, "function", "macro") && expressionBody(signature, "=")
		},
		bodyless: func(signature string) bool {
			// function f end 是只声明不定义的泛型函数
			return strings.HasPrefix(signature, "function") && !strings.Contains(signature, "(")
		},
		branches: []string{"if", "elseif", "for", "while", "catch", "&&", "||", " ? "},
		flat:     []string{"else", "finally"},
		extras: []extra{
			{token: "@async", weight: 1},
			{token: "@spawn", weight: 1},
			{token: "@threads", weight: 1},
			{token: "@generated", weight: 2},
			{token: "eval", weight: 3},
		},
		returns:    []string{"return"},
		exceptions: []string{"try", "catch", "finally", "throw", "error", "rethrow"},
		locals:     juliaLocal,
		structure: func(trimmed string) (structureDecl, bool) {
			match := juliaStructure.FindStringSubmatch(trimmed)
			if match == nil {
				return structureDecl{}, false
			}
			decl := structureDecl{name: match[5]}
			switch {
			case match[1] != "", match[3] != "":
				decl.kind = model.StructureStruct
			case match[2] != "":
				decl.kind = model.StructureInterface
			default:
				decl.kind = model.StructureModule
			}
			return decl, true
		},
		inheritance: func(signature string) int {
			if strings.Contains(signature, "<:") {
				return 1
			}
			return 0
		},
		property: func(trimmed string, kind model.StructureType) bool {
			return kind == model.StructureStruct && juliaField.MatchString(trimmed) && trimmed != "end"
		},
	}
}
