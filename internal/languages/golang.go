package languages

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"gohowmany/internal/model"
)

var (
	goFunction  = regexp.MustCompile(`^func\s*(?:\([^)]*\)\s*)?([A-Za-z_]\w*)\s*(?:\[[^\]]*\])?\s*\(`)
	goReceiver  = regexp.MustCompile(`^func\s*\(`)
	goStructure = regexp.MustCompile(`^type\s+([A-Za-z_]\w*)\s*(?:\[[^\]]*\])?\s+(struct|interface)\b`)
	goLocal     = regexp.MustCompile(`^(?:var\s|[A-Za-z_]\w*(?:\s*,\s*[A-Za-z_]\w*)*\s*:=)`)
	goField     = regexp.MustCompile(`^[A-Za-z_]\w*(?:\s*,\s*[A-Za-z_]\w*)*\s+[\[\]*\w.{}<-]`)
)

func goGrammar() *grammar {
	return &grammar{
		name:       "Go",
		extensions: []string{"go"},
		declare:    declareBy(goFunction),
		method: func(signature string, _ bool) bool {
			return goReceiver.MatchString(signature)
		},
		visibility: func(signature string) model.Visibility {
			name, _ := submatch(goFunction, signature)
			return goNameVisibility(name)
		},
		bodyMarker: "{",
		branches:   []string{"if", "for", "case", "&&", "||"},
		flat:       []string{"else", "case"},
		extras: []extra{
			{token: "go", weight: 1},
			{token: "defer", weight: 1},
			{token: "goto", weight: 2},
			{token: "select", weight: 1},
		},
		returns:    []string{"return"},
		exceptions: []string{"panic", "recover", "err != nil", "errors.New", "fmt.Errorf"},
		locals:     goLocal,
		structure: func(trimmed string) (structureDecl, bool) {
			match := goStructure.FindStringSubmatch(trimmed)
			if match == nil {
				return structureDecl{}, false
			}
			kind := model.StructureStruct
			if match[2] == "interface" {
				kind = model.StructureInterface
			}
			return structureDecl{name: match[1], kind: kind, visibility: goNameVisibility(match[1])}, true
		},
		inheritance: func(string) int { return 0 },
		property: func(trimmed string, kind model.StructureType) bool {
			return kind == model.StructureStruct && goField.MatchString(trimmed)
		},
	}
}

// goNameVisibility 按首字母大小写判断导出性。
func goNameVisibility(name string) model.Visibility {
	r, _ := utf8.DecodeRuneInString(name)
	switch {
	case name == "":
		return ""
	case unicode.IsUpper(r):
		return model.VisibilityPublic
	}
	return model.VisibilityPrivate
}
