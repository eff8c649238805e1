package languages

import (
	"regexp"
	"strings"

	"gohowmany/internal/model"
)

const swiftModifiers = `(?:(?:public|private|fileprivate|internal|open|static|class|final|override|mutating|nonmutating|convenience|required|dynamic|nonisolated|lazy|weak|unowned|indirect|@\w+(?:\([^)]*\))?)\s+)*`

var (
	swiftFunction    = regexp.MustCompile(`^` + swiftModifiers + `func\s+([A-Za-z_]\w*)`)
	swiftInitializer = regexp.MustCompile(`^` + swiftModifiers + `(init|deinit|subscript)\b`)
	swiftStructure   = regexp.MustCompile(`^` + swiftModifiers + `(class|actor|extension|struct|protocol|enum)\s+([A-Za-z_][\w.]*)`)
	swiftProperty    = regexp.MustCompile(`^` + swiftModifiers + `(?:let|var)\s`)
	swiftLocal       = regexp.MustCompile(`^(?:let|var)\s`)
)

func swiftGrammar() *grammar {
	return &grammar{
		name:       "Swift",
		extensions: []string{"swift"},
		declare: func(trimmed string) (string, bool) {
			if name, ok := submatch(swiftFunction, trimmed); ok {
				return name, true
			}
			return submatch(swiftInitializer, trimmed)
		},
		defaultVisibility: model.VisibilityInternal,
		method: func(signature string, indented bool) bool {
			return indented && indexToken(signature, "static") < 0 && indexToken(signature, "class") < 0
		},
		visibility: func(signature string) model.Visibility {
			switch {
			case indexToken(signature, "private") >= 0 || indexToken(signature, "fileprivate") >= 0:
				return model.VisibilityPrivate
			case indexToken(signature, "public") >= 0 || indexToken(signature, "open") >= 0:
				return model.VisibilityPublic
			case indexToken(signature, "internal") >= 0:
				return model.VisibilityInternal
			}
			return ""
		},
		bodyMarker: "{",
		branches:   []string{"if", "guard", "for", "while", "repeat", "case", "catch", "&&", "||", " ? "},
		flat:       []string{"else", "case"},
		extras: []extra{
			{token: "??", weight: 1},
			{token: "?.", weight: 1},
			{token: "try?", weight: 1},
			{token: "try!", weight: 1},
			{token: "await", weight: 1},
			{token: "async", weight: 1},
			{token: "defer", weight: 1},
		},
		returns:    []string{"return"},
		exceptions: []string{"do", "try", "catch", "throw", "throws", "rethrows"},
		locals:     swiftLocal,
		structure: func(trimmed string) (structureDecl, bool) {
			match := swiftStructure.FindStringSubmatch(trimmed)
			if match == nil || contains([]string{"func", "var", "let"}, match[2]) {
				return structureDecl{}, false
			}
			kinds := map[string]model.StructureType{
				"class":     model.StructureClass,
				"actor":     model.StructureClass,
				"extension": model.StructureClass,
				"struct":    model.StructureStruct,
				"protocol":  model.StructureInterface,
				"enum":      model.StructureEnum,
			}
			decl := structureDecl{name: match[2], kind: kinds[match[1]]}
			if strings.Contains(trimmed, "private ") {
				decl.visibility = model.VisibilityPrivate
			} else if indexToken(trimmed, "public") >= 0 || indexToken(trimmed, "open") >= 0 {
				decl.visibility = model.VisibilityPublic
			}
			return decl, true
		},
		inheritance: func(signature string) int {
			return countInheritance(signature, []string{":"}, []string{"where", "{"})
		},
		property: func(trimmed string, _ model.StructureType) bool {
			return swiftProperty.MatchString(trimmed)
		},
	}
}
