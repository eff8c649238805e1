package languages

import (
	"regexp"
	"strings"

	"gohowmany/internal/model"
)

var (
	zigFunction  = regexp.MustCompile(`^(?:pub\s+)?(?:export\s+|extern\s+(?:"[^"]*"\s+)?|inline\s+|noinline\s+)?fn\s+([A-Za-z_]\w*)\s*\(`)
	zigSelf      = regexp.MustCompile(`^\(\s*self\b`)
	zigStructure = regexp.MustCompile(`^(?:pub\s+)?const\s+([A-Za-z_]\w*)\s*=\s*(?:extern\s+|packed\s+)?(struct|union|enum|opaque)\b`)
	zigLocal     = regexp.MustCompile(`^(?:var|const)\s`)
	zigField     = regexp.MustCompile(`^[a-z_]\w*\s*:\s*[^=]`)
)

func zigGrammar() *grammar {
	return &grammar{
		name:       "Zig",
		extensions: []string{"zig"},
		declare:    declareBy(zigFunction),
		params: func(signature string, name string) int {
			params := afterName(signature, name)
			count := CountParameters(params)
			if zigSelf.MatchString(params) {
				count--
			}
			return count
		},
		method: func(signature string, _ bool) bool {
			name, _ := submatch(zigFunction, signature)
			return zigSelf.MatchString(afterName(signature, name))
		},
		visibility: func(signature string) model.Visibility {
			if strings.HasPrefix(signature, "pub ") {
				return model.VisibilityPublic
			}
			return model.VisibilityPrivate
		},
		bodyMarker: "{",
		branches:   []string{"if", "while", "for", "catch", "orelse", "and", "or"},
		flat:       []string{"else"},
		extras: []extra{
			{token: "comptime", weight: 1},
			{token: "defer", weight: 1},
			{token: "errdefer", weight: 1},
			{token: "try", weight: 1},
			{token: "unreachable", weight: 1},
			{token: "async", weight: 1},
			{token: "await", weight: 1},
		},
		returns:    []string{"return"},
		exceptions: []string{"try", "catch", "errdefer", "error"},
		locals:     zigLocal,
		structure: func(trimmed string) (structureDecl, bool) {
			match := zigStructure.FindStringSubmatch(trimmed)
			if match == nil {
				return structureDecl{}, false
			}
			decl := structureDecl{name: match[1], kind: model.StructureStruct, visibility: model.VisibilityPrivate}
			if match[2] == "enum" {
				decl.kind = model.StructureEnum
			}
			if strings.HasPrefix(trimmed, "pub ") {
				decl.visibility = model.VisibilityPublic
			}
			return decl, true
		},
		property: func(trimmed string, kind model.StructureType) bool {
			return kind == model.StructureStruct && zigField.MatchString(trimmed)
		},
	}
}
