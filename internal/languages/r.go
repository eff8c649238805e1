package languages

import (
	"regexp"
	"strings"

	"gohowmany/internal/model"
)

var (
	rFunction  = regexp.MustCompile(`^([A-Za-z._][\w.]*)\s*(?:<<?-|=)\s*(?:function\s*\(|\\\()`)
	rClass     = regexp.MustCompile(`^([A-Za-z._][\w.]*)\s*(?:<<?-|=)\s*(setRefClass|R6Class|setClass)\s*\(`)
	rLocal     = regexp.MustCompile(`^[A-Za-z._][\w.]*\s*(?:<<?-|=[^=])`)
	rProperty  = regexp.MustCompile(`^[A-Za-z_][\w.]*\s*=\s*(?:"|'|NULL|TRUE|FALSE|NA|-?\d|[\w.]+\()`)
	rInherited = regexp.MustCompile(`\b(?:contains|inherit)\s*=`)
)

func rGrammar() *grammar {
	return &grammar{
		name:           "R",
		extensions:     []string{"r"},
		structureScope: braceScope{open: '(', close: ')'},
		declare:        declareBy(rFunction),
		params: func(signature string, _ string) int {
			// 名称后面是赋值号，参数列表从 function( 开始
			return CountParameters(signature)
		},
		method: func(_ string, indented bool) bool {
			return indented
		},
		visibility: func(signature string) model.Visibility {
			if strings.HasPrefix(signature, ".") {
				return model.VisibilityPrivate
			}
			return model.VisibilityPublic
		},
		bodyMarker: "{",
		branches:   []string{"if", "for", "while", "repeat", "switch", "&&", "||"},
		flat:       []string{"else"},
		extras: []extra{
			{token: "sapply(", weight: 1},
			{token: "lapply(", weight: 1},
			{token: "vapply(", weight: 1},
			{token: "mapply(", weight: 1},
			{token: "apply(", weight: 1},
			{token: "Map(", weight: 1},
			{token: "Reduce(", weight: 1},
			{token: "Filter(", weight: 1},
			{token: "%>%", weight: 1},
			{token: "|>", weight: 1},
		},
		returns:    []string{"return"},
		exceptions: []string{"tryCatch", "try", "stop", "warning", "finally"},
		locals:     rLocal,
		structure: func(trimmed string) (structureDecl, bool) {
			name, ok := submatch(rClass, trimmed)
			if !ok {
				return structureDecl{}, false
			}
			return structureDecl{name: name, kind: model.StructureClass}, true
		},
		inheritance: func(signature string) int {
			return len(rInherited.FindAllStringIndex(signature, -1))
		},
		property: func(trimmed string, _ model.StructureType) bool {
			return rProperty.MatchString(trimmed) && !strings.Contains(trimmed, "function")
		},
	}
}
