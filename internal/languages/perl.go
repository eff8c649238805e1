package languages

import (
	"regexp"
	"strings"

	"gohowmany/internal/model"
)

var (
	perlFunction = regexp.MustCompile(`^sub\s+([\w:]+)`)
	perlPackage  = regexp.MustCompile(`^package\s+([\w:]+)`)
	perlLocal    = regexp.MustCompile(`^(?:my|our|local|state)\s`)
	perlProperty = regexp.MustCompile(`^(?:our\s|has\s+['"]?\w)`)
)

func perlGrammar() *grammar {
	return &grammar{
		name:         "Perl",
		extensions:   []string{"pl", "pm", "perl"},
		declare:      declareBy(perlFunction),
		skipBodyless: true,
		method: func(signature string, _ bool) bool {
			return strings.Contains(signature, "$self") || strings.Contains(signature, "shift")
		},
		visibility: func(signature string) model.Visibility {
			name, _ := submatch(perlFunction, signature)
			if index := strings.LastIndex(name, "::"); index >= 0 {
				name = name[index+2:]
			}
			if strings.HasPrefix(name, "_") {
				return model.VisibilityPrivate
			}
			return model.VisibilityPublic
		},
		bodyMarker: "{",
		branches:   []string{"if", "elsif", "unless", "while", "until", "for", "foreach", "&&", "||", "and", "or", " ? "},
		flat:       []string{"else"},
		extras: []extra{
			{token: "eval", weight: 3},
			{token: "goto", weight: 2},
			{token: "=~", weight: 1},
		},
		returns:    []string{"return"},
		exceptions: []string{"eval", "die", "croak", "confess"},
		locals:     perlLocal,
		structure: func(trimmed string) (structureDecl, bool) {
			name, ok := submatch(perlPackage, trimmed)
			if !ok {
				return structureDecl{}, false
			}
			// package Foo; 作用到文件末尾或下一个 package；package Foo { ... } 是块作用域
			return structureDecl{name: name, kind: model.StructureClass, wholeFile: !strings.Contains(trimmed, "{")}, true
		},
		property: func(trimmed string, _ model.StructureType) bool {
			return perlProperty.MatchString(trimmed)
		},
	}
}
