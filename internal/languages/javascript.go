package languages

import (
	"regexp"
	"strings"

	"gohowmany/internal/model"
)

var (
	jsFunction   = regexp.MustCompile(`^(?:export\s+)?(?:default\s+)?(?:declare\s+)?(?:async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)\s*[<(]`)
	jsAssigned   = regexp.MustCompile(`^(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*(?::[^=]+)?=\s*(?:async\s+)?(?:function\b|\([^()]*\)\s*(?::\s*[^=]+)?=>|[A-Za-z_$][\w$]*\s*=>)`)
	jsObjectProp = regexp.MustCompile(`^([A-Za-z_$][\w$]*)\s*:\s*(?:async\s+)?(?:function\b|\([^()]*\)\s*=>)`)
	jsMethod     = regexp.MustCompile(`^(?:(?:public|private|protected|static|async|readonly|override|abstract|get|set)\s+)*\*?\s*(#?[A-Za-z_$][\w$]*)\s*(?:<[^>]*>)?\s*\([^;]*\)\s*(?::\s*[^{;=]+)?\{$`)
	jsStructure  = regexp.MustCompile(`^(?:export\s+)?(?:default\s+)?(?:declare\s+)?(?:abstract\s+)?(?:const\s+)?(class|interface|enum|namespace|module)\s+([A-Za-z_$][\w$.]*)`)
	jsLocal      = regexp.MustCompile(`^(?:const|let|var)\s`)
	jsField      = regexp.MustCompile(`^(?:(?:public|private|protected|static|readonly|declare|override)\s+)*#?[A-Za-z_$][\w$]*[?!]?\s*(?::[^=(]+)?(?:=[^=>].*)?;?$`)
)

func javascriptGrammar() *grammar {
	return &grammar{
		name:       "JavaScript",
		extensions: []string{"js", "jsx", "ts", "tsx", "mjs", "cjs"},
		declare:    jsDeclare,
		method: func(signature string, _ bool) bool {
			return !strings.Contains(signature, "function") && jsMethod.MatchString(signature)
		},
		visibility: func(signature string) model.Visibility {
			switch {
			case strings.HasPrefix(signature, "#") || strings.HasPrefix(signature, "private ") || strings.Contains(signature, " #"):
				return model.VisibilityPrivate
			case strings.HasPrefix(signature, "protected "):
				return model.VisibilityProtected
			}
			return ""
		},
		bodyMarker: "{",
		branches:   []string{"if", "for", "while", "case", "catch", "&&", "||", " ? "},
		flat:       []string{"else", "finally", "throw", "case"},
		extras: []extra{
			{token: "await", weight: 1},
			{token: "async", weight: 1},
			{token: "yield", weight: 2},
			{token: "?.", weight: 1},
			{token: "??", weight: 1},
			{token: ".then(", weight: 1},
			{token: ".map(", weight: 1},
			{token: ".filter(", weight: 1},
			{token: ".reduce(", weight: 1},
		},
		returns:    []string{"return"},
		exceptions: []string{"try", "catch", "finally", "throw"},
		locals:     jsLocal,
		structure: func(trimmed string) (structureDecl, bool) {
			match := jsStructure.FindStringSubmatch(trimmed)
			if match == nil {
				return structureDecl{}, false
			}
			kinds := map[string]model.StructureType{
				"class":     model.StructureClass,
				"interface": model.StructureInterface,
				"enum":      model.StructureEnum,
				"namespace": model.StructureNamespace,
				"module":    model.StructureModule,
			}
			return structureDecl{name: match[2], kind: kinds[match[1]]}, true
		},
		inheritance: func(signature string) int {
			return countInheritance(signature, []string{"extends", "implements"}, []string{"{"})
		},
		property: func(trimmed string, kind model.StructureType) bool {
			if kind == model.StructureEnum || kind == model.StructureNamespace || kind == model.StructureModule {
				return false
			}
			return trimmed != "}" && jsField.MatchString(trimmed) && !hasAnyPrefix(trimmed, "return", "break", "continue")
		},
	}
}

func jsDeclare(trimmed string) (string, bool) {
	for _, re := range []*regexp.Regexp{jsFunction, jsAssigned, jsObjectProp} {
		if name, ok := submatch(re, trimmed); ok {
			return name, true
		}
	}
	name, ok := submatch(jsMethod, trimmed)
	if !ok || contains(cFamilyControl, name) || name == "function" {
		return "", false
	}
	return name, true
}
