package languages

import (
	"regexp"
	"strings"

	"gohowmany/internal/model"
)

var (
	dartAnnotation = regexp.MustCompile(`^(?:@\w+(?:\([^)]*\))?\s*)+`)
	dartFunction   = regexp.MustCompile(`^(?:(?:static|external|factory|const|abstract)\s+)*(?:[\w<>?,\[\]]+(?:<[^;]*>)?\??\s+)?([A-Za-z_$][\w$]*(?:\.[A-Za-z_$][\w$]*)?)\s*(?:<[^>]*>)?\s*\(`)
	dartStructure  = regexp.MustCompile(`^(?:(?:abstract|base|interface|final|sealed|mixin)\s+)*(class|mixin|enum|extension)\b\s*([A-Za-z_]\w*)?`)
	dartProperty   = regexp.MustCompile(`^(?:(?:static|final|const|late|var|covariant)\s+)*[\w<>?,\[\]]+\s+[A-Za-z_$][\w$]*\s*(?:=[^=>]|;)`)
	dartLocal      = regexp.MustCompile(`^(?:final|var|const|late|[A-Z]\w*(?:<.*>)?\??|int|double|bool|num)\s+[a-z_]\w*\s*(?:=[^=]|;)`)
)

func dartGrammar() *grammar {
	return &grammar{
		name:       "Dart",
		extensions: []string{"dart"},
		declare:    dartDeclare,
		oneLiner: func(signature string) bool {
			return expressionBody(signature, "=>")
		},
		method: func(signature string, indented bool) bool {
			return indented && indexToken(signature, "static") < 0
		},
		visibility: func(signature string) model.Visibility {
			head := signature
			if paren := strings.IndexByte(head, '('); paren >= 0 {
				head = head[:paren]
			}
			fields := strings.Fields(head)
			if len(fields) > 0 && (strings.HasPrefix(fields[len(fields)-1], "_") || strings.Contains(fields[len(fields)-1], "._")) {
				return model.VisibilityPrivate
			}
			return model.VisibilityPublic
		},
		bodyMarker: "{",
		branches:   []string{"if", "for", "while", "case", "catch", "&&", "||", " ? "},
		flat:       []string{"else", "finally", "case"},
		extras: []extra{
			{token: "await", weight: 1},
			{token: "async", weight: 1},
			{token: "yield", weight: 2},
			{token: "?.", weight: 1},
			{token: "??", weight: 1},
			{token: "..", weight: 1},
		},
		returns:    []string{"return"},
		exceptions: []string{"try", "catch", "finally", "throw", "rethrow", "on"},
		locals:     dartLocal,
		structure: func(trimmed string) (structureDecl, bool) {
			match := dartStructure.FindStringSubmatch(dartAnnotation.ReplaceAllString(trimmed, ""))
			if match == nil {
				return structureDecl{}, false
			}
			name := match[2]
			if name == "" || name == "on" {
				name = match[1]
			}
			kinds := map[string]model.StructureType{
				"class":     model.StructureClass,
				"mixin":     model.StructureInterface,
				"enum":      model.StructureEnum,
				"extension": model.StructureClass,
			}
			decl := structureDecl{name: name, kind: kinds[match[1]], visibility: model.VisibilityPublic}
			if strings.HasPrefix(name, "_") {
				decl.visibility = model.VisibilityPrivate
			}
			return decl, true
		},
		inheritance: func(signature string) int {
			return countInheritance(signature, []string{"extends", "with", "implements", "on"}, []string{"{"})
		},
		property: func(trimmed string, kind model.StructureType) bool {
			return kind != model.StructureEnum && dartProperty.MatchString(trimmed) && !hasAnyPrefix(trimmed, "return ", "throw ")
		},
	}
}

func dartDeclare(trimmed string) (string, bool) {
	trimmed = dartAnnotation.ReplaceAllString(trimmed, "")
	if trimmed == "" || dartStructure.MatchString(trimmed) {
		return "", false
	}
	if hasAnyPrefix(trimmed, "return", "new ", "throw ", "else", "await ", "assert", "case ", "import ", "export ", "part ") {
		return "", false
	}
	if paren := strings.IndexByte(trimmed, '('); paren >= 0 && strings.Contains(trimmed[:paren], "=") {
		return "", false
	}
	// 以 ';' 结尾的只有 => 单表达式成员算定义
	if strings.HasSuffix(trimmed, ";") && !strings.Contains(trimmed, "=>") {
		return "", false
	}
	name, ok := submatch(dartFunction, trimmed)
	if !ok || contains(cFamilyControl, name) {
		return "", false
	}
	return name, true
}
