package languages

import (
	"regexp"
	"strings"

	"gohowmany/internal/model"
)

var (
	javaAnnotation = regexp.MustCompile(`^(?:@[\w.]+(?:\([^)]*\))?\s*)+`)
	javaModified   = regexp.MustCompile(`^(?:(?:public|protected|private|static|final|abstract|synchronized|native|default|strictfp)\s+)+(?:<[^>]*>\s*)?(?:[\w.<>\[\],?]+(?:\s*<[^>]*>)?(?:\[\])*\s+)?([A-Za-z_]\w*)\s*\(`)
	javaTyped      = regexp.MustCompile(`^(?:<[^>]*>\s*)?[\w.]+(?:<[^;]*>)?(?:\[\])*\s+([A-Za-z_]\w*)\s*\([^;]*$`)
	javaStructure  = regexp.MustCompile(`^(?:(?:public|protected|private|static|final|abstract|sealed|non-sealed|strictfp)\s+)*(class|interface|@interface|enum|record)\s+([A-Za-z_]\w*)`)
	javaLocal      = regexp.MustCompile(`^(?:final\s+)?(?:var|[A-Z][\w.]*(?:<.*>)?(?:\[\])*|int|long|double|float|boolean|char|byte|short)\s+[a-z_]\w*\s*(?:=[^=]|;)`)
	javaField      = regexp.MustCompile(`^(?:(?:public|protected|private|static|final|transient|volatile)\s+)*[\w.]+(?:<.*>)?(?:\[\])*\s+[A-Za-z_]\w*\s*(?:=.*)?;$`)
)

func javaGrammar() *grammar {
	return &grammar{
		name:              "Java",
		extensions:        []string{"java"},
		declare:           javaDeclare,
		defaultVisibility: model.VisibilityInternal,
		method: func(signature string, _ bool) bool {
			return indexToken(javaAnnotation.ReplaceAllString(signature, ""), "static") < 0
		},
		visibility: modifierVisibility,
		bodyMarker: "{",
		branches:   []string{"if", "for", "while", "case", "catch", "&&", "||", " ? "},
		flat:       []string{"else", "finally", "case"},
		extras: []extra{
			{token: "->", weight: 1},
			{token: ".stream()", weight: 1},
			{token: ".filter(", weight: 1},
			{token: ".map(", weight: 1},
			{token: "synchronized", weight: 1},
		},
		returns:    []string{"return"},
		exceptions: []string{"try", "catch", "finally", "throw", "throws"},
		locals:     javaLocal,
		structure: func(trimmed string) (structureDecl, bool) {
			match := javaStructure.FindStringSubmatch(javaAnnotation.ReplaceAllString(trimmed, ""))
			if match == nil {
				return structureDecl{}, false
			}
			kinds := map[string]model.StructureType{
				"class":      model.StructureClass,
				"interface":  model.StructureInterface,
				"@interface": model.StructureInterface,
				"enum":       model.StructureEnum,
				"record":     model.StructureStruct,
			}
			return structureDecl{name: match[2], kind: kinds[match[1]], visibility: modifierVisibility(trimmed)}, true
		},
		inheritance: func(signature string) int {
			return countInheritance(signature, []string{"extends", "implements"}, []string{"{", "permits"})
		},
		property: func(trimmed string, kind model.StructureType) bool {
			if kind == model.StructureInterface {
				return false
			}
			return javaField.MatchString(trimmed) && !hasAnyPrefix(trimmed, "return ", "throw ", "import ", "package ")
		},
	}
}

// javaDeclare 识别方法与构造函数声明。
// 带修饰符的声明允许省略返回类型（构造函数），不带修饰符时要求 "类型 名称(" 形式且不以 ';' 结尾。
func javaDeclare(trimmed string) (string, bool) {
	trimmed = javaAnnotation.ReplaceAllString(trimmed, "")
	if trimmed == "" || javaStructure.MatchString(trimmed) {
		return "", false
	}
	if paren := strings.IndexByte(trimmed, '('); paren >= 0 && strings.Contains(trimmed[:paren], "=") {
		return "", false
	}
	if hasAnyPrefix(trimmed, "return ", "new ", "throw ", "else ", "case ") {
		return "", false
	}
	for _, re := range []*regexp.Regexp{javaModified, javaTyped} {
		if name, ok := submatch(re, trimmed); ok && !contains(cFamilyControl, name) {
			return name, true
		}
	}
	return "", false
}

// modifierVisibility 读取签名中的访问修饰符，"protected internal" 归为受保护。
func modifierVisibility(signature string) model.Visibility {
	switch {
	case indexToken(signature, "private") >= 0:
		return model.VisibilityPrivate
	case indexToken(signature, "protected") >= 0:
		return model.VisibilityProtected
	case indexToken(signature, "internal") >= 0:
		return model.VisibilityInternal
	case indexToken(signature, "public") >= 0:
		return model.VisibilityPublic
	}
	return ""
}
