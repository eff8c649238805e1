package languages

import (
	"regexp"
	"strings"

	"gohowmany/internal/model"
)

var (
	csharpAttribute = regexp.MustCompile(`^(?:\[[^\]]*\]\s*)+`)
	csharpFunction  = regexp.MustCompile(`^(?:(?:public|private|protected|internal|static|virtual|override|abstract|sealed|async|extern|unsafe|new|partial|readonly)\s+)+(?:[\w.<>\[\],?()\s]+?\s+)?([A-Za-z_]\w*)\s*(?:<[^>]*>)?\s*\(`)
	csharpStructure = regexp.MustCompile(`^(?:(?:public|private|protected|internal|static|abstract|sealed|partial|readonly|ref|unsafe|file)\s+)*(namespace|class|struct|interface|enum|record(?:\s+struct|\s+class)?)\s+([A-Za-z_][\w.]*)`)
	csharpLocal     = regexp.MustCompile(`^(?:var|[A-Za-z_][\w.]*(?:<.*>)?(?:\[\])?\??)\s+[a-z_]\w*\s*(?:=[^=]|;)`)
	csharpProperty  = regexp.MustCompile(`^(?:(?:public|private|protected|internal|static|readonly|const|volatile|required|virtual|override|new)\s+)+[\w.<>\[\],?]+\s+[A-Za-z_]\w*\s*(?:;|=[^>]|\{\s*(?:get|set|init)|=>)`)
)

func csharpGrammar() *grammar {
	return &grammar{
		name:              "C#",
		extensions:        []string{"cs"},
		declare:           csharpDeclare,
		defaultVisibility: model.VisibilityPrivate,
		method: func(signature string, _ bool) bool {
			return indexToken(signature, "static") < 0
		},
		visibility: modifierVisibility,
		bodyMarker: "{",
		branches:   []string{"if", "for", "foreach", "while", "case", "catch", "&&", "||", " ? "},
		flat:       []string{"else", "finally", "case"},
		extras: []extra{
			{token: "await", weight: 1},
			{token: "async", weight: 1},
			{token: "yield", weight: 2},
			{token: "?.", weight: 1},
			{token: "??", weight: 1},
			{token: ".Where(", weight: 1},
			{token: ".Select(", weight: 1},
			{token: ".OrderBy(", weight: 1},
			{token: ".GroupBy(", weight: 1},
			{token: ".Any(", weight: 1},
			{token: ".First(", weight: 1},
			{token: "goto", weight: 2},
		},
		returns:    []string{"return"},
		exceptions: []string{"try", "catch", "finally", "throw"},
		locals:     csharpLocal,
		structure: func(trimmed string) (structureDecl, bool) {
			trimmed = csharpAttribute.ReplaceAllString(trimmed, "")
			match := csharpStructure.FindStringSubmatch(trimmed)
			if match == nil {
				return structureDecl{}, false
			}
			decl := structureDecl{name: match[2], visibility: modifierVisibility(trimmed)}
			switch strings.Fields(match[1])[0] {
			case "namespace":
				decl.kind = model.StructureNamespace
				// 文件作用域命名空间：namespace X;
				decl.wholeFile = strings.HasSuffix(trimmed, ";")
			case "struct":
				decl.kind = model.StructureStruct
			case "interface":
				decl.kind = model.StructureInterface
			case "enum":
				decl.kind = model.StructureEnum
			default:
				decl.kind = model.StructureClass
				if strings.Contains(match[1], "struct") {
					decl.kind = model.StructureStruct
				}
			}
			return decl, true
		},
		inheritance: func(signature string) int {
			if strings.HasPrefix(signature, "namespace") {
				return 0
			}
			return countInheritance(signature, []string{":"}, []string{"where", "{"})
		},
		property: func(trimmed string, kind model.StructureType) bool {
			if kind == model.StructureNamespace || kind == model.StructureEnum {
				return false
			}
			return csharpProperty.MatchString(trimmed)
		},
	}
}

// csharpDeclare 识别方法、构造函数与表达式体成员，要求至少一个修饰符。
func csharpDeclare(trimmed string) (string, bool) {
	trimmed = csharpAttribute.ReplaceAllString(trimmed, "")
	if trimmed == "" || csharpStructure.MatchString(trimmed) {
		return "", false
	}
	if paren := strings.IndexByte(trimmed, '('); paren >= 0 && strings.Contains(trimmed[:paren], "=") {
		return "", false
	}
	name, ok := submatch(csharpFunction, trimmed)
	if !ok || contains(cFamilyControl, name) {
		return "", false
	}
	return name, true
}
