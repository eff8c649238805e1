package languages

import (
	"regexp"
	"strings"

	"gohowmany/internal/model"
)

var (
	cppFunction  = regexp.MustCompile(`^(?:template\s*<[^>]*>\s*)?(?:(?:static|inline|virtual|explicit|constexpr|consteval|extern|friend|unsigned|signed|const|volatile|struct|enum|typename)\s+)*(?:[\w:<>,*&\s]+?[\s*&]+)?(~?[A-Za-z_]\w*(?:::~?[A-Za-z_]\w*)*)\s*\([^;]*$`)
	cppStructure = regexp.MustCompile(`^(?:template\s*<[^>]*>\s*)?(?:typedef\s+)?(class|struct|union|enum(?:\s+class|\s+struct)?|namespace)\s+([A-Za-z_]\w*)`)
	cppLocal     = regexp.MustCompile(`^(?:const\s+|static\s+|unsigned\s+|signed\s+)*(?:auto|int|long|short|char|bool|float|double|size_t|std::[\w:<>,\s]+|[A-Z]\w*(?:<[^;]*>)?)[\s*&]+[a-z_]\w*\s*(?:=[^=]|;|\{|\()`)
)

func cppGrammar() *grammar {
	return &grammar{
		name:         "C/C++",
		extensions:   []string{"c", "h", "cpp", "cc", "cxx", "hpp", "hh"},
		declare:      cppDeclare,
		skipBodyless: true,
		method: func(signature string, indented bool) bool {
			name, _ := cppDeclare(signature)
			return indented || strings.Contains(name, "::")
		},
		visibility: func(signature string) model.Visibility {
			if strings.HasPrefix(signature, "static ") {
				return model.VisibilityPrivate
			}
			return ""
		},
		sections: map[string]model.Visibility{
			"public:":    model.VisibilityPublic,
			"private:":   model.VisibilityPrivate,
			"protected:": model.VisibilityProtected,
		},
		memberDefault: map[model.StructureType]model.Visibility{
			model.StructureClass:  model.VisibilityPrivate,
			model.StructureStruct: model.VisibilityPublic,
		},
		bodyMarker: "{",
		branches:   []string{"if", "for", "while", "case", "catch", "&&", "||", " ? "},
		flat:       []string{"else", "case"},
		extras: []extra{
			{token: "goto", weight: 2},
			{token: "co_await", weight: 1},
			{token: "co_yield", weight: 2},
		},
		returns:    []string{"return", "co_return"},
		exceptions: []string{"try", "catch", "throw", "noexcept"},
		locals:     cppLocal,
		structure: func(trimmed string) (structureDecl, bool) {
			if strings.ContainsAny(trimmed, "=(") {
				return structureDecl{}, false
			}
			match := cppStructure.FindStringSubmatch(trimmed)
			if match == nil {
				return structureDecl{}, false
			}
			keyword := strings.Fields(match[1])[0]
			kinds := map[string]model.StructureType{
				"class":     model.StructureClass,
				"struct":    model.StructureStruct,
				"union":     model.StructureStruct,
				"enum":      model.StructureEnum,
				"namespace": model.StructureNamespace,
			}
			return structureDecl{name: match[2], kind: kinds[keyword]}, true
		},
		inheritance: func(signature string) int {
			if strings.HasPrefix(signature, "enum") {
				return 0
			}
			return countInheritance(signature, []string{":"}, []string{"{"})
		},
		property: func(trimmed string, kind model.StructureType) bool {
			if kind == model.StructureNamespace || kind == model.StructureEnum {
				return false
			}
			if !strings.HasSuffix(trimmed, ";") || strings.Contains(trimmed, "(") {
				return false
			}
			return !hasAnyPrefix(trimmed, "using ", "typedef ", "friend ", "return ", "}", "public:", "private:", "protected:")
		},
	}
}

// cppDeclare 识别函数定义的首行。
// 赋值表达式、控制流语句与预处理指令不是声明；原型声明由 skipBodyless 在扫描结束时丢弃。
func cppDeclare(trimmed string) (string, bool) {
	if hasAnyPrefix(trimmed, "#", "return", "else", "new ", "delete ", "case ", "throw ", "goto ") {
		return "", false
	}
	if paren := strings.IndexByte(trimmed, '('); paren >= 0 && strings.Contains(trimmed[:paren], "=") {
		return "", false
	}
	name, ok := submatch(cppFunction, trimmed)
	if !ok {
		return "", false
	}
	last := name
	if index := strings.LastIndex(name, "::"); index >= 0 {
		last = name[index+2:]
	}
	if contains(cFamilyControl, last) {
		return "", false
	}
	return name, true
}
