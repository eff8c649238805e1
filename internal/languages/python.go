package languages

import (
	"regexp"
	"strings"

	"gohowmany/internal/model"
)

var (
	pythonFunction = regexp.MustCompile(`^(?:async\s+)?def\s+([A-Za-z_]\w*)\s*\(`)
	pythonClass    = regexp.MustCompile(`^class\s+([A-Za-z_]\w*)\s*(\([^)]*\)?)?`)
	pythonSelf     = regexp.MustCompile(`^\(\s*(?:self|cls)\b`)
	pythonLocal    = regexp.MustCompile(`^[A-Za-z_]\w*(?:\s*,\s*[A-Za-z_]\w*)*\s*(?::\s*[^=]+)?(?:[+\-*/%|&]|//)?=[^=]`)
	pythonField    = regexp.MustCompile(`^(?:[A-Za-z_]\w*\s*(?::\s*[^=]+)?=[^=]|[A-Za-z_]\w*\s*:\s*\S|@(?:property|\w+\.setter|cached_property)\b)`)
)

func pythonGrammar() *grammar {
	return &grammar{
		name:       "Python",
		extensions: []string{"py", "pyw", "pyi"},
		layout:     layoutIndent,
		declare:    declareBy(pythonFunction),
		params: func(signature string, name string) int {
			params := afterName(signature, name)
			count := CountParameters(params)
			if pythonSelf.MatchString(params) {
				count--
			}
			return count
		},
		method: func(signature string, _ bool) bool {
			name, _ := submatch(pythonFunction, signature)
			return pythonSelf.MatchString(afterName(signature, name))
		},
		visibility: func(signature string) model.Visibility {
			name, _ := submatch(pythonFunction, signature)
			return pythonNameVisibility(name)
		},
		continues: func(trimmed string) bool {
			return hasAnyPrefix(trimmed, ")", "]", "}")
		},
		bodyMarker: ":",
		branches:   []string{"if", "elif", "for", "while", "except", "and", "or", "case"},
		flat:       []string{"else", "finally", "case"},
		extras: []extra{
			{token: "lambda", weight: 1},
			{token: "yield", weight: 2},
			{token: "await", weight: 1},
		},
		returns:    []string{"return"},
		exceptions: []string{"try", "except", "finally", "raise"},
		locals:     pythonLocal,
		structure: func(trimmed string) (structureDecl, bool) {
			match := pythonClass.FindStringSubmatch(trimmed)
			if match == nil {
				return structureDecl{}, false
			}
			decl := structureDecl{name: match[1], kind: model.StructureClass, visibility: pythonNameVisibility(match[1])}
			bases := match[2]
			switch {
			case strings.Contains(bases, "Protocol") || strings.Contains(bases, "ABC"):
				decl.kind = model.StructureInterface
			case strings.Contains(bases, "Enum"):
				decl.kind = model.StructureEnum
			}
			return decl, true
		},
		inheritance: func(signature string) int {
			name, _ := submatch(pythonClass, signature)
			count := 0
			params := afterName(signature, name)
			if !strings.HasPrefix(params, "(") {
				return 0
			}
			// metaclass=... 这类关键字参数不是基类
			for _, part := range strings.Split(params[1:strings.IndexByte(params+")", ')')], ",") {
				part = strings.TrimSpace(part)
				if part != "" && !strings.Contains(part, "=") {
					count++
				}
			}
			return count
		},
		property: func(trimmed string, kind model.StructureType) bool {
			return kind != model.StructureEnum && pythonField.MatchString(trimmed)
		},
	}
}

// pythonNameVisibility 按命名约定推断可见性：__x 为私有，_x 为受保护，魔术方法为公开。
func pythonNameVisibility(name string) model.Visibility {
	switch {
	case strings.HasPrefix(name, "__") && !strings.HasSuffix(name, "__"):
		return model.VisibilityPrivate
	case strings.HasPrefix(name, "_") && !strings.HasPrefix(name, "__"):
		return model.VisibilityProtected
	}
	return model.VisibilityPublic
}
