package languages

import (
	"regexp"
	"strings"

	"gohowmany/internal/model"
)

var (
	luaFunction = regexp.MustCompile(`^(?:local\s+)?function\s+([\w.:]+)\s*\(`)
	luaAssigned = regexp.MustCompile(`^(?:local\s+)?([\w.:]+)\s*=\s*function\s*\(`)
	luaTable    = regexp.MustCompile(`^(?:local\s+)?([A-Za-z_][\w.]*)\s*=\s*(?:\{|setmetatable\s*\()`)
	luaModule   = regexp.MustCompile(`^module\s*\(`)
	luaLocal    = regexp.MustCompile(`^local\s`)
	luaField    = regexp.MustCompile(`^(?:[A-Za-z_]\w*|\[[^\]]+\])\s*=[^=]`)
)

func luaGrammar() *grammar {
	return &grammar{
		name:       "Lua",
		extensions: []string{"lua"},
		scope: keywordScope{
			inline:  []string{"function", "if", "do"},
			lead:    []string{"repeat"},
			closers: []string{"end", "until"},
			braces:  true,
		},
		declare: func(trimmed string) (string, bool) {
			if name, ok := submatch(luaFunction, trimmed); ok {
				return name, true
			}
			return submatch(luaAssigned, trimmed)
		},
		params: func(signature string, _ string) int {
			index := indexToken(signature, "function")
			if index < 0 {
				return 0
			}
			return CountParameters(signature[index:])
		},
		method: func(signature string, _ bool) bool {
			name, ok := submatch(luaFunction, signature)
			if !ok {
				name, _ = submatch(luaAssigned, signature)
			}
			return strings.Contains(name, ":")
		},
		visibility: func(signature string) model.Visibility {
			if strings.HasPrefix(signature, "local ") {
				return model.VisibilityPrivate
			}
			return model.VisibilityPublic
		},
		branches: []string{"if", "elseif", "while", "for", "repeat", "and", "or"},
		flat:     []string{"else"},
		extras: []extra{
			{token: "coroutine.", weight: 1},
			{token: "pcall", weight: 1},
			{token: "setmetatable", weight: 1},
			{token: "goto", weight: 2},
		},
		returns:    []string{"return"},
		exceptions: []string{"pcall", "xpcall", "error"},
		locals:     luaLocal,
		structure: func(trimmed string) (structureDecl, bool) {
			if luaModule.MatchString(trimmed) {
				return structureDecl{name: "module", kind: model.StructureModule, wholeFile: true}, true
			}
			match := luaTable.FindStringSubmatch(trimmed)
			if match == nil {
				return structureDecl{}, false
			}
			// 只有首字母大写的表才视为类，函数内的局部表不计入
			name := match[1]
			if !isUpperInitial(name) {
				return structureDecl{}, false
			}
			decl := structureDecl{name: name, kind: model.StructureClass}
			if strings.HasPrefix(trimmed, "local ") {
				decl.visibility = model.VisibilityPrivate
			}
			return decl, true
		},
		inheritance: func(signature string) int {
			if strings.Contains(signature, "setmetatable") && strings.Contains(signature, "__index") {
				return 1
			}
			return 0
		},
		property: func(trimmed string, _ model.StructureType) bool {
			return luaField.MatchString(trimmed)
		},
	}
}

func isUpperInitial(name string) bool {
	if index := strings.LastIndexByte(name, '.'); index >= 0 {
		name = name[index+1:]
	}
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}
