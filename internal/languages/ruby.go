package languages

import (
	"regexp"
	"strings"

	"gohowmany/internal/model"
)

var (
	rubyFunction  = regexp.MustCompile(`^(?:(?:private|protected|public|private_class_method)\s+)?def\s+(?:self\.)?([A-Za-z_]\w*[?!=]?)`)
	rubyEndless   = regexp.MustCompile(`^(?:(?:private|protected|public)\s+)?def\s+(?:self\.)?\w+[?!]?(?:\s*\([^)]*\))?\s*=\s`)
	rubyStructure = regexp.MustCompile(`^(class|module)\s+([A-Z][\w:]*)`)
	rubyLocal     = regexp.MustCompile(`^[a-z_]\w*\s*(?:\|\||[+\-*/]|<<)?=[^=~>]`)
	rubyProperty  = regexp.MustCompile(`^(?:attr_(?:accessor|reader|writer)\b|[A-Z][A-Z0-9_]*\s*=[^=]|@@\w+\s*=[^=])`)
)

// rubyScope 在关键字作用域之上处理无 end 的单行方法定义（def x = expr）。
type rubyScope struct {
	keywordScope
}

func (s rubyScope) scan(code string) lineScope {
	result := s.keywordScope.scan(code)
	if rubyEndless.MatchString(strings.TrimSpace(code)) && result.open > 0 {
		result.open--
	}
	return result
}

func rubyGrammar() *grammar {
	return &grammar{
		name:       "Ruby",
		extensions: []string{"rb", "rbw", "rake", "gemspec"},
		scope: rubyScope{keywordScope{
			lead:    []string{"def", "class", "module", "if", "unless", "while", "until", "case", "begin", "for"},
			inline:  []string{"do"},
			closers: []string{"end"},
			loopDo:  []string{"while", "until", "for"},
		}},
		declare: declareBy(rubyFunction),
		oneLiner: func(signature string) bool {
			return rubyEndless.MatchString(signature)
		},
		params: rubyParams,
		method: func(signature string, _ bool) bool {
			return !strings.Contains(signature, "def self.")
		},
		visibility: func(signature string) model.Visibility {
			switch {
			case strings.HasPrefix(signature, "private"):
				return model.VisibilityPrivate
			case strings.HasPrefix(signature, "protected"):
				return model.VisibilityProtected
			}
			return ""
		},
		sections: map[string]model.Visibility{
			"private":   model.VisibilityPrivate,
			"protected": model.VisibilityProtected,
			"public":    model.VisibilityPublic,
		},
		forceEnclosing: true,
		bodyMarker:     "=",
		recursion:      recurseWord,
		branches:       []string{"if", "elsif", "unless", "while", "until", "for", "when", "rescue", "&&", "||", "and", "or", " ? "},
		flat:           []string{"else", "ensure"},
		extras: []extra{
			{token: "eval", weight: 3},
			{token: "instance_eval", weight: 2},
			{token: "class_eval", weight: 2},
			{token: "define_method", weight: 2},
			{token: "method_missing", weight: 2},
			{token: "send", weight: 1},
			{token: "yield", weight: 2},
		},
		returns:    []string{"return"},
		exceptions: []string{"rescue", "ensure", "raise", "retry"},
		locals:     rubyLocal,
		structure: func(trimmed string) (structureDecl, bool) {
			match := rubyStructure.FindStringSubmatch(trimmed)
			if match == nil {
				return structureDecl{}, false
			}
			kind := model.StructureClass
			if match[1] == "module" {
				kind = model.StructureModule
			}
			return structureDecl{name: match[2], kind: kind}, true
		},
		inheritance: func(signature string) int {
			if index := strings.Index(signature, "<"); index >= 0 && !strings.HasPrefix(signature[index:], "<<") {
				return 1
			}
			return 0
		},
		property: func(trimmed string, _ model.StructureType) bool {
			return rubyProperty.MatchString(trimmed)
		},
	}
}

// rubyParams 统计参数，兼容省略括号的写法（def foo a, b）。
func rubyParams(signature string, name string) int {
	rest := afterName(signature, name)
	if strings.HasPrefix(rest, "(") {
		return CountParameters(rest)
	}
	index := indexToken(signature, name)
	if index < 0 {
		return 0
	}
	rest = strings.TrimSpace(signature[index+len(name):])
	if rest == "" || strings.HasPrefix(rest, "=") || strings.HasPrefix(rest, ";") {
		return 0
	}
	if stop := strings.IndexByte(rest, ';'); stop >= 0 {
		rest = rest[:stop]
	}
	return CountParameters("(" + rest + ")")
}
