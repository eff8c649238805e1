package languages

import (
	"regexp"
	"strings"

	"gohowmany/internal/model"
)

var (
	matlabFunction = regexp.MustCompile(`^function\s+(?:(?:\[[^\]]*\]|\w+)\s*=\s*)?([\w.]+)`)
	matlabClass    = regexp.MustCompile(`^classdef\s+(?:\([^)]*\)\s*)?([A-Za-z]\w*)`)
	matlabLocal    = regexp.MustCompile(`^[A-Za-z]\w*\s*=[^=]`)
	matlabProperty = regexp.MustCompile(`^[A-Za-z]\w*\s*(?:=|;|$|\(|@|\w)`)
)

var matlabBlockWords = []string{"properties", "methods", "events", "enumeration", "end"}

func matlabGrammar() *grammar {
	return &grammar{
		name:       "MATLAB",
		extensions: []string{"m", "mlx"},
		scope: keywordScope{
			lead:         []string{"function", "if", "for", "parfor", "while", "switch", "try", "classdef", "properties", "methods", "events", "enumeration", "spmd"},
			closers:      []string{"end"},
			bracketAware: true,
		},
		declare:            declareBy(matlabFunction),
		splitOnDeclaration: true,
		method: func(_ string, indented bool) bool {
			return indented
		},
		bodyless: func(string) bool { return false },
		branches: []string{"if", "elseif", "for", "parfor", "while", "case", "catch", "&&", "||"},
		flat:     []string{"else", "otherwise"},
		extras: []extra{
			{token: "cellfun", weight: 1},
			{token: "arrayfun", weight: 1},
			{token: "eval", weight: 3},
		},
		exceptions: []string{"try", "catch", "error", "MException"},
		locals:     matlabLocal,
		structure: func(trimmed string) (structureDecl, bool) {
			name, ok := submatch(matlabClass, trimmed)
			if !ok {
				return structureDecl{}, false
			}
			return structureDecl{name: name, kind: model.StructureClass}, true
		},
		inheritance: func(signature string) int {
			index := strings.Index(signature, "<")
			if index < 0 {
				return 0
			}
			return len(strings.Split(signature[index+1:], "&"))
		},
		property: func(trimmed string, _ model.StructureType) bool {
			first := strings.FieldsFunc(trimmed, func(r rune) bool { return !isIdentRune(r) })
			if len(first) == 0 || contains(matlabBlockWords, first[0]) {
				return false
			}
			return matlabProperty.MatchString(trimmed)
		},
	}
}
