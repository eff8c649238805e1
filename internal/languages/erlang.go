package languages

import (
	"regexp"
	"strings"

	"gohowmany/internal/model"
)

var (
	erlangFunction = regexp.MustCompile(`^([a-z][\w@]*)\s*\(`)
	erlangModule   = regexp.MustCompile(`^-module\s*\(\s*([a-z][\w@]*)`)
	erlangRecord   = regexp.MustCompile(`^-record\s*\(\s*([a-z][\w@]*)`)
	erlangField    = regexp.MustCompile(`^[{,]?\s*[a-z][\w@]*\s*(?:=|::|,|}|$)`)
	erlangLocal    = regexp.MustCompile(`^[A-Z_]\w*\s*=[^=:]`)
)

func erlangGrammar() *grammar {
	return &grammar{
		name:       "Erlang",
		extensions: []string{"erl", "hrl"},
		layout:     layoutTerminator,
		scope: keywordScope{
			inline:  []string{"case", "if", "receive", "try", "begin"},
			call:    []string{"fun"},
			closers: []string{"end"},
		},
		declare: declareBy(erlangFunction),
		sameUnit: func(name string, trimmed string) bool {
			return strings.HasPrefix(trimmed, name+"(") || strings.HasPrefix(trimmed, name+" (")
		},
		// 属性与函数声明之外的行都是上一条 -record 的续行
		continues: func(trimmed string) bool {
			return !strings.HasPrefix(trimmed, "-") && !erlangFunction.MatchString(trimmed)
		},
		bodyMarker: "->",
		branches:   []string{"if", "case", "receive", "when", "andalso", "orelse", "catch"},
		flat:       []string{"after"},
		extras: []extra{
			{token: "spawn", weight: 1},
			{token: "!", weight: 1},
			{token: "fun", weight: 1},
		},
		exceptions: []string{"try", "catch", "throw", "error(", "exit("},
		locals:     erlangLocal,
		structure: func(trimmed string) (structureDecl, bool) {
			if name, ok := submatch(erlangModule, trimmed); ok {
				return structureDecl{name: name, kind: model.StructureModule, wholeFile: true}, true
			}
			if name, ok := submatch(erlangRecord, trimmed); ok {
				return structureDecl{name: name, kind: model.StructureStruct}, true
			}
			return structureDecl{}, false
		},
		property: func(trimmed string, kind model.StructureType) bool {
			return kind == model.StructureStruct && erlangField.MatchString(trimmed)
		},
	}
}
