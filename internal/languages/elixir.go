package languages

import (
	"regexp"
	"strings"

	"gohowmany/internal/model"
)

var (
	elixirFunction  = regexp.MustCompile(`^(def|defp|defmacro|defmacrop|defguard|defguardp)\s+([a-z_]\w*[?!]?)`)
	elixirStructure = regexp.MustCompile(`^(defmodule|defprotocol|defimpl)\s+([A-Z][\w.]*)`)
	elixirLocal     = regexp.MustCompile(`^[a-z_]\w*\s*=[^=~>]`)
	elixirAttribute = regexp.MustCompile(`^(?:@(\w+)\s|defstruct\b)`)
)

// elixirDocAttributes 是文档与类型注解属性，不算作模块属性。
var elixirDocAttributes = []string{"doc", "moduledoc", "typedoc", "spec", "impl", "type", "typep", "opaque", "callback", "behaviour"}

func elixirGrammar() *grammar {
	return &grammar{
		name:       "Elixir",
		extensions: []string{"ex", "exs"},
		scope: keywordScope{
			inline:  []string{"do", "fn"},
			closers: []string{"end"},
		},
		declare: func(trimmed string) (string, bool) {
			match := elixirFunction.FindStringSubmatch(trimmed)
			if match == nil {
				return "", false
			}
			return match[2], true
		},
		oneLiner: func(signature string) bool {
			return strings.Contains(signature, "do:")
		},
		visibility: func(signature string) model.Visibility {
			match := elixirFunction.FindStringSubmatch(signature)
			if match != nil && strings.HasSuffix(match[1], "p") {
				return model.VisibilityPrivate
			}
			return model.VisibilityPublic
		},
		bodyMarker: "do:",
		branches:   []string{"if", "unless", "case", "cond", "with", "rescue", "catch", "and", "or", "&&", "||"},
		flat:       []string{"else"},
		extras: []extra{
			{token: "|>", weight: 1},
			{token: "fn", weight: 1},
			{token: "spawn", weight: 1},
			{token: "receive", weight: 1},
		},
		exceptions: []string{"try", "rescue", "catch", "raise", "throw", "after"},
		locals:     elixirLocal,
		structure: func(trimmed string) (structureDecl, bool) {
			match := elixirStructure.FindStringSubmatch(trimmed)
			if match == nil {
				return structureDecl{}, false
			}
			kinds := map[string]model.StructureType{
				"defmodule":   model.StructureModule,
				"defprotocol": model.StructureInterface,
				"defimpl":     model.StructureClass,
			}
			return structureDecl{name: match[2], kind: kinds[match[1]]}, true
		},
		inheritance: func(signature string) int {
			if strings.Contains(signature, "for:") {
				return 1
			}
			return 0
		},
		property: func(trimmed string, _ model.StructureType) bool {
			match := elixirAttribute.FindStringSubmatch(trimmed)
			return match != nil && !contains(elixirDocAttributes, match[1])
		},
	}
}
