package languages

import (
	"regexp"
	"strings"

	"gohowmany/internal/model"
)

var (
	clojureFunction  = regexp.MustCompile(`^\((defn-?|defmacro|defmulti|defmethod)\s+(?:\^\S+\s+)?([^\s\[\]()]+)`)
	clojureDefFn     = regexp.MustCompile(`^\(def\s+(?:\^\S+\s+)?([^\s\[\]()]+)\s+\(fn\b`)
	clojureStructure = regexp.MustCompile(`^\((ns|defprotocol|definterface|defrecord|deftype)\s+(?:\^\S+\s+)?([^\s\[\]()]+)`)
	clojureLocal     = regexp.MustCompile(`^\((?:let|loop|binding|when-let|if-let)\s*\[`)
)

func clojureGrammar() *grammar {
	return &grammar{
		name:          "Clojure",
		extensions:    []string{"clj", "cljs", "cljc", "edn"},
		scope:         braceScope{open: '(', close: ')'},
		headSignature: true,
		declare: func(trimmed string) (string, bool) {
			if match := clojureFunction.FindStringSubmatch(trimmed); match != nil {
				return match[2], true
			}
			return submatch(clojureDefFn, trimmed)
		},
		params:   clojureParams,
		bodyless: func(string) bool { return false },
		visibility: func(signature string) model.Visibility {
			if strings.HasPrefix(signature, "(defn- ") || strings.Contains(signature, "^:private") {
				return model.VisibilityPrivate
			}
			return model.VisibilityPublic
		},
		continues:      func(string) bool { return false },
		recursion:      recurseLisp,
		recursionWords: []string{"recur"},
		branches:       []string{"(if ", "(if-not ", "(if-let ", "(when ", "(when-not ", "(when-let ", "(cond ", "(condp ", "(case ", "(and ", "(or ", "(loop "},
		extras: []extra{
			{token: "(-> ", weight: 1},
			{token: "(->> ", weight: 1},
			{token: "(swap! ", weight: 1},
			{token: "(go ", weight: 1},
			{token: "(future ", weight: 1},
			{token: "(atom ", weight: 1},
		},
		exceptions: []string{"(try", "(catch ", "(throw ", "(finally"},
		locals:     clojureLocal,
		structure: func(trimmed string) (structureDecl, bool) {
			match := clojureStructure.FindStringSubmatch(trimmed)
			if match == nil {
				return structureDecl{}, false
			}
			switch match[1] {
			case "ns":
				return structureDecl{name: match[2], kind: model.StructureModule, wholeFile: true}, true
			case "defprotocol", "definterface":
				return structureDecl{name: match[2], kind: model.StructureInterface}, true
			}
			return structureDecl{name: match[2], kind: model.StructureClass}, true
		},
		inheritance: func(signature string) int {
			// defrecord / deftype 在字段向量之后列出实现的协议
			index := strings.Index(signature, "]")
			if index < 0 {
				return 0
			}
			count := 0
			for _, field := range strings.Fields(signature[index+1:]) {
				if field != "" && field[0] >= 'A' && field[0] <= 'Z' {
					count++
				}
			}
			return count
		},
	}
}

// clojureParams 统计签名中第一个参数向量的参数个数，"&" 不计入。
func clojureParams(signature string, _ string) int {
	open := strings.IndexByte(signature, '[')
	if open < 0 {
		return 0
	}
	end := strings.IndexByte(signature[open:], ']')
	if end < 0 {
		end = len(signature) - open
	}
	count := 0
	for _, field := range strings.Fields(signature[open+1 : open+end]) {
		if field != "&" {
			count++
		}
	}
	return count
}
