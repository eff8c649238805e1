package languages

import (
	"regexp"
	"strings"

	"gohowmany/internal/model"
)

var (
	rustFunction  = regexp.MustCompile(`^(?:pub(?:\s*\([^)]*\))?\s+)?(?:default\s+)?(?:const\s+)?(?:async\s+)?(?:unsafe\s+)?(?:extern\s+(?:"[^"]*"\s*)?)?fn\s+([A-Za-z_]\w*)`)
	rustSelf      = regexp.MustCompile(`^\(\s*(?:&\s*(?:'\w+\s+)?)?(?:mut\s+)?self\b`)
	rustStructure = regexp.MustCompile(`^(?:pub(?:\s*\([^)]*\))?\s+)?(?:unsafe\s+)?(struct|enum|union|trait|impl|mod)\b(.*)$`)
	rustLocal     = regexp.MustCompile(`^let\s`)
	rustField     = regexp.MustCompile(`^(?:pub(?:\s*\([^)]*\))?\s+)?[a-z_]\w*\s*:\s*[^:]`)
)

func rustGrammar() *grammar {
	return &grammar{
		name:       "Rust",
		extensions: []string{"rs"},
		declare:    declareBy(rustFunction),
		params: func(signature string, name string) int {
			params := afterName(signature, name)
			count := CountParameters(params)
			if rustSelf.MatchString(params) {
				count--
			}
			return count
		},
		method: func(signature string, _ bool) bool {
			return rustSelf.MatchString(afterName(signature, firstWordAfter(signature, "fn")))
		},
		visibility: rustVisibility,
		bodyMarker: "{",
		branches:   []string{"if", "for", "while", "loop", "match", "&&", "||"},
		flat:       []string{"else"},
		extras: []extra{
			{token: "unsafe", weight: 1},
			{token: "async", weight: 1},
			{token: ".await", weight: 1},
			{token: "?;", weight: 1},
		},
		returns:    []string{"return"},
		exceptions: []string{"panic!", ".unwrap()", ".expect(", "Err(", "catch_unwind"},
		locals:     rustLocal,
		structure:  rustStructureDecl,
		inheritance: func(signature string) int {
			if strings.HasPrefix(strings.TrimLeft(stripRustVisibility(signature), " "), "impl") {
				if indexToken(signature, "for") >= 0 {
					return 1
				}
				return 0
			}
			return countBounds(signature)
		},
		property: func(trimmed string, kind model.StructureType) bool {
			return kind == model.StructureStruct && rustField.MatchString(trimmed)
		},
	}
}

func rustVisibility(signature string) model.Visibility {
	switch {
	case strings.HasPrefix(signature, "pub(") || strings.HasPrefix(signature, "pub ("):
		return model.VisibilityInternal
	case strings.HasPrefix(signature, "pub "):
		return model.VisibilityPublic
	}
	return model.VisibilityPrivate
}

func stripRustVisibility(text string) string {
	if !strings.HasPrefix(text, "pub") {
		return text
	}
	text = strings.TrimPrefix(text, "pub")
	text = strings.TrimLeft(text, " ")
	if strings.HasPrefix(text, "(") {
		if end := strings.IndexByte(text, ')'); end >= 0 {
			text = text[end+1:]
		}
	}
	return text
}

func rustStructureDecl(trimmed string) (structureDecl, bool) {
	match := rustStructure.FindStringSubmatch(trimmed)
	if match == nil {
		return structureDecl{}, false
	}
	keyword, rest := match[1], match[2]

	decl := structureDecl{visibility: rustVisibility(trimmed)}
	switch keyword {
	case "struct", "union":
		decl.kind = model.StructureStruct
	case "enum":
		decl.kind = model.StructureEnum
	case "trait":
		decl.kind = model.StructureTrait
	case "mod":
		decl.kind = model.StructureModule
	case "impl":
		decl.kind = model.StructureClass
		decl.name = rustImplTarget(rest)
	}
	if decl.name == "" {
		decl.name = firstWordAfter(keyword+rest, keyword)
	}
	if decl.name == "" {
		return structureDecl{}, false
	}
	return decl, true
}

// rustImplTarget 提取 impl 块的实现类型：impl<T> Trait for Type<T> 取 Type。
func rustImplTarget(rest string) string {
	rest = strings.TrimLeft(rest, " ")
	if strings.HasPrefix(rest, "<") {
		rest = skipBalanced(rest)
	}
	if index := indexToken(rest, "for"); index >= 0 {
		rest = rest[index+len("for"):]
	}
	rest = strings.TrimLeft(rest, " &")
	end := 0
	for end < len(rest) && (isIdentRune(rune(rest[end])) || rest[end] == ':') {
		end++
	}
	return strings.Trim(rest[:end], ":")
}

// countBounds 统计 trait A: B + C 中冒号之后的约束数量。
func countBounds(signature string) int {
	index := indexOutsideParens(signature, ":")
	if index < 0 {
		return 0
	}
	clause := signature[index+1:]
	if stop := strings.IndexAny(clause, "{;"); stop >= 0 {
		clause = clause[:stop]
	}
	if stop := indexToken(clause, "where"); stop >= 0 {
		clause = clause[:stop]
	}
	count := 0
	for _, part := range strings.Split(clause, "+") {
		if strings.TrimSpace(part) != "" {
			count++
		}
	}
	return count
}
