package languages

import (
	"regexp"
	"strings"

	"gohowmany/internal/classifier"
	"gohowmany/internal/model"
)

var (
	phpFunction  = regexp.MustCompile(`^(?:(?:public|private|protected|static|abstract|final)\s+)*function\s+&?\s*([A-Za-z_]\w*)\s*\(`)
	phpStructure = regexp.MustCompile(`^(?:(?:abstract|final|readonly)\s+)*(class|interface|trait|enum)\s+([A-Za-z_]\w*)`)
	phpNamespace = regexp.MustCompile(`^namespace\s+([A-Za-z_][\w\\]*)`)
	phpLocal     = regexp.MustCompile(`^\$\w+\s*=[^=]`)
	phpProperty  = regexp.MustCompile(`^(?:(?:public|private|protected|static|readonly|var|const)\s+)+(?:\??[\w\\|]+\s+)?(?:\$\w+|[A-Z_]\w*\s*=)`)
)

func phpGrammar() *grammar {
	return &grammar{
		name:       "PHP",
		extensions: []string{"php", "phtml"},
		declare:    declareBy(phpFunction),
		method: func(signature string, _ bool) bool {
			return modifierVisibility(signature) != ""
		},
		visibility: modifierVisibility,
		bodyMarker: "{",
		branches:   []string{"if", "elseif", "for", "foreach", "while", "case", "catch", "&&", "||", "and", "or", " ? "},
		flat:       []string{"else", "finally", "case"},
		extras: []extra{
			{token: "??", weight: 1},
			{token: "?->", weight: 1},
			{token: "yield", weight: 2},
			{token: "match", weight: 1},
		},
		returns:    []string{"return"},
		exceptions: []string{"try", "catch", "finally", "throw"},
		locals:     phpLocal,
		structure: func(trimmed string) (structureDecl, bool) {
			if name, ok := submatch(phpNamespace, trimmed); ok {
				return structureDecl{
					name:      name,
					kind:      model.StructureNamespace,
					wholeFile: strings.HasSuffix(trimmed, ";"),
				}, true
			}
			match := phpStructure.FindStringSubmatch(trimmed)
			if match == nil {
				return structureDecl{}, false
			}
			kinds := map[string]model.StructureType{
				"class":     model.StructureClass,
				"interface": model.StructureInterface,
				"trait":     model.StructureTrait,
				"enum":      model.StructureEnum,
			}
			return structureDecl{name: match[2], kind: kinds[match[1]]}, true
		},
		inheritance: func(signature string) int {
			return countInheritance(signature, []string{"extends", "implements"}, []string{"{"})
		},
		property: func(trimmed string, kind model.StructureType) bool {
			return kind != model.StructureNamespace && phpProperty.MatchString(trimmed)
		},
		region: phpRegion,
	}
}

// phpRegion 标记 <?php / <?= 与 ?> 之间的行，模板 HTML 不参与分析。
// 文件中没有任何开始标记时视为纯 PHP。
func phpRegion(lines []classifier.Line) []bool {
	active := make([]bool, len(lines))
	inside := false
	seen := false
	for i, line := range lines {
		text := line.Text
		open := strings.Contains(text, "<?php") || strings.Contains(text, "<?=")
		if open {
			inside = true
			seen = true
		}
		active[i] = inside
		if inside {
			if closeAt := strings.LastIndex(text, "?>"); closeAt >= 0 {
				openAt := max(strings.LastIndex(text, "<?php"), strings.LastIndex(text, "<?="))
				if closeAt > openAt {
					inside = false
				}
			}
		}
	}
	if !seen {
		for i := range active {
			active[i] = true
		}
	}
	return active
}
