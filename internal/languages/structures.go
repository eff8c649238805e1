package languages

import (
	"sort"
	"strings"

	"gohowmany/internal/classifier"
	"gohowmany/internal/model"
)

// openStructure 是结构体栈中的一项。
type openStructure struct {
	info      model.StructureInfo
	decl      int
	base      int
	indent    int
	opened    bool
	wholeFile bool
	signature string
}

// structureScanner 用显式栈维护所有处于打开状态的结构体，
// 因此嵌套与相邻的结构体都能被识别，各自在自身层级回落时关闭。
type structureScanner struct {
	g      *grammar
	pass   functionPass
	stack  []*openStructure
	level  int
	result []model.StructureInfo
}

func scanStructures(g *grammar, lines []classifier.Line, pass functionPass) []model.StructureInfo {
	if g.structure == nil {
		return []model.StructureInfo{}
	}

	s := &structureScanner{g: g, pass: pass, result: []model.StructureInfo{}}
	active := g.activeLines(lines)
	for i, line := range lines {
		if line.Kind != classifier.KindCode || !active[i] {
			continue
		}
		s.line(i, line.Code)
	}
	for len(s.stack) > 0 {
		s.close(len(s.stack) - 1)
	}

	sort.SliceStable(s.result, func(i int, j int) bool {
		return s.result[i].StartLine < s.result[j].StartLine
	})
	return s.result
}

func (s *structureScanner) line(i int, code string) {
	g := s.g
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return
	}
	indent := indentWidth(code)

	// 先关闭在当前行之前已经结束的结构体
	for j := len(s.stack) - 1; j >= 0; j-- {
		st := s.stack[j]
		if st.wholeFile {
			continue
		}
		switch {
		case g.layout == layoutIndent:
			if indent <= st.indent && !g.continues(trimmed) {
				s.close(j)
			}
		case !st.opened:
			if !g.continues(trimmed) && !endsOpen(st.signature) {
				s.close(j)
			}
		}
	}

	decl, declared := g.structure(trimmed)
	if declared {
		if decl.wholeFile {
			for j := len(s.stack) - 1; j >= 0; j-- {
				if s.stack[j].wholeFile {
					s.close(j)
				}
			}
		}
		visibility := decl.visibility
		if visibility == "" {
			visibility = g.defaultVisibility
		}
		s.stack = append(s.stack, &openStructure{
			info: model.StructureInfo{
				Name:          decl.name,
				StructureType: decl.kind,
				StartLine:     i + 1,
				EndLine:       i + 1,
				Methods:       []model.FunctionInfo{},
				Visibility:    visibility,
			},
			decl:      i,
			base:      s.level,
			indent:    indent,
			wholeFile: decl.wholeFile,
		})
	}

	peak := s.level
	if g.layout == layoutBlock {
		scope := g.structureScope.scan(code)
		peak = s.level + scope.peak
		s.level = max(s.level+scope.open-scope.close, 0)
	}

	for _, st := range s.stack {
		st.info.LineCount++
		st.info.EndLine = i + 1
		// 缩进语言只保留声明行作为签名
		if !st.opened && !st.wholeFile && (g.layout != layoutIndent || st.decl == i) {
			if st.signature == "" {
				st.signature = trimmed
			} else {
				st.signature += " " + trimmed
			}
		}
	}

	if len(s.stack) > 0 && !declared {
		s.countMember(i, trimmed, s.stack[len(s.stack)-1])
	}

	if g.layout != layoutBlock {
		return
	}
	for j := len(s.stack) - 1; j >= 0; j-- {
		st := s.stack[j]
		if st.wholeFile {
			continue
		}
		if peak > st.base {
			st.opened = true
		}
		switch {
		case st.opened && s.level <= st.base:
			s.close(j)
		case !st.opened && st.decl == i && g.bodyless(st.signature):
			s.close(j)
		}
	}
}

// countMember 为最内层结构体累计属性与接口成员。
func (s *structureScanner) countMember(i int, trimmed string, top *openStructure) {
	kind := top.info.StructureType
	if kind == model.StructureInterface || kind == model.StructureTrait {
		if s.pass.heads[i] || (!s.pass.body[i] && strings.Contains(trimmed, "(") && strings.Contains(trimmed, ")")) {
			top.info.InterfaceCount++
		}
	}
	if s.pass.body[i] || s.g.property == nil {
		return
	}
	if s.g.property(trimmed, kind) {
		top.info.Properties++
	}
}

// close 输出栈中第 j 项并将其移出栈。
func (s *structureScanner) close(j int) {
	st := s.stack[j]
	s.stack = append(s.stack[:j], s.stack[j+1:]...)

	if s.g.skipBodyless && !st.opened && !st.wholeFile && s.g.bodyless(st.signature) {
		return
	}
	if s.g.inheritance != nil {
		st.info.InheritanceDepth = s.g.inheritance(st.signature)
	}
	s.result = append(s.result, st.info)
}

// attachMethods 把函数挂接到结构体上，并返回写入了 ParentClass 的函数副本。
// structures 必须已按 StartLine 升序排列。
func attachMethods(functions []model.FunctionInfo, structures []model.StructureInfo, mode AttachMode) []model.FunctionInfo {
	attached := make([]model.FunctionInfo, len(functions))
	copy(attached, functions)
	if len(structures) == 0 {
		return attached
	}

	for i := range attached {
		fn := &attached[i]
		target := -1
		for j := range structures {
			st := &structures[j]
			if st.StartLine > fn.StartLine {
				break
			}
			switch mode {
			case AttachEnclosing:
				// 起始行相同或更晚的包含者更靠内
				if st.Contains(fn.StartLine) && fn.EndLine <= st.EndLine {
					target = j
				}
			default:
				target = j
			}
		}
		if target < 0 {
			continue
		}
		fn.ParentClass = structures[target].Name
		structures[target].Methods = append(structures[target].Methods, *fn)
	}
	return attached
}
