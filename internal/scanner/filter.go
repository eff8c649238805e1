package scanner

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// generatedMarkers 是文件名中表示生成产物或压缩产物的片段，匹配时不区分大小写。
var generatedMarkers = []string{
	".min.",
	".pb.",
	".pb.gw.",
	"_pb2.",
	"_generated.",
	".generated.",
	".g.",
	"_gen.",
	".gen.",
	"bindata.",
	".bundle.",
}

// isGeneratedName 判断文件名是否像生成文件。
func isGeneratedName(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range generatedMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// isHidden 判断路径元素是否为隐藏文件或目录（以 '.' 开头，排除 "." 与 ".."）。
func isHidden(name string) bool {
	return len(name) > 1 && name[0] == '.' && name != ".."
}

// depthOf 返回相对路径的目录深度：根目录下的条目为 1。
func depthOf(relativePath string) int {
	if relativePath == "" || relativePath == "." {
		return 0
	}
	return strings.Count(relativePath, "/") + 1
}

// ignoreRule 是一条 .gitignore 规则。
// base 是规则所在 .gitignore 的目录（相对扫描根，根目录为空串）。
type ignoreRule struct {
	base     string
	pattern  string
	negate   bool
	dirOnly  bool
	anchored bool
}

// gitignore 按 git 的语义匹配路径：后出现的规则优先，'!' 反选。
// 每个目录的 .gitignore 在进入该目录时加载，只作用于其子树。
type gitignore struct {
	rules []ignoreRule
}

// load 读取 dir 下的 .gitignore。文件不存在不算错误。
func (g *gitignore) load(dir string, base string) error {
	file, err := os.Open(filepath.Join(dir, ".gitignore"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		g.add(base, scanner.Text())
	}
	return scanner.Err()
}

// add 解析一行规则。空行与 '#' 注释行被忽略，非法模式直接丢弃。
func (g *gitignore) add(base string, line string) {
	line = strings.TrimRight(line, " \t\r")
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	rule := ignoreRule{base: base}
	if strings.HasPrefix(line, "!") {
		rule.negate = true
		line = line[1:]
	} else if strings.HasPrefix(line, `\`) {
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		rule.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	// 中间或开头带 '/' 的模式相对 .gitignore 所在目录锚定
	if strings.Contains(line, "/") {
		rule.anchored = true
		line = strings.TrimPrefix(line, "/")
	}
	if line == "" || !doublestar.ValidatePattern(line) {
		return
	}
	rule.pattern = line
	g.rules = append(g.rules, rule)
}

// ignored 判断相对扫描根的路径是否被忽略。
func (g *gitignore) ignored(relativePath string, isDir bool) bool {
	if g == nil {
		return false
	}
	ignored := false
	for _, rule := range g.rules {
		if rule.dirOnly && !isDir {
			continue
		}
		local, ok := underBase(relativePath, rule.base)
		if !ok {
			continue
		}
		if rule.matches(local) {
			ignored = !rule.negate
		}
	}
	return ignored
}

func (r ignoreRule) matches(local string) bool {
	if r.anchored {
		matched, err := doublestar.Match(r.pattern, local)
		return err == nil && matched
	}
	matched, err := doublestar.Match(r.pattern, path.Base(local))
	return err == nil && matched
}

// underBase 把路径转成相对 base 的形式；不在 base 子树内时返回 false。
func underBase(relativePath string, base string) (string, bool) {
	if base == "" {
		return relativePath, true
	}
	if !strings.HasPrefix(relativePath, base+"/") {
		return "", false
	}
	return relativePath[len(base)+1:], true
}
