package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gohowmany/internal/model"
)

// classifyText 是测试辅助函数，用内置模式表对文本分类。
func classifyText(t *testing.T, ext string, content string) (model.FileStats, []Line) {
	t.Helper()
	return New(nil).Classify(ext, []byte(content))
}

func kinds(lines []Line) []Kind {
	result := make([]Kind, 0, len(lines))
	for _, line := range lines {
		result = append(result, line.Kind)
	}
	return result
}

// TestGoInlineCodeAndComment 验证同一行 code + comment 记为 code。
func TestGoInlineCodeAndComment(t *testing.T) {
	content := "package main\n" +
		"func main() {\n" +
		"    x := 1 // comment\n" +
		"}\n"

	stats, lines := classifyText(t, "go", content)

	assert.Equal(t, model.FileStats{TotalLines: 4, CodeLines: 4, FileSize: int64(len(content))}, stats)
	assert.Equal(t, "    x := 1", lines[2].Code)
}

// TestGoStringContainsCommentToken 验证字符串内的 // 不会误判为注释，且字符串内容被清空。
func TestGoStringContainsCommentToken(t *testing.T) {
	content := "package main\n" +
		"func main() {\n" +
		"    s := \"hello // world\"\n" +
		"}\n"

	stats, lines := classifyText(t, ".go", content)

	assert.EqualValues(t, 4, stats.CodeLines)
	assert.EqualValues(t, 0, stats.CommentLines)
	assert.Equal(t, `    s := ""`, lines[2].Code)
}

// TestRustNestedBlockComment 验证 Rust 嵌套块注释。
func TestRustNestedBlockComment(t *testing.T) {
	content := "fn main() {\n" +
		"    /* outer /* inner */ still comment\n" +
		"    tail */ let x = 1;\n" +
		"}\n"

	_, lines := classifyText(t, "rs", content)

	assert.Equal(t, []Kind{KindCode, KindComment, KindCode, KindCode}, kinds(lines))
	assert.Equal(t, " let x = 1;", lines[2].Code)
}

// TestRustDocAndRawString 验证 Rust 文档注释与原始字符串。
func TestRustDocAndRawString(t *testing.T) {
	content := "/// Adds numbers.\n" +
		"//! crate doc\n" +
		"// plain\n" +
		"let s = r#\"{ \"// not a comment\" }\"#;\n" +
		"fn f<'a>(x: &'a str) -> char { '{' }\n"

	stats, lines := classifyText(t, "rs", content)

	assert.EqualValues(t, 2, stats.DocLines)
	assert.EqualValues(t, 1, stats.CommentLines)
	assert.EqualValues(t, 2, stats.CodeLines)
	assert.Equal(t, `let s = "";`, lines[3].Code)
	assert.Equal(t, "fn f<'a>(x: &'a str) -> char { '' }", lines[4].Code)
}

// TestRubyBeginEndComment 验证 Ruby 的 =begin/=end 块注释。
func TestRubyBeginEndComment(t *testing.T) {
	content := "=begin\n" +
		"comment body\n" +
		"=end\n" +
		"puts \"ok\"\n" +
		"## documented\n"

	stats, _ := classifyText(t, "rb", content)

	assert.EqualValues(t, 5, stats.TotalLines)
	assert.EqualValues(t, 1, stats.CodeLines)
	assert.EqualValues(t, 3, stats.CommentLines)
	assert.EqualValues(t, 1, stats.DocLines)
}

// TestPythonDocstringAndComment 验证 Python docstring、字符串中的 # 与真实注释。
func TestPythonDocstringAndComment(t *testing.T) {
	content := strings.Join([]string{
		`def f():`,
		`    """Summary.`,
		``,
		`    Details.`,
		`    """`,
		`    value = "hello # world"`,
		`    # real comment`,
		`    text = """inline`,
		`    still string"""`,
	}, "\n")

	_, lines := classifyText(t, "py", content)

	assert.Equal(t, []Kind{
		KindCode, KindDoc, KindBlank, KindDoc, KindDoc,
		KindCode, KindComment, KindCode, KindCode,
	}, kinds(lines))
}

// TestSQLNestedBlockComment 验证 SQL 嵌套块注释和行注释。
func TestSQLNestedBlockComment(t *testing.T) {
	content := "SELECT 1; /* outer /* inner */ outer */\n" +
		"-- line comment\n"

	stats, _ := classifyText(t, "sql", content)

	assert.EqualValues(t, 1, stats.CodeLines)
	assert.EqualValues(t, 1, stats.CommentLines)
}

// TestPerlPod 验证 POD 文档块。
func TestPerlPod(t *testing.T) {
	content := "=head1 NAME\n" +
		"Thing\n" +
		"=cut\n" +
		"sub run { 1 }\n"

	stats, _ := classifyText(t, "pm", content)

	assert.EqualValues(t, 3, stats.DocLines)
	assert.EqualValues(t, 1, stats.CodeLines)
}

// TestLuaBlockBeforeLineComment 验证 --[[ 优先于 -- 匹配。
func TestLuaBlockBeforeLineComment(t *testing.T) {
	content := "--[[ block\n" +
		"still ]]\n" +
		"--- doc\n" +
		"local x = 1 -- trailing\n"

	_, lines := classifyText(t, "lua", content)

	assert.Equal(t, []Kind{KindComment, KindComment, KindDoc, KindCode}, kinds(lines))
}

// TestMatlabTransposeIsNotString 验证 MATLAB 转置运算符不会开启字符串。
func TestMatlabTransposeIsNotString(t *testing.T) {
	content := "y = x' * 2; % note\n" +
		"s = 'text % not comment';\n"

	stats, lines := classifyText(t, "m", content)

	assert.EqualValues(t, 2, stats.CodeLines)
	assert.Equal(t, "y = x' * 2;", lines[0].Code)
	assert.Equal(t, "s = '';", lines[1].Code)
}

// TestMarkdown 验证 Markdown 的代码块、HTML 注释与正文。
func TestMarkdown(t *testing.T) {
	content := strings.Join([]string{
		"# Title",
		"",
		"Some prose.",
		"<!-- hidden",
		"note -->",
		"```go",
		"x := 1",
		"```",
		"",
		"    indented code",
		"    more code",
		"after",
	}, "\n")

	stats, lines := classifyText(t, "md", content)

	assert.Equal(t, []Kind{
		KindDoc, KindBlank, KindDoc, KindComment, KindComment,
		KindCode, KindCode, KindCode, KindBlank, KindCode, KindCode, KindDoc,
	}, kinds(lines))
	assert.EqualValues(t, 5, stats.CodeLines)
	assert.EqualValues(t, 3, stats.DocLines)
}

// TestUnknownExtensionCountsCode 验证未登记后缀的非空行都计为代码。
func TestUnknownExtensionCountsCode(t *testing.T) {
	stats, _ := classifyText(t, "xyz", "a\n\n# b\n")

	assert.EqualValues(t, 3, stats.TotalLines)
	assert.EqualValues(t, 2, stats.CodeLines)
	assert.EqualValues(t, 1, stats.BlankLines)
}

// TestTallyConservation 验证四类行数之和等于总行数。
func TestTallyConservation(t *testing.T) {
	table := DefaultTable()
	content := "/** doc */\n// c\n\nint x = 1; /* c */\n/*\n*/\n"
	for _, ext := range table.Extensions() {
		stats, lines := New(table).Classify(ext, []byte(content))
		require.Len(t, lines, 6, ext)
		assert.Equal(t, stats.TotalLines, stats.CodeLines+stats.CommentLines+stats.DocLines+stats.BlankLines, ext)
	}
}

// TestEmptyContent 验证空文件。
func TestEmptyContent(t *testing.T) {
	stats, lines := classifyText(t, "go", "")

	assert.Empty(t, lines)
	assert.Equal(t, model.FileStats{}, stats)
}
