package scanner

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gohowmany/internal/languages"
)

// TestGitignoreRules 验证锚定、目录专用、反选与子目录规则的作用范围。
func TestGitignoreRules(t *testing.T) {
	ignore := &gitignore{}
	ignore.add("", "# comment")
	ignore.add("", "*.log")
	ignore.add("", "!keep.log")
	ignore.add("", "/out")
	ignore.add("", "tmp/")
	ignore.add("", "docs/**/draft.md")
	ignore.add("pkg", "local.go")

	assert.True(t, ignore.ignored("app.log", false))
	assert.True(t, ignore.ignored("a/b/app.log", false))
	assert.False(t, ignore.ignored("keep.log", false))
	assert.True(t, ignore.ignored("out", true))
	assert.False(t, ignore.ignored("src/out", true))
	assert.True(t, ignore.ignored("src/tmp", true))
	assert.False(t, ignore.ignored("tmp", false))
	assert.True(t, ignore.ignored("docs/a/b/draft.md", false))
	assert.True(t, ignore.ignored("pkg/sub/local.go", false))
	assert.False(t, ignore.ignored("local.go", false))

	var none *gitignore
	assert.False(t, none.ignored("anything", false))
}

// TestGeneratedAndHiddenNames 验证生成文件与隐藏文件的文件名判断。
func TestGeneratedAndHiddenNames(t *testing.T) {
	assert.True(t, isGeneratedName("app.min.js"))
	assert.True(t, isGeneratedName("api.pb.go"))
	assert.True(t, isGeneratedName("Models_Generated.cs"))
	assert.False(t, isGeneratedName("generator.go"))
	assert.False(t, isGeneratedName("main.go"))

	assert.True(t, isHidden(".env"))
	assert.False(t, isHidden("."))
	assert.False(t, isHidden("main.go"))

	assert.Equal(t, 0, depthOf("."))
	assert.Equal(t, 1, depthOf("main.go"))
	assert.Equal(t, 3, depthOf("a/b/c.go"))
}

// TestScanFileSelection 验证 .gitignore、隐藏文件、生成文件与深度限制共同生效。
func TestScanFileSelection(t *testing.T) {
	tempDir := t.TempDir()
	writeFixtureFile(t, filepath.Join(tempDir, ".gitignore"), "ignored/\n*.tmp.go\n")
	writeFixtureFile(t, filepath.Join(tempDir, "main.go"), "package main")
	writeFixtureFile(t, filepath.Join(tempDir, "x.tmp.go"), "package main")
	writeFixtureFile(t, filepath.Join(tempDir, "ignored", "skip.go"), "package ignored")
	writeFixtureFile(t, filepath.Join(tempDir, ".hidden", "secret.go"), "package hidden")
	writeFixtureFile(t, filepath.Join(tempDir, "web", "app.min.js"), "var a=1;")
	writeFixtureFile(t, filepath.Join(tempDir, "web", "app.js"), "var a = 1;")
	writeFixtureFile(t, filepath.Join(tempDir, "web", ".gitignore"), "legacy.js\n")
	writeFixtureFile(t, filepath.Join(tempDir, "web", "legacy.js"), "var b = 2;")
	writeFixtureFile(t, filepath.Join(tempDir, "a", "b", "deep.go"), "package b")

	service := NewService(languages.NewRegistry(), Options{
		Workers:       2,
		Gitignore:     true,
		SkipHidden:    true,
		SkipGenerated: true,
		MaxDepth:      2,
	})
	result, err := service.ScanPath(context.Background(), tempDir)
	require.NoError(t, err)

	paths := make([]string, 0, len(result.Files))
	for _, file := range result.Files {
		paths = append(paths, file.Path)
	}
	assert.Equal(t, []string{"main.go", "web/app.js"}, paths)

	// 关闭全部过滤后，所有可识别文件都会被扫描
	all, err := NewService(languages.NewRegistry(), Options{Workers: 2}).ScanPath(context.Background(), tempDir)
	require.NoError(t, err)
	assert.Len(t, all.Files, 8)
}
