package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultIgnoredDirs 是默认跳过的版本控制、依赖与构建目录。
var defaultIgnoredDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	".idea":        true,
	".vscode":      true,
	".gohowmany":   true,
	"node_modules": true,
	"vendor":       true,
	"target":       true,
	"dist":         true,
	"build":        true,
	"__pycache__":  true,
}

// excluded 判断相对路径是否命中任一排除模式。非法模式直接忽略。
func (s *Service) excluded(relativePath string) bool {
	for _, pattern := range s.options.Exclude {
		if matched, err := doublestar.Match(pattern, relativePath); err == nil && matched {
			return true
		}
	}
	return false
}

// ValidateExcludes 校验排除模式的语法，供命令行在扫描前提前报错。
func ValidateExcludes(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return nil
}

// enqueueDirectoryTasks 遍历目录并把可识别的文件推入任务队列。
// 上下文取消时立即停止遍历。
func (s *Service) enqueueDirectoryTasks(ctx context.Context, root string, tasks chan<- scanTask) error {
	var ignore *gitignore
	if s.options.Gitignore {
		ignore = &gitignore{}
		if err := ignore.load(root, ""); err != nil {
			s.logger.Warn("gitignore unreadable", "path", root, "error", err)
		}
	}

	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			return nil
		}

		relativePath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			relativePath = path
		}
		relativePath = filepath.ToSlash(relativePath)

		if entry.IsDir() {
			if s.skipDir(entry.Name(), relativePath, ignore) {
				return filepath.SkipDir
			}
			if ignore != nil {
				if err := ignore.load(path, relativePath); err != nil {
					s.logger.Warn("gitignore unreadable", "path", path, "error", err)
				}
			}
			return nil
		}
		if !entry.Type().IsRegular() || s.skipFile(entry.Name(), relativePath, ignore) {
			return nil
		}

		task, ok := s.newTask(path, relativePath)
		if !ok {
			return nil
		}

		select {
		case tasks <- task:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// skipDir 判断遍历是否跳过整个目录。
func (s *Service) skipDir(name string, relativePath string, ignore *gitignore) bool {
	switch {
	case s.options.DefaultIgnores && defaultIgnoredDirs[name]:
		return true
	case s.options.SkipHidden && isHidden(name):
		return true
	case s.options.MaxDepth > 0 && depthOf(relativePath) >= s.options.MaxDepth:
		// 该目录下的文件已超出深度
		return true
	case ignore.ignored(relativePath, true):
		return true
	}
	return s.excluded(relativePath) || s.excluded(relativePath+"/")
}

// skipFile 判断遍历是否跳过单个文件。
func (s *Service) skipFile(name string, relativePath string, ignore *gitignore) bool {
	switch {
	case s.options.SkipHidden && isHidden(name):
		return true
	case s.options.SkipGenerated && isGeneratedName(name):
		return true
	case s.options.MaxDepth > 0 && depthOf(relativePath) > s.options.MaxDepth:
		return true
	case ignore.ignored(relativePath, false):
		return true
	}
	return s.excluded(relativePath)
}

// enqueueSingleFileTask 在用户给定单文件路径时创建任务。
func (s *Service) enqueueSingleFileTask(ctx context.Context, filePath string, tasks chan<- scanTask) error {
	task, ok := s.newTask(filePath, filepath.Base(filePath))
	if !ok {
		return fmt.Errorf("unsupported file extension: %s", filepath.Ext(filePath))
	}

	select {
	case tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// newTask 为已知后缀创建任务：有分析器的语言，或分类器能识别的文档/配置格式。
func (s *Service) newTask(absolutePath string, displayPath string) (scanTask, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(absolutePath)), ".")
	if ext == "" {
		return scanTask{}, false
	}

	task := scanTask{absolutePath: absolutePath, displayPath: displayPath, extension: ext}
	if analyzer, ok := s.registry.AnalyzerForExtension(ext); ok {
		task.analyzer = analyzer
		task.language = analyzer.Name()
		return task, true
	}
	if _, ok := s.classifier.Table().Lookup(ext); ok {
		task.language = documentLanguage(ext)
		return task, true
	}
	return scanTask{}, false
}

// documentLanguage 为没有结构分析器的格式给出展示名称。
func documentLanguage(ext string) string {
	switch ext {
	case "md", "markdown", "rmd":
		return "Markdown"
	case "sh", "bash", "zsh", "fish":
		return "Shell"
	case "yaml", "yml":
		return "YAML"
	case "toml":
		return "TOML"
	case "mk":
		return "Makefile"
	case "sql":
		return "SQL"
	case "html", "htm", "xml", "vue", "svelte":
		return "Markup"
	case "css", "scss", "less", "sass":
		return "Stylesheet"
	case "rst":
		return "reStructuredText"
	case "adoc", "asciidoc":
		return "AsciiDoc"
	case "txt":
		return "Text"
	}
	return strings.ToUpper(ext)
}
