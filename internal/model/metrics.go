// Package model 定义 gohowmany 的核心数据模型。
// 这些结构会被分类器、分析器、聚合器、扫描器和输出层共同使用。
package model

import "time"

// FileStats 表示单文件的行级统计值。
//
// 注意：
// - 每一行只归入 code/comment/doc/blank 中的一类
// - 同时含代码和尾随注释的行记为 code
// - 由行分类器一次性生成，之后不再修改
type FileStats struct {
	TotalLines   int64 `json:"total_lines" yaml:"total_lines"`
	CodeLines    int64 `json:"code_lines" yaml:"code_lines"`
	CommentLines int64 `json:"comment_lines" yaml:"comment_lines"`
	DocLines     int64 `json:"doc_lines" yaml:"doc_lines"`
	BlankLines   int64 `json:"blank_lines" yaml:"blank_lines"`
	FileSize     int64 `json:"file_size" yaml:"file_size"`
}

// Add 将另一个统计结果叠加到当前对象。
func (s *FileStats) Add(other FileStats) {
	s.TotalLines += other.TotalLines
	s.CodeLines += other.CodeLines
	s.CommentLines += other.CommentLines
	s.DocLines += other.DocLines
	s.BlankLines += other.BlankLines
	s.FileSize += other.FileSize
}

// ExtensionStats 表示某个后缀下的文件数与行统计。
type ExtensionStats struct {
	Files int64     `json:"files" yaml:"files"`
	Stats FileStats `json:"stats" yaml:"stats"`
}

// CodeStats 是项目级行统计汇总。
type CodeStats struct {
	TotalFiles        int64                     `json:"total_files" yaml:"total_files"`
	TotalLines        int64                     `json:"total_lines" yaml:"total_lines"`
	TotalCodeLines    int64                     `json:"total_code_lines" yaml:"total_code_lines"`
	TotalCommentLines int64                     `json:"total_comment_lines" yaml:"total_comment_lines"`
	TotalDocLines     int64                     `json:"total_doc_lines" yaml:"total_doc_lines"`
	TotalBlankLines   int64                     `json:"total_blank_lines" yaml:"total_blank_lines"`
	TotalSize         int64                     `json:"total_size" yaml:"total_size"`
	ByExtension       map[string]ExtensionStats `json:"by_extension" yaml:"by_extension"`
}

// NewCodeStats 创建一个空的项目统计对象。
func NewCodeStats() CodeStats {
	return CodeStats{ByExtension: make(map[string]ExtensionStats)}
}

// AddFile 累加一个文件的统计值到项目总计中。
func (s *CodeStats) AddFile(extension string, stats FileStats) {
	if s.ByExtension == nil {
		s.ByExtension = make(map[string]ExtensionStats)
	}

	s.TotalFiles++
	s.TotalLines += stats.TotalLines
	s.TotalCodeLines += stats.CodeLines
	s.TotalCommentLines += stats.CommentLines
	s.TotalDocLines += stats.DocLines
	s.TotalBlankLines += stats.BlankLines
	s.TotalSize += stats.FileSize

	entry := s.ByExtension[extension]
	entry.Files++
	entry.Stats.Add(stats)
	s.ByExtension[extension] = entry
}

// AsFileStats 把项目统计折叠成一个合成的 FileStats，供项目级质量评分复用单文件公式。
func (s CodeStats) AsFileStats() FileStats {
	return FileStats{
		TotalLines:   s.TotalLines,
		CodeLines:    s.TotalCodeLines,
		CommentLines: s.TotalCommentLines,
		DocLines:     s.TotalDocLines,
		BlankLines:   s.TotalBlankLines,
		FileSize:     s.TotalSize,
	}
}

// FileResult 表示单文件扫描结果。
// Functions/Structures 只在进程内传递给聚合器，不直接输出；
// 对外展示的是 Complexity 中的汇总与函数明细。
type FileResult struct {
	Path       string           `json:"path" yaml:"path"`
	Language   string           `json:"language" yaml:"language"`
	Extension  string           `json:"extension" yaml:"extension"`
	Stats      FileStats        `json:"stats" yaml:"stats"`
	Cached     bool             `json:"cached" yaml:"cached"`
	Complexity *ComplexityStats `json:"complexity,omitempty" yaml:"complexity,omitempty"`
	Functions  []FunctionInfo   `json:"-" yaml:"-"`
	Structures []StructureInfo  `json:"-" yaml:"-"`
}

// LanguageSummary 表示某个语言的聚合结果。
type LanguageSummary struct {
	Language             string    `json:"language" yaml:"language"`
	Extensions           []string  `json:"extensions" yaml:"extensions"`
	Files                int64     `json:"files" yaml:"files"`
	Stats                FileStats `json:"stats" yaml:"stats"`
	Functions            int       `json:"functions" yaml:"functions"`
	Structures           int       `json:"structures" yaml:"structures"`
	CyclomaticComplexity float64   `json:"cyclomatic_complexity" yaml:"cyclomatic_complexity"`
}

// ScanError 记录单文件扫描失败信息。
// 设计为“错误不阻断全量扫描”，便于大仓库分析时容错。
type ScanError struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

// Ratios 表示各类行占比。
type Ratios struct {
	CodeRatio          float64 `json:"code_ratio" yaml:"code_ratio"`
	CommentRatio       float64 `json:"comment_ratio" yaml:"comment_ratio"`
	DocRatio           float64 `json:"doc_ratio" yaml:"doc_ratio"`
	BlankRatio         float64 `json:"blank_ratio" yaml:"blank_ratio"`
	CommentToCode      float64 `json:"comment_to_code" yaml:"comment_to_code"`
	DocToCode          float64 `json:"doc_to_code" yaml:"doc_to_code"`
	DocumentationRatio float64 `json:"documentation_ratio" yaml:"documentation_ratio"`
}

// TimeEstimate 表示按行数估算的开发耗时。
type TimeEstimate struct {
	CodeMinutes     float64 `json:"code_minutes" yaml:"code_minutes"`
	DocMinutes      float64 `json:"doc_minutes" yaml:"doc_minutes"`
	CommentMinutes  float64 `json:"comment_minutes" yaml:"comment_minutes"`
	TotalMinutes    float64 `json:"total_minutes" yaml:"total_minutes"`
	TotalHuman      string  `json:"total_human" yaml:"total_human"`
	LinesPerHour    float64 `json:"lines_per_hour" yaml:"lines_per_hour"`
	DevelopmentDays float64 `json:"development_days" yaml:"development_days"`
}

// ScanResult 是 scan 命令的完整输出模型。
// 包含文件级明细、语言级汇总、项目总计、复杂度汇总和错误列表。
type ScanResult struct {
	RunID       string            `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time         `json:"generated_at" yaml:"generated_at"`
	ScannedPath string            `json:"scanned_path" yaml:"scanned_path"`
	Files       []FileResult      `json:"files" yaml:"files"`
	Languages   []LanguageSummary `json:"languages" yaml:"languages"`
	Total       CodeStats         `json:"total" yaml:"total"`
	Complexity  ComplexityStats   `json:"complexity" yaml:"complexity"`
	Ratios      Ratios            `json:"ratios" yaml:"ratios"`
	Time        TimeEstimate      `json:"time" yaml:"time"`
	CacheHits   int64             `json:"cache_hits" yaml:"cache_hits"`
	Errors      []ScanError       `json:"errors" yaml:"errors"`
}
