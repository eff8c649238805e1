// Package scanner 提供并发扫描调度能力。
// 该层负责目录遍历、任务分发、并发执行和结果聚合，不负责语法解析细节。
package scanner

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"gohowmany/internal/cache"
	"gohowmany/internal/classifier"
	"gohowmany/internal/languages"
	"gohowmany/internal/model"
	"gohowmany/internal/quality"
)

// Options 控制一次扫描的行为。零值可用：worker 数取 CPU 核数，不使用缓存。
type Options struct {
	Workers int
	// Exclude 是相对扫描根目录的 doublestar 模式。
	Exclude        []string
	DefaultIgnores bool
	// Gitignore 为 true 时遵守扫描根及各子目录下的 .gitignore。
	Gitignore bool
	// SkipHidden 跳过以 '.' 开头的文件与目录。
	SkipHidden bool
	// SkipGenerated 跳过 .min.js、.pb.go 等生成文件。
	SkipGenerated bool
	// MaxDepth 限制遍历深度，根目录下的条目为第 1 层，0 表示不限。
	MaxDepth int
	// Cache 为空时不读写缓存。
	Cache *cache.FileCache
	// LinesOnly 只统计行数，跳过结构分析。
	LinesOnly bool
	// DetailLimit 限制项目级函数明细条数（按复杂度降序），0 表示全部保留。
	DetailLimit int
	Rates       quality.Rates
	Logger      *slog.Logger
	Metrics     *Metrics
}

// Service 是扫描服务对象。
type Service struct {
	registry   *languages.Registry
	classifier *classifier.Classifier
	calculator *quality.Calculator
	options    Options
	workers    int
	logger     *slog.Logger
}

// scanTask 表示一个待分析文件任务。analyzer 为空表示只做行统计。
type scanTask struct {
	absolutePath string
	displayPath  string
	extension    string
	language     string
	analyzer     languages.Analyzer
}

// workerResult 表示 worker 的执行产物。
type workerResult struct {
	fileResult *model.FileResult
	scanError  *model.ScanError
}

// NewService 创建扫描服务。
func NewService(registry *languages.Registry, options Options) *Service {
	workers := options.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if options.Rates == (quality.Rates{}) {
		options.Rates = quality.DefaultRates()
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		registry:   registry,
		classifier: classifier.New(nil),
		calculator: quality.New(),
		options:    options,
		workers:    workers,
		logger:     logger,
	}
}

// ScanPath 扫描目录或单文件。
// 遍历与 worker 由 errgroup 协调：遍历出错或上下文取消时所有 worker 退出。
// 单文件失败只记录到 Errors，不会中断整体扫描。
func (s *Service) ScanPath(ctx context.Context, targetPath string) (model.ScanResult, error) {
	result := model.ScanResult{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	}

	trimmedPath := strings.TrimSpace(targetPath)
	if trimmedPath == "" {
		return result, errors.New("scan path is empty")
	}

	absoluteTarget, err := filepath.Abs(trimmedPath)
	if err != nil {
		return result, fmt.Errorf("resolve absolute path: %w", err)
	}

	info, err := os.Stat(absoluteTarget)
	if err != nil {
		return result, fmt.Errorf("stat path: %w", err)
	}

	result.ScannedPath = absoluteTarget
	s.logger.Debug("scan started", "run_id", result.RunID, "path", absoluteTarget, "workers", s.workers)

	group, groupCtx := errgroup.WithContext(ctx)
	tasks := make(chan scanTask, s.workers*4)
	results := make(chan workerResult, s.workers*4)

	group.Go(func() error {
		defer close(tasks)
		if info.IsDir() {
			return s.enqueueDirectoryTasks(groupCtx, absoluteTarget, tasks)
		}
		return s.enqueueSingleFileTask(groupCtx, absoluteTarget, tasks)
	})

	var workerGroup errgroup.Group
	for i := 0; i < s.workers; i++ {
		workerGroup.Go(func() error {
			s.runWorker(groupCtx, tasks, results)
			return nil
		})
	}

	go func() {
		_ = workerGroup.Wait()
		close(results)
	}()

	result.Files = make([]model.FileResult, 0)
	result.Errors = make([]model.ScanError, 0)

	for item := range results {
		if item.fileResult != nil {
			result.Files = append(result.Files, *item.fileResult)
		}
		if item.scanError != nil {
			result.Errors = append(result.Errors, *item.scanError)
		}
	}

	if walkErr := group.Wait(); walkErr != nil {
		return result, walkErr
	}
	// 遍历结束后才取消时，worker 可能丢下了队列中的任务
	if err := ctx.Err(); err != nil {
		return result, err
	}

	s.buildSummaries(&result)
	s.logger.Info("scan finished",
		"run_id", result.RunID,
		"files", result.Total.TotalFiles,
		"functions", result.Complexity.FunctionCount,
		"errors", len(result.Errors),
		"cache_hits", result.CacheHits,
	)
	return result, nil
}

// runWorker 读取文件、分类并执行结构分析，直到任务队列关闭或上下文取消。
func (s *Service) runWorker(ctx context.Context, tasks <-chan scanTask, results chan<- workerResult) {
	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-tasks:
			if !ok {
				return
			}
			results <- s.scanFile(task)
		}
	}
}

// scanFile 处理单个文件。只统计行数的文件优先查缓存；
// 需要结构分析的文件总要重新分类，因为分析器依赖逐行结果。
func (s *Service) scanFile(task scanTask) workerResult {
	started := time.Now()
	analyze := task.analyzer != nil && !s.options.LinesOnly

	if !analyze && s.options.Cache != nil {
		if stats, ok := s.options.Cache.Get(task.absolutePath); ok {
			s.options.Metrics.observeCacheHit(task.language)
			s.logger.Debug("cache hit", "path", task.displayPath)
			return workerResult{fileResult: &model.FileResult{
				Path:      task.displayPath,
				Language:  task.language,
				Extension: task.extension,
				Stats:     stats,
				Cached:    true,
			}}
		}
	}

	content, err := os.ReadFile(task.absolutePath)
	if err != nil {
		s.options.Metrics.observeError()
		s.logger.Warn("read file failed", "path", task.displayPath, "error", err)
		return workerResult{scanError: &model.ScanError{Path: task.displayPath, Error: err.Error()}}
	}

	stats, lines := s.classifier.Classify(task.extension, content)
	fileResult := &model.FileResult{
		Path:      task.displayPath,
		Language:  task.language,
		Extension: task.extension,
		Stats:     stats,
	}

	if analyze {
		analysis := task.analyzer.Analyze(lines)
		fileResult.Functions = analysis.Functions
		fileResult.Structures = analysis.Structures
		complexity := s.calculator.FileComplexity(task.displayPath, stats, analysis.Functions, analysis.Structures)
		fileResult.Complexity = &complexity
	}

	if s.options.Cache != nil {
		if err := s.options.Cache.Insert(task.absolutePath, stats); err != nil {
			s.logger.Warn("cache insert failed", "path", task.displayPath, "error", err)
		}
	}

	s.options.Metrics.observeFile(task.language, time.Since(started), len(fileResult.Functions))
	s.logger.Debug("file scanned",
		"path", task.displayPath,
		"language", task.language,
		"lines", stats.TotalLines,
		"functions", len(fileResult.Functions),
	)
	return workerResult{fileResult: fileResult}
}

// buildSummaries 计算语言级汇总、项目总计、项目复杂度与估算。
func (s *Service) buildSummaries(result *model.ScanResult) {
	sort.Slice(result.Files, func(i int, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})

	sort.Slice(result.Errors, func(i int, j int) bool {
		return result.Errors[i].Path < result.Errors[j].Path
	})

	byLanguage := make(map[string]*model.LanguageSummary)
	cyclomaticTotals := make(map[string]int)
	result.Total = model.NewCodeStats()
	analyses := make([]quality.FileAnalysis, 0, len(result.Files))
	details := make([]model.FunctionComplexityDetail, 0)

	for _, item := range result.Files {
		result.Total.AddFile(item.Extension, item.Stats)
		if item.Cached {
			result.CacheHits++
		}

		summary, ok := byLanguage[item.Language]
		if !ok {
			extensions := s.registry.ExtensionsForLanguage(item.Language)
			if extensions == nil {
				extensions = []string{}
			}
			summary = &model.LanguageSummary{Language: item.Language, Extensions: extensions}
			byLanguage[item.Language] = summary
		}
		if !slices.Contains(summary.Extensions, item.Extension) {
			summary.Extensions = append(summary.Extensions, item.Extension)
			sort.Strings(summary.Extensions)
		}

		summary.Files++
		summary.Stats.Add(item.Stats)
		summary.Functions += len(item.Functions)
		summary.Structures += len(item.Structures)
		for _, fn := range item.Functions {
			cyclomaticTotals[item.Language] += fn.CyclomaticComplexity
		}

		if item.Complexity != nil {
			analyses = append(analyses, quality.FileAnalysis{
				Path:       item.Path,
				Extension:  item.Extension,
				Stats:      item.Stats,
				Functions:  item.Functions,
				Structures: item.Structures,
			})
			details = append(details, item.Complexity.FunctionDetails...)
		}
	}

	result.Languages = make([]model.LanguageSummary, 0, len(byLanguage))
	for language, item := range byLanguage {
		if item.Functions > 0 {
			item.CyclomaticComplexity = float64(cyclomaticTotals[language]) / float64(item.Functions)
		}
		result.Languages = append(result.Languages, *item)
	}

	sort.Slice(result.Languages, func(i int, j int) bool {
		return result.Languages[i].Language < result.Languages[j].Language
	})

	result.Complexity = s.calculator.ProjectComplexity(result.Total, analyses)
	result.Complexity.FunctionDetails = topDetails(details, s.options.DetailLimit)
	result.Ratios = quality.Ratios(result.Total.AsFileStats())
	result.Time = quality.EstimateTime(result.Total, s.options.Rates)
}

// topDetails 按圈复杂度、认知复杂度降序排列，limit 大于 0 时截断。
func topDetails(details []model.FunctionComplexityDetail, limit int) []model.FunctionComplexityDetail {
	slices.SortStableFunc(details, func(a, b model.FunctionComplexityDetail) int {
		if c := cmp.Compare(b.CyclomaticComplexity, a.CyclomaticComplexity); c != 0 {
			return c
		}
		if c := cmp.Compare(b.CognitiveComplexity, a.CognitiveComplexity); c != 0 {
			return c
		}
		if c := cmp.Compare(a.FilePath, b.FilePath); c != 0 {
			return c
		}
		return cmp.Compare(a.StartLine, b.StartLine)
	})
	if limit > 0 && len(details) > limit {
		details = details[:limit]
	}
	return details
}
