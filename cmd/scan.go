package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"gohowmany/internal/cache"
	"gohowmany/internal/config"
	"gohowmany/internal/languages"
	"gohowmany/internal/model"
	"gohowmany/internal/report"
	"gohowmany/internal/scanner"
)

// scanOptions 存放 scan 命令的可配置参数。
// 只有显式传入的 flag 会覆盖配置文件中的值。
type scanOptions struct {
	format      string
	output      string
	workers     int
	exclude     []string
	noCache     bool
	attach      string
	metricsFile string
	details     int
	linesOnly   bool
	noIgnore    bool
	hidden      bool
	generated   bool
	maxDepth    int
}

// newScanCmd 创建 scan 子命令。
// 示例：
//
//	gohowmany scan .
//	gohowmany scan ./project --format json --output result.json
//	gohowmany scan ./project --exclude "testdata/**" --details 20
func newScanCmd(a *app) *cobra.Command {
	options := scanOptions{}

	scanCmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "扫描目录或文件并输出行数、复杂度与质量指标",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := options.apply(cmd, *a.config)
			if err := cfg.Validate(); err != nil {
				return err
			}

			result, err := a.runScan(cmd, args[0], cfg)
			if err != nil {
				return err
			}

			if err := report.Render(cmd.OutOrStdout(), cfg.Output.Format, result); err != nil {
				return err
			}

			outputPath := strings.TrimSpace(cfg.Output.File)
			if outputPath == "" {
				return nil
			}
			fallback := cfg.Output.Format
			if strings.EqualFold(fallback, report.FormatTable) {
				fallback = report.FormatJSON
			}
			if err := report.WriteFile(outputPath, report.FormatForPath(outputPath, fallback), result); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "\nresult exported to %s\n", outputPath)
			return nil
		},
	}

	flags := scanCmd.Flags()
	flags.StringVar(&options.format, "format", "", "输出格式: table, json 或 yaml")
	flags.StringVar(&options.output, "output", "", "导出文件路径，按后缀选择 json 或 yaml")
	flags.IntVar(&options.workers, "workers", 0, "并发 worker 数量，0 表示 CPU 核数")
	flags.StringSliceVar(&options.exclude, "exclude", nil, "排除的 doublestar 模式，可重复")
	flags.BoolVar(&options.noCache, "no-cache", false, "不读写行统计缓存")
	flags.StringVar(&options.attach, "attach", "", "方法挂接模式: recent 或 enclosing")
	flags.StringVar(&options.metricsFile, "metrics-file", "", "以 Prometheus textfile 格式导出扫描指标")
	flags.IntVar(&options.details, "details", 0, "项目级函数明细条数，0 表示全部")
	flags.BoolVar(&options.linesOnly, "lines-only", false, "只统计行数，跳过复杂度分析")
	flags.BoolVar(&options.noIgnore, "no-ignore", false, "不读取 .gitignore")
	flags.BoolVar(&options.hidden, "hidden", false, "包含以 '.' 开头的文件与目录")
	flags.BoolVar(&options.generated, "include-generated", false, "包含 .min.js、.pb.go 等生成文件")
	flags.IntVar(&options.maxDepth, "max-depth", 0, "最大遍历深度，0 表示不限")

	return scanCmd
}

// apply 把显式设置的 flag 合并到配置副本上。
func (o scanOptions) apply(cmd *cobra.Command, cfg config.Config) config.Config {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = o.format
	}
	if flags.Changed("output") {
		cfg.Output.File = o.output
	}
	if flags.Changed("workers") {
		cfg.Scan.Workers = o.workers
	}
	if flags.Changed("exclude") {
		cfg.Scan.Exclude = append(append([]string{}, cfg.Scan.Exclude...), o.exclude...)
	}
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !o.noCache
	}
	if flags.Changed("attach") {
		cfg.Complexity.AttachMode = o.attach
	}
	if flags.Changed("metrics-file") {
		cfg.Output.MetricsFile = o.metricsFile
	}
	if flags.Changed("details") {
		cfg.Complexity.DetailLimit = o.details
	}
	if flags.Changed("lines-only") {
		cfg.Scan.LinesOnly = o.linesOnly
	}
	if flags.Changed("no-ignore") {
		cfg.Scan.Gitignore = !o.noIgnore
	}
	if flags.Changed("hidden") {
		cfg.Scan.SkipHidden = !o.hidden
	}
	if flags.Changed("include-generated") {
		cfg.Scan.SkipGenerated = !o.generated
	}
	if flags.Changed("max-depth") {
		cfg.Scan.MaxDepth = o.maxDepth
	}
	return cfg
}

// runScan 按配置组装注册表、缓存与指标并执行一次扫描。
// 缓存或指标写入失败只记录警告，不影响扫描结果。
func (a *app) runScan(cmd *cobra.Command, path string, cfg config.Config) (model.ScanResult, error) {
	if err := scanner.ValidateExcludes(cfg.Scan.Exclude); err != nil {
		return model.ScanResult{}, err
	}
	mode, err := languages.ParseAttachMode(cfg.Complexity.AttachMode)
	if err != nil {
		return model.ScanResult{}, err
	}

	var fileCache *cache.FileCache
	if cfg.Cache.Enabled {
		fileCache, err = cache.Load(cachePath(cfg.Cache.Path))
		if err != nil {
			a.logger.Warn("cache disabled", "error", err)
			fileCache = nil
		}
	}

	var metrics *scanner.Metrics
	if cfg.Output.MetricsFile != "" {
		metrics = scanner.NewMetrics()
	}

	service := scanner.NewService(languages.NewRegistry(languages.WithAttachMode(mode)), scanner.Options{
		Workers:        cfg.Scan.Workers,
		Exclude:        cfg.Scan.Exclude,
		DefaultIgnores: cfg.Scan.DefaultIgnores,
		Gitignore:      cfg.Scan.Gitignore,
		SkipHidden:     cfg.Scan.SkipHidden,
		SkipGenerated:  cfg.Scan.SkipGenerated,
		MaxDepth:       cfg.Scan.MaxDepth,
		Cache:          fileCache,
		LinesOnly:      cfg.Scan.LinesOnly,
		DetailLimit:    cfg.Complexity.DetailLimit,
		Rates:          cfg.Complexity.Rates,
		Logger:         a.logger,
		Metrics:        metrics,
	})

	result, err := service.ScanPath(cmd.Context(), path)
	if err != nil {
		return result, err
	}

	if fileCache != nil {
		if removed := fileCache.CleanupMissingFiles(); removed > 0 {
			a.logger.Debug("cache entries pruned", "count", removed)
		}
		if err := fileCache.Save(); err != nil {
			a.logger.Warn("cache save failed", "path", fileCache.Path(), "error", err)
		}
	}
	if err := metrics.WriteTextfile(cfg.Output.MetricsFile); err != nil {
		a.logger.Warn("metrics export failed", "path", cfg.Output.MetricsFile, "error", err)
	}
	return result, nil
}

// cachePath 返回缓存文件位置：配置为空时放在用户缓存目录，取不到则退回当前目录。
func cachePath(configured string) string {
	if configured = strings.TrimSpace(configured); configured != "" {
		return configured
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "gohowmany", "stats.cache")
	}
	return filepath.Join(".gohowmany", "stats.cache")
}
