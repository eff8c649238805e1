package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"gohowmany/internal/report"
)

// newHotspotsCmd 创建 hotspots 子命令，只输出复杂度最高的函数及其关注点。
//
//	gohowmany hotspots ./project --top 20
func newHotspotsCmd(a *app) *cobra.Command {
	options := scanOptions{}
	top := 10

	hotspotsCmd := &cobra.Command{
		Use:   "hotspots [path]",
		Short: "列出复杂度最高的函数",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if top <= 0 {
				return errors.New("top must be greater than 0")
			}

			cfg := options.apply(cmd, *a.config)
			cfg.Scan.LinesOnly = false
			cfg.Complexity.DetailLimit = top
			if err := cfg.Validate(); err != nil {
				return err
			}

			result, err := a.runScan(cmd, args[0], cfg)
			if err != nil {
				return err
			}
			return report.PrintHotspots(cmd.OutOrStdout(), result.Complexity.FunctionDetails)
		},
	}

	flags := hotspotsCmd.Flags()
	flags.IntVar(&top, "top", top, "输出的函数数量")
	flags.IntVar(&options.workers, "workers", 0, "并发 worker 数量，0 表示 CPU 核数")
	flags.StringSliceVar(&options.exclude, "exclude", nil, "排除的 doublestar 模式，可重复")
	flags.BoolVar(&options.noCache, "no-cache", false, "不读写行统计缓存")
	flags.StringVar(&options.attach, "attach", "", "方法挂接模式: recent 或 enclosing")
	flags.BoolVar(&options.noIgnore, "no-ignore", false, "不读取 .gitignore")
	flags.IntVar(&options.maxDepth, "max-depth", 0, "最大遍历深度，0 表示不限")

	return hotspotsCmd
}
