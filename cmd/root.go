// Package cmd 提供 gohowmany 的命令行入口与子命令编排。
package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"gohowmany/internal/config"
	"gohowmany/internal/logging"
)

// app 保存全局参数以及 PersistentPreRunE 中加载出的配置与日志器。
type app struct {
	version    string
	configPath string
	logLevel   string

	config   *config.Config
	logger   *slog.Logger
	logClose io.Closer
}

// Execute 组装根命令并执行。
// version 参数由 main 包注入，便于在 CI/CD 中打包不同版本。
// 收到中断信号时取消上下文，正在进行的扫描会尽快退出。
func Execute(version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd(version)
	return rootCmd.ExecuteContext(ctx)
}

// newRootCmd 创建根命令并注册全部子命令。
func newRootCmd(version string) *cobra.Command {
	a := &app{version: version}

	rootCmd := &cobra.Command{
		Use:   "gohowmany",
		Short: "多语言代码行数与复杂度分析工具",
		Long: "gohowmany 统计 code/comment/doc/blank 行数，\n" +
			"并基于逐行启发式识别函数与类型，给出复杂度、可维护性与健康度评分。",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "配置文件路径（yaml 或 toml），默认按约定位置查找")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "日志级别: debug, info, warn, error")

	rootCmd.AddCommand(newVersionCmd(version))
	rootCmd.AddCommand(newLanguageCmd())
	rootCmd.AddCommand(newScanCmd(a))
	rootCmd.AddCommand(newHotspotsCmd(a))

	return rootCmd
}

// setup 加载配置并安装默认日志器。
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, path, err := config.NewLoader().Load(a.configPath)
	if err != nil {
		return err
	}
	if level := strings.TrimSpace(a.logLevel); level != "" {
		cfg.Logging.Level = level
	}

	logger, closer, err := logging.New(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	a.config, a.logger, a.logClose = cfg, logger, closer
	if path != "" {
		logger.Debug("config loaded", "path", path)
	}
	return nil
}

func (a *app) teardown() error {
	if a.logClose == nil {
		return nil
	}
	return a.logClose.Close()
}
