package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gohowmany/internal/classifier"
	"gohowmany/internal/languages"
)

// newLanguageCmd 创建 language 子命令。
// 先列出带结构分析的语言，再列出只做行统计的后缀。
func newLanguageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "language",
		Short: "展示支持的语言及后缀",
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry := languages.NewRegistry()
			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			if _, err := fmt.Fprintln(writer, "LANGUAGE\tEXTENSIONS"); err != nil {
				return err
			}

			analyzed := make(map[string]bool)
			for _, item := range registry.Languages() {
				for _, ext := range item.Extensions {
					analyzed[ext] = true
				}
				if _, err := fmt.Fprintf(writer, "%s\t%s\n", item.Name, strings.Join(item.Extensions, ", ")); err != nil {
					return err
				}
			}

			linesOnly := make([]string, 0)
			for _, ext := range classifier.DefaultTable().Extensions() {
				if !analyzed[ext] {
					linesOnly = append(linesOnly, ext)
				}
			}
			if len(linesOnly) > 0 {
				if _, err := fmt.Fprintf(writer, "\n(lines only)\t%s\n", strings.Join(linesOnly, ", ")); err != nil {
					return err
				}
			}

			return writer.Flush()
		},
	}
}
