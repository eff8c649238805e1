// Package report 提供 gohowmany 的输出能力。
// 支持 table 控制台格式、JSON 与 YAML（含文件导出）。
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"gohowmany/internal/model"
	"gohowmany/internal/quality"
)

// 支持的输出格式。
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Render 按格式把扫描结果写到 writer。
func Render(writer io.Writer, format string, result model.ScanResult) error {
	switch normalizeFormat(format) {
	case FormatTable:
		return PrintTable(writer, result)
	case FormatJSON:
		return PrintJSON(writer, result)
	case FormatYAML:
		return PrintYAML(writer, result)
	default:
		return fmt.Errorf("unsupported format %q, allowed values: table, json, yaml", format)
	}
}

// PrintTable 使用表格展示扫描结果。
func PrintTable(writer io.Writer, result model.ScanResult) error {
	tw := tabwriter.NewWriter(writer, 0, 4, 2, ' ', 0)
	p := &printer{w: tw}

	p.printf("SCANNED PATH\t%s\n", result.ScannedPath)
	p.printf("RUN ID\t%s\n\n", result.RunID)

	p.println("FILE\tLANGUAGE\tTOTAL\tCODE\tCOMMENT\tDOC\tBLANK\tFUNCS\tAVG CC")
	for _, item := range result.Files {
		functions, avg := "-", "-"
		if item.Complexity != nil {
			functions = fmt.Sprint(item.Complexity.FunctionCount)
			avg = fmt.Sprintf("%.1f", item.Complexity.CyclomaticComplexity)
		}
		p.printf("%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\t%s\n",
			item.Path,
			item.Language,
			item.Stats.TotalLines,
			item.Stats.CodeLines,
			item.Stats.CommentLines,
			item.Stats.DocLines,
			item.Stats.BlankLines,
			functions,
			avg,
		)
	}

	p.println("\nLANGUAGE\tFILES\tTOTAL\tCODE\tCOMMENT\tDOC\tBLANK\tFUNCS\tAVG CC")
	for _, item := range result.Languages {
		p.printf("%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%.1f\n",
			item.Language,
			item.Files,
			item.Stats.TotalLines,
			item.Stats.CodeLines,
			item.Stats.CommentLines,
			item.Stats.DocLines,
			item.Stats.BlankLines,
			item.Functions,
			item.CyclomaticComplexity,
		)
	}

	p.printf("\nTOTAL\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
		result.Total.TotalFiles,
		result.Total.TotalLines,
		result.Total.TotalCodeLines,
		result.Total.TotalCommentLines,
		result.Total.TotalDocLines,
		result.Total.TotalBlankLines,
		result.Complexity.FunctionCount,
	)

	writeQuality(p, result)

	if len(result.Complexity.FunctionDetails) > 0 {
		p.println("\nHOTSPOTS")
		writeHotspotRows(p, result.Complexity.FunctionDetails)
	}

	if len(result.Errors) > 0 {
		p.println("\nERROR FILE\tMESSAGE")
		for _, item := range result.Errors {
			p.printf("%s\t%s\n", item.Path, item.Error)
		}
	}

	if p.err != nil {
		return p.err
	}
	return tw.Flush()
}

// PrintHotspots 只输出函数明细表，供 hotspots 命令使用。
func PrintHotspots(writer io.Writer, details []model.FunctionComplexityDetail) error {
	tw := tabwriter.NewWriter(writer, 0, 4, 2, ' ', 0)
	p := &printer{w: tw}
	if len(details) == 0 {
		p.println("no functions detected")
	} else {
		writeHotspotRows(p, details)
	}
	if p.err != nil {
		return p.err
	}
	return tw.Flush()
}

func writeQuality(p *printer, result model.ScanResult) {
	c := result.Complexity
	q := c.Quality
	label := quality.New().ComplexityLabel(c.CyclomaticComplexity)

	p.println("\nQUALITY\tVALUE")
	p.printf("code health\t%.1f\n", q.CodeHealthScore)
	p.printf("maintainability\t%.1f\n", q.MaintainabilityIndex)
	p.printf("documentation\t%.1f\n", q.DocumentationCoverage)
	p.printf("avg complexity\t%.2f (%s)\n", q.AvgComplexity, label)
	p.printf("function size\t%.1f\n", q.FunctionSizeHealth)
	p.printf("nesting depth\t%.1f\n", q.NestingDepthHealth)
	p.printf("duplication\t%.1f\n", q.CodeDuplicationRatio)
	p.printf("technical debt\t%.1f\n", q.TechnicalDebtRatio)
	p.printf("structures\t%d\n", c.TotalStructures)
	p.printf("estimated effort\t%s\n", result.Time.TotalHuman)
	if result.CacheHits > 0 {
		p.printf("cache hits\t%d\n", result.CacheHits)
	}
}

func writeHotspotRows(p *printer, details []model.FunctionComplexityDetail) {
	p.println("FUNCTION\tFILE\tLINES\tCC\tCOG\tNEST\tPARAMS\tLEVEL\tCONCERNS")
	for _, item := range details {
		name := item.Name
		if item.ParentClass != "" {
			name = item.ParentClass + "." + name
		}
		concerns := "-"
		if len(item.MaintainabilityConcerns) > 0 {
			concerns = strings.Join(item.MaintainabilityConcerns, "; ")
		}
		p.printf("%s\t%s:%d-%d\t%d\t%d\t%d\t%d\t%d\t%s\t%s\n",
			name,
			item.FilePath,
			item.StartLine,
			item.EndLine,
			item.LineCount,
			item.CyclomaticComplexity,
			item.CognitiveComplexity,
			item.NestingDepth,
			item.ParameterCount,
			item.ComplexityLevel,
			concerns,
		)
	}
}

// PrintJSON 把扫描结果按易读 JSON 输出到任意 writer。
func PrintJSON(writer io.Writer, result model.ScanResult) error {
	content, err := marshal(FormatJSON, result)
	if err != nil {
		return err
	}

	if _, err := writer.Write(content); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// PrintYAML 把扫描结果按 YAML 输出到任意 writer。
func PrintYAML(writer io.Writer, result model.ScanResult) error {
	content, err := marshal(FormatYAML, result)
	if err != nil {
		return err
	}

	if _, err := writer.Write(content); err != nil {
		return fmt.Errorf("write yaml: %w", err)
	}
	return nil
}

// WriteFile 将 JSON 或 YAML 结果导出到指定路径。
// 如果目录不存在会自动创建。
func WriteFile(path string, format string, result model.ScanResult) error {
	content, err := marshal(normalizeFormat(format), result)
	if err != nil {
		return err
	}

	directory := filepath.Dir(path)
	if directory != "." && directory != "" {
		if mkErr := os.MkdirAll(directory, 0o755); mkErr != nil {
			return fmt.Errorf("create output directory: %w", mkErr)
		}
	}

	if writeErr := os.WriteFile(path, content, 0o644); writeErr != nil {
		return fmt.Errorf("write output file: %w", writeErr)
	}
	return nil
}

// FormatForPath 根据导出文件后缀推断格式，无法识别时返回 fallback。
func FormatForPath(path string, fallback string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return fallback
}

func marshal(format string, result model.ScanResult) ([]byte, error) {
	switch format {
	case FormatJSON:
		content, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal json: %w", err)
		}
		return append(content, '\n'), nil
	case FormatYAML:
		content, err := yaml.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return content, nil
	default:
		return nil, fmt.Errorf("cannot export format %q to a file", format)
	}
}

func normalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "yml" {
		return FormatYAML
	}
	return format
}

// printer 记住第一次写入错误，后续写入直接跳过。
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) println(text string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, text)
}
