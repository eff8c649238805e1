package quality

import (
	"fmt"
	"math"

	"gohowmany/internal/model"
)

// Rates 是每行耗时（分钟）。
type Rates struct {
	CodeLine    float64 `yaml:"code_line" toml:"code_line"`
	DocLine     float64 `yaml:"doc_line" toml:"doc_line"`
	CommentLine float64 `yaml:"comment_line" toml:"comment_line"`
}

// DefaultRates 返回默认的行耗时估算。
func DefaultRates() Rates {
	return Rates{CodeLine: 0.2, DocLine: 0.5, CommentLine: 0.1}
}

const hoursPerDay = 8

// Ratios 计算各类行占比，保留两位小数。
func Ratios(stats model.FileStats) model.Ratios {
	var ratios model.Ratios
	if stats.TotalLines > 0 {
		total := float64(stats.TotalLines)
		ratios.CodeRatio = round2(float64(stats.CodeLines) / total)
		ratios.CommentRatio = round2(float64(stats.CommentLines) / total)
		ratios.DocRatio = round2(float64(stats.DocLines) / total)
		ratios.BlankRatio = round2(float64(stats.BlankLines) / total)
		ratios.DocumentationRatio = round2(float64(stats.CommentLines+stats.DocLines) / total)
	}
	if stats.CodeLines > 0 {
		code := float64(stats.CodeLines)
		ratios.CommentToCode = round2(float64(stats.CommentLines) / code)
		ratios.DocToCode = round2(float64(stats.DocLines) / code)
	}
	return ratios
}

// EstimateTime 按行类型估算编写耗时，空行不计时。
func EstimateTime(stats model.CodeStats, rates Rates) model.TimeEstimate {
	estimate := model.TimeEstimate{
		CodeMinutes:    math.Floor(float64(stats.TotalCodeLines) * rates.CodeLine),
		DocMinutes:     math.Floor(float64(stats.TotalDocLines) * rates.DocLine),
		CommentMinutes: math.Floor(float64(stats.TotalCommentLines) * rates.CommentLine),
	}
	estimate.TotalMinutes = estimate.CodeMinutes + estimate.DocMinutes + estimate.CommentMinutes
	estimate.TotalHuman = FormatMinutes(int64(estimate.TotalMinutes))

	hours := estimate.TotalMinutes / 60
	if hours > 0 {
		estimate.LinesPerHour = round3(float64(stats.TotalLines) / hours)
	}
	estimate.DevelopmentDays = round3(hours / hoursPerDay)
	return estimate
}

// FormatMinutes 把分钟数格式化为 "1d 2h 3m" 形式，有天数时总是带上小时。
func FormatMinutes(minutes int64) string {
	switch {
	case minutes <= 0:
		return "0m"
	case minutes < 60:
		return fmt.Sprintf("%dm", minutes)
	case minutes < 24*60:
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	}
	days := minutes / (24 * 60)
	hours := minutes % (24 * 60) / 60
	text := fmt.Sprintf("%dd %dh", days, hours)
	if rest := minutes % 60; rest > 0 {
		text += fmt.Sprintf(" %dm", rest)
	}
	return text
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func round3(value float64) float64 {
	return math.Round(value*1000) / 1000
}
