package languages

import (
	"strconv"
	"strings"
	"testing"

	"gohowmany/internal/classifier"
)

// prepareBenchmarkLines 生成一个含类与分支方法的 Java 源文件并完成行分类。
func prepareBenchmarkLines(b *testing.B) []classifier.Line {
	b.Helper()

	lines := make([]string, 0, 4000)
	for i := 0; i < 200; i++ {
		name := strconv.Itoa(i)
		lines = append(lines,
			"/** Service "+name+" */",
			"public class Service"+name+" extends Base implements Api {",
			"    private int count = 0;",
			"    public int handle(int a, Map<String, Integer> m) {",
			"        if (a > 0 && m != null) {",
			"            for (int i = 0; i < a; i++) {",
			"                count += m.getOrDefault(\"k\", 0);",
			"            }",
			"        }",
			"        return count > 10 ? count : 0;",
			"    }",
			"}",
		)
	}

	_, classified := classifier.New(nil).Classify("java", []byte(strings.Join(lines, "\n")))
	return classified
}

// BenchmarkAnalyze 衡量单文件函数与结构分析性能。
func BenchmarkAnalyze(b *testing.B) {
	lines := prepareBenchmarkLines(b)
	analyzer, ok := NewRegistry().AnalyzerForExtension("java")
	if !ok {
		b.Fatal("java analyzer missing")
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		result := analyzer.Analyze(lines)
		if len(result.Functions) == 0 {
			b.Fatal("no functions detected")
		}
	}
}
