package scanner

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 是单个扫描服务的 Prometheus 指标，注册在独立的 registry 上，
// 避免多次扫描或并行测试之间互相污染全局注册表。
// 所有方法对 nil 接收者安全。
type Metrics struct {
	registry          *prometheus.Registry
	filesScanned      *prometheus.CounterVec
	cacheHits         prometheus.Counter
	scanErrors        prometheus.Counter
	analysisSeconds   *prometheus.HistogramVec
	functionsDetected *prometheus.CounterVec
}

// NewMetrics 创建并注册扫描指标。
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		filesScanned: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gohowmany",
			Name:      "files_scanned_total",
			Help:      "Total number of files classified, by language.",
		}, []string{"language"}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "gohowmany",
			Name:      "cache_hits_total",
			Help:      "Total number of files served from the line-stats cache.",
		}),
		scanErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "gohowmany",
			Name:      "scan_errors_total",
			Help:      "Total number of files that could not be scanned.",
		}),
		analysisSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gohowmany",
			Name:      "analysis_seconds",
			Help:      "Time spent classifying and analyzing a single file.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"language"}),
		functionsDetected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gohowmany",
			Name:      "functions_detected_total",
			Help:      "Total number of functions detected, by language.",
		}, []string{"language"}),
	}
}

// Registry 返回承载指标的 registry。
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteTextfile 以 node_exporter textfile 格式导出当前指标。
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) observeFile(language string, elapsed time.Duration, functions int) {
	if m == nil {
		return
	}
	m.filesScanned.WithLabelValues(language).Inc()
	m.analysisSeconds.WithLabelValues(language).Observe(elapsed.Seconds())
	if functions > 0 {
		m.functionsDetected.WithLabelValues(language).Add(float64(functions))
	}
}

func (m *Metrics) observeCacheHit(language string) {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
	m.filesScanned.WithLabelValues(language).Inc()
}

func (m *Metrics) observeError() {
	if m == nil {
		return
	}
	m.scanErrors.Inc()
}
