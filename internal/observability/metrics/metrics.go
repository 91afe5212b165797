package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "erj_"

	// ResultSuccess labels a successful operation.
	ResultSuccess = "success"
	// ResultError labels a failed operation.
	ResultError = "error"
)

var (
	registerOnce sync.Once

	reportCreateTotal   *prometheus.CounterVec
	reportCreateLatency *prometheus.HistogramVec

	reportTakeoverTotal *prometheus.CounterVec

	analyzeTotal   *prometheus.CounterVec
	analyzeLatency *prometheus.HistogramVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec
)

// Init registers observability metrics.
func Init() {
	registerOnce.Do(func() {
		reportCreateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_create_total",
				Help: "Total report create operations by result",
			},
			[]string{"result"},
		)
		reportCreateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_create_latency_seconds",
				Help:    "Report create latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		reportTakeoverTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_takeover_total",
				Help: "Total report takeover attempts by result",
			},
			[]string{"result"},
		)

		analyzeTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "manifest_analyze_total",
				Help: "Total manifest analysis computations by result",
			},
			[]string{"result"},
		)
		analyzeLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "manifest_analyze_latency_seconds",
				Help:    "Manifest analysis latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "manifest_export_total",
				Help: "Total manifest export operations by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "manifest_export_latency_seconds",
				Help:    "Manifest export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			reportCreateTotal,
			reportCreateLatency,
			reportTakeoverTotal,
			analyzeTotal,
			analyzeLatency,
			exportTotal,
			exportLatency,
		)
	})
}

// ObserveReportCreate records create latency and result.
func ObserveReportCreate(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if reportCreateTotal != nil {
		reportCreateTotal.WithLabelValues(result).Inc()
	}
	if reportCreateLatency != nil {
		reportCreateLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncReportTakeover increments the takeover counter.
func IncReportTakeover(result string) {
	if result == "" {
		result = ResultSuccess
	}
	if reportTakeoverTotal != nil {
		reportTakeoverTotal.WithLabelValues(result).Inc()
	}
}

// ObserveAnalyze records analysis latency and result.
func ObserveAnalyze(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if analyzeTotal != nil {
		analyzeTotal.WithLabelValues(result).Inc()
	}
	if analyzeLatency != nil {
		analyzeLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveExport records export latency by format and result.
func ObserveExport(format, result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}
