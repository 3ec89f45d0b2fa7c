package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Analysis metrics
	AnalysisRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "confluence_analysis_runs_total",
			Help: "Total number of confluence analysis runs",
		},
		[]string{"status"}, // status: success|insufficient_data|error
	)

	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "confluence_analysis_duration_seconds",
			Help:    "End-to-end analysis duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"stage"}, // stage: technical|sentiment|options_flow|confluence|total
	)

	// Component metrics
	ComponentAvailability = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "confluence_component_availability_total",
			Help: "How often each component contributed to a confluence score",
		},
		[]string{"component", "available"}, // available: yes|no
	)

	SentimentSourcesUsed = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "confluence_sentiment_sources_used",
			Help:    "Number of sentiment sources surviving the confidence gate",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 6},
		},
	)

	DivergenceDetected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "confluence_sentiment_divergence_total",
			Help: "Total aggregations that flagged cross-source divergence",
		},
	)

	// Flow pattern metrics
	FlowPatterns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "confluence_flow_patterns_total",
			Help: "Total classified options flow patterns",
		},
		[]string{"pattern"}, // pattern: sweep|block|none
	)

	ThresholdGates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "confluence_threshold_gates_total",
			Help: "Confluence scores by threshold gate outcome",
		},
		[]string{"gate"}, // gate: below_min|actionable|high_conviction
	)
)

// init registers all metrics with the default registry
func init() {
	prometheus.MustRegister(AnalysisRuns)
	prometheus.MustRegister(AnalysisDuration)
	prometheus.MustRegister(ComponentAvailability)
	prometheus.MustRegister(SentimentSourcesUsed)
	prometheus.MustRegister(DivergenceDetected)
	prometheus.MustRegister(FlowPatterns)
	prometheus.MustRegister(ThresholdGates)
}

// Handler returns the HTTP handler exposing all registered metrics
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures a stage duration and observes it on stop
type Timer struct {
	start time.Time
	stage string
}

// NewTimer starts timing a stage
func NewTimer(stage string) *Timer {
	return &Timer{start: time.Now(), stage: stage}
}

// Stop observes the elapsed duration
func (t *Timer) Stop() {
	AnalysisDuration.WithLabelValues(t.stage).Observe(time.Since(t.start).Seconds())
}
