package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application's Prometheus collectors.
type Metrics struct {
	UploadsTotal     *prometheus.CounterVec
	ComparisonsTotal prometheus.Counter
	ParseFailures    prometheus.Counter
	AnalysisDuration prometheus.Histogram
}

// NewMetrics registers the application collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UploadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "billscan_uploads_total",
			Help: "Uploaded files processed, by analysis kind.",
		}, []string{"kind"}),
		ComparisonsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "billscan_comparisons_total",
			Help: "Cross-month comparisons computed.",
		}),
		ParseFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "billscan_parse_failures_total",
			Help: "Uploads rejected because the file could not be parsed.",
		}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "billscan_analysis_duration_seconds",
			Help:    "Wall time of a full package analysis.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
