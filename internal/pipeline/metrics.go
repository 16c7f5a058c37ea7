package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes pipeline instrumentation. All collectors are registered on
// the default registry at construction.
type Metrics struct {
	Documents       *prometheus.CounterVec
	StageDuration   *prometheus.HistogramVec
	FactsExtracted  prometheus.Counter
	CeilingOverruns prometheus.Counter
	QueueDrops      prometheus.Counter
}

// NewMetrics registers and returns the pipeline collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		Documents: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "docfuse_documents_total",
			Help: "Documents processed, labeled by final outcome.",
		}, []string{"outcome"}),
		StageDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "docfuse_stage_duration_seconds",
			Help:    "Wall time spent per pipeline stage.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"stage"}),
		FactsExtracted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docfuse_facts_extracted_total",
			Help: "Semantic facts extracted across all documents.",
		}),
		CeilingOverruns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docfuse_memory_ceiling_overruns_total",
			Help: "Documents failed for exceeding their memory ceiling.",
		}),
		QueueDrops: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docfuse_queue_drops_total",
			Help: "Work items dropped after the enqueue backpressure timeout.",
		}),
	}
}
