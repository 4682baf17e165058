package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "collectionbuilder"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry        *prom.Registry
	documentTime    *prom.HistogramVec
	documentResults *prom.CounterVec
	stageTime       *prom.HistogramVec
	buildTime       prom.Histogram
	buildOutcome    *prom.CounterVec
	collectionSize  *prom.GaugeVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg
// (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		documentTime: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "document_duration_seconds",
			Help:      "Time to parse, validate and transform one document",
			Buckets:   prom.DefBuckets,
		}, []string{"collection"}),
		documentResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "document_results_total",
			Help:      "Document outcomes by collection and result",
		}, []string{"collection", "result"}),
		stageTime: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_stage_duration_seconds",
			Help:      "Duration of individual markup compile stages",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"stage"}),
		buildTime: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		collectionSize: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "collection_records",
			Help:      "Records admitted to each collection by the last build",
		}, []string{"collection"}),
	}
	reg.MustRegister(pr.documentTime, pr.documentResults, pr.stageTime, pr.buildTime, pr.buildOutcome, pr.collectionSize)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.registry }

func (p *PrometheusRecorder) ObserveDocumentDuration(collection string, d time.Duration) {
	if p == nil {
		return
	}
	p.documentTime.WithLabelValues(collection).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncDocumentResult(collection string, result ResultLabel) {
	if p == nil {
		return
	}
	p.documentResults.WithLabelValues(collection, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageTime.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildTime.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetCollectionSize(collection string, n int) {
	if p == nil {
		return
	}
	p.collectionSize.WithLabelValues(collection).Set(float64(n))
}

// WriteTextfile writes every gathered family to path in the text exposition
// format. The file is replaced atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
