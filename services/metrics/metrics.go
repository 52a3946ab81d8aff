package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

// PipelineJob is the pushgateway job name of pipeline runs
const PipelineJob = "books_pipeline"

// Registry holds the pipeline and dashboard collectors
type Registry struct {
	reg *prometheus.Registry

	PagesFetched       prometheus.Counter
	RecordsExtracted   prometheus.Counter
	RecordsNormalized  prometheus.Counter
	ConversionFailures prometheus.Counter
	LoadDurationSec    prometheus.Histogram
	Runs               *prometheus.CounterVec

	Requests      *prometheus.CounterVec
	SnapshotReads *prometheus.CounterVec
	SnapshotBooks prometheus.Gauge
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	pages := prometheus.NewCounter(prometheus.CounterOpts{Name: "books_pages_fetched_total"})
	extracted := prometheus.NewCounter(prometheus.CounterOpts{Name: "books_records_extracted_total"})
	normalized := prometheus.NewCounter(prometheus.CounterOpts{Name: "books_records_normalized_total"})
	failures := prometheus.NewCounter(prometheus.CounterOpts{Name: "books_conversion_failures_total"})
	loadDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "books_load_duration_seconds",
		Buckets: prometheus.DefBuckets,
	})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "books_pipeline_runs_total"}, []string{"result"})

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "books_dashboard_requests_total"}, []string{"endpoint"})
	snapshotReads := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "books_snapshot_reads_total"}, []string{"source"})
	snapshotBooks := prometheus.NewGauge(prometheus.GaugeOpts{Name: "books_snapshot_books"})

	r.MustRegister(pages, extracted, normalized, failures, loadDuration, runs, requests, snapshotReads, snapshotBooks)
	return &Registry{
		reg:                r,
		PagesFetched:       pages,
		RecordsExtracted:   extracted,
		RecordsNormalized:  normalized,
		ConversionFailures: failures,
		LoadDurationSec:    loadDuration,
		Runs:               runs,
		Requests:           requests,
		SnapshotReads:      snapshotReads,
		SnapshotBooks:      snapshotBooks,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// Push replaces the job's metric group on the pushgateway at url with every collector
func (r *Registry) Push(ctx context.Context, url, job string) error {
	return push.New(url, job).Gatherer(r.reg).PushContext(ctx)
}
