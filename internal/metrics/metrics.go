// Package metrics exposes build statistics as Prometheus metrics.
//
// A Collector owns a dedicated registry so the serve command can expose the
// numbers of the snapshot it serves without the process-wide default
// metrics. Batch commands write the same registry to a textfile.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/refdata/internal/core"
	"github.com/JonMunkholm/refdata/internal/matrix"
	"github.com/JonMunkholm/refdata/internal/model"
)

// Prometheus metric names.
const (
	MetricRowsReadTotal        = "refdata_rows_read_total"
	MetricRowsSkippedTotal     = "refdata_rows_skipped_total"
	MetricEntities             = "refdata_entities"
	MetricMatrixNonzeros       = "refdata_matrix_nonzeros"
	MetricMatrixDimension      = "refdata_matrix_dimension"
	MetricBuildDurationSeconds = "refdata_build_duration_seconds"
)

// Collector records what a build read and produced.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Collector struct {
	mu       sync.Mutex
	registry *prometheus.Registry

	rowsRead       *prometheus.CounterVec
	rowsSkipped    *prometheus.CounterVec
	entities       *prometheus.GaugeVec
	matrixNonzeros prometheus.Gauge
	matrixDim      *prometheus.GaugeVec
	buildDuration  prometheus.Histogram
}

// New creates a collector with its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		rowsRead: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRowsReadTotal,
				Help: "Data rows read from the source tables.",
			},
			[]string{"table"},
		),
		rowsSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRowsSkippedTotal,
				Help: "Rows or links skipped while reading the source tables.",
			},
			[]string{"table", "reason"},
		),
		entities: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: MetricEntities,
				Help: "Distinct entities in the reference data graph.",
			},
			[]string{"kind"},
		),
		matrixNonzeros: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricMatrixNonzeros,
			Help: "Stored entries of the characterization matrix.",
		}),
		matrixDim: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: MetricMatrixDimension,
				Help: "Characterization matrix size by axis (impacts, flows).",
			},
			[]string{"axis"},
		),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricBuildDurationSeconds,
			Help:    "Wall time of library builds.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
	}

	c.registry.MustRegister(
		c.rowsRead,
		c.rowsSkipped,
		c.entities,
		c.matrixNonzeros,
		c.matrixDim,
		c.buildDuration,
	)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveReport adds the row counts of a read to the counters.
func (c *Collector) ObserveReport(r *core.Report) {
	if r == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, table := range r.Tables() {
		if n := r.Read(table); n > 0 {
			c.rowsRead.WithLabelValues(table).Add(float64(n))
		}
		for _, reason := range r.Reasons(table) {
			c.rowsSkipped.WithLabelValues(table, reason).Add(float64(r.Skipped(table, reason)))
		}
	}
}

// ObserveGraph sets the entity gauges from the graph.
func (c *Collector) ObserveGraph(d *model.RefData) {
	if d == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for kind, n := range d.Counts() {
		c.entities.WithLabelValues(string(kind)).Set(float64(n))
	}
}

// ObserveExport sets the matrix gauges. A nil export means no matrix was
// written and reports zero on every axis.
func (c *Collector) ObserveExport(e *matrix.Export) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e == nil {
		c.matrixNonzeros.Set(0)
		c.matrixDim.WithLabelValues("impacts").Set(0)
		c.matrixDim.WithLabelValues("flows").Set(0)
		return
	}
	rows, cols := e.Shape()
	c.matrixNonzeros.Set(float64(e.Matrix.NNZ()))
	c.matrixDim.WithLabelValues("impacts").Set(float64(rows))
	c.matrixDim.WithLabelValues("flows").Set(float64(cols))
}

// ObserveBuild records the duration of a build that started at start.
func (c *Collector) ObserveBuild(start time.Time) {
	c.buildDuration.Observe(time.Since(start).Seconds())
}

// ObserveRun records a finished run that started at start.
func (c *Collector) ObserveRun(start time.Time, r *core.Report, d *model.RefData, e *matrix.Export) {
	c.ObserveReport(r)
	c.ObserveGraph(d)
	c.ObserveExport(e)
	c.ObserveBuild(start)
}

// WriteTextfile writes the metrics to path in the text format read by the
// node_exporter textfile collector. The file is replaced atomically.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
