package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run stages used as metric labels
const (
	StageIngest     = "ingest"
	StageReport     = "report"
	StageExportTabs = "export_tabs"
)

// Metrics holds the gauges describing the last run of each stage.
// A run is a one-shot process, so everything is a gauge written once at exit.
type Metrics struct {
	registry *prometheus.Registry

	rowsLoaded        *prometheus.GaugeVec
	promotionsTotal   prometheus.Gauge
	promotionsSkipped prometheus.Gauge
	runDuration       *prometheus.GaugeVec
	lastRunSuccess    *prometheus.GaugeVec
	lastRunTimestamp  *prometheus.GaugeVec
}

// NewMetrics registers the run metrics in a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rowsLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "imc_rows_loaded",
			Help: "Rows written to the warehouse or a JSON artifact by the last run.",
		}, []string{"stage", "target"}),
		promotionsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "imc_promotions_total",
			Help: "Promotions emitted by the last report run.",
		}),
		promotionsSkipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "imc_promotions_skipped",
			Help: "Promotions with unparseable dates in the last report run.",
		}),
		runDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "imc_run_duration_seconds",
			Help: "Wall time of the last run.",
		}, []string{"stage"}),
		lastRunSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "imc_last_run_success",
			Help: "1 if the last run succeeded, 0 otherwise.",
		}, []string{"stage"}),
		lastRunTimestamp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "imc_last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		}, []string{"stage"}),
	}

	m.registry.MustRegister(
		m.rowsLoaded,
		m.promotionsTotal,
		m.promotionsSkipped,
		m.runDuration,
		m.lastRunSuccess,
		m.lastRunTimestamp,
	)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RowsLoaded records how many rows a stage wrote to target.
func (m *Metrics) RowsLoaded(stage, target string, rows int) {
	m.rowsLoaded.WithLabelValues(stage, target).Set(float64(rows))
}

// Promotions records the report totals.
func (m *Metrics) Promotions(total, skipped int) {
	m.promotionsTotal.Set(float64(total))
	m.promotionsSkipped.Set(float64(skipped))
}

// Finish records the outcome of a stage that started at start.
func (m *Metrics) Finish(stage string, start time.Time, err error) {
	now := time.Now()
	m.runDuration.WithLabelValues(stage).Set(now.Sub(start).Seconds())
	m.lastRunTimestamp.WithLabelValues(stage).Set(float64(now.Unix()))
	if err != nil {
		m.lastRunSuccess.WithLabelValues(stage).Set(0)
		return
	}
	m.lastRunSuccess.WithLabelValues(stage).Set(1)
}

// WriteTextfile writes the registry in the node-exporter textfile format.
// An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
