package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	importRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sijamu_import_rows_total",
		Help: "Spreadsheet rows processed by imports, by category and result",
	}, []string{"category", "result"})
	exportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sijamu_exports_total",
		Help: "Export files generated, by format",
	}, []string{"format"})
	scopeDeniedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sijamu_scope_denied_total",
		Help: "Requests rejected because the caller has no study program",
	})
	exportsSweptTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sijamu_exports_swept_total",
		Help: "Orphaned export files removed by the sweeper",
	})
)

// Register registers Prometheus collectors. Call once per registry.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(importRowsTotal, exportsTotal, scopeDeniedTotal, exportsSweptTotal)
}

// ObserveImport records the outcome of one import batch.
func ObserveImport(category string, added, failed int) {
	importRowsTotal.WithLabelValues(category, "added").Add(float64(added))
	importRowsTotal.WithLabelValues(category, "failed").Add(float64(failed))
}

// IncExport increments the generated export counter.
func IncExport(format string) { exportsTotal.WithLabelValues(format).Inc() }

// IncScopeDenied increments the missing-program rejection counter.
func IncScopeDenied() { scopeDeniedTotal.Inc() }

// AddSwept adds removed orphan export files.
func AddSwept(n int) { exportsSweptTotal.Add(float64(n)) }
