// Package metrics exposes application counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "edalens"

// Upload outcomes
const (
	OutcomeLoaded   = "loaded"
	OutcomeRejected = "rejected"
)

// Metrics holds every collector on its own registry so tests can build isolated instances
type Metrics struct {
	registry       *prometheus.Registry
	uploads        *prometheus.CounterVec
	uploadRows     prometheus.Histogram
	reports        *prometheus.CounterVec
	dashboardBuild prometheus.Histogram
	activeSessions prometheus.Gauge
}

// New registers the application collectors plus the Go runtime and process collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Uploaded files by outcome.",
		}, []string{"outcome"}),
		uploadRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_rows",
			Help:      "Row count of successfully loaded tables.",
			Buckets:   prometheus.ExponentialBuckets(10, 10, 6),
		}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_exports_total",
			Help:      "PDF report exports by outcome.",
		}, []string{"outcome"}),
		dashboardBuild: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dashboard_build_seconds",
			Help:      "Time spent recomputing the dashboard for one request.",
			Buckets:   prometheus.DefBuckets,
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions currently held in memory.",
		}),
	}

	m.registry.MustRegister(
		m.uploads,
		m.uploadRows,
		m.reports,
		m.dashboardBuild,
		m.activeSessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordUpload counts one upload; rows is only observed for loaded tables
func (m *Metrics) RecordUpload(outcome string, rows int) {
	m.uploads.WithLabelValues(outcome).Inc()
	if outcome == OutcomeLoaded {
		m.uploadRows.Observe(float64(rows))
	}
}

// RecordReport counts one export attempt
func (m *Metrics) RecordReport(success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.reports.WithLabelValues(outcome).Inc()
}

// ObserveDashboardBuild records the time of one recomputation pass
func (m *Metrics) ObserveDashboardBuild(d time.Duration) {
	m.dashboardBuild.Observe(d.Seconds())
}

// SetActiveSessions reports the current size of the session store
func (m *Metrics) SetActiveSessions(n int) {
	m.activeSessions.Set(float64(n))
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the text exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
