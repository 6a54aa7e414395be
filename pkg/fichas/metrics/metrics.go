// Package metrics exposes Prometheus collectors for the dashboard.
//
// All methods are safe on a nil *Metrics so callers can run without metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels.
const (
	ResultOK      = "ok"
	ResultFailed  = "failed"  // structured failure
	ResultError   = "error"   // transport failure
	ResultSkipped = "skipped" // nothing to do or busy
)

// Metrics holds the dashboard collectors and their registry.
type Metrics struct {
	reg *prometheus.Registry

	fetches       *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	submissions   *prometheus.CounterVec
	submitted     prometheus.Counter
	skippedRows   prometheus.Counter
	records       prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fichas_fetch_total",
				Help: "Fetches of the day's fichas, partitioned by result.",
			},
			[]string{"result"},
		),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fichas_fetch_duration_seconds",
			Help:    "Duration of backend fetches in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fichas_submit_total",
				Help: "Submissions of selected fichas, partitioned by result.",
			},
			[]string{"result"},
		),
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fichas_submitted_indices_total",
			Help: "Fichas sent to the process operation.",
		}),
		skippedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fichas_rows_skipped_total",
			Help: "Malformed spreadsheet rows dropped while mapping.",
		}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fichas_records_loaded",
			Help: "Fichas retained by the last successful fetch.",
		}),
	}
	m.reg.MustRegister(m.fetches, m.fetchDuration, m.submissions, m.submitted, m.skippedRows, m.records)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// ObserveFetch records one fetch. records and skipped are ignored unless
// result is ResultOK.
func (m *Metrics) ObserveFetch(result string, d time.Duration, records, skipped int) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(result).Inc()
	m.fetchDuration.Observe(d.Seconds())
	if result == ResultOK {
		m.records.Set(float64(records))
		m.skippedRows.Add(float64(skipped))
	}
}

// ObserveSubmit records one submission attempt of n indices.
func (m *Metrics) ObserveSubmit(result string, n int) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result).Inc()
	if result != ResultSkipped {
		m.submitted.Add(float64(n))
	}
}
