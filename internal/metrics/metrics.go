// Package metrics exposes autosave activity to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "notesync"

// Autosave holds the collectors of one entity kind's autosave sessions.
type Autosave struct {
	Persists        *prometheus.CounterVec
	PersistDuration prometheus.Histogram
	InFlight        prometheus.Gauge
	Coalesced       prometheus.Counter
}

// NewAutosave registers the collectors for kind (e.g. "notes") on registerer.
func NewAutosave(registerer prometheus.Registerer, kind string) *Autosave {
	factory := promauto.With(registerer)
	labels := prometheus.Labels{"kind": kind}
	return &Autosave{
		Persists: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "autosave",
				Name:        "persists_total",
				Help:        "Total number of persist requests by result",
				ConstLabels: labels,
			},
			[]string{"result"},
		),
		PersistDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace:   namespace,
				Subsystem:   "autosave",
				Name:        "persist_duration_seconds",
				Help:        "Persist request duration in seconds",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: labels,
			},
		),
		InFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace:   namespace,
				Subsystem:   "autosave",
				Name:        "persists_in_flight",
				Help:        "Number of persist requests currently running",
				ConstLabels: labels,
			},
		),
		Coalesced: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "autosave",
				Name:        "settles_coalesced_total",
				Help:        "Settled drafts folded into a follow-up persist",
				ConstLabels: labels,
			},
		),
	}
}

func (m *Autosave) PersistStarted() {
	m.InFlight.Inc()
}

func (m *Autosave) PersistFinished(err error, elapsed time.Duration) {
	m.InFlight.Dec()
	m.PersistDuration.Observe(elapsed.Seconds())
	result := "success"
	if err != nil {
		result = "error"
	}
	m.Persists.WithLabelValues(result).Inc()
}

func (m *Autosave) SettleCoalesced() {
	m.Coalesced.Inc()
}

// Handler serves the metrics gathered by gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
