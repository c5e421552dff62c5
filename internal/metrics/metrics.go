// Package metrics exposes Prometheus instruments for board activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dock attempt results.
const (
	ResultMatched = "matched"
	ResultMissed  = "missed"
)

// Round events.
const (
	RoundStarted   = "started"
	RoundCompleted = "completed"
	RoundFailed    = "failed"
)

// Metrics holds the board's instruments. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	dockAttempts *prometheus.CounterVec
	undocks      prometheus.Counter
	rounds       *prometheus.CounterVec
	reachable    prometheus.Gauge
	loadDuration prometheus.Histogram
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		// dockAttempts counts TrySetPiecePose calls by result
		dockAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tangram_dock_attempts_total",
			Help: "Piece dock attempts by result",
		}, []string{"result"}),

		undocks: f.NewCounter(prometheus.CounterOpts{
			Name: "tangram_undocks_total",
			Help: "Docked pieces released",
		}),

		rounds: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tangram_rounds_total",
			Help: "Rounds by event (started, completed, failed)",
		}, []string{"event"}),

		reachable: f.NewGauge(prometheus.GaugeOpts{
			Name: "tangram_reachable_solutions",
			Help: "Solutions consistent with the currently docked pieces",
		}),

		loadDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "tangram_shape_load_duration_seconds",
			Help:    "Shape catalog load duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
		}),
	}
}

// DockAttempt records one dock attempt.
func (m *Metrics) DockAttempt(matched bool) {
	if m == nil {
		return
	}
	result := ResultMissed
	if matched {
		result = ResultMatched
	}
	m.dockAttempts.WithLabelValues(result).Inc()
}

// Undock records one released piece.
func (m *Metrics) Undock() {
	if m == nil {
		return
	}
	m.undocks.Inc()
}

// Round records a round event.
func (m *Metrics) Round(event string) {
	if m == nil {
		return
	}
	m.rounds.WithLabelValues(event).Inc()
}

// Reachable sets the reachable solution gauge.
func (m *Metrics) Reachable(n int) {
	if m == nil {
		return
	}
	m.reachable.Set(float64(n))
}

// ObserveLoad records how long a shape load took.
func (m *Metrics) ObserveLoad(d time.Duration) {
	if m == nil {
		return
	}
	m.loadDuration.Observe(d.Seconds())
}
