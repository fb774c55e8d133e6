package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Edit event outcomes, the label values of EditsTotal.
const (
	OutcomeDebounced = "debounced" // admitted, (re)started a quiet-window timer
	OutcomeEcho      = "echo"      // swallowed as the echo of our own write
	OutcomeExcluded  = "excluded"  // dropped by the folder filter
)

// Set is the collection of vaultstamp metrics bound to one registry.
// A dedicated registry keeps tests independent and the exposition free of
// unrelated collectors.
type Set struct {
	registry *prometheus.Registry

	EditsTotal    *prometheus.CounterVec
	StampsTotal   prometheus.Counter
	StampFailures prometheus.Counter
	PendingFiles  prometheus.GaugeFunc
}

// New creates and registers the metric set. pending supplies the current
// number of files with a running quiet-window timer.
func New(pending func() float64) *Set {
	reg := prometheus.NewRegistry()

	s := &Set{
		registry: reg,
		EditsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vaultstamp_edit_events_total",
			Help: "Edit notifications processed, by outcome.",
		}, []string{"outcome"}),
		StampsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vaultstamp_stamps_written_total",
			Help: "Frontmatter stamps successfully written.",
		}),
		StampFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vaultstamp_stamp_failures_total",
			Help: "Frontmatter writes that could not be applied.",
		}),
		PendingFiles: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "vaultstamp_pending_files",
			Help: "Files currently inside their quiet window.",
		}, pending),
	}

	reg.MustRegister(
		s.EditsTotal,
		s.StampsTotal,
		s.StampFailures,
		s.PendingFiles,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Pre-create the outcome series so dashboards see zeros, not gaps.
	for _, o := range []string{OutcomeDebounced, OutcomeEcho, OutcomeExcluded} {
		s.EditsTotal.WithLabelValues(o)
	}
	return s
}

// Handler returns the Prometheus exposition endpoint for this set.
func (s *Set) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
