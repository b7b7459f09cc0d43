// Package metrics exposes connection and polling counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "quizlink"

// linkStates lists every value reported on the link_state gauge.
var linkStates = []string{"disconnected", "connecting", "connected", "failed"}

// Poll outcomes recorded by ObservePoll.
const (
	PollOK          = "ok"
	PollError       = "error"
	PollUnavailable = "unavailable"
)

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	ConnectAttempts prometheus.Counter
	ConnectResults  *prometheus.CounterVec
	LinkState       *prometheus.GaugeVec
	LinkUp          prometheus.Gauge
	Polls           *prometheus.CounterVec
	OutputsLit      prometheus.Gauge
}

// NewRegistry creates a registry with the process and Go collectors plus the
// application metrics.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		ConnectAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wifi",
			Name:      "connect_attempts_total",
			Help:      "Link status checks made while connecting.",
		}),
		ConnectResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wifi",
			Name:      "connect_results_total",
			Help:      "Finished connection sequences by result.",
		}, []string{"result"}),
		LinkState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "wifi",
			Name:      "link_state",
			Help:      "Link state held by the connection manager (1 for the held state). It changes only on connect and on a detected drop; see link_up for live status.",
		}, []string{"state"}),
		LinkUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "wifi",
			Name:      "link_up",
			Help:      "1 if the last live link check found the link connected, else 0.",
		}),
		Polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "polls_total",
			Help:      "Poll cycles by outcome.",
		}, []string{"outcome"}),
		OutputsLit: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "output",
			Name:      "pins_lit",
			Help:      "Number of indicator outputs currently on.",
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.ConnectAttempts,
		r.ConnectResults,
		r.LinkState,
		r.LinkUp,
		r.Polls,
		r.OutputsLit,
	)

	for _, s := range linkStates {
		r.LinkState.WithLabelValues(s).Set(0)
	}
	return r
}

// ObserveAttempt counts one link status check.
func (r *Registry) ObserveAttempt() {
	r.ConnectAttempts.Inc()
}

// ObserveResult counts a finished connection sequence.
func (r *Registry) ObserveResult(connected bool) {
	result := "failure"
	if connected {
		result = "success"
	}
	r.ConnectResults.WithLabelValues(result).Inc()
}

// ObserveState moves the link_state gauge to the given state.
func (r *Registry) ObserveState(state string) {
	for _, s := range linkStates {
		v := 0.0
		if s == state {
			v = 1
		}
		r.LinkState.WithLabelValues(s).Set(v)
	}
}

// ObserveLinkUp records the result of a live link check.
func (r *Registry) ObserveLinkUp(up bool) {
	v := 0.0
	if up {
		v = 1
	}
	r.LinkUp.Set(v)
}

// ObservePoll counts one poll cycle.
func (r *Registry) ObservePoll(outcome string) {
	r.Polls.WithLabelValues(outcome).Inc()
}

// ObserveOutputs records how many outputs are on.
func (r *Registry) ObserveOutputs(lit int) {
	r.OutputsLit.Set(float64(lit))
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
