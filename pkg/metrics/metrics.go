// Package metrics exports Prometheus metrics for form submissions by
// observing controller signals.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/vform/pkg/form"
	"github.com/dmitrymomot/vform/pkg/lifecycle"
	"github.com/dmitrymomot/vform/pkg/signal"
)

const namespace = "vform"

// Outcome label values.
const (
	OutcomeRejected  = "rejected"
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// Collector holds the submission metrics.
type Collector struct {
	SubmissionsTotal  *prometheus.CounterVec
	FieldErrorsTotal  *prometheus.CounterVec
	TransportDuration *prometheus.HistogramVec
	InFlight          prometheus.Gauge
	Redirects         prometheus.Counter
	Transitions       *prometheus.CounterVec
}

// New registers the collector with the default registerer.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collector with reg.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		SubmissionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_total",
				Help:      "Total number of submission attempts by outcome",
			},
			[]string{"outcome"},
		),
		FieldErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "field_errors_total",
				Help:      "Total number of field error reports by source",
			},
			[]string{"source"},
		),
		TransportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transport_duration_seconds",
				Help:      "Time from dispatch until the transport settled",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"outcome"},
		),
		InFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "submissions_in_flight",
				Help:      "Number of submissions waiting on the transport",
			},
		),
		Redirects: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "redirects_total",
				Help:      "Total number of endpoint-requested redirects",
			},
		),
		Transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lifecycle_transitions_total",
				Help:      "Total number of lifecycle transitions",
			},
			[]string{"from", "to"},
		),
	}
}

// Observe records one signal.
func (c *Collector) Observe(_ context.Context, s form.Signal) {
	switch s.Kind {
	case form.KindInvalid:
		source := "local"
		if s.Server {
			source = "server"
		} else {
			c.SubmissionsTotal.WithLabelValues(OutcomeRejected).Inc()
		}
		for _, msgs := range s.Errors {
			c.FieldErrorsTotal.WithLabelValues(source).Add(float64(len(msgs)))
		}
	case form.KindSuccess:
		c.SubmissionsTotal.WithLabelValues(OutcomeSucceeded).Inc()
		c.TransportDuration.WithLabelValues(OutcomeSucceeded).Observe(s.Duration.Seconds())
	case form.KindError:
		c.SubmissionsTotal.WithLabelValues(OutcomeFailed).Inc()
		c.TransportDuration.WithLabelValues(OutcomeFailed).Observe(s.Duration.Seconds())
	case form.KindState:
		c.Transitions.WithLabelValues(string(s.From), string(s.To)).Inc()
		if s.To == lifecycle.Submitting {
			c.InFlight.Inc()
		}
		if s.From == lifecycle.Submitting {
			c.InFlight.Dec()
		}
		if s.To == lifecycle.Redirected {
			c.Redirects.Inc()
		}
	}
}

// Attach observes every signal emitted on hub.
func (c *Collector) Attach(hub *signal.Hub[form.Signal]) (remove func()) {
	return hub.Handle(c.Observe)
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
