// Package metrics exposes application counters in the Prometheus format.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smartwallet/backend/internal/application/adapter"
)

const namespace = "smartwallet"

// Prometheus implements adapter.Metrics on its own registry.
type Prometheus struct {
	registry        *prometheus.Registry
	interpretations *prometheus.CounterVec
	failures        *prometheus.CounterVec
	rateFetches     *prometheus.CounterVec
	recurring       prometheus.Counter
}

var _ adapter.Metrics = (*Prometheus)(nil)

// NewPrometheus creates the collectors and registers them, together with
// the Go runtime and process collectors.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		interpretations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interpretations_total",
			Help:      "Commands interpreted, by source (local, llm, local-fallback).",
		}, []string{"source"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interpretation_failures_total",
			Help:      "Commands that could not be interpreted, by reason.",
		}, []string{"reason"}),
		rateFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_fetches_total",
			Help:      "Exchange rate provider calls, by provider and outcome.",
		}, []string{"provider", "ok"}),
		recurring: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recurring_generated_total",
			Help:      "Transactions generated from recurring items.",
		}),
	}

	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.interpretations,
		p.failures,
		p.rateFetches,
		p.recurring,
	)
	return p
}

// InterpretationServed counts an interpretation by source.
func (p *Prometheus) InterpretationServed(source string) {
	p.interpretations.WithLabelValues(source).Inc()
}

// InterpretationFailed counts a failed interpretation.
func (p *Prometheus) InterpretationFailed(reason string) {
	p.failures.WithLabelValues(reason).Inc()
}

// RatesFetched counts a provider call.
func (p *Prometheus) RatesFetched(provider string, ok bool) {
	p.rateFetches.WithLabelValues(provider, strconv.FormatBool(ok)).Inc()
}

// RecurringGenerated adds generated recurring transactions.
func (p *Prometheus) RecurringGenerated(count int) {
	if count > 0 {
		p.recurring.Add(float64(count))
	}
}

// Handler serves the registry for scraping.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}
