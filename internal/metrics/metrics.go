// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tripledger"

// Metrics groups the collectors registered for one server.
type Metrics struct {
	registry *prometheus.Registry

	rpcRequests *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec

	outstanding      *prometheus.GaugeVec
	outstandingTotal prometheus.Gauge
	lastReminder     prometheus.Gauge
}

// New creates a registry with Go runtime collectors and the ledger metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		rpcRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "Connect RPCs handled, by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Connect RPC latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		outstanding: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "outstanding_amount",
			Help:      "Unpaid amount per participant as of the last reminder run.",
		}, []string{"participant"}),
		outstandingTotal: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "outstanding_amount_total",
			Help:      "Unpaid amount across all participants as of the last reminder run.",
		}),
		lastReminder: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reminder_last_run_timestamp_seconds",
			Help:      "Unix time of the last successful reminder run.",
		}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRPC records one finished RPC. code is "ok" or a Connect code name.
func (m *Metrics) ObserveRPC(procedure, code string, elapsed time.Duration) {
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(elapsed.Seconds())
}

// SetOutstanding replaces the per-participant unpaid gauges.
func (m *Metrics) SetOutstanding(unpaid map[string]float64, at time.Time) {
	m.outstanding.Reset()
	var total float64
	for participant, amount := range unpaid {
		m.outstanding.WithLabelValues(participant).Set(amount)
		total += amount
	}
	m.outstandingTotal.Set(total)
	m.lastReminder.Set(float64(at.Unix()))
}
