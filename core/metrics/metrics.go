// Package metrics provides Prometheus instruments for the bot runtime.
// Labels are bounded enums only (update kind, reason code, error kind); user or
// chat identifiers never become label values.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "reportbot"

// Metrics groups the instruments shared by the Telegram layer and bot handlers.
type Metrics struct {
	Registry *prometheus.Registry

	// UpdatesTotal counts inbound updates by kind (message, callback, other).
	UpdatesTotal *prometheus.CounterVec
	// HandlerDuration observes handler latency by handler name and outcome.
	HandlerDuration *prometheus.HistogramVec
	// ReportsTotal counts dispatched reports by reason code.
	ReportsTotal *prometheus.CounterVec
	// DeliveryFailuresTotal counts admin deliveries that failed, by error kind.
	DeliveryFailuresTotal *prometheus.CounterVec
	// DecodeErrorsTotal counts rejected deep-link payloads.
	DecodeErrorsTotal prometheus.Counter
	// SendFailuresTotal counts failed outbound jobs in the sender pool.
	SendFailuresTotal *prometheus.CounterVec
}

// New registers all instruments on a fresh registry together with the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		UpdatesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Inbound Telegram updates, by kind.",
		}, []string{"kind"}),
		HandlerDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "handler_duration_seconds",
			Help:      "Update handler latency, by handler and outcome.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"handler", "outcome"}),
		ReportsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Reports handed to the dispatcher, by reason code.",
		}, []string{"reason"}),
		DeliveryFailuresTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_delivery_failures_total",
			Help:      "Admin notifications that could not be delivered, by error kind.",
		}, []string{"kind"}),
		DecodeErrorsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payload_decode_errors_total",
			Help:      "Deep-link payloads rejected by the decoder.",
		}),
		SendFailuresTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "send_failures_total",
			Help:      "Outbound Telegram calls that failed, by action.",
		}, []string{"action"}),
	}
}

// TrackGauge registers a gauge whose value is sampled from fn at scrape time.
func (m *Metrics) TrackGauge(name, help string, fn func() float64) {
	promauto.With(m.Registry).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, fn)
}
