// Package metrics registers the Prometheus metrics for the realtime
// command-center layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the realtime counters and gauges.
type Metrics struct {
	EventsEmitted    *prometheus.CounterVec
	PanicAlertsOpen  prometheus.Gauge
	ActiveWatches    prometheus.Gauge
	WebsocketClients prometheus.Gauge
}

// New creates and registers the realtime metrics.
func New() *Metrics {
	return &Metrics{
		EventsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "guardhq_realtime_events_emitted_total",
			Help: "Bus events emitted by type",
		}, []string{"type"}),
		PanicAlertsOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "guardhq_realtime_panic_alerts_open",
			Help: "Panic alerts currently in active or acknowledged state",
		}),
		ActiveWatches: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "guardhq_realtime_active_watches",
			Help: "Live collection watches currently registered",
		}),
		WebsocketClients: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "guardhq_realtime_websocket_clients",
			Help: "Connected websocket event-stream clients",
		}),
	}
}
