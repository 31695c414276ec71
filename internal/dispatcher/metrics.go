package dispatcher

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	passDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "heatd_control_pass_duration_seconds",
		Help: "Duration of one Work Dispatcher control pass.",
	})

	passesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "heatd_control_passes_total",
		Help: "Control passes processed, by outcome (ok, error).",
	}, []string{"outcome"})

	relayCommandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "heatd_relay_commands_total",
		Help: "Relay commands issued, by action and outcome (ok, error).",
	}, []string{"action", "outcome"})

	queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "heatd_dispatcher_queue_depth",
		Help: "Number of events currently buffered on the dispatcher's inbound channel.",
	})
)

func init() {
	prometheus.MustRegister(passDuration, passesTotal, relayCommandsTotal, queueDepth)
}
