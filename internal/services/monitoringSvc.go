package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Monitor holds the Prometheus collectors for the simulation loop.
type Monitor struct {
	MessagesPublished prometheus.Counter
	PublishFailures   prometheus.Counter
	SimulationRunning prometheus.Gauge
}

func NewMonitor(reg prometheus.Registerer) *Monitor {
	factory := promauto.With(reg)
	return &Monitor{
		MessagesPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "iot_simulator_messages_published_total",
			Help: "Number of readings successfully published to the broker.",
		}),
		PublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "iot_simulator_publish_failures_total",
			Help: "Number of publish attempts the broker rejected.",
		}),
		SimulationRunning: factory.NewGauge(prometheus.GaugeOpts{
			Name: "iot_simulator_simulation_running",
			Help: "Whether a simulation is currently running (0 or 1).",
		}),
	}
}
