// Package metrics exposes Prometheus counters for the bot
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the bot counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	commands      *prometheus.CounterVec
	calculations  *prometheus.CounterVec
	dangerAlerts  *prometheus.CounterVec
	remindersSent prometheus.Counter
}

// New registers the counters on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aquarium_bot",
			Name:      "commands_total",
			Help:      "Chat commands handled, by command name.",
		}, []string{"command"}),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aquarium_bot",
			Name:      "calculations_total",
			Help:      "Calculator invocations, by kind.",
		}, []string{"kind"}),
		dangerAlerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aquarium_bot",
			Name:      "danger_alerts_total",
			Help:      "Readings classified as dangerous, by parameter.",
		}, []string{"parameter"}),
		remindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aquarium_bot",
			Name:      "reminders_sent_total",
			Help:      "Maintenance reminder messages sent.",
		}),
	}
	m.registry.MustRegister(m.commands, m.calculations, m.dangerAlerts, m.remindersSent)
	return m
}

func (m *Metrics) CommandHandled(command string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command).Inc()
}

func (m *Metrics) Calculated(kind string) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(kind).Inc()
}

func (m *Metrics) DangerAlert(parameter string) {
	if m == nil {
		return
	}
	m.dangerAlerts.WithLabelValues(parameter).Inc()
}

func (m *Metrics) ReminderSent() {
	if m == nil {
		return
	}
	m.remindersSent.Inc()
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
