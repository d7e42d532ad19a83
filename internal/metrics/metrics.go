// Package metrics exposes Prometheus instruments for emergencies and tanks.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oshokin/tank-emergency/internal/domain/emergency"
	"github.com/oshokin/tank-emergency/internal/domain/tank"
)

const namespace = "tank_emergency"

// Recorder updates the emergency and tank metrics.
type Recorder struct {
	triggered     *prometheus.CounterVec
	resolved      *prometheus.CounterVec
	idleResolves  prometheus.Counter
	fireResponses *prometheus.CounterVec
	peak          prometheus.Histogram
	level         *prometheus.GaugeVec
	temperature   *prometheus.GaugeVec
	flow          prometheus.Gauge
	active        prometheus.Gauge
}

// New registers the instruments in reg.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		triggered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triggered_total",
			Help:      "Emergencies triggered, by scenario.",
		}, []string{"id", "category"}),
		resolved: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolved_total",
			Help:      "Emergencies resolved, by scenario and action.",
		}, []string{"id", "action"}),
		idleResolves: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idle_resolves_total",
			Help:      "Resolve requests received with no pending emergency.",
		}),
		fireResponses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fire_system_responses_total",
			Help:      "Fire-suppression outcomes, by status.",
		}, []string{"status"}),
		peak: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fire_peak_temperature_celsius",
			Help:      "Peak internal temperature reached by fires.",
			Buckets:   prometheus.LinearBuckets(2000, 500, 7),
		}),
		level: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tank_level_percent",
			Help:      "Fill level of each tank.",
		}, []string{"tank"}),
		temperature: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tank_temperature_celsius",
			Help:      "Temperature of each tank, internal and external.",
		}, []string{"tank", "side"}),
		flow: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "flow_enabled",
			Help:      "1 when liquid flow is enabled.",
		}),
		active: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "emergency_active",
			Help:      "1 while an emergency awaits an operator.",
		}),
	}
}

// Triggered records a newly activated emergency.
func (r *Recorder) Triggered(e *emergency.Emergency) {
	r.triggered.WithLabelValues(e.ID, string(e.Category)).Inc()
	r.active.Set(1)

	if e.SystemResponse != nil {
		r.fireResponses.WithLabelValues(string(e.SystemResponse.Status)).Inc()
		r.peak.Observe(e.PeakTemperature)
	}
}

// Resolved records a resolution. A nil emergency counts as an idle resolve.
func (r *Recorder) Resolved(e *emergency.Emergency) {
	r.active.Set(0)

	if e == nil {
		r.idleResolves.Inc()

		return
	}

	r.resolved.WithLabelValues(e.ID, string(e.Action)).Inc()
}

// ObserveTanks mirrors the tank snapshot into gauges.
func (r *Recorder) ObserveTanks(s tank.Snapshot) {
	for _, id := range []tank.ID{tank.Tank1, tank.Tank2} {
		var (
			reading = s.Reading(id)
			label   = strconv.Itoa(int(id))
		)

		r.level.WithLabelValues(label).Set(reading.Level)
		r.temperature.WithLabelValues(label, "internal").Set(reading.Temperatures.Internal)
		r.temperature.WithLabelValues(label, "external").Set(reading.Temperatures.External)
	}

	if s.FlowEnabled {
		r.flow.Set(1)
	} else {
		r.flow.Set(0)
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
