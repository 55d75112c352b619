// Package metrics provides Prometheus metrics for the scheduling engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics
type Metrics struct {
	SchedulesGenerated  prometheus.Counter
	SchedulesFellBack   prometheus.Counter
	SchedulesFailed     prometheus.Counter
	ConflictsDetected   prometheus.Counter
	DegradedSections    *prometheus.CounterVec
	GenerationDuration  prometheus.Histogram
	PrayerTimeFetches   *prometheus.CounterVec
	CircuitBreakerState *prometheus.GaugeVec
}

// New creates and registers all metrics
func New() *Metrics {
	m := &Metrics{
		SchedulesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schedules_generated_total",
			Help: "Total personalized schedules generated",
		}),
		SchedulesFellBack: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schedules_fallback_total",
			Help: "Total schedules that degraded to conservative default times",
		}),
		SchedulesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schedules_failed_total",
			Help: "Total schedule requests that failed outright",
		}),
		ConflictsDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schedule_conflicts_detected_total",
			Help: "Total timing and supervision conflicts detected",
		}),
		DegradedSections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedule_degraded_sections_total",
			Help: "Assessment sections that failed during generation",
		}, []string{"section"}),
		GenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "schedule_generation_duration_seconds",
			Help:    "Schedule generation duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		PrayerTimeFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prayer_time_fetches_total",
			Help: "Prayer time provider fetches by outcome",
		}, []string{"outcome"}),
		CircuitBreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		}, []string{"name"}),
	}

	prometheus.MustRegister(
		m.SchedulesGenerated,
		m.SchedulesFellBack,
		m.SchedulesFailed,
		m.ConflictsDetected,
		m.DegradedSections,
		m.GenerationDuration,
		m.PrayerTimeFetches,
		m.CircuitBreakerState,
	)

	return m
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
