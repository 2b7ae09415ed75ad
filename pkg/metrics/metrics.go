package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for booking counters
const (
	OutcomeCreated         = "created"
	OutcomeCancelled       = "cancelled"
	OutcomeRescheduled     = "rescheduled"
	OutcomeSlotUnavailable = "slot_unavailable"
	OutcomeValidation      = "validation_error"
	OutcomeNotFound        = "not_found"
	OutcomeForbidden       = "forbidden"
	OutcomeRejected        = "rejected"
	OutcomeUnknown         = "outcome_unknown"
	OutcomeStorageError    = "storage_error"
)

// Availability cache lookup results
const (
	CacheResultHit   = "hit"
	CacheResultMiss  = "miss"
	CacheResultError = "error"
)

type Collector struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	AppointmentsTotal      *prometheus.CounterVec
	CancellationsTotal     *prometheus.CounterVec
	ReschedulesTotal       *prometheus.CounterVec
	CompletedTotal         prometheus.Counter
	AvailabilityCacheTotal *prometheus.CounterVec
}

// NewCollector registers every metric on a private registry, so tests can
// build as many collectors as they need.
func NewCollector(serviceName string) *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,

		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route, and status code.",
		}, []string{"method", "route", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "route"}),

		InFlightGauge: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		AppointmentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "booking",
			Name:      "appointments_total",
			Help:      "Booking attempts by outcome.",
		}, []string{"outcome"}),

		CancellationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "booking",
			Name:      "cancellations_total",
			Help:      "Cancellation attempts by outcome.",
		}, []string{"outcome"}),

		ReschedulesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "booking",
			Name:      "reschedules_total",
			Help:      "Reschedule attempts by outcome.",
		}, []string{"outcome"}),

		CompletedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "booking",
			Name:      "completed_total",
			Help:      "Appointments moved to completed by the completion job.",
		}),

		AvailabilityCacheTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "availability",
			Name:      "cache_lookups_total",
			Help:      "Availability cache lookups by result.",
		}, []string{"result"}),
	}
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
