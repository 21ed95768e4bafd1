package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is the dedicated Prometheus registry for the service
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, route pattern, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// TripsCalculated counts completed trip calculations by feasibility
	TripsCalculated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "trips_calculated_total", Help: "Trip calculations by feasibility."},
		[]string{"feasible"},
	)
	// TripDays observes the number of daily logs generated per trip
	TripDays = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "trip_daily_logs", Help: "Daily logs generated per trip.", Buckets: []float64{1, 2, 3, 4, 5, 7, 10, 14, 21}},
	)
	// DistanceLookups counts leg distance resolutions by source (provider, fallback)
	DistanceLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "distance_lookups_total", Help: "Distance leg lookups by source."},
		[]string{"source"},
	)
	// ORSRequests counts OpenRouteService calls by endpoint and outcome
	ORSRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ors_requests_total", Help: "OpenRouteService requests by endpoint and outcome."},
		[]string{"endpoint", "outcome"},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(TripsCalculated)
		Registry.MustRegister(TripDays)
		Registry.MustRegister(DistanceLookups)
		Registry.MustRegister(ORSRequests)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler serves Registry in the Prometheus exposition format.
func Handler() http.Handler {
	RegisterDefault()
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
