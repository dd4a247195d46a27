// Package metrics exposes Prometheus instrumentation for the breakdown server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wdpa_http_requests_total",
		Help: "Total HTTP requests by route pattern and status code",
	}, []string{"route", "status"})
	HTTPRequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wdpa_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	}, []string{"route"})
	BreakdownComputeDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "wdpa_breakdown_compute_duration_ms",
		Help:    "Time to compute country totals and all dimension breakdowns",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	})
	CountryLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wdpa_country_lookups_total",
		Help: "Country breakdown lookups by outcome (found, empty)",
	}, []string{"outcome"})
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wdpa_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})
	DatasetRecords = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wdpa_dataset_records",
		Help: "Number of records in the loaded dataset",
	})
	DatasetCountries = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wdpa_dataset_countries",
		Help: "Number of distinct country codes in the loaded dataset",
	})
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDurationMs)
	prometheus.MustRegister(BreakdownComputeDurationMs)
	prometheus.MustRegister(CountryLookupsTotal)
	prometheus.MustRegister(RateLimitedTotal)
	prometheus.MustRegister(DatasetRecords)
	prometheus.MustRegister(DatasetCountries)
}

// Handler returns the Prometheus scrape handler for /metrics.
func Handler() http.Handler { return promhttp.Handler() }
