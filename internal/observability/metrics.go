package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	httpRequestsTotal  *prometheus.CounterVec
	httpLatencySeconds *prometheus.HistogramVec
	httpErrorsTotal    *prometheus.CounterVec
	taskListingsTotal  *prometheus.CounterVec
	newsPublishedTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		taskListingsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "task_listings_total",
			Help: "Total number of task listing calls by listing shape.",
		}, []string{"shape"})

		newsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "news_published_total",
			Help: "Total number of news items published by target model.",
		}, []string{"target_model"})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, httpErrorsTotal, taskListingsTotal, newsPublishedTotal)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// TaskListings exposes the counter for task listing calls.
func TaskListings() *prometheus.CounterVec {
	RegisterMetrics()
	return taskListingsTotal
}

// NewsPublishedTotal exposes the counter for published news.
func NewsPublishedTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return newsPublishedTotal
}
