// Package metrics объявляет метрики Prometheus сервиса.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	ImageCleanupTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_image_cleanup_total",
			Help: "Recipe images removed from object storage by the worker",
		},
		[]string{"reason", "result"},
	)

	CatalogRowsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_catalog_rows_loaded_total",
			Help: "Catalog rows inserted by the CSV loader",
		},
		[]string{"catalog"},
	)
)

// RecordHTTPRequest записывает метрики одного HTTP-запроса
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordImageCleanup учитывает обработанную задачу очистки
func RecordImageCleanup(reason string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	ImageCleanupTotal.WithLabelValues(reason, result).Inc()
}
