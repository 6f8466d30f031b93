package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wehavefood"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ReceiptParsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipt_parses_total",
			Help:      "Receipt parse attempts by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	ReceiptParseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "receipt_parse_duration_seconds",
			Help:      "Duration of receipt provider calls in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
		},
		[]string{"provider"},
	)

	FoodLogActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "food_log_actions_total",
			Help:      "Food log entries written by action type",
		},
		[]string{"action_type"},
	)

	BarcodeLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "barcode_lookups_total",
			Help:      "Barcode lookups by the source that answered",
		},
		[]string{"source"},
	)

	AlertsEmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_emitted_total",
			Help:      "Expiry alerts emitted by type",
		},
		[]string{"type"},
	)
)

// Register adds every collector to reg. Call once at startup.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ReceiptParsesTotal,
		ReceiptParseDuration,
		FoodLogActionsTotal,
		BarcodeLookupsTotal,
		AlertsEmittedTotal,
	)
}

// Middleware records request count and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// ObserveReceiptParse records one provider call.
func ObserveReceiptParse(provider string, started time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	ReceiptParsesTotal.WithLabelValues(provider, outcome).Inc()
	ReceiptParseDuration.WithLabelValues(provider).Observe(time.Since(started).Seconds())
}

func RecordFoodLog(actionType string) {
	FoodLogActionsTotal.WithLabelValues(actionType).Inc()
}

func RecordBarcodeLookup(source string) {
	BarcodeLookupsTotal.WithLabelValues(source).Inc()
}

func RecordAlert(alertType string) {
	AlertsEmittedTotal.WithLabelValues(alertType).Inc()
}
