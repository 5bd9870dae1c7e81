// Package metrics exposes Prometheus counters for ingest, classification,
// prediction calls and report exports.
package metrics

import (
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "aircare_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	readingsStored prometheus.Counter
	batchesFailed  prometheus.Counter

	zoneFlags *prometheus.CounterVec

	gatewayCalls   *prometheus.CounterVec
	gatewayLatency *prometheus.HistogramVec

	reportExports *prometheus.CounterVec
)

// Init registers the collectors and the DB-backed gauges. Safe to call more than once.
func Init(db *sql.DB) {
	registerOnce.Do(func() {
		readingsStored = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "readings_stored_total",
				Help: "Total sensor readings persisted",
			},
		)
		batchesFailed = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "reading_batches_failed_total",
				Help: "Total reading batches that failed to persist",
			},
		)
		zoneFlags = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "zone_flags_total",
				Help: "Total subsystem fault flags raised by zone",
			},
			[]string{"zone"},
		)
		gatewayCalls = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "prediction_calls_total",
				Help: "Total prediction service calls by endpoint and result",
			},
			[]string{"endpoint", "result"},
		)
		gatewayLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "prediction_latency_seconds",
				Help:    "Prediction service latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		)
		reportExports = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_exports_total",
				Help: "Total maintenance report exports by format and result",
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			readingsStored,
			batchesFailed,
			zoneFlags,
			gatewayCalls,
			gatewayLatency,
			reportExports,
		)

		if db != nil {
			registerDBMetrics(db)
		}
	})
}

func registerDBMetrics(db *sql.DB) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "sensor_readings_rows",
			Help: "Rows in the sensor_readings table",
		},
		func() float64 {
			return queryCount(db, "SELECT COUNT(*) FROM sensor_readings")
		},
	))
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "predictions_rows",
			Help: "Rows in the predictions table",
		},
		func() float64 {
			return queryCount(db, "SELECT COUNT(*) FROM predictions")
		},
	))
}

func queryCount(db *sql.DB, query string) float64 {
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		slog.Warn("metrics query failed", "error", err)
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}

// AddReadingsStored counts persisted readings
func AddReadingsStored(n int) {
	if n <= 0 {
		return
	}
	if readingsStored != nil {
		readingsStored.Add(float64(n))
	}
}

// IncBatchFailed counts a reading batch that could not be stored
func IncBatchFailed() {
	if batchesFailed != nil {
		batchesFailed.Inc()
	}
}

// IncZoneFlag counts one raised subsystem flag
func IncZoneFlag(zone string) {
	if zone == "" {
		zone = "unknown"
	}
	if zoneFlags != nil {
		zoneFlags.WithLabelValues(zone).Inc()
	}
}

// ObserveGatewayCall records a prediction call outcome and its latency
func ObserveGatewayCall(endpoint string, err error, duration time.Duration) {
	if endpoint == "" {
		endpoint = "unknown"
	}
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	if gatewayCalls != nil {
		gatewayCalls.WithLabelValues(endpoint, result).Inc()
	}
	if gatewayLatency != nil {
		gatewayLatency.WithLabelValues(endpoint).Observe(duration.Seconds())
	}
}

// IncReportExport counts a report export
func IncReportExport(format string, err error) {
	if format == "" {
		format = "unknown"
	}
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	if reportExports != nil {
		reportExports.WithLabelValues(format, result).Inc()
	}
}
