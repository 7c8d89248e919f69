// Package metrics registers Prometheus collectors for the sensor API.
package metrics

import (
	"context"
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "windturbine_"

	// ResultSuccess and ResultError label operation outcomes.
	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	sensorCreates *prometheus.CounterVec
	sensorDeletes *prometheus.CounterVec
	recordCreates *prometheus.CounterVec
	recordDeletes *prometheus.CounterVec

	recordQueryLatency *prometheus.HistogramVec

	sensorCount prometheus.Gauge
	recordCount prometheus.Gauge
)

// Init registers collectors and, when a database handle is supplied,
// starts DB-backed gauges for table sizes. Safe to call once.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		sensorCreates = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "sensor_creates_total",
				Help: "Total sensor create operations by result",
			},
			[]string{"result"},
		)
		sensorDeletes = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "sensor_deletes_total",
				Help: "Total sensor delete operations by result",
			},
			[]string{"result"},
		)
		recordCreates = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "record_creates_total",
				Help: "Total record create operations by result",
			},
			[]string{"result"},
		)
		recordDeletes = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "record_deletes_total",
				Help: "Total record delete operations by result",
			},
			[]string{"result"},
		)
		recordQueryLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "record_query_latency_seconds",
				Help:    "Filtered record query latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		sensorCount = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "sensors",
			Help: "Current number of sensors",
		})
		recordCount = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "sensor_records",
			Help: "Current number of sensor records",
		})

		prometheus.MustRegister(
			sensorCreates,
			sensorDeletes,
			recordCreates,
			recordDeletes,
			recordQueryLatency,
			sensorCount,
			recordCount,
		)

		if db != nil {
			go pollTableSizes(db, logger)
		}
	})
}

// IncSensorCreate counts a sensor create outcome.
func IncSensorCreate(result string) {
	if sensorCreates != nil {
		sensorCreates.WithLabelValues(result).Inc()
	}
}

// IncSensorDelete counts a sensor delete outcome.
func IncSensorDelete(result string) {
	if sensorDeletes != nil {
		sensorDeletes.WithLabelValues(result).Inc()
	}
}

// IncRecordCreate counts a record create outcome.
func IncRecordCreate(result string) {
	if recordCreates != nil {
		recordCreates.WithLabelValues(result).Inc()
	}
}

// IncRecordDelete counts a record delete outcome.
func IncRecordDelete(result string) {
	if recordDeletes != nil {
		recordDeletes.WithLabelValues(result).Inc()
	}
}

// ObserveRecordQuery records a filtered-query latency sample.
func ObserveRecordQuery(duration time.Duration, result string) {
	if recordQueryLatency != nil {
		recordQueryLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

func pollTableSizes(db *sql.DB, logger *log.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		var count int64
		if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sensors`).Scan(&count); err == nil {
			sensorCount.Set(float64(count))
		} else if logger != nil {
			logger.Printf("metrics: sensor count query error: %v", err)
		}
		if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sensor_records`).Scan(&count); err == nil {
			recordCount.Set(float64(count))
		} else if logger != nil {
			logger.Printf("metrics: record count query error: %v", err)
		}
		cancel()
	}
}
