package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор Prometheus метрик сервиса
type Metrics struct {
	registry *prometheus.Registry

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration   *prometheus.HistogramVec
	DBOpenConnections prometheus.Gauge
	DBInUse           prometheus.Gauge
	DBIdle            prometheus.Gauge
	DBWaitCount       prometheus.Gauge

	// Бронирования
	BookingsTotal *prometheus.CounterVec

	// Списание платежей
	CaptureResultsTotal *prometheus.CounterVec
	CaptureRunDuration  prometheus.Histogram
	CaptureLastRun      prometheus.Gauge
}

// New создает и регистрирует метрики в собственном реестре
func New(serviceName string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registry: registry,

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests",
				ConstLabels: constLabels,
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "HTTP request latency",
				ConstLabels: constLabels,
				Buckets:     prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		DBQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "db_query_duration_seconds",
				Help:        "Database query latency",
				ConstLabels: constLabels,
				Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		DBOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}),
		DBInUse: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}),
		DBIdle: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}),
		DBWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}),

		BookingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "bookings_total",
				Help:        "Booking operations by operation and outcome",
				ConstLabels: constLabels,
			},
			[]string{"operation", "outcome"},
		),

		CaptureResultsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "payment_capture_results_total",
				Help:        "Payment capture candidates by result",
				ConstLabels: constLabels,
			},
			[]string{"result"},
		),
		CaptureRunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "payment_capture_run_duration_seconds",
			Help:        "Duration of a payment capture run",
			ConstLabels: constLabels,
			Buckets:     []float64{.1, .5, 1, 5, 15, 30, 60, 300},
		}),
		CaptureLastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "payment_capture_last_run_timestamp_seconds",
			Help:        "Unix time of the last finished capture run",
			ConstLabels: constLabels,
		}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.DBWaitCount,
		m.BookingsTotal,
		m.CaptureResultsTotal,
		m.CaptureRunDuration,
		m.CaptureLastRun,
	)

	return m
}

// Handler возвращает HTTP handler для scrape
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveBooking учитывает результат операции с бронированием
func (m *Metrics) ObserveBooking(operation, outcome string) {
	if m == nil {
		return
	}
	m.BookingsTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveCaptureRun учитывает итог прогона списания
func (m *Metrics) ObserveCaptureRun(captured, skipped, failed int, duration time.Duration) {
	if m == nil {
		return
	}
	m.CaptureResultsTotal.WithLabelValues("captured").Add(float64(captured))
	m.CaptureResultsTotal.WithLabelValues("skipped").Add(float64(skipped))
	m.CaptureResultsTotal.WithLabelValues("failed").Add(float64(failed))
	m.CaptureRunDuration.Observe(duration.Seconds())
	m.CaptureLastRun.SetToCurrentTime()
}
