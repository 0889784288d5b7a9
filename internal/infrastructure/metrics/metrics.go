// Package metrics registra los colectores Prometheus del servicio.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pms"

var (
	// Registry colectores propios de la aplicación.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Peticiones HTTP en curso.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total de peticiones HTTP atendidas.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duración de las peticiones HTTP.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms a ~5s
		},
		[]string{"method", "route"},
	)

	stockMovements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "movements_total",
			Help:      "Movimientos de stock procesados por tipo y resultado.",
		},
		[]string{"type", "result"},
	)

	ordersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "created_total",
			Help:      "Pedidos creados.",
		},
	)

	jobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "runs_total",
			Help:      "Ejecuciones de tareas programadas.",
		},
		[]string{"job", "success"},
	)

	jobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "run_duration_seconds",
			Help:      "Duración de las tareas programadas.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		},
		[]string{"job"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		stockMovements,
		ordersCreated,
		jobRuns,
		jobDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler expone los colectores registrados.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted incrementa el gauge de peticiones en curso; llamar al retorno para decrementarlo.
func RequestStarted() (done func()) {
	httpInFlight.Inc()
	return httpInFlight.Dec
}

// ObserveRequest registra una petición terminada. route es la ruta registrada (/api/v1/products/:id).
func ObserveRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	method = strings.ToUpper(method)
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordMovement cuenta un movimiento de stock; ok = false si fue rechazado.
func RecordMovement(movementType string, ok bool) {
	result := "completed"
	if !ok {
		result = "rejected"
	}
	stockMovements.WithLabelValues(movementType, result).Inc()
}

// RecordOrderCreated cuenta un pedido creado.
func RecordOrderCreated() { ordersCreated.Inc() }

// RecordJobRun registra la ejecución de una tarea programada.
func RecordJobRun(job string, d time.Duration, success bool) {
	if job == "" {
		job = "unknown"
	}
	if d <= 0 {
		d = time.Millisecond
	}
	jobRuns.WithLabelValues(job, strconv.FormatBool(success)).Inc()
	jobDuration.WithLabelValues(job).Observe(d.Seconds())
}

// Recorder adapta las funciones del paquete a ports.Metrics.
type Recorder struct{}

func (Recorder) RecordMovement(movementType string, ok bool) { RecordMovement(movementType, ok) }
func (Recorder) RecordOrderCreated() { RecordOrderCreated() }
func (Recorder) RecordJobRun(job string, d time.Duration, success bool) {
	RecordJobRun(job, d, success)
}
