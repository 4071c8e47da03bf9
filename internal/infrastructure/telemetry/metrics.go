package telemetry

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsNamespace prefixes every exported series.
const MetricsNamespace = "pokedex"

// Cache lookup outcomes
const (
	CacheResultHit   = "hit"
	CacheResultMiss  = "miss"
	CacheResultError = "error"
)

// Metrics owns a private Prometheus registry and the service's collectors.
// All methods are safe on a nil receiver so callers need no enabled checks.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	graphqlOperations   *prometheus.CounterVec
	graphqlDuration     *prometheus.HistogramVec
	graphqlErrors       *prometheus.CounterVec
	cacheLookups        *prometheus.CounterVec
}

// NewMetrics creates the registry with Go runtime and process collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests served.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		graphqlOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "graphql",
			Name:      "operations_total",
			Help:      "Total number of GraphQL operations executed.",
		}, []string{"operation", "outcome"}),
		graphqlDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Subsystem: "graphql",
			Name:      "operation_duration_seconds",
			Help:      "GraphQL operation latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		graphqlErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "graphql",
			Name:      "errors_total",
			Help:      "GraphQL errors returned to clients, by error code.",
		}, []string{"code"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Pokemon cache lookups by result.",
		}, []string{"result"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.graphqlOperations,
		m.graphqlDuration,
		m.graphqlErrors,
		m.cacheLookups,
	)
	return m
}

// RegisterDB exports connection pool statistics for db.
func (m *Metrics) RegisterDB(db *sql.DB, dbName string) error {
	if m == nil {
		return nil
	}
	return m.registry.Register(collectors.NewDBStatsCollector(db, dbName))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveGraphQLOperation records one executed operation and its error codes.
func (m *Metrics) ObserveGraphQLOperation(operation string, elapsed time.Duration, errorCodes []string) {
	if m == nil {
		return
	}
	if operation == "" {
		operation = "anonymous"
	}
	outcome := "success"
	if len(errorCodes) > 0 {
		outcome = "error"
	}
	m.graphqlOperations.WithLabelValues(operation, outcome).Inc()
	m.graphqlDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	for _, code := range errorCodes {
		m.graphqlErrors.WithLabelValues(code).Inc()
	}
}

// ObserveCacheLookup records a cache hit, miss or error.
func (m *Metrics) ObserveCacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
