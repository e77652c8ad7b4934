// Package metrics expone métricas Prometheus del motor y de la API.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/consignaciones-api/internal/application/ports"
)

// Metrics agrupa el registry y los colectores de la aplicación.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	lowStockTotal   *prometheus.CounterVec
}

// New crea un registry propio con métricas de proceso y de Go.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "consignaciones_http_requests_total",
		Help: "Peticiones HTTP por ruta, método y código de estado.",
	}, []string{"route", "method", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "consignaciones_http_request_duration_seconds",
		Help:    "Duración de las peticiones HTTP por ruta.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
	lowStock := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "consignaciones_low_stock_events_total",
		Help: "Alertas de stock bajo emitidas por estado.",
	}, []string{"status"})
	registry.MustRegister(
		requests, duration, lowStock,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Metrics{
		registry:        registry,
		requestsTotal:   requests,
		requestDuration: duration,
		lowStockTotal:   lowStock,
	}
}

// Registry expone el registry para pruebas o colectores adicionales.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler sirve /metrics.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Middleware registra conteo y duración de cada petición usando el patrón de la ruta.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		route := "unknown"
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		m.requestsTotal.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route, c.Method()).Observe(time.Since(start).Seconds())
		return err
	}
}

// CountingNotifier cuenta las alertas antes de delegarlas.
func (m *Metrics) CountingNotifier(next ports.LowStockNotifier) ports.LowStockNotifier {
	return &countingNotifier{next: next, counter: m.lowStockTotal}
}

type countingNotifier struct {
	next    ports.LowStockNotifier
	counter *prometheus.CounterVec
}

func (n *countingNotifier) NotifyLowStock(ctx context.Context, evt ports.LowStockEvent) error {
	n.counter.WithLabelValues(evt.Status).Inc()
	if n.next == nil {
		return nil
	}
	return n.next.NotifyLowStock(ctx, evt)
}
