package metrics_test

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/consignaciones-api/internal/application/ports"
	"github.com/jhoicas/consignaciones-api/internal/infrastructure/metrics"
)

func TestMiddlewareYHandler(t *testing.T) {
	m := metrics.New()
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/api/units/:serial", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/units/ABC", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `consignaciones_http_requests_total{code="404",method="GET",route="/api/units/:serial"} 1`)
}

func TestCountingNotifier(t *testing.T) {
	m := metrics.New()
	n := m.CountingNotifier(nil)
	require.NoError(t, n.NotifyLowStock(context.Background(), ports.LowStockEvent{Status: "CRITICO"}))
	require.NoError(t, n.NotifyLowStock(context.Background(), ports.LowStockEvent{Status: "CRITICO"}))

	count, err := testutil.GatherAndCount(m.Registry(), "consignaciones_low_stock_events_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "una serie por estado")
}
