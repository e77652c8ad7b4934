package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/consignaciones-api/internal/application/analytics"
)

// DashboardHandler resumen de cartera y cuentas por cobrar.
type DashboardHandler struct {
	uc      *appanalytics.DashboardUseCase
	balance *appanalytics.BalanceUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, balance *appanalytics.BalanceUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc, balance: balance}
}

// GetSummary devuelve consignaciones por estado, unidades por estado y totales de cartera.
// GET /api/dashboard/summary
//
// La respuesta puede venir de caché (TTL corto); generated_at indica cuándo se calculó.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// Receivables GET /api/dashboard/receivables?limit=100
// Consignatarios con saldo pendiente, mayor saldo primero.
func (h *DashboardHandler) Receivables(c *fiber.Ctx) error {
	out, err := h.balance.Receivables(c.Context(), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
