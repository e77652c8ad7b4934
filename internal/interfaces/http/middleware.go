package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/consignaciones-api/internal/application/analytics"
)

// InvalidateDashboard descarta el resumen en caché después de toda escritura exitosa.
func InvalidateDashboard(uc *appanalytics.DashboardUseCase) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil && c.Method() != fiber.MethodGet && c.Response().StatusCode() < fiber.StatusMultipleChoices {
			uc.Invalidate(c.Context())
		}
		return err
	}
}
