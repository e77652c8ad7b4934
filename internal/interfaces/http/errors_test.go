package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/consignaciones-api/internal/application/dto"
	"github.com/jhoicas/consignaciones-api/internal/domain"
)

func errorResponseOf(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return writeError(c, err) })

	resp, testErr := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, testErr)
	defer resp.Body.Close()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestWriteError_InternoNoExponeLaCausa(t *testing.T) {
	cause := fmt.Errorf("postgres: consultar unidades: %w",
		errors.New(`ERROR: relation "inventory_units" does not exist (SQLSTATE 42P01)`))

	status, out := errorResponseOf(t, cause)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", out.Code)
	assert.Equal(t, internalMessage, out.Message)
	assert.NotContains(t, out.Message, "SQLSTATE")
	assert.Empty(t, out.Refs)
}

func TestWriteError_DominioConservaMensajeYRefs(t *testing.T) {
	status, out := errorResponseOf(t, domain.InvalidRefs("unidades no disponibles", "S1"))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INVALID_OPERATION", out.Code)
	assert.Equal(t, "unidades no disponibles: S1", out.Message)
	assert.Equal(t, []string{"S1"}, out.Refs)

	status, out = errorResponseOf(t, domain.NotFound("unidad con serial %s no encontrada", "X"))
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "unidad con serial X no encontrada", out.Message)
}
