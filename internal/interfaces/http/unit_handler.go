package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/consignaciones-api/internal/application/dto"
	"github.com/jhoicas/consignaciones-api/internal/application/units"
)

// UnitHandler unidades serializadas: alta, venta directa, edición y garantía.
type UnitHandler struct {
	registry *units.Registry
}

// NewUnitHandler construye el handler.
func NewUnitHandler(registry *units.Registry) *UnitHandler {
	return &UnitHandler{registry: registry}
}

// Register godoc
// @Summary      Registrar unidad
// @Tags         units
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterUnitRequest  true  "Unidad"
// @Success      201   {object}  dto.UnitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/units [post]
func (h *UnitHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterUnitRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	u, err := h.registry.Register(c.Context(), units.RegisterInput{
		ProductID:      in.ProductID,
		Serial:         in.Serial,
		Cost:           in.Cost,
		Origin:         in.Origin,
		Lot:            in.Lot,
		WarrantyMonths: in.WarrantyMonths,
		EntryDate:      in.EntryDate,
		Notes:          in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toUnitResponse(u))
}

// RegisterBatch godoc
// @Summary      Registrar varias unidades de un producto
// @Tags         units
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterBatchRequest  true  "Seriales y datos comunes"
// @Success      201   {array}   dto.UnitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/units/batch [post]
func (h *UnitHandler) RegisterBatch(c *fiber.Ctx) error {
	var in dto.RegisterBatchRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	list, err := h.registry.RegisterBatch(c.Context(), units.RegisterBatchInput{
		ProductID:      in.ProductID,
		Serials:        in.Serials,
		Cost:           in.Cost,
		Origin:         in.Origin,
		Lot:            in.Lot,
		WarrantyMonths: in.WarrantyMonths,
		EntryDate:      in.EntryDate,
		Notes:          in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toUnitList(list))
}

// GetBySerial GET /api/units/:serial
func (h *UnitHandler) GetBySerial(c *fiber.Ctx) error {
	u, err := h.registry.GetBySerial(c.Context(), c.Params("serial"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toUnitResponse(u))
}

// Sell godoc
// @Summary      Venta directa de una unidad
// @Tags         units
// @Accept       json
// @Produce      json
// @Param        serial  path  string               true  "Serial"
// @Param        body    body  dto.SellUnitRequest  true  "Comprador y precio"
// @Success      200     {object}  dto.UnitResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/units/{serial}/sell [post]
func (h *UnitHandler) Sell(c *fiber.Ctx) error {
	var in dto.SellUnitRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	u, err := h.registry.Sell(c.Context(), units.SellInput{
		Serial:    c.Params("serial"),
		BuyerID:   in.BuyerID,
		SalePrice: in.SalePrice,
		Method:    in.Method,
		Date:      in.Date,
		Notes:     in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toUnitResponse(u))
}

// Update godoc
// @Summary      Editar unidad
// @Tags         units
// @Accept       json
// @Produce      json
// @Param        serial  path  string                 true  "Serial"
// @Param        body    body  dto.UpdateUnitRequest  true  "Campos a cambiar"
// @Success      200     {object}  dto.UnitResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/units/{serial} [patch]
func (h *UnitHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUnitRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	u, err := h.registry.UpdateFields(c.Context(), c.Params("serial"), units.UnitPatch{
		State:          in.State,
		Cost:           in.Cost,
		Origin:         in.Origin,
		Lot:            in.Lot,
		Notes:          in.Notes,
		WarrantyMonths: in.WarrantyMonths,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toUnitResponse(u))
}

// Warranty godoc
// @Summary      Consultar garantía por serial
// @Tags         units
// @Produce      json
// @Param        serial  path  string  true  "Serial"
// @Success      200     {object}  dto.WarrantyResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/units/{serial}/warranty [get]
func (h *UnitHandler) Warranty(c *fiber.Ctx) error {
	w, err := h.registry.LookupWarranty(c.Context(), c.Params("serial"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.WarrantyResponse{
		Unit:          toUnitResponse(w.Unit),
		InWarranty:    w.InWarranty,
		DaysRemaining: w.DaysRemaining,
		SoldByUs:      w.SoldByUs,
	})
}

// ListByProduct GET /api/products/:id/units
func (h *UnitHandler) ListByProduct(c *fiber.Ctx) error {
	page := pageOf(c)
	list, err := h.registry.ListByProduct(c.Context(), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toUnitList(list))
}
