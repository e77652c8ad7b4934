package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/consignaciones-api/internal/application/consignment"
	"github.com/jhoicas/consignaciones-api/internal/application/dto"
)

// ConsignmentHandler entregas a consignatarios y sus reportes de venta y devolución.
type ConsignmentHandler struct {
	workflow *consignment.Workflow
}

// NewConsignmentHandler construye el handler.
func NewConsignmentHandler(workflow *consignment.Workflow) *ConsignmentHandler {
	return &ConsignmentHandler{workflow: workflow}
}

// Create godoc
// @Summary      Crear consignación
// @Tags         consignments
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateConsignmentRequest  true  "Consignatario y líneas"
// @Success      201   {object}  dto.ConsignmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/consignments [post]
func (h *ConsignmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateConsignmentRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	lines := make([]consignment.LineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, consignment.LineInput{ProductID: l.ProductID, UnitID: l.UnitID, Price: l.Price})
	}
	view, err := h.workflow.Create(c.Context(), consignment.CreateInput{
		ConsigneeID:  in.ConsigneeID,
		Lines:        lines,
		DeliveryDate: in.DeliveryDate,
		DueDate:      in.DueDate,
		Notes:        in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toViewResponse(view))
}

// Get godoc
// @Summary      Obtener consignación con sus líneas
// @Tags         consignments
// @Produce      json
// @Param        id   path  string  true  "ID de la consignación"
// @Success      200  {object}  dto.ConsignmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/consignments/{id} [get]
func (h *ConsignmentHandler) Get(c *fiber.Ctx) error {
	view, err := h.workflow.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toViewResponse(view))
}

// ReportSale godoc
// @Summary      Reportar venta de líneas consignadas
// @Tags         consignments
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la consignación"
// @Param        body  body  dto.ReportSaleRequest  true  "Líneas vendidas"
// @Success      200   {object}  dto.ConsignmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/consignments/{id}/sales [post]
func (h *ConsignmentHandler) ReportSale(c *fiber.Ctx) error {
	var in dto.ReportSaleRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	view, err := h.workflow.ReportSale(c.Context(), c.Params("id"), in.LineIDs, in.SaleDate)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toViewResponse(view))
}

// ReportReturn godoc
// @Summary      Reportar devolución de líneas consignadas
// @Tags         consignments
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la consignación"
// @Param        body  body  dto.ReportReturnRequest  true  "Líneas devueltas (y cuáles llegan defectuosas)"
// @Success      200   {object}  dto.ConsignmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/consignments/{id}/returns [post]
func (h *ConsignmentHandler) ReportReturn(c *fiber.Ctx) error {
	var in dto.ReportReturnRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	view, err := h.workflow.ReportReturn(c.Context(), consignment.ReturnInput{
		ConsignmentID:    c.Params("id"),
		LineIDs:          in.LineIDs,
		DefectiveLineIDs: in.DefectiveLineIDs,
		ReturnDate:       in.ReturnDate,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toViewResponse(view))
}

// Recompute POST /api/consignments/:id/recompute
// Recalcula el estado a partir de las líneas y los pagos. Es idempotente.
func (h *ConsignmentHandler) Recompute(c *fiber.Ctx) error {
	view, err := h.workflow.Recompute(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toViewResponse(view))
}
