package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/consignaciones-api/internal/application/dto"
	"github.com/jhoicas/consignaciones-api/internal/application/intake"
	"github.com/jhoicas/consignaciones-api/internal/domain"
)

// IntakeHandler ingreso masivo de unidades.
type IntakeHandler struct {
	processor *intake.Processor
}

// NewIntakeHandler construye el handler.
func NewIntakeHandler(processor *intake.Processor) *IntakeHandler {
	return &IntakeHandler{processor: processor}
}

// Import godoc
// @Summary      Ingreso masivo de unidades
// @Description  Un serial repetido en la entrada aborta toda la importación; las demás fallas
//
//	se reportan por unidad o por producto.
//
// @Tags         intake
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ImportRequest  true  "Grupos por producto"
// @Success      200   {object}  intake.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/intake [post]
func (h *IntakeHandler) Import(c *fiber.Ctx) error {
	var in dto.ImportRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	groups := make([]intake.ProductGroup, 0, len(in.Groups))
	for _, g := range in.Groups {
		lines := make([]intake.UnitLine, 0, len(g.Units))
		for _, u := range g.Units {
			lines = append(lines, intake.UnitLine{Serial: u.Serial, Cost: u.Cost, Lot: u.Lot, Notes: u.Notes})
		}
		groups = append(groups, intake.ProductGroup{
			ProductRef:  g.Product,
			Units:       lines,
			CostDefault: g.CostDefault,
			LotDefault:  g.LotDefault,
		})
	}
	res, err := h.processor.Import(c.Context(), intake.ImportInput{
		Origin:         in.Origin,
		EntryDate:      in.EntryDate,
		Reference:      in.Reference,
		WarrantyMonths: in.WarrantyMonths,
		Groups:         groups,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// ImportCSV godoc
// @Summary      Ingreso masivo desde hoja de cálculo
// @Tags         intake
// @Accept       multipart/form-data
// @Produce      json
// @Param        file             formData  file    true   "CSV con columnas product,serial,cost,lot,notes"
// @Param        origin           formData  string  false  "Origen"
// @Param        reference        formData  string  false  "Referencia del ingreso"
// @Param        warranty_months  formData  int     false  "Meses de garantía"
// @Success      200   {object}  intake.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/intake/csv [post]
func (h *IntakeHandler) ImportCSV(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "file es requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()

	groups, err := intake.ParseCSV(f)
	if err != nil {
		return writeError(c, err)
	}
	in := intake.ImportInput{
		Origin:    c.FormValue("origin"),
		Reference: c.FormValue("reference", fh.Filename),
		Groups:    groups,
	}
	if raw := c.FormValue("warranty_months"); raw != "" {
		months, err := strconv.Atoi(raw)
		if err != nil || months < 0 {
			return writeError(c, domain.Invalid("warranty_months debe ser un entero no negativo"))
		}
		in.WarrantyMonths = &months
	}
	res, err := h.processor.Import(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}
