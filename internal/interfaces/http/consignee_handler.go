package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/consignaciones-api/internal/application/analytics"
	"github.com/jhoicas/consignaciones-api/internal/application/consignment"
	"github.com/jhoicas/consignaciones-api/internal/application/dto"
	"github.com/jhoicas/consignaciones-api/internal/application/settlement"
	"github.com/jhoicas/consignaciones-api/internal/application/usecase"
)

// ConsigneeHandler consignatarios, sus pagos y su estado de cuenta.
type ConsigneeHandler struct {
	uc       *usecase.ConsigneeUseCase
	workflow *consignment.Workflow
	ledger   *settlement.Ledger
	balance  *appanalytics.BalanceUseCase
}

// NewConsigneeHandler construye el handler.
func NewConsigneeHandler(uc *usecase.ConsigneeUseCase, workflow *consignment.Workflow, ledger *settlement.Ledger, balance *appanalytics.BalanceUseCase) *ConsigneeHandler {
	return &ConsigneeHandler{uc: uc, workflow: workflow, ledger: ledger, balance: balance}
}

// Create godoc
// @Summary      Crear consignatario
// @Tags         consignees
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateConsigneeRequest  true  "Datos del consignatario"
// @Success      201   {object}  dto.ConsigneeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/consignees [post]
func (h *ConsigneeHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateConsigneeRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/consignees?limit=20&offset=0
func (h *ConsigneeHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), pageOf(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/consignees/:id
func (h *ConsigneeHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListConsignments GET /api/consignees/:id/consignments
func (h *ConsigneeHandler) ListConsignments(c *fiber.Ctx) error {
	list, err := h.workflow.ListByConsignee(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ConsignmentResponse, 0, len(list))
	for _, k := range list {
		out = append(out, toConsignmentResponse(k, nil))
	}
	return c.JSON(out)
}

// RegisterPayment godoc
// @Summary      Registrar pago de un consignatario
// @Description  Sin consignment_id el pago queda como abono a cuenta del consignatario.
// @Tags         consignees
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del consignatario"
// @Param        body  body  dto.RegisterPaymentRequest  true  "Pago"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/consignees/{id}/payments [post]
func (h *ConsigneeHandler) RegisterPayment(c *fiber.Ctx) error {
	var in dto.RegisterPaymentRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	p, err := h.ledger.RegisterPayment(c.Context(), settlement.PaymentInput{
		ConsigneeID:   c.Params("id"),
		Amount:        in.Amount,
		Method:        in.Method,
		ConsignmentID: in.ConsignmentID,
		Currency:      in.Currency,
		CurrencyRate:  in.CurrencyRate,
		Reference:     in.Reference,
		Notes:         in.Notes,
		Date:          in.Date,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPaymentResponse(p))
}

// ListPayments GET /api/consignees/:id/payments
func (h *ConsigneeHandler) ListPayments(c *fiber.Ctx) error {
	list, err := h.ledger.ListPayments(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPaymentResponse(p))
	}
	return c.JSON(out)
}

// Balance godoc
// @Summary      Estado de cuenta del consignatario
// @Tags         consignees
// @Produce      json
// @Param        id   path  string  true  "ID del consignatario"
// @Success      200  {object}  dto.ConsigneeBalanceDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/consignees/{id}/balance [get]
func (h *ConsigneeHandler) Balance(c *fiber.Ctx) error {
	out, err := h.balance.ConsigneeBalance(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
