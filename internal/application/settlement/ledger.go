// Package settlement registra los abonos de los consignatarios y mantiene sus saldos.
package settlement

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	appconsignment "github.com/jhoicas/consignaciones-api/internal/application/consignment"
	"github.com/jhoicas/consignaciones-api/internal/application/ports"
	"github.com/jhoicas/consignaciones-api/internal/domain"
	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
	"github.com/jhoicas/consignaciones-api/internal/domain/repository"
)

// Config políticas de liquidación.
type Config struct {
	DefaultCurrency string
	// AllowCreditBalance permite que un pago deje saldo a favor del consignatario.
	AllowCreditBalance bool
}

// Ledger libro de pagos (append-only).
type Ledger struct {
	txRunner ports.TxRunner
	repos    repository.Repositories
	workflow *appconsignment.Workflow
	cfg      Config
	log      zerolog.Logger
	now      func() time.Time
}

// NewLedger construye el libro de liquidaciones.
func NewLedger(txRunner ports.TxRunner, repos repository.Repositories, workflow *appconsignment.Workflow, cfg Config, log zerolog.Logger) *Ledger {
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "COP"
	}
	return &Ledger{
		txRunner: txRunner,
		repos:    repos,
		workflow: workflow,
		cfg:      cfg,
		log:      log.With().Str("component", "settlement_ledger").Logger(),
		now:      time.Now,
	}
}

// PaymentInput abono de un consignatario. ConsignmentID vacío = abono a cuenta.
type PaymentInput struct {
	ConsigneeID   string
	Amount        decimal.Decimal
	Method        string
	ConsignmentID string
	Currency      string
	CurrencyRate  *decimal.Decimal
	Reference     string
	Notes         string
	Date          *time.Time
}

// RegisterPayment crea el pago y actualiza saldos con acumuladores. Un abono a cuenta solo
// afecta al consignatario; nunca se reparte entre consignaciones abiertas.
func (l *Ledger) RegisterPayment(ctx context.Context, in PaymentInput) (*entity.Payment, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.Invalid("el monto del pago debe ser mayor a cero")
	}
	if in.CurrencyRate != nil && !in.CurrencyRate.IsPositive() {
		return nil, domain.Invalid("la tasa de cambio debe ser mayor a cero")
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = l.cfg.DefaultCurrency
	}
	now := l.now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}

	var payment *entity.Payment
	err := l.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		consignee, err := repos.Consignees.GetByID(ctx, in.ConsigneeID)
		if err != nil {
			return err
		}
		if consignee == nil {
			return domain.NotFound("consignatario %s no encontrado", in.ConsigneeID)
		}
		if in.ConsignmentID != "" {
			c, err := repos.Consignments.GetForUpdate(ctx, in.ConsignmentID)
			if err != nil {
				return err
			}
			if c == nil {
				return domain.NotFound("consignación %s no encontrada", in.ConsignmentID)
			}
			if c.ConsigneeID != consignee.ID {
				return domain.Invalid("la consignación %s no pertenece al consignatario %s", c.Number, consignee.Name)
			}
			if in.Amount.GreaterThan(c.PendingValue) {
				return domain.Invalid("el pago (%s) supera el saldo pendiente de %s (%s)",
					in.Amount.String(), c.Number, c.PendingValue.String())
			}
		}
		if !l.cfg.AllowCreditBalance && in.Amount.GreaterThan(consignee.PendingBalance) {
			return domain.Invalid("el pago (%s) supera el saldo pendiente del consignatario (%s)",
				in.Amount.String(), consignee.PendingBalance.String())
		}

		p := &entity.Payment{
			ID:            uuid.New().String(),
			ConsigneeID:   consignee.ID,
			ConsignmentID: in.ConsignmentID,
			Amount:        in.Amount,
			Method:        in.Method,
			Currency:      currency,
			CurrencyRate:  in.CurrencyRate,
			Date:          date,
			Reference:     in.Reference,
			Notes:         in.Notes,
			CreatedAt:     now,
		}
		if err := repos.Payments.Create(ctx, p); err != nil {
			return err
		}
		updated, err := repos.Consignees.AdjustBalances(ctx, consignee.ID, decimal.Zero, in.Amount)
		if err != nil {
			return err
		}
		if !l.cfg.AllowCreditBalance && updated.PendingBalance.IsNegative() {
			return domain.Invalid("el pago (%s) supera el saldo pendiente del consignatario (%s)",
				in.Amount.String(), updated.PendingBalance.Add(in.Amount).String())
		}
		if in.ConsignmentID != "" {
			if _, err := repos.Consignments.AdjustTotals(ctx, in.ConsignmentID, decimal.Zero, in.Amount); err != nil {
				return err
			}
			if _, err := l.workflow.RecomputeInTx(ctx, repos, in.ConsignmentID); err != nil {
				return err
			}
		}
		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().
		Str("consignee_id", payment.ConsigneeID).
		Str("consignment_id", payment.ConsignmentID).
		Str("amount", payment.Amount.String()).
		Str("currency", payment.Currency).
		Msg("pago registrado")
	return payment, nil
}

// ListPayments lista los pagos de un consignatario.
func (l *Ledger) ListPayments(ctx context.Context, consigneeID string) ([]*entity.Payment, error) {
	consignee, err := l.repos.Consignees.GetByID(ctx, consigneeID)
	if err != nil {
		return nil, err
	}
	if consignee == nil {
		return nil, domain.NotFound("consignatario %s no encontrado", consigneeID)
	}
	return l.repos.Payments.ListByConsignee(ctx, consigneeID)
}
