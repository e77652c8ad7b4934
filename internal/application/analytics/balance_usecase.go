package analytics

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/consignaciones-api/internal/application/dto"
	"github.com/jhoicas/consignaciones-api/internal/domain"
	"github.com/jhoicas/consignaciones-api/internal/domain/repository"
)

const defaultReceivablesLimit = 100

// BalanceUseCase estado de cuenta y cartera por cobrar. Solo lectura.
type BalanceUseCase struct {
	repos         repository.Repositories
	analyticsRepo repository.AnalyticsRepository
}

// NewBalanceUseCase construye el caso de uso.
func NewBalanceUseCase(repos repository.Repositories, analyticsRepo repository.AnalyticsRepository) *BalanceUseCase {
	return &BalanceUseCase{repos: repos, analyticsRepo: analyticsRepo}
}

// ConsigneeBalance arma el estado de cuenta y verifica la conciliación de saldos.
func (uc *BalanceUseCase) ConsigneeBalance(ctx context.Context, consigneeID string) (*dto.ConsigneeBalanceDTO, error) {
	k, err := uc.repos.Consignees.GetByID(ctx, consigneeID)
	if err != nil {
		return nil, err
	}
	if k == nil {
		return nil, domain.NotFound("consignatario %s no encontrado", consigneeID)
	}
	consignments, err := uc.repos.Consignments.ListByConsignee(ctx, consigneeID)
	if err != nil {
		return nil, err
	}
	payments, err := uc.repos.Payments.ListByConsignee(ctx, consigneeID)
	if err != nil {
		return nil, err
	}

	out := &dto.ConsigneeBalanceDTO{
		ConsigneeID:    k.ID,
		Name:           k.Name,
		TotalConsigned: k.TotalConsigned,
		TotalPaid:      k.TotalPaid,
		PendingBalance: k.PendingBalance,
		Consignments:   make([]dto.ConsignmentBalanceDTO, 0, len(consignments)),
	}
	sumPending := decimal.Zero
	for _, c := range consignments {
		sumPending = sumPending.Add(c.PendingValue)
		out.Consignments = append(out.Consignments, dto.ConsignmentBalanceDTO{
			ID:           c.ID,
			Number:       c.Number,
			Status:       c.Status,
			DeliveryDate: c.DeliveryDate,
			DueDate:      c.DueDate,
			TotalValue:   c.TotalValue,
			PaidValue:    c.PaidValue,
			PendingValue: c.PendingValue,
		})
	}
	unallocated := decimal.Zero
	for _, p := range payments {
		if p.ConsignmentID == "" {
			unallocated = unallocated.Add(p.Amount)
		}
	}
	out.UnallocatedPayments = unallocated
	out.Reconciled = k.PendingBalance.Equal(k.TotalConsigned.Sub(k.TotalPaid)) &&
		k.PendingBalance.Equal(sumPending.Sub(unallocated))
	return out, nil
}

// Receivables lista los consignatarios con saldo pendiente, mayor saldo primero.
func (uc *BalanceUseCase) Receivables(ctx context.Context, limit int) ([]dto.ReceivableDTO, error) {
	if limit <= 0 {
		limit = defaultReceivablesLimit
	}
	list, err := uc.analyticsRepo.Receivables(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReceivableDTO, 0, len(list))
	for _, k := range list {
		out = append(out, dto.ReceivableDTO{
			ConsigneeID:    k.ID,
			Name:           k.Name,
			Phone:          k.Phone,
			PendingBalance: k.PendingBalance,
			TotalConsigned: k.TotalConsigned,
			TotalPaid:      k.TotalPaid,
		})
	}
	return out, nil
}
