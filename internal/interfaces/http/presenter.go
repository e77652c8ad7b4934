package http

import (
	"github.com/jhoicas/consignaciones-api/internal/application/consignment"
	"github.com/jhoicas/consignaciones-api/internal/application/dto"
	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
)

func toUnitResponse(u *entity.InventoryUnit) dto.UnitResponse {
	return dto.UnitResponse{
		ID:             u.ID,
		ProductID:      u.ProductID,
		Serial:         u.Serial,
		Cost:           u.Cost,
		Origin:         u.Origin,
		Lot:            u.Lot,
		EntryDate:      u.EntryDate,
		WarrantyMonths: u.WarrantyMonths,
		WarrantyExpiry: u.WarrantyExpiry,
		State:          u.State,
		BuyerID:        u.BuyerID,
		ConsigneeID:    u.ConsigneeID,
		SalePrice:      u.SalePrice,
		Margin:         u.Margin,
		SaleDate:       u.SaleDate,
		Notes:          u.Notes,
	}
}

func toUnitList(list []*entity.InventoryUnit) []dto.UnitResponse {
	out := make([]dto.UnitResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toUnitResponse(u))
	}
	return out
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		Reference:     m.Reference,
		Reason:        m.Reason,
		CreatedAt:     m.CreatedAt,
	}
}

func toConsignmentResponse(c *entity.Consignment, lines []*entity.ConsignmentDetail) dto.ConsignmentResponse {
	out := dto.ConsignmentResponse{
		ID:           c.ID,
		Number:       c.Number,
		ConsigneeID:  c.ConsigneeID,
		DeliveryDate: c.DeliveryDate,
		DueDate:      c.DueDate,
		TotalValue:   c.TotalValue,
		PaidValue:    c.PaidValue,
		PendingValue: c.PendingValue,
		Status:       c.Status,
		Notes:        c.Notes,
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, dto.ConsignmentLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			UnitID:    l.UnitID,
			Serial:    l.Serial,
			Price:     l.Price,
			State:     l.State,
			ClosedAt:  l.ClosedAt,
		})
	}
	return out
}

func toViewResponse(v *consignment.View) dto.ConsignmentResponse {
	return toConsignmentResponse(v.Consignment, v.Lines)
}

func toPaymentResponse(p *entity.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:            p.ID,
		ConsigneeID:   p.ConsigneeID,
		ConsignmentID: p.ConsignmentID,
		Amount:        p.Amount,
		Method:        p.Method,
		Currency:      p.Currency,
		CurrencyRate:  p.CurrencyRate,
		Date:          p.Date,
		Reference:     p.Reference,
		Notes:         p.Notes,
	}
}
