package consignment_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/consignaciones-api/internal/domain/consignment"
	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
)

func lines(states ...string) []*entity.ConsignmentDetail {
	out := make([]*entity.ConsignmentDetail, 0, len(states))
	for _, s := range states {
		out = append(out, &entity.ConsignmentDetail{State: s})
	}
	return out
}

func TestRecompute(t *testing.T) {
	zero := decimal.Zero
	cases := []struct {
		name    string
		current string
		lines   []*entity.ConsignmentDetail
		paid    decimal.Decimal
		pending decimal.Decimal
		want    string
	}{
		{"sin eventos sigue pendiente", entity.ConsignmentPending,
			lines(entity.DetailConsigned, entity.DetailConsigned), zero, decimal.NewFromInt(200), entity.ConsignmentPending},
		{"una venta pasa a en proceso", entity.ConsignmentPending,
			lines(entity.DetailSold, entity.DetailConsigned), zero, decimal.NewFromInt(200), entity.ConsignmentInProgress},
		{"un pago pasa a en proceso", entity.ConsignmentPending,
			lines(entity.DetailConsigned), decimal.NewFromInt(10), decimal.NewFromInt(90), entity.ConsignmentInProgress},
		{"todo cerrado y pagado liquida", entity.ConsignmentInProgress,
			lines(entity.DetailSold, entity.DetailReturned), decimal.NewFromInt(100), zero, entity.ConsignmentSettled},
		{"todo cerrado con saldo sigue en proceso", entity.ConsignmentInProgress,
			lines(entity.DetailSold, entity.DetailReturned), zero, decimal.NewFromInt(100), entity.ConsignmentInProgress},
		{"todo devuelto cancela aunque el saldo sea cero", entity.ConsignmentPending,
			lines(entity.DetailReturned, entity.DetailReturned), zero, zero, entity.ConsignmentCancelled},
		{"sin líneas conserva el estado", entity.ConsignmentExpired,
			nil, zero, zero, entity.ConsignmentExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, consignment.Recompute(tc.current, tc.lines, tc.paid, tc.pending))
		})
	}
}

func TestNextNumber(t *testing.T) {
	assert.Equal(t, "CON-001", consignment.NextNumber(""))
	assert.Equal(t, "CON-008", consignment.NextNumber("CON-007"))
	assert.Equal(t, "CON-1000", consignment.NextNumber("CON-999"))
	assert.Equal(t, "CON-001", consignment.NextNumber("basura"))
}
