package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/consignaciones-api/internal/domain"
	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
	"github.com/jhoicas/consignaciones-api/internal/domain/repository"
)

var _ repository.ConsigneeRepository = (*consigneeRepo)(nil)

type consigneeRepo struct{ base }

func (r *consigneeRepo) Create(_ context.Context, c *entity.Consignee) error {
	defer r.write()()
	if c.TaxID != "" {
		for _, existing := range r.s.st.consignees {
			if existing.TaxID == c.TaxID {
				return domain.Conflict("documento de consignatario duplicado", c.TaxID)
			}
		}
	}
	r.s.st.consignees[c.ID] = *c
	r.s.st.consigneeList = append(r.s.st.consigneeList, c.ID)
	return nil
}

func (r *consigneeRepo) GetByID(_ context.Context, id string) (*entity.Consignee, error) {
	defer r.read()()
	c, ok := r.s.st.consignees[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *consigneeRepo) AdjustBalances(_ context.Context, id string, consignedDelta, paidDelta decimal.Decimal) (*entity.Consignee, error) {
	defer r.write()()
	c, ok := r.s.st.consignees[id]
	if !ok {
		return nil, domain.NotFound("consignatario %s no encontrado", id)
	}
	c.TotalConsigned = c.TotalConsigned.Add(consignedDelta)
	c.TotalPaid = c.TotalPaid.Add(paidDelta)
	c.PendingBalance = c.PendingBalance.Add(consignedDelta).Sub(paidDelta)
	c.UpdatedAt = time.Now()
	r.s.st.consignees[id] = c
	return &c, nil
}

func (r *consigneeRepo) List(_ context.Context, limit, offset int) ([]*entity.Consignee, error) {
	defer r.read()()
	list := make([]*entity.Consignee, 0, len(r.s.st.consigneeList))
	for _, id := range r.s.st.consigneeList {
		c := r.s.st.consignees[id]
		list = append(list, &c)
	}
	return page(list, limit, offset), nil
}

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ base }

func (r *paymentRepo) Create(_ context.Context, p *entity.Payment) error {
	defer r.write()()
	r.s.st.payments = append(r.s.st.payments, *p)
	return nil
}

func (r *paymentRepo) ListByConsignee(_ context.Context, consigneeID string) ([]*entity.Payment, error) {
	defer r.read()()
	var list []*entity.Payment
	for _, p := range r.s.st.payments {
		if p.ConsigneeID == consigneeID {
			p := p
			list = append(list, &p)
		}
	}
	return list, nil
}
