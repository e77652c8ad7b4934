package memory

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/consignaciones-api/internal/domain"
	"github.com/jhoicas/consignaciones-api/internal/domain/consignment"
	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
	"github.com/jhoicas/consignaciones-api/internal/domain/repository"
)

var _ repository.ConsignmentRepository = (*consignmentRepo)(nil)

type consignmentRepo struct{ base }

func (r *consignmentRepo) Create(_ context.Context, c *entity.Consignment) error {
	defer r.write()()
	for _, existing := range r.s.st.consignments {
		if existing.Number == c.Number {
			return domain.Conflict("número de consignación duplicado", c.Number)
		}
	}
	r.s.st.consignments[c.ID] = *c
	r.s.st.consignOrder = append(r.s.st.consignOrder, c.ID)
	return nil
}

func (r *consignmentRepo) CreateDetails(_ context.Context, details []*entity.ConsignmentDetail) error {
	defer r.write()()
	for _, d := range details {
		r.s.st.details[d.ID] = *d
		r.s.st.detailOrder = append(r.s.st.detailOrder, d.ID)
	}
	return nil
}

func (r *consignmentRepo) GetByID(_ context.Context, id string) (*entity.Consignment, error) {
	defer r.read()()
	c, ok := r.s.st.consignments[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *consignmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Consignment, error) {
	return r.GetByID(ctx, id)
}

func (r *consignmentRepo) ListDetails(_ context.Context, consignmentID string) ([]*entity.ConsignmentDetail, error) {
	defer r.read()()
	var list []*entity.ConsignmentDetail
	for _, id := range r.s.st.detailOrder {
		d := r.s.st.details[id]
		if d.ConsignmentID == consignmentID {
			list = append(list, &d)
		}
	}
	return list, nil
}

func (r *consignmentRepo) UpdateDetail(_ context.Context, d *entity.ConsignmentDetail) error {
	defer r.write()()
	if _, ok := r.s.st.details[d.ID]; !ok {
		return domain.NotFound("línea %s no encontrada", d.ID)
	}
	r.s.st.details[d.ID] = *d
	return nil
}

func (r *consignmentRepo) AdjustTotals(_ context.Context, id string, totalDelta, paidDelta decimal.Decimal) (*entity.Consignment, error) {
	defer r.write()()
	c, ok := r.s.st.consignments[id]
	if !ok {
		return nil, domain.NotFound("consignación %s no encontrada", id)
	}
	c.TotalValue = c.TotalValue.Add(totalDelta)
	c.PaidValue = c.PaidValue.Add(paidDelta)
	c.PendingValue = c.PendingValue.Add(totalDelta).Sub(paidDelta)
	c.UpdatedAt = time.Now()
	r.s.st.consignments[id] = c
	return &c, nil
}

func (r *consignmentRepo) UpdateStatus(_ context.Context, id, status string) error {
	defer r.write()()
	c, ok := r.s.st.consignments[id]
	if !ok {
		return domain.NotFound("consignación %s no encontrada", id)
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	r.s.st.consignments[id] = c
	return nil
}

func (r *consignmentRepo) HighestNumber(_ context.Context) (string, error) {
	defer r.read()()
	highest, best := "", -1
	for _, c := range r.s.st.consignments {
		n, err := strconv.Atoi(strings.TrimPrefix(c.Number, consignment.NumberPrefix))
		if err != nil {
			continue
		}
		if n > best {
			best, highest = n, c.Number
		}
	}
	return highest, nil
}

func (r *consignmentRepo) ListByConsignee(_ context.Context, consigneeID string) ([]*entity.Consignment, error) {
	defer r.read()()
	var list []*entity.Consignment
	for _, id := range r.s.st.consignOrder {
		c := r.s.st.consignments[id]
		if c.ConsigneeID == consigneeID {
			list = append(list, &c)
		}
	}
	return list, nil
}
