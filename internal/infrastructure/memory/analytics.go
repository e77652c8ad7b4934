package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
	"github.com/jhoicas/consignaciones-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*analyticsRepo)(nil)

type analyticsRepo struct{ base }

func (r *analyticsRepo) CountConsignmentsByStatus(_ context.Context) (map[string]int, error) {
	defer r.read()()
	out := map[string]int{}
	for _, c := range r.s.st.consignments {
		out[c.Status]++
	}
	return out, nil
}

func (r *analyticsRepo) CountUnitsByState(_ context.Context) (map[string]int, error) {
	defer r.read()()
	out := map[string]int{}
	for _, u := range r.s.st.units {
		out[u.State]++
	}
	return out, nil
}

func (r *analyticsRepo) ConsigneeTotals(_ context.Context) (repository.ConsignmentTotals, error) {
	defer r.read()()
	var t repository.ConsignmentTotals
	for _, c := range r.s.st.consignees {
		t.TotalConsigned = t.TotalConsigned.Add(c.TotalConsigned)
		t.TotalPaid = t.TotalPaid.Add(c.TotalPaid)
		t.TotalPending = t.TotalPending.Add(c.PendingBalance)
	}
	return t, nil
}

func (r *analyticsRepo) Receivables(_ context.Context, limit int) ([]*entity.Consignee, error) {
	defer r.read()()
	var list []*entity.Consignee
	for _, id := range r.s.st.consigneeList {
		c := r.s.st.consignees[id]
		if c.PendingBalance.IsPositive() {
			list = append(list, &c)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].PendingBalance.GreaterThan(list[j].PendingBalance)
	})
	return page(list, limit, 0), nil
}
