package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/consignaciones-api/internal/domain"
	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
	"github.com/jhoicas/consignaciones-api/internal/domain/repository"
)

var _ repository.UnitRepository = (*unitRepo)(nil)

type unitRepo struct{ base }

func (r *unitRepo) Create(ctx context.Context, u *entity.InventoryUnit) error {
	return r.CreateBatch(ctx, []*entity.InventoryUnit{u})
}

func (r *unitRepo) CreateBatch(_ context.Context, units []*entity.InventoryUnit) error {
	defer r.write()()
	var dups []string
	seen := map[string]bool{}
	for _, u := range units {
		if _, ok := r.s.st.unitBySerial[u.Serial]; ok || seen[u.Serial] {
			dups = append(dups, u.Serial)
		}
		seen[u.Serial] = true
	}
	if len(dups) > 0 {
		return domain.Conflict("seriales ya registrados", dups...)
	}
	for _, u := range units {
		r.s.st.units[u.ID] = *u
		r.s.st.unitBySerial[u.Serial] = u.ID
	}
	return nil
}

func (r *unitRepo) GetBySerial(_ context.Context, serial string) (*entity.InventoryUnit, error) {
	defer r.read()()
	id, ok := r.s.st.unitBySerial[serial]
	if !ok {
		return nil, nil
	}
	u := r.s.st.units[id]
	return &u, nil
}

func (r *unitRepo) GetBySerialForUpdate(ctx context.Context, serial string) (*entity.InventoryUnit, error) {
	return r.GetBySerial(ctx, serial)
}

func (r *unitRepo) GetByIDsForUpdate(_ context.Context, ids []string) ([]*entity.InventoryUnit, error) {
	defer r.read()()
	var list []*entity.InventoryUnit
	for _, id := range ids {
		if u, ok := r.s.st.units[id]; ok {
			list = append(list, &u)
		}
	}
	return list, nil
}

func (r *unitRepo) ExistingSerials(_ context.Context, serials []string) ([]string, error) {
	defer r.read()()
	var found []string
	for _, s := range serials {
		if _, ok := r.s.st.unitBySerial[s]; ok {
			found = append(found, s)
		}
	}
	return found, nil
}

func (r *unitRepo) Update(_ context.Context, u *entity.InventoryUnit) error {
	defer r.write()()
	current, ok := r.s.st.units[u.ID]
	if !ok {
		return domain.NotFound("unidad %s no encontrada", u.ID)
	}
	if current.Serial != u.Serial {
		return domain.Invalid("el serial %s no se puede modificar", current.Serial)
	}
	r.s.st.units[u.ID] = *u
	return nil
}

func (r *unitRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.InventoryUnit, error) {
	defer r.read()()
	var list []*entity.InventoryUnit
	for _, u := range r.s.st.units {
		if u.ProductID == productID {
			u := u
			list = append(list, &u)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Serial < list[j].Serial })
	return page(list, limit, offset), nil
}
