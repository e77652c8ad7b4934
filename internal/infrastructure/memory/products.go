package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/consignaciones-api/internal/domain"
	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
	"github.com/jhoicas/consignaciones-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*productRepo)(nil)

type productRepo struct{ base }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.write()()
	for _, existing := range r.s.st.products {
		if existing.Code == p.Code {
			return domain.Conflict("código de producto duplicado", p.Code)
		}
	}
	r.s.st.products[p.ID] = *p
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.read()()
	p, ok := r.s.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	defer r.read()()
	for _, p := range r.s.st.products {
		if p.Code == code {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) UpdateStock(_ context.Context, id string, stock int, status string) error {
	defer r.write()()
	p, ok := r.s.st.products[id]
	if !ok {
		return domain.NotFound("producto %s no encontrado", id)
	}
	p.Stock = stock
	p.Status = status
	p.UpdatedAt = time.Now()
	r.s.st.products[id] = p
	return nil
}

func (r *productRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	defer r.read()()
	list := make([]*entity.Product, 0, len(r.s.st.products))
	for _, p := range r.s.st.products {
		p := p
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return page(list, limit, offset), nil
}

var _ repository.CustomerRepository = (*customerRepo)(nil)

type customerRepo struct{ base }

func (r *customerRepo) Create(_ context.Context, c *entity.Customer) error {
	defer r.write()()
	r.s.st.customers[c.ID] = *c
	return nil
}

func (r *customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	defer r.read()()
	c, ok := r.s.st.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

var _ repository.StockMovementRepository = (*movementRepo)(nil)

type movementRepo struct{ base }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	defer r.write()()
	r.s.st.movements = append(r.s.st.movements, *m)
	return nil
}

func (r *movementRepo) ListByProduct(_ context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	defer r.read()()
	var list []*entity.StockMovement
	for i := len(r.s.st.movements) - 1; i >= 0; i-- {
		m := r.s.st.movements[i]
		if m.ProductID != productID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		list = append(list, &m)
	}
	return page(list, limit, offset), nil
}
