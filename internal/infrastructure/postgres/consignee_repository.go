package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/consignaciones-api/internal/domain"
	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
	"github.com/jhoicas/consignaciones-api/internal/domain/repository"
)

var _ repository.ConsigneeRepository = (*ConsigneeRepo)(nil)

const consigneeColumns = `id, name, tax_id, email, phone, active, total_consigned, total_paid,
	pending_balance, created_at, updated_at`

// ConsigneeRepo persistencia de consignatarios.
type ConsigneeRepo struct {
	q Querier
}

// NewConsigneeRepository construye el adaptador.
func NewConsigneeRepository(q Querier) *ConsigneeRepo {
	return &ConsigneeRepo{q: q}
}

func scanConsignee(row scanner) (*entity.Consignee, error) {
	var c entity.Consignee
	err := row.Scan(&c.ID, &c.Name, &c.TaxID, &c.Email, &c.Phone, &c.Active, &c.TotalConsigned,
		&c.TotalPaid, &c.PendingBalance, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserta un consignatario.
func (r *ConsigneeRepo) Create(ctx context.Context, c *entity.Consignee) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO consignees (`+consigneeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.Name, c.TaxID, c.Email, c.Phone, c.Active, c.TotalConsigned, c.TotalPaid,
		c.PendingBalance, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("documento de consignatario duplicado", c.TaxID)
		}
		return fmt.Errorf("insert consignee: %w", err)
	}
	return nil
}

// GetByID obtiene un consignatario.
func (r *ConsigneeRepo) GetByID(ctx context.Context, id string) (*entity.Consignee, error) {
	if !isUUID(id) {
		return nil, nil
	}
	c, err := scanConsignee(r.q.QueryRow(ctx, `SELECT `+consigneeColumns+` FROM consignees WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get consignee: %w", err)
	}
	return c, nil
}

// AdjustBalances aplica los deltas como acumuladores y devuelve el resultado.
func (r *ConsigneeRepo) AdjustBalances(ctx context.Context, id string, consignedDelta, paidDelta decimal.Decimal) (*entity.Consignee, error) {
	c, err := scanConsignee(r.q.QueryRow(ctx, `
		UPDATE consignees SET
			total_consigned = total_consigned + $2,
			total_paid = total_paid + $3,
			pending_balance = pending_balance + $2 - $3,
			updated_at = now()
		WHERE id = $1
		RETURNING `+consigneeColumns, id, consignedDelta, paidDelta))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("consignatario %s no encontrado", id)
		}
		return nil, fmt.Errorf("adjust consignee balances: %w", err)
	}
	return c, nil
}

// List lista consignatarios en orden de alta.
func (r *ConsigneeRepo) List(ctx context.Context, limit, offset int) ([]*entity.Consignee, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+consigneeColumns+` FROM consignees ORDER BY created_at, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list consignees: %w", err)
	}
	return collectConsignees(rows)
}

func collectConsignees(rows pgx.Rows) ([]*entity.Consignee, error) {
	defer rows.Close()
	var list []*entity.Consignee
	for rows.Next() {
		c, err := scanConsignee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consignee: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
