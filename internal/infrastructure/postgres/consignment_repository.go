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

var _ repository.ConsignmentRepository = (*ConsignmentRepo)(nil)

const consignmentColumns = `id, number, consignee_id, delivery_date, due_date, total_value, paid_value,
	pending_value, status, notes, created_at, updated_at`

const detailColumns = `id, consignment_id, product_id, unit_id, serial, price, state, closed_at, created_at`

// ConsignmentRepo cabeceras y líneas de consignación (usable con pool o tx).
type ConsignmentRepo struct {
	q Querier
}

// NewConsignmentRepository construye el adaptador.
func NewConsignmentRepository(q Querier) *ConsignmentRepo {
	return &ConsignmentRepo{q: q}
}

func scanConsignment(row scanner) (*entity.Consignment, error) {
	var c entity.Consignment
	err := row.Scan(&c.ID, &c.Number, &c.ConsigneeID, &c.DeliveryDate, &c.DueDate, &c.TotalValue,
		&c.PaidValue, &c.PendingValue, &c.Status, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserta la cabecera. El número es único.
func (r *ConsignmentRepo) Create(ctx context.Context, c *entity.Consignment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO consignments (`+consignmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.Number, c.ConsigneeID, c.DeliveryDate, c.DueDate, c.TotalValue, c.PaidValue,
		c.PendingValue, c.Status, c.Notes, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("número de consignación duplicado", c.Number)
		}
		return fmt.Errorf("insert consignment: %w", err)
	}
	return nil
}

// CreateDetails inserta las líneas en un solo batch.
func (r *ConsignmentRepo) CreateDetails(ctx context.Context, details []*entity.ConsignmentDetail) error {
	if len(details) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, d := range details {
		batch.Queue(`INSERT INTO consignment_details (`+detailColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			d.ID, d.ConsignmentID, d.ProductID, d.UnitID, d.Serial, d.Price, d.State, d.ClosedAt, d.CreatedAt)
	}
	br := r.q.SendBatch(ctx, batch)
	for _, d := range details {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			if isUniqueViolation(err) {
				return domain.Conflict("la unidad ya está en una consignación abierta", d.Serial)
			}
			return fmt.Errorf("insert consignment detail: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close detail batch: %w", err)
	}
	return nil
}

func (r *ConsignmentRepo) getOne(ctx context.Context, query, id string) (*entity.Consignment, error) {
	if !isUUID(id) {
		return nil, nil
	}
	c, err := scanConsignment(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get consignment: %w", err)
	}
	return c, nil
}

// GetByID obtiene la cabecera.
func (r *ConsignmentRepo) GetByID(ctx context.Context, id string) (*entity.Consignment, error) {
	return r.getOne(ctx, `SELECT `+consignmentColumns+` FROM consignments WHERE id = $1`, id)
}

// GetForUpdate obtiene y bloquea la cabecera.
func (r *ConsignmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Consignment, error) {
	return r.getOne(ctx, `SELECT `+consignmentColumns+` FROM consignments WHERE id = $1 FOR UPDATE`, id)
}

// ListDetails devuelve las líneas en orden de creación.
func (r *ConsignmentRepo) ListDetails(ctx context.Context, consignmentID string) ([]*entity.ConsignmentDetail, error) {
	if !isUUID(consignmentID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+detailColumns+` FROM consignment_details WHERE consignment_id = $1 ORDER BY created_at, id`, consignmentID)
	if err != nil {
		return nil, fmt.Errorf("list consignment details: %w", err)
	}
	defer rows.Close()
	var list []*entity.ConsignmentDetail
	for rows.Next() {
		var d entity.ConsignmentDetail
		if err := rows.Scan(&d.ID, &d.ConsignmentID, &d.ProductID, &d.UnitID, &d.Serial, &d.Price,
			&d.State, &d.ClosedAt, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan consignment detail: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// UpdateDetail actualiza estado y fecha de cierre de una línea.
func (r *ConsignmentRepo) UpdateDetail(ctx context.Context, d *entity.ConsignmentDetail) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE consignment_details SET state = $2, closed_at = $3 WHERE id = $1`, d.ID, d.State, d.ClosedAt)
	if err != nil {
		return fmt.Errorf("update consignment detail: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("línea %s no encontrada", d.ID)
	}
	return nil
}

// AdjustTotals aplica los deltas como acumuladores y devuelve la cabecera resultante.
func (r *ConsignmentRepo) AdjustTotals(ctx context.Context, id string, totalDelta, paidDelta decimal.Decimal) (*entity.Consignment, error) {
	c, err := scanConsignment(r.q.QueryRow(ctx, `
		UPDATE consignments SET
			total_value = total_value + $2,
			paid_value = paid_value + $3,
			pending_value = pending_value + $2 - $3,
			updated_at = now()
		WHERE id = $1
		RETURNING `+consignmentColumns, id, totalDelta, paidDelta))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("consignación %s no encontrada", id)
		}
		return nil, fmt.Errorf("adjust consignment totals: %w", err)
	}
	return c, nil
}

// UpdateStatus fija el estado recalculado.
func (r *ConsignmentRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if _, err := r.q.Exec(ctx, `UPDATE consignments SET status = $2, updated_at = now() WHERE id = $1`, id, status); err != nil {
		return fmt.Errorf("update consignment status: %w", err)
	}
	return nil
}

// HighestNumber devuelve el mayor número CON-### por valor numérico.
func (r *ConsignmentRepo) HighestNumber(ctx context.Context) (string, error) {
	var number string
	err := r.q.QueryRow(ctx, `
		SELECT number FROM consignments
		WHERE number ~ '^CON-[0-9]+$'
		ORDER BY CAST(substring(number FROM 5) AS BIGINT) DESC
		LIMIT 1`).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("highest consignment number: %w", err)
	}
	return number, nil
}

// ListByConsignee lista las consignaciones de un consignatario, más antiguas primero.
func (r *ConsignmentRepo) ListByConsignee(ctx context.Context, consigneeID string) ([]*entity.Consignment, error) {
	if !isUUID(consigneeID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+consignmentColumns+` FROM consignments WHERE consignee_id = $1 ORDER BY delivery_date, number`, consigneeID)
	if err != nil {
		return nil, fmt.Errorf("list consignments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Consignment
	for rows.Next() {
		c, err := scanConsignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consignment: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
