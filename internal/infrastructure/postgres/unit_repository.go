package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/consignaciones-api/internal/domain"
	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
	"github.com/jhoicas/consignaciones-api/internal/domain/repository"
)

var _ repository.UnitRepository = (*UnitRepo)(nil)

const unitColumns = `id, product_id, serial, cost, origin, lot, entry_date, warranty_months, warranty_expiry,
	state, buyer_id, consignee_id, sale_price, margin, sale_date, notes, created_at, updated_at`

const insertUnitSQL = `
	INSERT INTO inventory_units (` + unitColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

// UnitRepo persistencia de unidades serializadas (usable con pool o tx).
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador.
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

func scanUnit(row scanner) (*entity.InventoryUnit, error) {
	var (
		u                  entity.InventoryUnit
		buyerID, consignee *string
	)
	err := row.Scan(&u.ID, &u.ProductID, &u.Serial, &u.Cost, &u.Origin, &u.Lot, &u.EntryDate,
		&u.WarrantyMonths, &u.WarrantyExpiry, &u.State, &buyerID, &consignee, &u.SalePrice,
		&u.Margin, &u.SaleDate, &u.Notes, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.BuyerID = derefString(buyerID)
	u.ConsigneeID = derefString(consignee)
	return &u, nil
}

func unitArgs(u *entity.InventoryUnit) []any {
	return []any{
		u.ID, u.ProductID, u.Serial, u.Cost, u.Origin, u.Lot, u.EntryDate, u.WarrantyMonths,
		u.WarrantyExpiry, u.State, nullString(u.BuyerID), nullString(u.ConsigneeID), u.SalePrice,
		u.Margin, u.SaleDate, u.Notes, u.CreatedAt, u.UpdatedAt,
	}
}

// Create inserta una unidad.
func (r *UnitRepo) Create(ctx context.Context, u *entity.InventoryUnit) error {
	if _, err := r.q.Exec(ctx, insertUnitSQL, unitArgs(u)...); err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("serial ya registrado", u.Serial)
		}
		return fmt.Errorf("insert unit: %w", err)
	}
	return nil
}

// CreateBatch inserta todas las unidades en un solo viaje (pgx.Batch).
// Debe usarse dentro de una tx para que sea todo o nada.
func (r *UnitRepo) CreateBatch(ctx context.Context, units []*entity.InventoryUnit) error {
	if len(units) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, u := range units {
		batch.Queue(insertUnitSQL, unitArgs(u)...)
	}
	br := r.q.SendBatch(ctx, batch)
	for _, u := range units {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			if isUniqueViolation(err) {
				return domain.Conflict("serial ya registrado", u.Serial)
			}
			return fmt.Errorf("insert unit batch: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close unit batch: %w", err)
	}
	return nil
}

func (r *UnitRepo) getOne(ctx context.Context, query string, arg any) (*entity.InventoryUnit, error) {
	u, err := scanUnit(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return u, nil
}

// GetBySerial busca por serial normalizado.
func (r *UnitRepo) GetBySerial(ctx context.Context, serial string) (*entity.InventoryUnit, error) {
	return r.getOne(ctx, `SELECT `+unitColumns+` FROM inventory_units WHERE serial = $1`, serial)
}

// GetBySerialForUpdate busca y bloquea la fila.
func (r *UnitRepo) GetBySerialForUpdate(ctx context.Context, serial string) (*entity.InventoryUnit, error) {
	return r.getOne(ctx, `SELECT `+unitColumns+` FROM inventory_units WHERE serial = $1 FOR UPDATE`, serial)
}

// GetByIDsForUpdate bloquea en orden de id para no generar deadlocks entre transacciones.
func (r *UnitRepo) GetByIDsForUpdate(ctx context.Context, ids []string) ([]*entity.InventoryUnit, error) {
	valid := uuids(ids)
	if len(valid) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+unitColumns+` FROM inventory_units WHERE id = ANY($1::uuid[]) ORDER BY id FOR UPDATE`, valid)
	if err != nil {
		return nil, fmt.Errorf("lock units: %w", err)
	}
	return collectUnits(rows)
}

// ExistingSerials devuelve los seriales ya registrados (una sola consulta).
func (r *UnitRepo) ExistingSerials(ctx context.Context, serials []string) ([]string, error) {
	if len(serials) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT serial FROM inventory_units WHERE serial = ANY($1) ORDER BY serial`, serials)
	if err != nil {
		return nil, fmt.Errorf("existing serials: %w", err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan serials: %w", err)
	}
	return found, nil
}

// Update reescribe los campos mutables; el serial es inmutable.
func (r *UnitRepo) Update(ctx context.Context, u *entity.InventoryUnit) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE inventory_units SET
			cost = $2, origin = $3, lot = $4, warranty_months = $5, warranty_expiry = $6, state = $7,
			buyer_id = $8, consignee_id = $9, sale_price = $10, margin = $11, sale_date = $12,
			notes = $13, updated_at = $14
		WHERE id = $1`,
		u.ID, u.Cost, u.Origin, u.Lot, u.WarrantyMonths, u.WarrantyExpiry, u.State,
		nullString(u.BuyerID), nullString(u.ConsigneeID), u.SalePrice, u.Margin, u.SaleDate,
		u.Notes, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update unit: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("unidad %s no encontrada", u.Serial)
	}
	return nil
}

// ListByProduct lista las unidades de un producto ordenadas por serial.
func (r *UnitRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.InventoryUnit, error) {
	if !isUUID(productID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+unitColumns+` FROM inventory_units WHERE product_id = $1 ORDER BY serial LIMIT $2 OFFSET $3`,
		productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return collectUnits(rows)
}

func collectUnits(rows pgx.Rows) ([]*entity.InventoryUnit, error) {
	defer rows.Close()
	var list []*entity.InventoryUnit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}
