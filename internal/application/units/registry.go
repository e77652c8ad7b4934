// Package units contiene los casos de uso del registro de unidades serializadas.
package units

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	appinventory "github.com/jhoicas/consignaciones-api/internal/application/inventory"
	"github.com/jhoicas/consignaciones-api/internal/application/ports"
	"github.com/jhoicas/consignaciones-api/internal/domain"
	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
	"github.com/jhoicas/consignaciones-api/internal/domain/inventory"
	"github.com/jhoicas/consignaciones-api/internal/domain/repository"
)

// Config valores por defecto inyectados desde la configuración.
type Config struct {
	DefaultWarrantyMonths int
}

// Registry registra, vende y edita unidades. Todo cambio de stock pasa por el Ledger.
type Registry struct {
	txRunner ports.TxRunner
	repos    repository.Repositories
	ledger   *appinventory.Ledger
	cfg      Config
	log      zerolog.Logger
	now      func() time.Time
}

// NewRegistry construye el registro de unidades.
func NewRegistry(txRunner ports.TxRunner, repos repository.Repositories, ledger *appinventory.Ledger, cfg Config, log zerolog.Logger) *Registry {
	if cfg.DefaultWarrantyMonths < 0 {
		cfg.DefaultWarrantyMonths = 0
	}
	return &Registry{
		txRunner: txRunner,
		repos:    repos,
		ledger:   ledger,
		cfg:      cfg,
		log:      log.With().Str("component", "unit_registry").Logger(),
		now:      time.Now,
	}
}

// RegisterInput datos de una unidad nueva. WarrantyMonths y EntryDate son opcionales.
type RegisterInput struct {
	ProductID      string
	Serial         string
	Cost           decimal.Decimal
	Origin         string
	Lot            string
	WarrantyMonths *int
	EntryDate      *time.Time
	Notes          string
}

// RegisterBatchInput varias unidades del mismo producto con los mismos datos comunes.
type RegisterBatchInput struct {
	ProductID      string
	Serials        []string
	Cost           decimal.Decimal
	Origin         string
	Lot            string
	WarrantyMonths *int
	EntryDate      *time.Time
	Notes          string
}

// Register crea una unidad DISPONIBLE y suma 1 al stock del producto.
func (r *Registry) Register(ctx context.Context, in RegisterInput) (*entity.InventoryUnit, error) {
	units, err := r.RegisterBatch(ctx, RegisterBatchInput{
		ProductID:      in.ProductID,
		Serials:        []string{in.Serial},
		Cost:           in.Cost,
		Origin:         in.Origin,
		Lot:            in.Lot,
		WarrantyMonths: in.WarrantyMonths,
		EntryDate:      in.EntryDate,
		Notes:          in.Notes,
	})
	if err != nil {
		return nil, err
	}
	return units[0], nil
}

// RegisterBatch valida todos los seriales antes de insertar: si alguno está repetido en el
// lote o ya existe, no se crea ninguno y el error lista todos los seriales ofensivos.
func (r *Registry) RegisterBatch(ctx context.Context, in RegisterBatchInput) ([]*entity.InventoryUnit, error) {
	if len(in.Serials) == 0 {
		return nil, domain.Invalid("el lote no tiene seriales")
	}
	if in.Cost.IsNegative() {
		return nil, domain.Invalid("el costo no puede ser negativo")
	}
	serials := make([]string, len(in.Serials))
	for i, s := range in.Serials {
		serials[i] = inventory.NormalizeSerial(s)
		if serials[i] == "" {
			return nil, domain.Invalid("serial vacío en la posición %d", i+1)
		}
	}
	if dups := inventory.DuplicateSerials(serials); len(dups) > 0 {
		return nil, domain.InvalidRefs("seriales repetidos en el lote", dups...)
	}
	months := r.warrantyMonths(in.WarrantyMonths)
	if months < 0 {
		return nil, domain.Invalid("los meses de garantía no pueden ser negativos")
	}
	now := r.now()
	entryDate := now
	if in.EntryDate != nil {
		entryDate = *in.EntryDate
	}

	var (
		created []*entity.InventoryUnit
		change  *appinventory.StockChange
	)
	err := r.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		product, err := repos.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NotFound("producto %s no encontrado", in.ProductID)
		}
		existing, err := repos.Units.ExistingSerials(ctx, serials)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return domain.Conflict("seriales ya registrados", existing...)
		}
		created = make([]*entity.InventoryUnit, 0, len(serials))
		for _, s := range serials {
			created = append(created, &entity.InventoryUnit{
				ID:             uuid.New().String(),
				ProductID:      product.ID,
				Serial:         s,
				Cost:           in.Cost,
				Origin:         in.Origin,
				Lot:            in.Lot,
				EntryDate:      entryDate,
				WarrantyMonths: months,
				WarrantyExpiry: inventory.WarrantyExpiry(entryDate, months),
				State:          entity.UnitAvailable,
				Notes:          in.Notes,
				CreatedAt:      now,
				UpdatedAt:      now,
			})
		}
		if err := repos.Units.CreateBatch(ctx, created); err != nil {
			return err
		}
		change, err = r.ledger.ApplyInTx(ctx, repos, product.ID, inventory.Entry, len(created), in.Lot, "registro de unidades")
		return err
	})
	if err != nil {
		return nil, err
	}
	r.ledger.Notify(ctx, change)
	r.log.Info().Str("product_id", in.ProductID).Int("units", len(created)).Msg("unidades registradas")
	return created, nil
}

// SellInput venta directa de una unidad a un comprador.
type SellInput struct {
	Serial    string
	BuyerID   string
	SalePrice decimal.Decimal
	Method    string
	Date      *time.Time
	Notes     string
}

// Sell vende una unidad DISPONIBLE: registra precio y margen, recalcula la garantía desde la
// fecha de venta y descuenta 1 del stock.
func (r *Registry) Sell(ctx context.Context, in SellInput) (*entity.InventoryUnit, error) {
	serial := inventory.NormalizeSerial(in.Serial)
	if serial == "" {
		return nil, domain.Invalid("el serial es obligatorio")
	}
	if in.SalePrice.IsNegative() {
		return nil, domain.Invalid("el precio de venta no puede ser negativo")
	}
	saleDate := r.now()
	if in.Date != nil {
		saleDate = *in.Date
	}

	var (
		unit   *entity.InventoryUnit
		change *appinventory.StockChange
	)
	err := r.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		u, err := repos.Units.GetBySerialForUpdate(ctx, serial)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.NotFound("unidad con serial %s no encontrada", serial)
		}
		if u.State != entity.UnitAvailable {
			return domain.Invalid("la unidad %s no está disponible (estado actual %s)", serial, u.State)
		}
		buyer, err := repos.Customers.GetByID(ctx, in.BuyerID)
		if err != nil {
			return err
		}
		if buyer == nil {
			return domain.NotFound("comprador %s no encontrado", in.BuyerID)
		}
		price := in.SalePrice
		margin := price.Sub(u.Cost)
		u.State = entity.UnitSold
		u.BuyerID = buyer.ID
		u.SalePrice = &price
		u.Margin = &margin
		u.SaleDate = &saleDate
		u.WarrantyExpiry = inventory.WarrantyExpiry(saleDate, u.WarrantyMonths)
		if in.Notes != "" {
			u.Notes = in.Notes
		}
		u.UpdatedAt = r.now()
		if err := repos.Units.Update(ctx, u); err != nil {
			return err
		}
		change, err = r.ledger.ApplyInTx(ctx, repos, u.ProductID, inventory.Exit, 1, serial, "venta "+in.Method)
		if err != nil {
			return err
		}
		unit = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.ledger.Notify(ctx, change)
	return unit, nil
}

// UnitPatch campos editables; nil significa "no cambiar".
type UnitPatch struct {
	State          *string
	Cost           *decimal.Decimal
	Origin         *string
	Lot            *string
	Notes          *string
	WarrantyMonths *int
}

// UpdateFields edita una unidad. Los cambios de estado se validan contra el grafo y ajustan
// el stock según la unidad entre o salga de bodega.
func (r *Registry) UpdateFields(ctx context.Context, serial string, patch UnitPatch) (*entity.InventoryUnit, error) {
	serial = inventory.NormalizeSerial(serial)
	if patch.Cost != nil && patch.Cost.IsNegative() {
		return nil, domain.Invalid("el costo no puede ser negativo")
	}
	if patch.WarrantyMonths != nil && *patch.WarrantyMonths < 0 {
		return nil, domain.Invalid("los meses de garantía no pueden ser negativos")
	}

	var (
		unit   *entity.InventoryUnit
		change *appinventory.StockChange
	)
	err := r.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		u, err := repos.Units.GetBySerialForUpdate(ctx, serial)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.NotFound("unidad con serial %s no encontrada", serial)
		}
		from := u.State
		if patch.State != nil && *patch.State != from {
			to := *patch.State
			if err := inventory.CheckManualTransition(from, to); err != nil {
				return err
			}
			u.State = to
			if to == entity.UnitAvailable {
				u.BuyerID = ""
				u.ConsigneeID = ""
			}
		}
		if patch.Cost != nil {
			u.Cost = *patch.Cost
			if u.SalePrice != nil {
				margin := u.SalePrice.Sub(u.Cost)
				u.Margin = &margin
			}
		}
		if patch.Origin != nil {
			u.Origin = *patch.Origin
		}
		if patch.Lot != nil {
			u.Lot = *patch.Lot
		}
		if patch.Notes != nil {
			u.Notes = *patch.Notes
		}
		if patch.WarrantyMonths != nil {
			u.WarrantyMonths = *patch.WarrantyMonths
			base := u.EntryDate
			if u.SaleDate != nil {
				base = *u.SaleDate
			}
			u.WarrantyExpiry = inventory.WarrantyExpiry(base, u.WarrantyMonths)
		}
		u.UpdatedAt = r.now()
		if err := repos.Units.Update(ctx, u); err != nil {
			return err
		}
		if delta := inventory.StockDelta(from, u.State); delta != 0 {
			kind := inventory.Exit
			if delta > 0 {
				kind = inventory.Entry
				if from == entity.UnitSold {
					kind = inventory.Return
				}
			}
			change, err = r.ledger.ApplyInTx(ctx, repos, u.ProductID, kind, 1, serial, "cambio de estado "+from+" a "+u.State)
			if err != nil {
				return err
			}
		}
		unit = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	if change != nil {
		r.ledger.Notify(ctx, change)
	}
	return unit, nil
}

// WarrantyLookup resultado de la consulta de garantía.
type WarrantyLookup struct {
	Unit          *entity.InventoryUnit
	InWarranty    bool
	DaysRemaining int
	SoldByUs      bool
}

// LookupWarranty informa si la unidad sigue en garantía a la fecha actual.
func (r *Registry) LookupWarranty(ctx context.Context, serial string) (*WarrantyLookup, error) {
	u, err := r.GetBySerial(ctx, serial)
	if err != nil {
		return nil, err
	}
	ws := inventory.EvaluateWarranty(u.WarrantyExpiry, r.now())
	return &WarrantyLookup{
		Unit:          u,
		InWarranty:    ws.InWarranty,
		DaysRemaining: ws.DaysRemaining,
		SoldByUs:      u.State == entity.UnitSold || u.State == entity.UnitReturned,
	}, nil
}

// GetBySerial busca una unidad por serial normalizado.
func (r *Registry) GetBySerial(ctx context.Context, serial string) (*entity.InventoryUnit, error) {
	serial = inventory.NormalizeSerial(serial)
	u, err := r.repos.Units.GetBySerial(ctx, serial)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound("unidad con serial %s no encontrada", serial)
	}
	return u, nil
}

// ListByProduct lista las unidades de un producto.
func (r *Registry) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.InventoryUnit, error) {
	if limit <= 0 {
		limit = 50
	}
	return r.repos.Units.ListByProduct(ctx, productID, limit, offset)
}

func (r *Registry) warrantyMonths(override *int) int {
	if override != nil {
		return *override
	}
	return r.cfg.DefaultWarrantyMonths
}
