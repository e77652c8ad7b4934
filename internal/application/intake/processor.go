// Package intake procesa el ingreso masivo de unidades serializadas (manual o desde hoja de cálculo).
package intake

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

// Estados por unidad en el resultado de la importación.
const (
	UnitCreated       = "CREADA"
	UnitAlreadyExists = "YA_EXISTE"
	UnitFailed        = "ERROR"
)

// UnitLine una unidad del archivo o formulario. Cost vacío toma el valor por defecto.
type UnitLine struct {
	Serial string
	Cost   *decimal.Decimal
	Lot    string
	Notes  string
}

// ProductGroup unidades de un mismo producto. ProductRef es el id o el código.
type ProductGroup struct {
	ProductRef  string
	Units       []UnitLine
	CostDefault *decimal.Decimal
	LotDefault  string
}

// ImportInput datos comunes del ingreso.
type ImportInput struct {
	Origin         string
	EntryDate      *time.Time
	Reference      string
	WarrantyMonths *int
	Groups         []ProductGroup
}

// UnitResult detalle por unidad.
type UnitResult struct {
	ProductRef string `json:"product_ref"`
	Serial     string `json:"serial"`
	Status     string `json:"status"`
	UnitID     string `json:"unit_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ProductSummary resumen por producto.
type ProductSummary struct {
	ProductRef string `json:"product_ref"`
	ProductID  string `json:"product_id,omitempty"`
	Code       string `json:"code,omitempty"`
	Requested  int    `json:"requested"`
	Added      int    `json:"added"`
	Failed     int    `json:"failed"`
	NewStock   int    `json:"new_stock"`
	Error      string `json:"error,omitempty"`
}

// ImportResult resultado agregado. Las fallas son por unidad o por grupo, no globales.
type ImportResult struct {
	TotalProcessed int              `json:"total_processed"`
	Succeeded      int              `json:"succeeded"`
	Failed         int              `json:"failed"`
	Units          []UnitResult     `json:"units"`
	Products       []ProductSummary `json:"products"`
}

// Processor aplica ingresos masivos. Cada grupo de producto se confirma en su propia
// transacción, así un grupo fallido no revierte los anteriores.
type Processor struct {
	txRunner              ports.TxRunner
	repos                 repository.Repositories
	ledger                *appinventory.Ledger
	defaultWarrantyMonths int
	log                   zerolog.Logger
	now                   func() time.Time
}

// NewProcessor construye el procesador de ingresos.
func NewProcessor(txRunner ports.TxRunner, repos repository.Repositories, ledger *appinventory.Ledger, defaultWarrantyMonths int, log zerolog.Logger) *Processor {
	return &Processor{
		txRunner:              txRunner,
		repos:                 repos,
		ledger:                ledger,
		defaultWarrantyMonths: defaultWarrantyMonths,
		log:                   log.With().Str("component", "bulk_intake").Logger(),
		now:                   time.Now,
	}
}

// Import valida y registra todas las unidades. Solo aborta la llamada completa si un serial
// aparece más de una vez en la entrada.
func (p *Processor) Import(ctx context.Context, in ImportInput) (*ImportResult, error) {
	months := p.defaultWarrantyMonths
	if in.WarrantyMonths != nil {
		months = *in.WarrantyMonths
	}
	if months < 0 {
		return nil, domain.Invalid("los meses de garantía no pueden ser negativos")
	}

	var all []string
	for gi := range in.Groups {
		for ui := range in.Groups[gi].Units {
			s := inventory.NormalizeSerial(in.Groups[gi].Units[ui].Serial)
			in.Groups[gi].Units[ui].Serial = s
			if s != "" {
				all = append(all, s)
			}
		}
	}
	if dups := inventory.DuplicateSerials(all); len(dups) > 0 {
		return nil, domain.InvalidRefs("seriales repetidos en la importación", dups...)
	}

	existing := map[string]bool{}
	if len(all) > 0 {
		found, err := p.repos.Units.ExistingSerials(ctx, all)
		if err != nil {
			return nil, err
		}
		for _, s := range found {
			existing[s] = true
		}
	}

	now := p.now()
	entryDate := now
	if in.EntryDate != nil {
		entryDate = *in.EntryDate
	}

	res := &ImportResult{}
	var changes []*appinventory.StockChange
	for _, g := range in.Groups {
		summary, units, change := p.importGroup(ctx, in, g, existing, entryDate, months, now)
		res.Products = append(res.Products, summary)
		res.Units = append(res.Units, units...)
		if change != nil {
			changes = append(changes, change)
		}
	}
	for _, u := range res.Units {
		res.TotalProcessed++
		if u.Status == UnitCreated {
			res.Succeeded++
		} else {
			res.Failed++
		}
	}
	p.ledger.Notify(ctx, changes...)
	p.log.Info().
		Str("origin", in.Origin).
		Int("processed", res.TotalProcessed).
		Int("succeeded", res.Succeeded).
		Int("failed", res.Failed).
		Msg("importación masiva finalizada")
	return res, nil
}

func (p *Processor) importGroup(
	ctx context.Context,
	in ImportInput,
	g ProductGroup,
	existing map[string]bool,
	entryDate time.Time,
	months int,
	now time.Time,
) (ProductSummary, []UnitResult, *appinventory.StockChange) {
	summary := ProductSummary{ProductRef: g.ProductRef, Requested: len(g.Units)}
	results := make([]UnitResult, 0, len(g.Units))
	failAll := func(msg string) (ProductSummary, []UnitResult, *appinventory.StockChange) {
		results = results[:0]
		for _, u := range g.Units {
			results = append(results, UnitResult{ProductRef: g.ProductRef, Serial: u.Serial, Status: UnitFailed, Error: msg})
		}
		summary.Added = 0
		summary.Failed = len(g.Units)
		summary.Error = msg
		return summary, results, nil
	}

	product, err := p.resolveProduct(ctx, g.ProductRef)
	if err != nil {
		return failAll(err.Error())
	}
	summary.ProductID = product.ID
	summary.Code = product.Code
	summary.NewStock = product.Stock

	var toCreate []*entity.InventoryUnit
	for _, line := range g.Units {
		r := UnitResult{ProductRef: g.ProductRef, Serial: line.Serial}
		switch {
		case line.Serial == "":
			r.Status, r.Error = UnitFailed, "serial vacío"
		case existing[line.Serial]:
			r.Status, r.Error = UnitAlreadyExists, "serial ya registrado"
		default:
			cost := inventory.ResolveCost(line.Cost, g.CostDefault, &product.BaseCost)
			if cost.IsNegative() {
				r.Status, r.Error = UnitFailed, "costo negativo"
				break
			}
			lot := line.Lot
			if lot == "" {
				lot = g.LotDefault
			}
			u := &entity.InventoryUnit{
				ID:             uuid.New().String(),
				ProductID:      product.ID,
				Serial:         line.Serial,
				Cost:           cost,
				Origin:         in.Origin,
				Lot:            lot,
				EntryDate:      entryDate,
				WarrantyMonths: months,
				WarrantyExpiry: inventory.WarrantyExpiry(entryDate, months),
				State:          entity.UnitAvailable,
				Notes:          line.Notes,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			toCreate = append(toCreate, u)
			r.Status, r.UnitID = UnitCreated, u.ID
		}
		if r.Status != UnitCreated {
			summary.Failed++
		}
		results = append(results, r)
	}
	if len(toCreate) == 0 {
		return summary, results, nil
	}

	var change *appinventory.StockChange
	err = p.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Units.CreateBatch(ctx, toCreate); err != nil {
			return err
		}
		c, err := p.ledger.ApplyInTx(ctx, repos, product.ID, inventory.Entry, len(toCreate), in.Reference, "importación "+in.Origin)
		if err != nil {
			return err
		}
		change = c
		return nil
	})
	if err != nil {
		p.log.Warn().Err(err).Str("product_id", product.ID).Msg("grupo de importación rechazado")
		for i := range results {
			if results[i].Status == UnitCreated {
				results[i].Status, results[i].UnitID, results[i].Error = UnitFailed, "", err.Error()
				summary.Failed++
			}
		}
		summary.Error = err.Error()
		return summary, results, nil
	}
	summary.Added = len(toCreate)
	summary.NewStock = change.Product.Stock
	return summary, results, change
}

// resolveProduct busca primero por id y luego por código.
func (p *Processor) resolveProduct(ctx context.Context, ref string) (*entity.Product, error) {
	if ref == "" {
		return nil, domain.Invalid("referencia de producto vacía")
	}
	product, err := p.repos.Products.GetByID(ctx, ref)
	if err != nil {
		return nil, err
	}
	if product == nil {
		if product, err = p.repos.Products.GetByCode(ctx, ref); err != nil {
			return nil, err
		}
	}
	if product == nil {
		return nil, domain.NotFound("producto %s no encontrado", ref)
	}
	return product, nil
}
