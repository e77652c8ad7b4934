// Package consignment contiene el flujo de consignación: entrega de unidades a un
// consignatario, reporte de ventas y devoluciones, y recálculo de estado.
package consignment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	appinventory "github.com/jhoicas/consignaciones-api/internal/application/inventory"
	"github.com/jhoicas/consignaciones-api/internal/application/ports"
	"github.com/jhoicas/consignaciones-api/internal/domain"
	domconsignment "github.com/jhoicas/consignaciones-api/internal/domain/consignment"
	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
	"github.com/jhoicas/consignaciones-api/internal/domain/inventory"
	"github.com/jhoicas/consignaciones-api/internal/domain/repository"
)

// Config reglas configurables del flujo.
type Config struct {
	// AllowCreditBalance permite que una devolución deje saldo a favor del consignatario.
	AllowCreditBalance bool
}

// Workflow orquesta las consignaciones. Cada operación es una sola transacción.
type Workflow struct {
	txRunner ports.TxRunner
	repos    repository.Repositories
	ledger   *appinventory.Ledger
	cfg      Config
	log      zerolog.Logger
	now      func() time.Time
}

// NewWorkflow construye el flujo de consignación.
func NewWorkflow(txRunner ports.TxRunner, repos repository.Repositories, ledger *appinventory.Ledger, cfg Config, log zerolog.Logger) *Workflow {
	return &Workflow{
		txRunner: txRunner,
		repos:    repos,
		ledger:   ledger,
		cfg:      cfg,
		log:      log.With().Str("component", "consignment_workflow").Logger(),
		now:      time.Now,
	}
}

// View cabecera con sus líneas.
type View struct {
	Consignment *entity.Consignment
	Lines       []*entity.ConsignmentDetail
}

// LineInput una unidad a consignar y su precio pactado.
type LineInput struct {
	ProductID string
	UnitID    string
	Price     decimal.Decimal
}

// CreateInput datos de una nueva consignación.
type CreateInput struct {
	ConsigneeID  string
	Lines        []LineInput
	DeliveryDate *time.Time
	DueDate      *time.Time
	Notes        string
}

// Create entrega unidades DISPONIBLES a un consignatario activo: numera la consignación,
// marca las unidades como CONSIGNADAS, descuenta stock por producto y suma el valor al saldo
// del consignatario.
func (w *Workflow) Create(ctx context.Context, in CreateInput) (*View, error) {
	if len(in.Lines) == 0 {
		return nil, domain.Invalid("la consignación debe tener al menos una línea")
	}
	ids := make([]string, 0, len(in.Lines))
	seen := map[string]bool{}
	var repeated []string
	total := decimal.Zero
	for _, l := range in.Lines {
		if l.Price.IsNegative() {
			return nil, domain.Invalid("el precio de la unidad %s no puede ser negativo", l.UnitID)
		}
		if seen[l.UnitID] {
			repeated = append(repeated, l.UnitID)
		}
		seen[l.UnitID] = true
		ids = append(ids, l.UnitID)
		total = total.Add(l.Price)
	}
	if len(repeated) > 0 {
		return nil, domain.InvalidRefs("unidades repetidas en la consignación", repeated...)
	}
	now := w.now()
	delivery := now
	if in.DeliveryDate != nil {
		delivery = *in.DeliveryDate
	}
	if in.DueDate != nil && in.DueDate.Before(delivery) {
		return nil, domain.Invalid("la fecha límite no puede ser anterior a la entrega")
	}

	var (
		view    *View
		changes []*appinventory.StockChange
	)
	err := w.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		changes = changes[:0]
		consignee, err := repos.Consignees.GetByID(ctx, in.ConsigneeID)
		if err != nil {
			return err
		}
		if consignee == nil {
			return domain.NotFound("consignatario %s no encontrado", in.ConsigneeID)
		}
		if !consignee.Active {
			return domain.Invalid("el consignatario %s está inactivo", consignee.Name)
		}

		units, err := repos.Units.GetByIDsForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[string]*entity.InventoryUnit, len(units))
		for _, u := range units {
			byID[u.ID] = u
		}
		var missing, unavailable, mismatched []string
		for _, l := range in.Lines {
			u, ok := byID[l.UnitID]
			switch {
			case !ok:
				missing = append(missing, l.UnitID)
			case u.State != entity.UnitAvailable:
				unavailable = append(unavailable, u.Serial)
			case u.ProductID != l.ProductID:
				mismatched = append(mismatched, u.Serial)
			}
		}
		if len(missing) > 0 {
			return domain.NotFoundRefs("unidades no encontradas", missing...)
		}
		if len(unavailable) > 0 {
			return domain.InvalidRefs("unidades no disponibles", unavailable...)
		}
		if len(mismatched) > 0 {
			return domain.InvalidRefs("unidades que no corresponden al producto indicado", mismatched...)
		}

		highest, err := repos.Consignments.HighestNumber(ctx)
		if err != nil {
			return err
		}
		c := &entity.Consignment{
			ID:           uuid.New().String(),
			Number:       domconsignment.NextNumber(highest),
			ConsigneeID:  consignee.ID,
			DeliveryDate: delivery,
			DueDate:      in.DueDate,
			TotalValue:   total,
			PaidValue:    decimal.Zero,
			PendingValue: total,
			Status:       entity.ConsignmentPending,
			Notes:        in.Notes,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := repos.Consignments.Create(ctx, c); err != nil {
			return err
		}

		details := make([]*entity.ConsignmentDetail, 0, len(in.Lines))
		perProduct := map[string]int{}
		var productOrder []string
		for _, l := range in.Lines {
			u := byID[l.UnitID]
			details = append(details, &entity.ConsignmentDetail{
				ID:            uuid.New().String(),
				ConsignmentID: c.ID,
				ProductID:     u.ProductID,
				UnitID:        u.ID,
				Serial:        u.Serial,
				Price:         l.Price,
				State:         entity.DetailConsigned,
				CreatedAt:     now,
			})
			u.State = entity.UnitConsigned
			u.ConsigneeID = consignee.ID
			u.UpdatedAt = now
			if err := repos.Units.Update(ctx, u); err != nil {
				return err
			}
			if perProduct[u.ProductID] == 0 {
				productOrder = append(productOrder, u.ProductID)
			}
			perProduct[u.ProductID]++
		}
		if err := repos.Consignments.CreateDetails(ctx, details); err != nil {
			return err
		}
		for _, pid := range productOrder {
			change, err := w.ledger.ApplyInTx(ctx, repos, pid, inventory.Exit, perProduct[pid], c.Number, "consignación")
			if err != nil {
				return err
			}
			changes = append(changes, change)
		}
		if _, err := repos.Consignees.AdjustBalances(ctx, consignee.ID, total, decimal.Zero); err != nil {
			return err
		}
		view = &View{Consignment: c, Lines: details}
		return nil
	})
	if err != nil {
		return nil, err
	}
	w.ledger.Notify(ctx, changes...)
	w.log.Info().
		Str("consignment", view.Consignment.Number).
		Str("consignee_id", in.ConsigneeID).
		Int("lines", len(view.Lines)).
		Str("total", total.String()).
		Msg("consignación creada")
	return view, nil
}

// ReportSale marca líneas CONSIGNADAS como VENDIDAS junto con sus unidades.
func (w *Workflow) ReportSale(ctx context.Context, consignmentID string, lineIDs []string, saleDate *time.Time) (*View, error) {
	if err := checkLineIDs(lineIDs); err != nil {
		return nil, err
	}
	date := w.now()
	if saleDate != nil {
		date = *saleDate
	}
	var view *View
	err := w.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		c, lines, selected, err := w.lockLines(ctx, repos, consignmentID, lineIDs)
		if err != nil {
			return err
		}
		units, err := lockUnits(ctx, repos, selected)
		if err != nil {
			return err
		}
		for _, d := range selected {
			d.State = entity.DetailSold
			d.ClosedAt = &date
			if err := repos.Consignments.UpdateDetail(ctx, d); err != nil {
				return err
			}
			u := units[d.UnitID]
			price := d.Price
			margin := price.Sub(u.Cost)
			u.State = entity.UnitSold
			u.SalePrice = &price
			u.Margin = &margin
			u.SaleDate = &date
			u.WarrantyExpiry = inventory.WarrantyExpiry(date, u.WarrantyMonths)
			u.UpdatedAt = w.now()
			if err := repos.Units.Update(ctx, u); err != nil {
				return err
			}
		}
		if err := w.applyStatus(ctx, repos, c, lines); err != nil {
			return err
		}
		view = &View{Consignment: c, Lines: lines}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ReturnInput líneas devueltas por el consignatario. Las que estén en DefectiveLineIDs
// vuelven como DEFECTUOSAS y no suman stock.
type ReturnInput struct {
	ConsignmentID    string
	LineIDs          []string
	DefectiveLineIDs []string
	ReturnDate       *time.Time
}

// ReportReturn devuelve líneas a bodega: libera las unidades, suma stock, y descuenta el
// valor devuelto de la consignación y del saldo del consignatario.
func (w *Workflow) ReportReturn(ctx context.Context, in ReturnInput) (*View, error) {
	if err := checkLineIDs(in.LineIDs); err != nil {
		return nil, err
	}
	requested := map[string]bool{}
	for _, id := range in.LineIDs {
		requested[id] = true
	}
	defective := map[string]bool{}
	var stray []string
	for _, id := range in.DefectiveLineIDs {
		if !requested[id] {
			stray = append(stray, id)
		}
		defective[id] = true
	}
	if len(stray) > 0 {
		return nil, domain.InvalidRefs("líneas defectuosas que no están en la devolución", stray...)
	}
	date := w.now()
	if in.ReturnDate != nil {
		date = *in.ReturnDate
	}

	var (
		view    *View
		changes []*appinventory.StockChange
	)
	err := w.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		changes = changes[:0]
		c, lines, selected, err := w.lockLines(ctx, repos, in.ConsignmentID, in.LineIDs)
		if err != nil {
			return err
		}
		returned := decimal.Zero
		for _, d := range selected {
			returned = returned.Add(d.Price)
		}
		if c.TotalValue.Sub(returned).LessThan(c.PaidValue) {
			return domain.Invalid("la devolución deja el total (%s) por debajo de lo pagado (%s)",
				c.TotalValue.Sub(returned).String(), c.PaidValue.String())
		}
		units, err := lockUnits(ctx, repos, selected)
		if err != nil {
			return err
		}
		perProduct := map[string]int{}
		var productOrder []string
		for _, d := range selected {
			d.State = entity.DetailReturned
			d.ClosedAt = &date
			if err := repos.Consignments.UpdateDetail(ctx, d); err != nil {
				return err
			}
			u := units[d.UnitID]
			u.ConsigneeID = ""
			u.UpdatedAt = w.now()
			if defective[d.ID] {
				u.State = entity.UnitDefective
			} else {
				u.State = entity.UnitAvailable
				if perProduct[u.ProductID] == 0 {
					productOrder = append(productOrder, u.ProductID)
				}
				perProduct[u.ProductID]++
			}
			if err := repos.Units.Update(ctx, u); err != nil {
				return err
			}
		}
		for _, pid := range productOrder {
			change, err := w.ledger.ApplyInTx(ctx, repos, pid, inventory.Return, perProduct[pid], c.Number, "devolución de consignación")
			if err != nil {
				return err
			}
			changes = append(changes, change)
		}
		neg := returned.Neg()
		updated, err := repos.Consignments.AdjustTotals(ctx, c.ID, neg, decimal.Zero)
		if err != nil {
			return err
		}
		consignee, err := repos.Consignees.AdjustBalances(ctx, c.ConsigneeID, neg, decimal.Zero)
		if err != nil {
			return err
		}
		if !w.cfg.AllowCreditBalance && consignee.PendingBalance.IsNegative() {
			return domain.Invalid("la devolución (%s) deja saldo a favor del consignatario (%s)",
				returned.String(), consignee.PendingBalance.String())
		}
		if err := w.applyStatus(ctx, repos, updated, lines); err != nil {
			return err
		}
		view = &View{Consignment: updated, Lines: lines}
		return nil
	})
	if err != nil {
		return nil, err
	}
	w.ledger.Notify(ctx, changes...)
	return view, nil
}

// Get devuelve la consignación con sus líneas.
func (w *Workflow) Get(ctx context.Context, id string) (*View, error) {
	c, err := w.repos.Consignments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("consignación %s no encontrada", id)
	}
	lines, err := w.repos.Consignments.ListDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	return &View{Consignment: c, Lines: lines}, nil
}

// ListByConsignee lista las consignaciones de un consignatario.
func (w *Workflow) ListByConsignee(ctx context.Context, consigneeID string) ([]*entity.Consignment, error) {
	return w.repos.Consignments.ListByConsignee(ctx, consigneeID)
}

// Recompute recalcula el estado sin eventos nuevos. Es idempotente.
func (w *Workflow) Recompute(ctx context.Context, id string) (*View, error) {
	var view *View
	err := w.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		c, err := w.RecomputeInTx(ctx, repos, id)
		if err != nil {
			return err
		}
		lines, err := repos.Consignments.ListDetails(ctx, id)
		if err != nil {
			return err
		}
		view = &View{Consignment: c, Lines: lines}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// RecomputeInTx recalcula el estado con los repositorios del caller. Lo usa el libro de
// liquidaciones después de imputar un pago.
func (w *Workflow) RecomputeInTx(ctx context.Context, repos repository.Repositories, id string) (*entity.Consignment, error) {
	c, err := repos.Consignments.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("consignación %s no encontrada", id)
	}
	lines, err := repos.Consignments.ListDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := w.applyStatus(ctx, repos, c, lines); err != nil {
		return nil, err
	}
	return c, nil
}

func (w *Workflow) applyStatus(ctx context.Context, repos repository.Repositories, c *entity.Consignment, lines []*entity.ConsignmentDetail) error {
	next := domconsignment.Recompute(c.Status, lines, c.PaidValue, c.PendingValue)
	if next == c.Status {
		return nil
	}
	if err := repos.Consignments.UpdateStatus(ctx, c.ID, next); err != nil {
		return err
	}
	w.log.Debug().Str("consignment", c.Number).Str("from", c.Status).Str("to", next).Msg("estado recalculado")
	c.Status = next
	return nil
}

// lockLines bloquea la cabecera y valida que cada línea pedida pertenezca a la consignación
// y siga CONSIGNADA. Devuelve todas las líneas y las seleccionadas (mismos punteros).
func (w *Workflow) lockLines(ctx context.Context, repos repository.Repositories, consignmentID string, lineIDs []string) (*entity.Consignment, []*entity.ConsignmentDetail, []*entity.ConsignmentDetail, error) {
	c, err := repos.Consignments.GetForUpdate(ctx, consignmentID)
	if err != nil {
		return nil, nil, nil, err
	}
	if c == nil {
		return nil, nil, nil, domain.NotFound("consignación %s no encontrada", consignmentID)
	}
	lines, err := repos.Consignments.ListDetails(ctx, consignmentID)
	if err != nil {
		return nil, nil, nil, err
	}
	byID := make(map[string]*entity.ConsignmentDetail, len(lines))
	for _, l := range lines {
		byID[l.ID] = l
	}
	var foreign, closed []string
	selected := make([]*entity.ConsignmentDetail, 0, len(lineIDs))
	for _, id := range lineIDs {
		d, ok := byID[id]
		switch {
		case !ok:
			foreign = append(foreign, id)
		case d.State != entity.DetailConsigned:
			closed = append(closed, id)
		default:
			selected = append(selected, d)
		}
	}
	if len(foreign) > 0 {
		return nil, nil, nil, domain.InvalidRefs("líneas que no pertenecen a la consignación "+c.Number, foreign...)
	}
	if len(closed) > 0 {
		return nil, nil, nil, domain.InvalidRefs("líneas que ya no están consignadas", closed...)
	}
	return c, lines, selected, nil
}

func lockUnits(ctx context.Context, repos repository.Repositories, lines []*entity.ConsignmentDetail) (map[string]*entity.InventoryUnit, error) {
	ids := make([]string, len(lines))
	for i, d := range lines {
		ids[i] = d.UnitID
	}
	units, err := repos.Units.GetByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.InventoryUnit, len(units))
	for _, u := range units {
		byID[u.ID] = u
	}
	for _, d := range lines {
		u, ok := byID[d.UnitID]
		if !ok {
			return nil, domain.NotFound("unidad %s de la línea %s no encontrada", d.UnitID, d.ID)
		}
		if u.State != entity.UnitConsigned {
			return nil, domain.Invalid("la unidad %s no está consignada (estado actual %s)", u.Serial, u.State)
		}
	}
	return byID, nil
}

func checkLineIDs(ids []string) error {
	if len(ids) == 0 {
		return domain.Invalid("debe indicar al menos una línea")
	}
	if dups := inventory.DuplicateSerials(ids); len(dups) > 0 {
		return domain.InvalidRefs("líneas repetidas", dups...)
	}
	return nil
}
