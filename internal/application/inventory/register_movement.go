package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/consignaciones-api/internal/application/ports"
	"github.com/jhoicas/consignaciones-api/internal/domain"
	"github.com/jhoicas/consignaciones-api/internal/domain/entity"
	"github.com/jhoicas/consignaciones-api/internal/domain/inventory"
	"github.com/jhoicas/consignaciones-api/internal/domain/repository"
)

// Ledger es el libro de stock: aplica movimientos con bloqueo de fila (SELECT FOR UPDATE),
// recalcula el estado del producto y registra el asiento en la misma transacción.
type Ledger struct {
	txRunner ports.TxRunner
	repos    repository.Repositories
	notifier ports.LowStockNotifier
	log      zerolog.Logger
	now      func() time.Time
}

// NewLedger construye el libro de stock. notifier puede ser nil.
func NewLedger(txRunner ports.TxRunner, repos repository.Repositories, notifier ports.LowStockNotifier, log zerolog.Logger) *Ledger {
	return &Ledger{
		txRunner: txRunner,
		repos:    repos,
		notifier: notifier,
		log:      log.With().Str("component", "stock_ledger").Logger(),
		now:      time.Now,
	}
}

// RecordMovementInput entrada para registrar un movimiento manual.
type RecordMovementInput struct {
	ProductID string
	Type      string // ENTRADA, SALIDA, AJUSTE, DEVOLUCION
	Quantity  int
	Reference string
	Reason    string
}

// RecordMovement aplica un movimiento y devuelve el asiento y el producto actualizado.
func (l *Ledger) RecordMovement(ctx context.Context, in RecordMovementInput) (*entity.StockMovement, *entity.Product, error) {
	kind, err := inventory.KindOf(in.Type)
	if err != nil {
		return nil, nil, err
	}
	var change *StockChange
	err = l.txRunner.Run(ctx, func(ctx context.Context, r repository.Repositories) error {
		c, err := l.ApplyInTx(ctx, r, in.ProductID, kind, in.Quantity, in.Reference, in.Reason)
		if err != nil {
			return err
		}
		change = c
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	l.Notify(ctx, change)
	return change.Movement, change.Product, nil
}

// ApplyInTx aplica un movimiento usando los repositorios del caller (misma transacción).
// Lo usan el registro de unidades y el flujo de consignación para que todo cambio de stock
// pase por aquí. Si retorna error, el caller debe hacer rollback.
func (l *Ledger) ApplyInTx(
	ctx context.Context,
	r repository.Repositories,
	productID string,
	kind inventory.MovementKind,
	quantity int,
	reference, reason string,
) (*StockChange, error) {
	product, err := r.Products.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto %s no encontrado", productID)
	}
	next, err := kind.Apply(product.Stock, quantity)
	if err != nil {
		return nil, err
	}
	status := inventory.StockStatus(next, product.MinStock, product.WarningStock)
	if err := r.Products.UpdateStock(ctx, product.ID, next, status); err != nil {
		return nil, err
	}
	now := l.now()
	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		ProductID:     product.ID,
		Type:          kind.Type,
		Quantity:      quantity,
		PreviousStock: product.Stock,
		NewStock:      next,
		Reference:     reference,
		Reason:        reason,
		CreatedAt:     now,
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	previous := product.Status
	product.Stock = next
	product.Status = status
	product.UpdatedAt = now
	return &StockChange{Product: product, Movement: mov, PreviousStatus: previous}, nil
}

// Notify emite las alertas de stock bajo de cambios ya confirmados.
// Los errores (y pánicos) del notificador se registran y se descartan.
func (l *Ledger) Notify(ctx context.Context, changes ...*StockChange) {
	if l.notifier == nil {
		return
	}
	for _, c := range changes {
		if !c.entersLowStock() {
			continue
		}
		l.notifyOne(ctx, ports.LowStockEvent{
			ProductID:    c.Product.ID,
			Code:         c.Product.Code,
			Name:         c.Product.Name,
			CurrentStock: c.Product.Stock,
			MinStock:     c.Product.MinStock,
			Status:       c.Product.Status,
		})
	}
}

func (l *Ledger) notifyOne(ctx context.Context, evt ports.LowStockEvent) {
	defer func() {
		if rec := recover(); rec != nil {
			l.log.Error().Interface("panic", rec).Str("product_id", evt.ProductID).Msg("notificador de stock bajo")
		}
	}()
	if err := l.notifier.NotifyLowStock(context.WithoutCancel(ctx), evt); err != nil {
		l.log.Warn().Err(err).Str("product_id", evt.ProductID).Str("status", evt.Status).Msg("no se pudo notificar stock bajo")
	}
}

// ListMovements consulta el diario de un producto.
func (l *Ledger) ListMovements(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	return l.repos.Movements.ListByProduct(ctx, productID, from, to, limit, offset)
}
