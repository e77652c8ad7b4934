// Package notify implementa el puerto de notificación de stock bajo.
package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/consignaciones-api/internal/application/ports"
)

var _ ports.LowStockNotifier = (*LogNotifier)(nil)

// LogNotifier escribe la alerta en el log estructurado.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier construye el notificador.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "low_stock").Logger()}
}

func (n *LogNotifier) NotifyLowStock(_ context.Context, evt ports.LowStockEvent) error {
	n.log.Warn().
		Str("product_id", evt.ProductID).
		Str("code", evt.Code).
		Str("name", evt.Name).
		Int("current_stock", evt.CurrentStock).
		Int("min_stock", evt.MinStock).
		Str("status", evt.Status).
		Msg("producto con stock bajo")
	return nil
}

// Multi reparte el evento a varios notificadores. Intenta todos y devuelve el primer error.
type Multi []ports.LowStockNotifier

func (m Multi) NotifyLowStock(ctx context.Context, evt ports.LowStockEvent) error {
	var first error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.NotifyLowStock(ctx, evt); err != nil && first == nil {
			first = err
		}
	}
	return first
}
