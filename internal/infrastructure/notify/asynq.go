package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/jhoicas/consignaciones-api/internal/application/ports"
)

const (
	// QueueNotifications cola de las alertas de inventario.
	QueueNotifications = "notifications"
	// TaskLowStock tipo de tarea de la alerta de stock bajo.
	TaskLowStock = "inventory:low_stock"
)

// Enqueuer es el subconjunto de *asynq.Client que usa el notificador.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

var _ ports.LowStockNotifier = (*AsynqNotifier)(nil)

// AsynqNotifier encola la alerta para que un worker la entregue (correo, webhook...).
type AsynqNotifier struct {
	client Enqueuer
}

// NewAsynqNotifier construye el notificador sobre un cliente asynq.
func NewAsynqNotifier(client Enqueuer) *AsynqNotifier {
	return &AsynqNotifier{client: client}
}

// NewLowStockTask construye la tarea con el evento serializado en JSON.
func NewLowStockTask(evt ports.LowStockEvent) (*asynq.Task, error) {
	body, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStock, body, asynq.Queue(QueueNotifications), asynq.MaxRetry(5), asynq.Timeout(30*time.Second)), nil
}

func (n *AsynqNotifier) NotifyLowStock(ctx context.Context, evt ports.LowStockEvent) error {
	task, err := NewLowStockTask(evt)
	if err != nil {
		return fmt.Errorf("notify: build task: %w", err)
	}
	if _, err := n.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("notify: enqueue %s: %w", TaskLowStock, err)
	}
	return nil
}

// HandleLowStockTask procesa la tarea en el worker: hoy solo la registra.
func HandleLowStockTask(log zerolog.Logger) asynq.HandlerFunc {
	logNotifier := NewLogNotifier(log)
	return func(ctx context.Context, t *asynq.Task) error {
		var evt ports.LowStockEvent
		if err := json.Unmarshal(t.Payload(), &evt); err != nil {
			return fmt.Errorf("notify: payload inválido: %v: %w", err, asynq.SkipRetry)
		}
		return logNotifier.NotifyLowStock(ctx, evt)
	}
}
