package notify

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Worker consume la cola de notificaciones de inventario.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewWorker construye el servidor asynq con el handler de stock bajo registrado.
func NewWorker(redisAddr string, concurrency int, log zerolog.Logger) *Worker {
	if concurrency <= 0 {
		concurrency = 2
	}
	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueNotifications: 1},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskLowStock, HandleLowStockTask(log))
	return &Worker{server: srv, mux: mux}
}

// Run procesa tareas hasta que se cancele el contexto.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.server.Start(w.mux); err != nil {
		return err
	}
	<-ctx.Done()
	w.server.Shutdown()
	return nil
}
