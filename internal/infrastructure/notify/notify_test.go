package notify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/consignaciones-api/internal/application/ports"
	"github.com/jhoicas/consignaciones-api/internal/infrastructure/notify"
)

var evt = ports.LowStockEvent{ProductID: "p1", Code: "CEL-01", Name: "Celular", CurrentStock: 1, MinStock: 2, Status: "CRITICO"}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "1", Type: task.Type()}, nil
}

type failing struct{ calls int }

func (f *failing) NotifyLowStock(context.Context, ports.LowStockEvent) error {
	f.calls++
	return errors.New("caído")
}

func TestAsynqNotifier_EncolaEvento(t *testing.T) {
	q := &fakeEnqueuer{}
	require.NoError(t, notify.NewAsynqNotifier(q).NotifyLowStock(context.Background(), evt))
	require.Len(t, q.tasks, 1)
	assert.Equal(t, notify.TaskLowStock, q.tasks[0].Type())

	var got ports.LowStockEvent
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &got))
	assert.Equal(t, evt, got)
}

func TestAsynqNotifier_PropagaError(t *testing.T) {
	q := &fakeEnqueuer{err: errors.New("redis caído")}
	err := notify.NewAsynqNotifier(q).NotifyLowStock(context.Background(), evt)
	assert.ErrorContains(t, err, "redis caído")
}

func TestHandleLowStockTask(t *testing.T) {
	var buf bytes.Buffer
	h := notify.HandleLowStockTask(zerolog.New(&buf))
	task, err := notify.NewLowStockTask(evt)
	require.NoError(t, err)
	require.NoError(t, h.ProcessTask(context.Background(), task))
	assert.Contains(t, buf.String(), `"code":"CEL-01"`)

	err = h.ProcessTask(context.Background(), asynq.NewTask(notify.TaskLowStock, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestMulti_IntentaTodos(t *testing.T) {
	var buf bytes.Buffer
	f := &failing{}
	m := notify.Multi{f, nil, notify.NewLogNotifier(zerolog.New(&buf))}
	err := m.NotifyLowStock(context.Background(), evt)
	assert.Error(t, err)
	assert.Equal(t, 1, f.calls)
	assert.Contains(t, buf.String(), "stock bajo")
}
