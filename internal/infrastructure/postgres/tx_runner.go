package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/consignaciones-api/internal/application/ports"
	"github.com/jhoicas/consignaciones-api/internal/domain/repository"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción SERIALIZABLE y reintenta cuando
// PostgreSQL aborta por conflicto de serialización.
type TxRunner struct {
	pool       *pgxpool.Pool
	maxRetries int
	log        zerolog.Logger
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, maxRetries int, log zerolog.Logger) *TxRunner {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &TxRunner{pool: pool, maxRetries: maxRetries, log: log.With().Str("component", "tx_runner").Logger()}
}

// Repositories construye todos los repositorios sobre un Querier (pool o tx).
func Repositories(q Querier) repository.Repositories {
	return repository.Repositories{
		Products:     NewProductRepository(q),
		Units:        NewUnitRepository(q),
		Movements:    NewStockMovementRepository(q),
		Consignments: NewConsignmentRepository(q),
		Consignees:   NewConsigneeRepository(q),
		Payments:     NewPaymentRepository(q),
		Customers:    NewCustomerRepository(q),
	}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// fn puede ejecutarse más de una vez: no debe tener efectos fuera de la base de datos.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	for attempt := 0; ; attempt++ {
		err := r.runOnce(ctx, fn)
		if err == nil || !isSerializationFailure(err) || attempt >= r.maxRetries {
			return err
		}
		r.log.Debug().Err(err).Int("attempt", attempt+1).Msg("conflicto de serialización, reintentando")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 15 * time.Millisecond):
		}
	}
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, Repositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
