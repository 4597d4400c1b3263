package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JohanStiven-dev/evidenciastigo/internal/application/actividad"
	"github.com/JohanStiven-dev/evidenciastigo/internal/application/evidencia"
	"github.com/JohanStiven-dev/evidenciastigo/internal/application/presupuesto"
	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/repository"
)

// Ensure TxRunner implements the application-side TxRunner ports.
var _ actividad.TxRunner = (*TxRunner)(nil)
var _ presupuesto.TxRunner = (*TxRunner)(nil)
var _ evidencia.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	actRepo repository.ActividadRepository,
	pptoRepo repository.PresupuestoRepository,
	eviRepo repository.EvidenciaRepository,
	bitRepo repository.BitacoraRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	actRepo := NewActividadRepository(tx)
	pptoRepo := NewPresupuestoRepository(tx)
	eviRepo := NewEvidenciaRepository(tx)
	bitRepo := NewBitacoraRepository(tx)

	if err := fn(actRepo, pptoRepo, eviRepo, bitRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
