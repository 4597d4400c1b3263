package presupuesto

import (
	"context"

	"github.com/JohanStiven-dev/evidenciastigo/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repos atados a la tx.
// Lo implementa postgres.TxRunner.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		actRepo repository.ActividadRepository,
		pptoRepo repository.PresupuestoRepository,
		eviRepo repository.EvidenciaRepository,
		bitRepo repository.BitacoraRepository,
	) error) error
}
