package evidencia

import (
	"context"

	"github.com/JohanStiven-dev/evidenciastigo/internal/application/notificacion"
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

// FileStore es el puerto del almacén de archivos de evidencia.
// Lo implementa storage.LocalStore.
type FileStore interface {
	// Save persiste el contenido bajo el directorio de la actividad y
	// devuelve la ruta relativa con la que se recupera después.
	Save(actividadID, nombre string, contenido []byte) (string, error)
	Open(path string) ([]byte, error)
	Delete(path string) error
}

// Notificador recibe las intenciones de notificación DESPUÉS del commit.
type Notificador interface {
	EncolarTodas(specs []notificacion.Spec)
}
