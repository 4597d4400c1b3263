package entity

import "time"

// Proyecto agrupa actividades y define el Cliente responsable de
// aprobarlas.
type Proyecto struct {
	ID          string
	Nombre      string
	ClienteID   string
	Descripcion string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
