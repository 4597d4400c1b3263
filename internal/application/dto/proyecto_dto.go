package dto

import "time"

// CreateProyectoRequest alta de un proyecto agrupador de actividades.
type CreateProyectoRequest struct {
	Nombre      string `json:"nombre"`
	ClienteID   string `json:"cliente_id"`
	Descripcion string `json:"descripcion"`
}

// ProyectoResponse representación de salida de un proyecto.
type ProyectoResponse struct {
	ID          string    `json:"id"`
	Nombre      string    `json:"nombre"`
	ClienteID   string    `json:"cliente_id"`
	Descripcion string    `json:"descripcion,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
