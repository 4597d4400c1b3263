package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateActividadRequest datos para crear una actividad (solo Comercial).
type CreateActividadRequest struct {
	ProyectoID           string          `json:"proyecto_id"`
	ProductorID          string          `json:"productor_id"`
	Agencia              string          `json:"agencia"`
	Codigos              string          `json:"codigos"`
	ResponsableActividad string          `json:"responsable_actividad"`
	Segmento             string          `json:"segmento"`
	ClasePpto            string          `json:"clase_ppto"`
	Canal                string          `json:"canal"`
	Ciudad               string          `json:"ciudad"`
	PuntoVenta           string          `json:"punto_venta"`
	Direccion            string          `json:"direccion"`
	Fecha                string          `json:"fecha"` // YYYY-MM-DD
	HoraInicio           string          `json:"hora_inicio"`
	HoraFin              string          `json:"hora_fin"`
	ValorTotal           decimal.Decimal `json:"valor_total"`
	ResponsableCanal     string          `json:"responsable_canal"`
	CelularResponsable   string          `json:"celular_responsable"`
	RecursosAgencia      string          `json:"recursos_agencia"`
}

// UpdateActividadRequest campos generales actualizables. Nunca incluye
// status/sub_status: esos solo cambian por la operación de transición.
type UpdateActividadRequest struct {
	ProductorID          *string          `json:"productor_id"`
	Agencia              *string          `json:"agencia"`
	Codigos              *string          `json:"codigos"`
	ResponsableActividad *string          `json:"responsable_actividad"`
	Segmento             *string          `json:"segmento"`
	ClasePpto            *string          `json:"clase_ppto"`
	Canal                *string          `json:"canal"`
	Ciudad               *string          `json:"ciudad"`
	PuntoVenta           *string          `json:"punto_venta"`
	Direccion            *string          `json:"direccion"`
	Fecha                *string          `json:"fecha"`
	HoraInicio           *string          `json:"hora_inicio"`
	HoraFin              *string          `json:"hora_fin"`
	ValorTotal           *decimal.Decimal `json:"valor_total"`
	ResponsableCanal     *string          `json:"responsable_canal"`
	CelularResponsable   *string          `json:"celular_responsable"`
	RecursosAgencia      *string          `json:"recursos_agencia"`
}

// CambioEstadoRequest petición de transición de estado.
type CambioEstadoRequest struct {
	NewStatus    string `json:"newStatus"`
	NewSubStatus string `json:"newSubStatus"`
	Motivo       string `json:"motivo"`
}

// ActividadResponse representación de salida de una actividad.
type ActividadResponse struct {
	ID                   string          `json:"id"`
	ProyectoID           *string         `json:"proyecto_id,omitempty"`
	ComercialID          string          `json:"comercial_id"`
	ProductorID          *string         `json:"productor_id,omitempty"`
	Agencia              string          `json:"agencia"`
	Codigos              string          `json:"codigos"`
	Semana               string          `json:"semana"`
	ResponsableActividad string          `json:"responsable_actividad"`
	Segmento             string          `json:"segmento"`
	ClasePpto            string          `json:"clase_ppto"`
	Canal                string          `json:"canal"`
	Ciudad               string          `json:"ciudad"`
	PuntoVenta           string          `json:"punto_venta"`
	Direccion            string          `json:"direccion"`
	Fecha                string          `json:"fecha"`
	HoraInicio           string          `json:"hora_inicio"`
	HoraFin              string          `json:"hora_fin"`
	Status               string          `json:"status"`
	SubStatus            string          `json:"sub_status"`
	ValorTotal           decimal.Decimal `json:"valor_total"`
	ResponsableCanal     string          `json:"responsable_canal,omitempty"`
	CelularResponsable   string          `json:"celular_responsable,omitempty"`
	RecursosAgencia      string          `json:"recursos_agencia,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// ActividadListResponse listado paginado.
type ActividadListResponse struct {
	Items []ActividadResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// BitacoraResponse una entrada del registro de auditoría.
type BitacoraResponse struct {
	ID          string    `json:"id"`
	ActividadID string    `json:"actividad_id"`
	UserID      string    `json:"user_id"`
	Accion      string    `json:"accion"`
	DesdeEstado string    `json:"desde_estado,omitempty"`
	HaciaEstado string    `json:"hacia_estado,omitempty"`
	Motivo      string    `json:"motivo,omitempty"`
	IPAddress   string    `json:"ip_address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
