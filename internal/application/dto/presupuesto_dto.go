package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePresupuestoRequest alta manual de un presupuesto. Normalmente el
// presupuesto nace junto con la actividad; esta ruta cubre actividades
// migradas sin él.
type CreatePresupuestoRequest struct {
	ActividadID      string          `json:"actividad_id"`
	TotalCOP         decimal.Decimal `json:"total_cop"`
	ComentarioGlobal string          `json:"comentario_global"`
}

// UpdatePresupuestoRequest actualización de cabecera del presupuesto.
type UpdatePresupuestoRequest struct {
	TotalCOP          *decimal.Decimal `json:"total_cop"`
	EstadoPresupuesto *string          `json:"estado_presupuesto"`
	ComentarioGlobal  *string          `json:"comentario_global"`
}

// CreatePresupuestoItemRequest alta de un ítem de presupuesto.
type CreatePresupuestoItemRequest struct {
	Item             string           `json:"item"`
	Cantidad         int              `json:"cantidad"`
	CostoUnitarioCOP decimal.Decimal  `json:"costo_unitario_cop"`
	SubtotalCOP      decimal.Decimal  `json:"subtotal_cop"`
	ImpuestoCOP      *decimal.Decimal `json:"impuesto_cop"`
	Comentario       string           `json:"comentario"`
}

// UpdatePresupuestoItemRequest actualización de un ítem existente.
type UpdatePresupuestoItemRequest struct {
	Item             *string          `json:"item"`
	Cantidad         *int             `json:"cantidad"`
	CostoUnitarioCOP *decimal.Decimal `json:"costo_unitario_cop"`
	SubtotalCOP      *decimal.Decimal `json:"subtotal_cop"`
	ImpuestoCOP      *decimal.Decimal `json:"impuesto_cop"`
	Comentario       *string          `json:"comentario"`
}

// PresupuestoItemResponse representación de salida de un ítem.
type PresupuestoItemResponse struct {
	ID               string           `json:"id"`
	PresupuestoID    string           `json:"presupuesto_id"`
	Item             string           `json:"item"`
	Cantidad         int              `json:"cantidad"`
	CostoUnitarioCOP decimal.Decimal  `json:"costo_unitario_cop"`
	SubtotalCOP      decimal.Decimal  `json:"subtotal_cop"`
	ImpuestoCOP      *decimal.Decimal `json:"impuesto_cop,omitempty"`
	Comentario       string           `json:"comentario,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// PresupuestoResponse cabecera del presupuesto con sus ítems.
type PresupuestoResponse struct {
	ID                string                    `json:"id"`
	ActividadID       string                    `json:"actividad_id"`
	TotalCOP          decimal.Decimal           `json:"total_cop"`
	EstadoPresupuesto string                    `json:"estado_presupuesto"`
	ComentarioGlobal  string                    `json:"comentario_global,omitempty"`
	OrdenCompraPath   string                    `json:"orden_compra_path,omitempty"`
	Items             []PresupuestoItemResponse `json:"items"`
	CreatedAt         time.Time                 `json:"created_at"`
	UpdatedAt         time.Time                 `json:"updated_at"`
}
