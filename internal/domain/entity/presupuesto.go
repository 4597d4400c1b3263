package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del presupuesto.
const (
	PresupuestoPendiente = "Pendiente"
	PresupuestoAprobado  = "Aprobado"
)

// Presupuesto es el sobre financiero 1:1 de una Actividad. Se crea
// automáticamente al crear la actividad, sembrado con su valor total.
type Presupuesto struct {
	ID                string
	ActividadID       string
	TotalCOP          decimal.Decimal
	EstadoPresupuesto string
	ComentarioGlobal  string
	OrdenCompraPath   string // referencia opcional al documento de orden de compra
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PresupuestoItem es un componente costeado de un Presupuesto.
// Invariante: la suma de SubtotalCOP de todos los ítems de un presupuesto
// nunca excede el ValorTotal de la actividad dueña.
type PresupuestoItem struct {
	ID               string
	PresupuestoID    string
	Item             string
	Cantidad         int
	CostoUnitarioCOP decimal.Decimal
	SubtotalCOP      decimal.Decimal
	ImpuestoCOP      *decimal.Decimal
	Comentario       string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
