package entity

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Actividad representa una actividad comercial/trade que fluye por el
// ciclo de vida (status, sub_status). Nunca se borra: se cierra con un
// sub-estado terminal.
type Actividad struct {
	ID                   string
	ProyectoID           *string
	ComercialID          string
	ProductorID          *string
	Agencia              string
	Codigos              string
	Semana               string // semana ISO derivada de Fecha
	ResponsableActividad string
	Segmento             string
	ClasePpto            string
	Canal                string
	Ciudad               string
	PuntoVenta           string
	Direccion            string
	Fecha                time.Time // solo fecha
	HoraInicio           string    // HH:MM:SS
	HoraFin              string    // HH:MM:SS
	Status               string
	SubStatus            string
	ValorTotal           decimal.Decimal
	ResponsableCanal     string
	CelularResponsable   string
	RecursosAgencia      string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// SemanaISO calcula el número de semana ISO de una fecha (lunes como
// primer día). Se recalcula a partir de Fecha al crear o actualizar.
func SemanaISO(fecha time.Time) string {
	_, week := fecha.ISOWeek()
	return strconv.Itoa(week)
}

// Estado devuelve la representación "Status - SubStatus" usada en la
// bitácora (desde_estado / hacia_estado).
func (a *Actividad) Estado() string {
	return a.Status + " - " + a.SubStatus
}
