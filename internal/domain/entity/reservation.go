package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reservation es el reclamo provisional de una tarea de producción sobre un lote.
// Lleva copia desnormalizada de UnitPrice y LotNumber tomada al crearla; la
// reconciliación de precios puede refrescar UnitPrice después.
// Invariante: por lote, Σ reservas activas ≤ Lot.Quantity.
type Reservation struct {
	ID             string
	ItemID         string
	LotID          string
	LotNumber      string
	TaskID         string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	PriceUpdatedAt *time.Time // nil = nunca corregida
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
