package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Consumption es el registro histórico de material emitido físicamente desde un
// lote hacia una tarea. Nunca se borra; solo la reconciliación de precios puede
// corregir UnitPrice y PriceUpdatedAt. Quantity y las referencias son inmutables.
type Consumption struct {
	ID             string
	ItemID         string
	LotID          string
	LotNumber      string
	TaskID         string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal // precio al momento de la emisión (corregible después)
	PriceUpdatedAt *time.Time
	IssuedAt       time.Time
}
