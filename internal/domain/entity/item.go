package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem representa la definición de un material o producto (dato maestro).
// El motor lo consume solo lectura; el costo real se deriva de los lotes, no de ListPrice.
type InventoryItem struct {
	ID          string
	Name        string
	UnitMeasure string
	ListPrice   decimal.Decimal // precio de lista estándar (referencial)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
