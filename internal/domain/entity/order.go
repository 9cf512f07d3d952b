package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineItem es una línea de pedido de cliente, opcionalmente ligada a una
// tarea de producción. Si FromPriceList es true y el precio es mayor a cero,
// el precio pactado de lista ya absorbe el costo de producción; si no, la línea
// vale cantidad × precio + costo total de producción (costo-plus).
type OrderLineItem struct {
	ID               string
	ItemID           string
	ProductionTaskID string // vacío = sin tarea asociada
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	FromPriceList    bool

	// Cache de costos propagados desde la tarea (cascada).
	MaterialCost       decimal.Decimal
	FullProductionCost decimal.Decimal
}

// Order es la cabecera de un pedido de cliente con descuento global porcentual.
// TotalValue es derivado: Σ valor de línea ajustado por el descuento.
type Order struct {
	ID          string
	CustomerID  string
	Number      string
	Date        time.Time
	DiscountPct decimal.Decimal // 0–100
	Items       []OrderLineItem
	TotalValue  decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
