// Package costing implementa la aritmética de costos del motor (servicios de dominio puros):
// promedio ponderado por lote, valoración de líneas de pedido y total de pedido.
package costing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

// PriceQty es un par cantidad/precio de una reserva o consumo.
type PriceQty struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// WeightedUnitPrice calcula Σ(cantidad×precio) / Σ(cantidad) sobre los registros.
// Sin registros o con cantidad total cero devuelve 0 (nunca error ni negativo).
// La división conserva la precisión decimal completa; el redondeo a 2 dígitos
// ocurre recién en los totales de pedido.
func WeightedUnitPrice(records []PriceQty) decimal.Decimal {
	totalQty := decimal.Zero
	totalCost := decimal.Zero
	for _, r := range records {
		totalQty = totalQty.Add(r.Quantity)
		totalCost = totalCost.Add(r.Quantity.Mul(r.UnitPrice))
	}
	if totalQty.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return totalCost.Div(totalQty)
}

// LineValue valora una línea de pedido.
// Precio de lista pactado y positivo: el costo de producción ya está absorbido
// en el precio, la línea vale cantidad × precio. En cualquier otro caso se usa
// costo-plus: cantidad × precio + costo total de producción de la tarea.
func LineValue(item entity.OrderLineItem) decimal.Decimal {
	base := item.Quantity.Mul(item.UnitPrice)
	if item.FromPriceList && item.UnitPrice.GreaterThan(decimal.Zero) {
		return base
	}
	return base.Add(item.FullProductionCost)
}

// OrderTotal suma el valor de las líneas y aplica el descuento global del pedido:
// total × (100 − descuento) / 100, redondeado a 2 dígitos.
func OrderTotal(items []entity.OrderLineItem, discountPct decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(LineValue(it))
	}
	hundred := decimal.NewFromInt(100)
	return total.Mul(hundred.Sub(discountPct)).Div(hundred).Round(2)
}

// UnitCost divide un costo por la cantidad producida; divisor cero devuelve 0.
func UnitCost(cost, outputQty decimal.Decimal) decimal.Decimal {
	if outputQty.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return cost.Div(outputQty)
}
