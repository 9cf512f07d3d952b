package costing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/mrp-api/internal/domain/costing"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

// 3 unidades a 2.00 y 2 unidades a 3.50 dan promedio ponderado 2.60.
func TestWeightedUnitPrice_PromedioPonderado(t *testing.T) {
	records := []costing.PriceQty{
		{Quantity: d("3"), UnitPrice: d("2.00")},
		{Quantity: d("2"), UnitPrice: d("3.50")},
	}
	got := costing.WeightedUnitPrice(records)
	assert.True(t, got.Equal(d("2.6")), "esperaba 2.60, obtuve %s", got)
}

func TestWeightedUnitPrice_SinRegistrosEsCero(t *testing.T) {
	assert.True(t, costing.WeightedUnitPrice(nil).IsZero())
	assert.True(t, costing.WeightedUnitPrice([]costing.PriceQty{}).IsZero())
}

func TestWeightedUnitPrice_CantidadTotalCeroEsCero(t *testing.T) {
	records := []costing.PriceQty{
		{Quantity: d("0"), UnitPrice: d("9.99")},
	}
	assert.True(t, costing.WeightedUnitPrice(records).IsZero(),
		"cantidad total cero no debe dividir por cero")
}

// Línea con precio de lista positivo: 2 × 10.00 = 20, el costo no se suma.
func TestLineValue_PrecioDeLista(t *testing.T) {
	item := entity.OrderLineItem{
		Quantity:           d("2"),
		UnitPrice:          d("10.00"),
		FromPriceList:      true,
		FullProductionCost: d("7.00"),
	}
	assert.True(t, costing.LineValue(item).Equal(d("20")))
}

// Misma línea sin precio de lista: 2 × 10.00 + 7.00 = 27.
func TestLineValue_CostoPlus(t *testing.T) {
	item := entity.OrderLineItem{
		Quantity:           d("2"),
		UnitPrice:          d("10.00"),
		FromPriceList:      false,
		FullProductionCost: d("7.00"),
	}
	assert.True(t, costing.LineValue(item).Equal(d("27")))
}

// Precio de lista marcado pero en cero cae a costo-plus.
func TestLineValue_PrecioDeListaCeroCaeACostoPlus(t *testing.T) {
	item := entity.OrderLineItem{
		Quantity:           d("2"),
		UnitPrice:          d("0"),
		FromPriceList:      true,
		FullProductionCost: d("7.00"),
	}
	assert.True(t, costing.LineValue(item).Equal(d("7")))
}

// Línea malformada (todo en cero) vale cero, nunca explota.
func TestLineValue_LineaVaciaValeCero(t *testing.T) {
	assert.True(t, costing.LineValue(entity.OrderLineItem{}).IsZero())
}

// Total con descuento global del 10%: (20 + 27) × 0.9 = 42.30.
func TestOrderTotal_AplicaDescuento(t *testing.T) {
	items := []entity.OrderLineItem{
		{Quantity: d("2"), UnitPrice: d("10.00"), FromPriceList: true},
		{Quantity: d("2"), UnitPrice: d("10.00"), FullProductionCost: d("7.00")},
	}
	got := costing.OrderTotal(items, d("10"))
	assert.True(t, got.Equal(d("42.30")), "esperaba 42.30, obtuve %s", got)
}

func TestOrderTotal_RedondeaADosDigitos(t *testing.T) {
	items := []entity.OrderLineItem{
		{Quantity: d("1"), UnitPrice: d("10.00"), FromPriceList: true},
	}
	// 10 × (100-33)/100 = 6.7
	got := costing.OrderTotal(items, d("33"))
	assert.True(t, got.Equal(d("6.70")), "esperaba 6.70, obtuve %s", got)

	// 10 × (100-33.333)/100 = 6.6667 → 6.67
	got = costing.OrderTotal(items, d("33.333"))
	assert.True(t, got.Equal(d("6.67")), "esperaba 6.67, obtuve %s", got)
}

func TestUnitCost_DivisorCeroEsCero(t *testing.T) {
	assert.True(t, costing.UnitCost(d("100"), d("0")).IsZero())
	assert.True(t, costing.UnitCost(d("100"), d("-1")).IsZero())
	assert.True(t, costing.UnitCost(d("100"), d("4")).Equal(d("25")))
}
