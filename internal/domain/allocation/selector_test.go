package allocation_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/allocation"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func candidate(id string, seq int64, qty string, expiry *time.Time) allocation.Candidate {
	return allocation.Candidate{
		Lot: entity.Lot{
			ID:              id,
			LotNumber:       "L-" + id,
			Quantity:        d(qty),
			UnitPrice:       d("1.00"),
			ExpiryDate:      expiry,
			ReceiptSequence: seq,
		},
		Available: d(qty),
	}
}

func date(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

// FIFO con tres lotes de 5 y pedido de 7: el plan debe tomar 5 del primero
// y 2 del segundo, sin tocar el tercero.
func TestSelect_FIFO_ConsumeEnOrdenDeRecepcion(t *testing.T) {
	candidates := []allocation.Candidate{
		candidate("c", 3, "5", nil),
		candidate("a", 1, "5", nil),
		candidate("b", 2, "5", nil),
	}

	plan, err := allocation.Select(d("7"), candidates, allocation.PolicyFIFO)
	require.NoError(t, err)

	require.Len(t, plan.Entries, 2, "solo dos lotes deben participar")
	assert.Equal(t, "a", plan.Entries[0].LotID)
	assert.True(t, plan.Entries[0].Quantity.Equal(d("5")), "el primer lote se agota")
	assert.Equal(t, "b", plan.Entries[1].LotID)
	assert.True(t, plan.Entries[1].Quantity.Equal(d("2")), "el segundo lote cubre el resto")
	assert.True(t, plan.Reserved.Equal(d("7")))
	assert.True(t, plan.Shortfall.IsZero())
}

// FEFO: vence primero 2024-06-01, luego 2025-01-01, y el lote sin vencimiento al final.
func TestSelect_FEFO_VencimientoProximoPrimero(t *testing.T) {
	candidates := []allocation.Candidate{
		candidate("sin-vencimiento", 1, "10", nil),
		candidate("vence-2025", 2, "10", date("2025-01-01")),
		candidate("vence-2024", 3, "10", date("2024-06-01")),
	}

	plan, err := allocation.Select(d("25"), candidates, allocation.PolicyFEFO)
	require.NoError(t, err)

	require.Len(t, plan.Entries, 3)
	assert.Equal(t, "vence-2024", plan.Entries[0].LotID)
	assert.Equal(t, "vence-2025", plan.Entries[1].LotID)
	assert.Equal(t, "sin-vencimiento", plan.Entries[2].LotID)
	assert.True(t, plan.Entries[2].Quantity.Equal(d("5")))
}

// FEFO con vencimientos iguales desempata por secuencia de recepción.
func TestSelect_FEFO_EmpateDesempataPorSecuencia(t *testing.T) {
	candidates := []allocation.Candidate{
		candidate("segundo", 2, "10", date("2025-01-01")),
		candidate("primero", 1, "10", date("2025-01-01")),
	}

	plan, err := allocation.Select(d("5"), candidates, allocation.PolicyFEFO)
	require.NoError(t, err)

	require.Len(t, plan.Entries, 1)
	assert.Equal(t, "primero", plan.Entries[0].LotID)
}

// Candidatos insuficientes: el plan reserva todo lo disponible y reporta el faltante.
func TestSelect_FaltanteSinError(t *testing.T) {
	candidates := []allocation.Candidate{
		candidate("a", 1, "3", nil),
	}

	plan, err := allocation.Select(d("10"), candidates, allocation.PolicyFIFO)
	require.NoError(t, err, "el faltante no es un error")

	assert.True(t, plan.Reserved.Equal(d("3")))
	assert.True(t, plan.Shortfall.Equal(d("7")))
}

// Sin candidatos el plan queda vacío con el faltante completo.
func TestSelect_SinCandidatos(t *testing.T) {
	plan, err := allocation.Select(d("4"), nil, allocation.PolicyFIFO)
	require.NoError(t, err)

	assert.Empty(t, plan.Entries)
	assert.True(t, plan.Reserved.IsZero())
	assert.True(t, plan.Shortfall.Equal(d("4")))
}

// Disponibilidad cero o negativa excluye el lote del plan.
func TestSelect_DisponibilidadNegativaSeIgnora(t *testing.T) {
	over := candidate("sobre-reservado", 1, "5", nil)
	over.Available = d("-2")
	ok := candidate("ok", 2, "5", nil)

	plan, err := allocation.Select(d("5"), []allocation.Candidate{over, ok}, allocation.PolicyFIFO)
	require.NoError(t, err)

	require.Len(t, plan.Entries, 1)
	assert.Equal(t, "ok", plan.Entries[0].LotID)
}

func TestSelect_EntradasInvalidas(t *testing.T) {
	_, err := allocation.Select(d("0"), nil, allocation.PolicyFIFO)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero es inválida")

	_, err = allocation.Select(d("-1"), nil, allocation.PolicyFIFO)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad negativa es inválida")

	_, err = allocation.Select(d("1"), nil, "LIFO")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "política desconocida es inválida")
}
