package costing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mrp-api/internal/application/costing"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

// flakyOrderRepo rechaza la escritura de un pedido puntual para simular una
// falla parcial durante la cascada.
type flakyOrderRepo struct {
	repository.OrderRepository
	failID string
}

func (r *flakyOrderRepo) Update(ctx context.Context, order *entity.Order) error {
	if order.ID == r.failID {
		return errors.New("escritura rechazada")
	}
	return r.OrderRepository.Update(ctx, order)
}

func seedOrder(f *costFixture, id, discountPct string, items ...entity.OrderLineItem) {
	f.store.PutOrder(entity.Order{
		ID:          id,
		CustomerID:  "cliente-1",
		Number:      "PED-" + id,
		Date:        time.Now(),
		DiscountPct: d(discountPct),
		Items:       items,
	})
}

// La cascada actualiza el cache de costos de las líneas ligadas a la tarea y
// recalcula el total con la regla de precio de lista.
func TestPropagate_RevaloraLineasYTotal(t *testing.T) {
	f := newCostFixture()
	seedOrder(f, "pedido-1", "0",
		entity.OrderLineItem{
			ID: "linea-a", ItemID: "pan", ProductionTaskID: "tarea-1",
			Quantity: d("2"), UnitPrice: d("10.00"), FromPriceList: true,
		},
		entity.OrderLineItem{
			ID: "linea-b", ItemID: "pan", ProductionTaskID: "tarea-1",
			Quantity: d("2"), UnitPrice: d("10.00"), FromPriceList: false,
		},
	)
	cascade := costing.NewCascadePropagator(f.orderRepo)

	result, err := cascade.Propagate(context.Background(), "tarea-1", d("5.00"), d("7.00"))
	require.NoError(t, err)

	assert.Equal(t, 1, result.OrdersUpdated)
	assert.Equal(t, []string{"pedido-1"}, result.Succeeded)
	assert.Empty(t, result.Failed)

	order, err := f.orderRepo.GetByID(context.Background(), "pedido-1")
	require.NoError(t, err)
	// línea a precio de lista: 2×10 = 20; línea costo-plus: 2×10 + 7 = 27
	assert.True(t, order.TotalValue.Equal(d("47")), "esperaba 47, obtuve %s", order.TotalValue)
	for _, item := range order.Items {
		assert.True(t, item.MaterialCost.Equal(d("5.00")))
		assert.True(t, item.FullProductionCost.Equal(d("7.00")))
	}
}

// El descuento global del pedido se aplica sobre el total revalorado.
func TestPropagate_AplicaDescuentoDelPedido(t *testing.T) {
	f := newCostFixture()
	seedOrder(f, "pedido-1", "10",
		entity.OrderLineItem{
			ID: "linea-a", ItemID: "pan", ProductionTaskID: "tarea-1",
			Quantity: d("2"), UnitPrice: d("10.00"), FromPriceList: true,
		},
		entity.OrderLineItem{
			ID: "linea-b", ItemID: "pan", ProductionTaskID: "tarea-1",
			Quantity: d("2"), UnitPrice: d("10.00"), FromPriceList: false,
		},
	)
	cascade := costing.NewCascadePropagator(f.orderRepo)

	_, err := cascade.Propagate(context.Background(), "tarea-1", d("5.00"), d("7.00"))
	require.NoError(t, err)

	order, err := f.orderRepo.GetByID(context.Background(), "pedido-1")
	require.NoError(t, err)
	// (20 + 27) × 0.9 = 42.30
	assert.True(t, order.TotalValue.Equal(d("42.30")), "esperaba 42.30, obtuve %s", order.TotalValue)
}

// Un pedido que falla al escribir no aborta la cascada: los demás se actualizan
// y la falla queda en el resumen.
func TestPropagate_FallaParcialAislada(t *testing.T) {
	f := newCostFixture()
	line := func(id string) entity.OrderLineItem {
		return entity.OrderLineItem{
			ID: id, ItemID: "pan", ProductionTaskID: "tarea-1",
			Quantity: d("1"), UnitPrice: d("10.00"), FromPriceList: true,
		}
	}
	seedOrder(f, "pedido-1", "0", line("l1"))
	seedOrder(f, "pedido-2", "0", line("l2"))
	seedOrder(f, "pedido-3", "0", line("l3"))

	flaky := &flakyOrderRepo{OrderRepository: f.orderRepo, failID: "pedido-2"}
	cascade := costing.NewCascadePropagator(flaky)

	result, err := cascade.Propagate(context.Background(), "tarea-1", d("5.00"), d("7.00"))
	require.NoError(t, err)

	assert.Equal(t, 2, result.OrdersUpdated)
	assert.Equal(t, []string{"pedido-1", "pedido-3"}, result.Succeeded)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "pedido-2", result.Failed[0].OrderID)
	assert.Contains(t, result.Failed[0].Reason, "escritura rechazada")
}

// Pedidos sin líneas de la tarea no se tocan.
func TestPropagate_SinPedidosReferencia(t *testing.T) {
	f := newCostFixture()
	seedOrder(f, "pedido-1", "0",
		entity.OrderLineItem{
			ID: "l1", ItemID: "pan", ProductionTaskID: "otra-tarea",
			Quantity: d("1"), UnitPrice: d("10.00"),
		},
	)
	cascade := costing.NewCascadePropagator(f.orderRepo)

	result, err := cascade.Propagate(context.Background(), "tarea-1", d("5.00"), d("7.00"))
	require.NoError(t, err)

	assert.Zero(t, result.OrdersUpdated)
	assert.Empty(t, result.Succeeded)
	assert.Empty(t, result.Failed)
}
