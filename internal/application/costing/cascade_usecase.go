package costing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	domcosting "github.com/jhoicas/mrp-api/internal/domain/costing"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

// CascadePropagator empuja el costo recalculado de una tarea hacia todas las
// líneas de pedido que la referencian y recalcula el total de cada pedido.
// Cada pedido se procesa de forma independiente: un fallo de escritura se
// recolecta y se sigue con el resto (nunca all-or-nothing).
type CascadePropagator struct {
	orderRepo repository.OrderRepository
}

// NewCascadePropagator construye el propagador.
func NewCascadePropagator(orderRepo repository.OrderRepository) *CascadePropagator {
	return &CascadePropagator{orderRepo: orderRepo}
}

// CascadeFailure falla de un pedido individual durante la cascada.
type CascadeFailure struct {
	OrderID string
	Reason  string
}

// CascadeResult resumen de la cascada, devuelto al caller (no lanzado) para
// que el operador pueda reintentar los pedidos fallidos.
type CascadeResult struct {
	OrdersUpdated int
	Succeeded     []string
	Failed        []CascadeFailure
}

// Propagate actualiza el cache de costos en cada línea ligada a la tarea,
// revalúa las líneas según la regla de precio de lista y persiste el pedido
// con su total recalculado (descuento global incluido).
func (uc *CascadePropagator) Propagate(ctx context.Context, taskID string, materialCost, fullProductionCost decimal.Decimal) (CascadeResult, error) {
	orders, err := uc.orderRepo.ListReferencingTask(ctx, taskID)
	if err != nil {
		return CascadeResult{}, err
	}

	result := CascadeResult{}
	now := time.Now()
	for i := range orders {
		order := &orders[i]

		touched := false
		for j := range order.Items {
			if order.Items[j].ProductionTaskID != taskID {
				continue
			}
			order.Items[j].MaterialCost = materialCost
			order.Items[j].FullProductionCost = fullProductionCost
			touched = true
		}
		if !touched {
			continue
		}

		// Campos faltantes en líneas malformadas valen cero (el valor cero de
		// decimal.Decimal ya es 0), así que la valoración nunca explota.
		order.TotalValue = domcosting.OrderTotal(order.Items, order.DiscountPct)
		order.UpdatedAt = now

		if err := uc.orderRepo.Update(ctx, order); err != nil {
			result.Failed = append(result.Failed, CascadeFailure{OrderID: order.ID, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, order.ID)
		result.OrdersUpdated++
	}
	return result, nil
}
