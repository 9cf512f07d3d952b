package costing

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mrp-api/internal/domain"
	domcosting "github.com/jhoicas/mrp-api/internal/domain/costing"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

// CostAggregator calcula el costo de una tarea de producción a partir de sus
// reservas/consumos reales, no del precio genérico del ítem. ComputeCost es una
// función pura del estado actual del libro: llamarla dos veces sobre el mismo
// estado da el mismo resultado y no muta nada.
type CostAggregator struct {
	taskRepo repository.TaskRepository
	resRepo  repository.ReservationRepository
	consRepo repository.ConsumptionRepository

	// single-flight por tarea: dos PersistCost concurrentes sobre la misma
	// tarea no deben intercalar escrituras de campos derivados.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCostAggregator construye el agregador.
func NewCostAggregator(
	taskRepo repository.TaskRepository,
	resRepo repository.ReservationRepository,
	consRepo repository.ConsumptionRepository,
) *CostAggregator {
	return &CostAggregator{
		taskRepo: taskRepo,
		resRepo:  resRepo,
		consRepo: consRepo,
		locks:    make(map[string]*sync.Mutex),
	}
}

// CostResult costos derivados de una tarea.
type CostResult struct {
	MaterialCost           decimal.Decimal // solo materiales con IncludedInCost
	FullProductionCost     decimal.Decimal // todos los materiales
	MaterialUnitCost       decimal.Decimal
	FullProductionUnitCost decimal.Decimal
}

// ComputeCost calcula los cuatro campos de costo de la tarea.
// Por material: precio ponderado sobre sus consumos si ya hubo emisión, si no
// sobre sus reservas; sin registros el precio es 0. El costo unitario divide
// por la cantidad producida; divisor cero da 0, no error.
func (uc *CostAggregator) ComputeCost(ctx context.Context, taskID string) (CostResult, error) {
	task, err := uc.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return CostResult{}, err
	}
	if task == nil {
		return CostResult{}, domain.ErrTaskNotFound
	}

	result := CostResult{
		MaterialCost:       decimal.Zero,
		FullProductionCost: decimal.Zero,
	}
	for _, mat := range task.Materials {
		records, err := uc.priceRecords(ctx, taskID, mat.ItemID)
		if err != nil {
			return CostResult{}, err
		}
		weighted := domcosting.WeightedUnitPrice(records)
		cost := mat.RequiredQuantity.Mul(weighted)

		result.FullProductionCost = result.FullProductionCost.Add(cost)
		if mat.IncludedInCost {
			result.MaterialCost = result.MaterialCost.Add(cost)
		}
	}

	result.MaterialUnitCost = domcosting.UnitCost(result.MaterialCost, task.OutputQuantity)
	result.FullProductionUnitCost = domcosting.UnitCost(result.FullProductionCost, task.OutputQuantity)
	return result, nil
}

// priceRecords devuelve los pares cantidad/precio del material: consumos si
// existen (verdad post-emisión), si no las reservas vigentes.
func (uc *CostAggregator) priceRecords(ctx context.Context, taskID, itemID string) ([]domcosting.PriceQty, error) {
	cons, err := uc.consRepo.ListByTaskAndItem(ctx, taskID, itemID)
	if err != nil {
		return nil, err
	}
	if len(cons) > 0 {
		records := make([]domcosting.PriceQty, 0, len(cons))
		for _, c := range cons {
			records = append(records, domcosting.PriceQty{Quantity: c.Quantity, UnitPrice: c.UnitPrice})
		}
		return records, nil
	}
	reservations, err := uc.resRepo.ListByTaskAndItem(ctx, taskID, itemID)
	if err != nil {
		return nil, err
	}
	records := make([]domcosting.PriceQty, 0, len(reservations))
	for _, r := range reservations {
		records = append(records, domcosting.PriceQty{Quantity: r.Quantity, UnitPrice: r.UnitPrice})
	}
	return records, nil
}

// PersistCost recalcula y, si algo cambió, escribe los campos derivados en la
// tarea. Devuelve si hubo cambio para que el caller dispare la cascada.
// Corre en single-flight por tarea (last-write-wins si no se serializa).
func (uc *CostAggregator) PersistCost(ctx context.Context, taskID string) (CostResult, bool, error) {
	unlock := uc.lockTask(taskID)
	defer unlock()

	result, err := uc.ComputeCost(ctx, taskID)
	if err != nil {
		return CostResult{}, false, err
	}
	task, err := uc.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return CostResult{}, false, err
	}
	if task == nil {
		return CostResult{}, false, domain.ErrTaskNotFound
	}

	changed := !task.MaterialCost.Equal(result.MaterialCost) ||
		!task.FullProductionCost.Equal(result.FullProductionCost) ||
		!task.MaterialUnitCost.Equal(result.MaterialUnitCost) ||
		!task.FullProductionUnitCost.Equal(result.FullProductionUnitCost)
	if !changed {
		return result, false, nil
	}

	now := time.Now()
	task.MaterialCost = result.MaterialCost
	task.FullProductionCost = result.FullProductionCost
	task.MaterialUnitCost = result.MaterialUnitCost
	task.FullProductionUnitCost = result.FullProductionUnitCost
	task.CostUpdatedAt = &now
	task.UpdatedAt = now
	if err := uc.taskRepo.UpdateCosts(ctx, task); err != nil {
		return CostResult{}, false, err
	}
	return result, true, nil
}

func (uc *CostAggregator) lockTask(taskID string) func() {
	uc.mu.Lock()
	m, ok := uc.locks[taskID]
	if !ok {
		m = &sync.Mutex{}
		uc.locks[taskID] = m
	}
	uc.mu.Unlock()
	m.Lock()
	return m.Unlock
}
