package costing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
	"github.com/jhoicas/mrp-api/pkg/cache"
)

// DefaultPriceEpsilon tolerancia por debajo de la cual una diferencia de precio
// no amerita reescritura (evita escrituras inútiles y ruido en el historial).
const DefaultPriceEpsilon = "0.001"

// PriceReconciler detecta deriva entre el precio registrado en reservas/consumos
// y el precio vigente del lote, y reescribe los registros dependientes.
// Es el único escritor de los precios históricos de consumo; jamás toca
// cantidades ni referencias a lotes.
type PriceReconciler struct {
	lotRepo    repository.LotRepository
	resRepo    repository.ReservationRepository
	consRepo   repository.ConsumptionRepository
	aggregator *CostAggregator
	cascade    *CascadePropagator
	lotCache   *cache.Cache[string, entity.Lot]
	epsilon    decimal.Decimal
}

// NewPriceReconciler construye el servicio. lotCache evita releer el mismo lote
// por cada registro dependiente dentro de una pasada; epsilon vacío usa el default.
func NewPriceReconciler(
	lotRepo repository.LotRepository,
	resRepo repository.ReservationRepository,
	consRepo repository.ConsumptionRepository,
	aggregator *CostAggregator,
	cascade *CascadePropagator,
	lotCache *cache.Cache[string, entity.Lot],
	epsilon decimal.Decimal,
) *PriceReconciler {
	if epsilon.LessThanOrEqual(decimal.Zero) {
		epsilon, _ = decimal.NewFromString(DefaultPriceEpsilon)
	}
	return &PriceReconciler{
		lotRepo:    lotRepo,
		resRepo:    resRepo,
		consRepo:   consRepo,
		aggregator: aggregator,
		cascade:    cascade,
		lotCache:   lotCache,
		epsilon:    epsilon,
	}
}

// ReconcileResult resumen de una pasada de reconciliación. Los saltos por lote
// ausente o escritura fallida son fallas blandas: la pasada continúa y el
// resumen le permite al operador reintentar.
type ReconcileResult struct {
	Updated     int
	Skipped     int
	Warnings    []string
	CostChanged bool
	Cascade     *CascadeResult
}

// ReconcilePrices recorre consumos y reservas de la tarea, refresca los precios
// desviados más allá de epsilon y, si algo cambió, recalcula el costo de la
// tarea y dispara la cascada hacia los pedidos. Una segunda pasada sobre estado
// ya convergido no escribe nada (Updated = 0).
func (uc *PriceReconciler) ReconcilePrices(ctx context.Context, taskID string) (ReconcileResult, error) {
	result := ReconcileResult{}
	now := time.Now()

	consumptions, err := uc.consRepo.ListByTask(ctx, taskID)
	if err != nil {
		return result, err
	}
	for _, c := range consumptions {
		lot, warn := uc.currentLot(ctx, c.LotID, c.LotNumber)
		if lot == nil {
			result.Skipped++
			result.Warnings = append(result.Warnings, warn)
			continue
		}
		if !uc.drifted(c.UnitPrice, lot.UnitPrice) {
			continue
		}
		if err := uc.consRepo.UpdatePrice(ctx, c.ID, lot.UnitPrice, now); err != nil {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("consumo %s: %v", c.ID, err))
			continue
		}
		result.Updated++
	}

	reservations, err := uc.resRepo.ListByTask(ctx, taskID)
	if err != nil {
		return result, err
	}
	for _, r := range reservations {
		lot, warn := uc.currentLot(ctx, r.LotID, r.LotNumber)
		if lot == nil {
			result.Skipped++
			result.Warnings = append(result.Warnings, warn)
			continue
		}
		if !uc.drifted(r.UnitPrice, lot.UnitPrice) {
			continue
		}
		r.UnitPrice = lot.UnitPrice
		r.PriceUpdatedAt = &now
		r.UpdatedAt = now
		if err := uc.resRepo.Update(ctx, &r); err != nil {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("reserva %s: %v", r.ID, err))
			continue
		}
		result.Updated++
	}

	if result.Updated == 0 {
		return result, nil
	}

	// Precios corregidos: recalcular el costo cacheado de la tarea y, si
	// efectivamente cambió, propagar hacia las líneas de pedido.
	costs, changed, err := uc.aggregator.PersistCost(ctx, taskID)
	if err != nil {
		return result, err
	}
	result.CostChanged = changed
	if changed {
		cascade, err := uc.cascade.Propagate(ctx, taskID, costs.MaterialCost, costs.FullProductionCost)
		if err != nil {
			return result, err
		}
		result.Cascade = &cascade
	}
	return result, nil
}

// currentLot busca el lote (caché primero). Devuelve nil con la advertencia
// armada si el lote no existe o la lectura falla.
func (uc *PriceReconciler) currentLot(ctx context.Context, lotID, lotNumber string) (*entity.Lot, string) {
	if uc.lotCache != nil {
		if lot, ok := uc.lotCache.Get(lotID); ok {
			return &lot, ""
		}
	}
	lot, err := uc.lotRepo.GetByID(ctx, lotID)
	if err != nil {
		return nil, fmt.Sprintf("lote %s (%s): %v", lotNumber, lotID, err)
	}
	if lot == nil {
		return nil, fmt.Sprintf("lote %s (%s) no encontrado; registro sin tocar", lotNumber, lotID)
	}
	if uc.lotCache != nil {
		uc.lotCache.Set(lotID, *lot)
	}
	return lot, ""
}

func (uc *PriceReconciler) drifted(recorded, current decimal.Decimal) bool {
	return recorded.Sub(current).Abs().GreaterThan(uc.epsilon)
}
