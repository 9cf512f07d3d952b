package costing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

// CostSheetUseCase arma la hoja de costos de una tarea y delega el render al
// generador inyectado.
type CostSheetUseCase struct {
	taskRepo   repository.TaskRepository
	resRepo    repository.ReservationRepository
	consRepo   repository.ConsumptionRepository
	itemRepo   repository.ItemRepository
	aggregator *CostAggregator
	generator  CostSheetGenerator
	now        func() time.Time
}

// NewCostSheetUseCase construye el caso de uso.
func NewCostSheetUseCase(
	taskRepo repository.TaskRepository,
	resRepo repository.ReservationRepository,
	consRepo repository.ConsumptionRepository,
	itemRepo repository.ItemRepository,
	aggregator *CostAggregator,
	generator CostSheetGenerator,
) *CostSheetUseCase {
	return &CostSheetUseCase{
		taskRepo:   taskRepo,
		resRepo:    resRepo,
		consRepo:   consRepo,
		itemRepo:   itemRepo,
		aggregator: aggregator,
		generator:  generator,
		now:        time.Now,
	}
}

// Generate produce el PDF de la hoja de costos de la tarea.
func (uc *CostSheetUseCase) Generate(ctx context.Context, taskID string) ([]byte, error) {
	task, err := uc.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("obtener tarea: %w", err)
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}

	costs, err := uc.aggregator.ComputeCost(ctx, taskID)
	if err != nil {
		return nil, err
	}

	data := &CostSheetData{
		Task:        *task,
		Costs:       costs,
		GeneratedAt: uc.now(),
	}

	// 1. Consumos primero (historial de emisión), luego reservas pendientes.
	consumptions, err := uc.consRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("listar consumos: %w", err)
	}
	for _, c := range consumptions {
		data.Lines = append(data.Lines, CostSheetLine{
			ItemID:    c.ItemID,
			ItemName:  uc.itemName(ctx, c.ItemID),
			LotNumber: c.LotNumber,
			Source:    "consumo",
			Quantity:  c.Quantity,
			UnitPrice: c.UnitPrice,
			Value:     c.Quantity.Mul(c.UnitPrice),
		})
	}

	reservations, err := uc.resRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("listar reservas: %w", err)
	}
	for _, r := range reservations {
		data.Lines = append(data.Lines, CostSheetLine{
			ItemID:    r.ItemID,
			ItemName:  uc.itemName(ctx, r.ItemID),
			LotNumber: r.LotNumber,
			Source:    "reserva",
			Quantity:  r.Quantity,
			UnitPrice: r.UnitPrice,
			Value:     r.Quantity.Mul(r.UnitPrice),
		})
	}

	// 2. Render.
	return uc.generator.GenerateCostSheet(ctx, data)
}

// itemName resuelve el nombre del material; si no existe usa el ID.
func (uc *CostSheetUseCase) itemName(ctx context.Context, itemID string) string {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil || item == nil {
		return itemID
	}
	return item.Name
}
