package allocation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mrp-api/internal/domain"
	domalloc "github.com/jhoicas/mrp-api/internal/domain/allocation"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

// AllocateUseCase reserva lotes concretos para una tarea de producción.
// Toda la operación corre bajo el lock del material: dentro del lock las
// lecturas de disponibilidad y las escrituras de reservas no compiten con
// otra asignación ni emisión del mismo material.
type AllocateUseCase struct {
	lotRepo repository.LotRepository
	resRepo repository.ReservationRepository
	locker  MaterialLocker
}

// NewAllocateUseCase construye el caso de uso.
func NewAllocateUseCase(
	lotRepo repository.LotRepository,
	resRepo repository.ReservationRepository,
	locker MaterialLocker,
) *AllocateUseCase {
	return &AllocateUseCase{lotRepo: lotRepo, resRepo: resRepo, locker: locker}
}

// AllocateInput entrada para asignar material a una tarea.
type AllocateInput struct {
	ItemID    string
	TaskID    string
	Requested decimal.Decimal
	Policy    string // FIFO | FEFO
}

// AllocateResult resultado de la asignación. Shortfall positivo no es error:
// se devuelve como advertencia accionable y la tarea queda parcialmente reservada.
type AllocateResult struct {
	Reservations []entity.Reservation
	Reserved     decimal.Decimal
	Shortfall    decimal.Decimal
	Released     int // reservas previas reducidas o liberadas por el re-cálculo
}

// Allocate reserva lotes para (tarea, material) según la política indicada.
// Es idempotente: una segunda llamada para el mismo par no duplica reservas,
// sino que ajusta las existentes al nuevo plan — una cantidad menor reduce o
// libera el exceso en lugar de agregar.
func (uc *AllocateUseCase) Allocate(ctx context.Context, input AllocateInput) (AllocateResult, error) {
	if input.ItemID == "" || input.TaskID == "" {
		return AllocateResult{}, domain.ErrInvalidInput
	}
	if !domalloc.ValidPolicy(input.Policy) {
		return AllocateResult{}, domain.ErrInvalidInput
	}
	if input.Requested.LessThanOrEqual(decimal.Zero) {
		return AllocateResult{}, domain.ErrInvalidInput
	}

	var result AllocateResult
	err := uc.locker.WithLock(ctx, input.ItemID, func(ctx context.Context) error {
		r, err := uc.allocateLocked(ctx, input)
		result = r
		return err
	})
	return result, err
}

func (uc *AllocateUseCase) allocateLocked(ctx context.Context, input AllocateInput) (AllocateResult, error) {
	lots, err := uc.lotRepo.ListByItem(ctx, input.ItemID)
	if err != nil {
		return AllocateResult{}, err
	}
	existing, err := uc.resRepo.ListByTaskAndItem(ctx, input.TaskID, input.ItemID)
	if err != nil {
		return AllocateResult{}, err
	}

	// 1. Disponibilidad efectiva por lote: cantidad menos reservas de OTRAS tareas.
	//    Las reservas propias no descuentan: el plan decide qué se conserva de ellas.
	candidates := make([]domalloc.Candidate, 0, len(lots))
	for _, lot := range lots {
		others, err := uc.resRepo.ListByLot(ctx, lot.ID)
		if err != nil {
			return AllocateResult{}, err
		}
		reservedByOthers := decimal.Zero
		for _, r := range others {
			if r.TaskID != input.TaskID {
				reservedByOthers = reservedByOthers.Add(r.Quantity)
			}
		}
		candidates = append(candidates, domalloc.Candidate{
			Lot:       lot,
			Available: lot.Quantity.Sub(reservedByOthers),
		})
	}

	// 2. Plan codicioso en orden de política, con tope por lote.
	plan, err := domalloc.Select(input.Requested, candidates, input.Policy)
	if err != nil {
		return AllocateResult{}, err
	}

	// 3. Diff contra las reservas existentes del par (tarea, material):
	//    ajustar cantidades, crear las nuevas, liberar las que el plan ya no usa.
	existingByLot := make(map[string]*entity.Reservation, len(existing))
	for i := range existing {
		existingByLot[existing[i].LotID] = &existing[i]
	}

	now := time.Now()
	result := AllocateResult{Reserved: plan.Reserved, Shortfall: plan.Shortfall}
	planned := make(map[string]bool, len(plan.Entries))

	for _, e := range plan.Entries {
		planned[e.LotID] = true
		if prev, ok := existingByLot[e.LotID]; ok {
			if !prev.Quantity.Equal(e.Quantity) {
				if e.Quantity.LessThan(prev.Quantity) {
					result.Released++
				}
				prev.Quantity = e.Quantity
				prev.UpdatedAt = now
				if err := uc.resRepo.Update(ctx, prev); err != nil {
					return AllocateResult{}, err
				}
			}
			result.Reservations = append(result.Reservations, *prev)
			continue
		}
		res := entity.Reservation{
			ID:        uuid.New().String(),
			ItemID:    input.ItemID,
			LotID:     e.LotID,
			LotNumber: e.LotNumber,
			TaskID:    input.TaskID,
			Quantity:  e.Quantity,
			UnitPrice: e.UnitPrice, // copia del precio del lote al momento de reservar
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.resRepo.Create(ctx, &res); err != nil {
			return AllocateResult{}, err
		}
		result.Reservations = append(result.Reservations, res)
	}

	for _, prev := range existing {
		if planned[prev.LotID] {
			continue
		}
		if err := uc.resRepo.Delete(ctx, prev.ID); err != nil {
			return AllocateResult{}, err
		}
		result.Released++
	}

	return result, nil
}

// Release libera todas las reservas del par (tarea, material). Con itemID vacío
// libera las reservas de toda la tarea (la tarea fue eliminada o des-reservada).
func (uc *AllocateUseCase) Release(ctx context.Context, taskID, itemID string) (int, error) {
	if taskID == "" {
		return 0, domain.ErrInvalidInput
	}
	if itemID == "" {
		return uc.releaseAll(ctx, taskID)
	}
	released := 0
	err := uc.locker.WithLock(ctx, itemID, func(ctx context.Context) error {
		list, err := uc.resRepo.ListByTaskAndItem(ctx, taskID, itemID)
		if err != nil {
			return err
		}
		for _, r := range list {
			if err := uc.resRepo.Delete(ctx, r.ID); err != nil {
				return err
			}
			released++
		}
		return nil
	})
	return released, err
}

// releaseAll agrupa por material para respetar el lock por material.
func (uc *AllocateUseCase) releaseAll(ctx context.Context, taskID string) (int, error) {
	list, err := uc.resRepo.ListByTask(ctx, taskID)
	if err != nil {
		return 0, err
	}
	byItem := make(map[string]bool)
	for _, r := range list {
		byItem[r.ItemID] = true
	}
	released := 0
	for itemID := range byItem {
		n, err := uc.Release(ctx, taskID, itemID)
		released += n
		if err != nil {
			return released, err
		}
	}
	return released, nil
}
