package allocation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

// maxCASRetries reintentos de escritura condicional sobre el lote antes de
// reportar el registro como fallido.
const maxCASRetries = 3

// IssueUseCase convierte reservas en consumos: emisión física de material.
// Es el único camino que reduce Lot.Quantity. Cada reserva se procesa de forma
// independiente (recolectar-errores-y-continuar): un lote perdido o una
// escritura fallida no aborta el resto de la emisión.
type IssueUseCase struct {
	lotRepo  repository.LotRepository
	resRepo  repository.ReservationRepository
	consRepo repository.ConsumptionRepository
	locker   MaterialLocker
}

// NewIssueUseCase construye el caso de uso de emisión.
func NewIssueUseCase(
	lotRepo repository.LotRepository,
	resRepo repository.ReservationRepository,
	consRepo repository.ConsumptionRepository,
	locker MaterialLocker,
) *IssueUseCase {
	return &IssueUseCase{lotRepo: lotRepo, resRepo: resRepo, consRepo: consRepo, locker: locker}
}

// IssueFailure falla de un registro individual durante la emisión.
type IssueFailure struct {
	ReservationID string
	LotID         string
	Reason        string
}

// IssueResult resultado estructurado de la emisión: lo emitido, lo fallido y
// advertencias (recortes por inconsistencia). El caller decide si reintenta.
type IssueResult struct {
	Consumptions []entity.Consumption
	Issued       decimal.Decimal
	Failed       []IssueFailure
	Warnings     []string
}

// Issue emite todas las reservas del par (tarea, material): por cada reserva
// descuenta el lote, crea el consumo con el precio vigente del lote y borra la
// reserva. Corre bajo el lock del material.
func (uc *IssueUseCase) Issue(ctx context.Context, taskID, itemID string) (IssueResult, error) {
	if taskID == "" || itemID == "" {
		return IssueResult{}, domain.ErrInvalidInput
	}

	var result IssueResult
	err := uc.locker.WithLock(ctx, itemID, func(ctx context.Context) error {
		reservations, err := uc.resRepo.ListByTaskAndItem(ctx, taskID, itemID)
		if err != nil {
			return err
		}
		if len(reservations) == 0 {
			return domain.ErrNothingReserved
		}
		result = uc.issueLocked(ctx, reservations)
		return nil
	})
	return result, err
}

func (uc *IssueUseCase) issueLocked(ctx context.Context, reservations []entity.Reservation) IssueResult {
	result := IssueResult{Issued: decimal.Zero}
	now := time.Now()

	for _, res := range reservations {
		cons, warn, err := uc.issueOne(ctx, res, now)
		if cons != nil {
			result.Consumptions = append(result.Consumptions, *cons)
			result.Issued = result.Issued.Add(cons.Quantity)
		}
		if err != nil {
			result.Failed = append(result.Failed, IssueFailure{
				ReservationID: res.ID,
				LotID:         res.LotID,
				Reason:        err.Error(),
			})
			continue
		}
		if warn != "" {
			result.Warnings = append(result.Warnings, warn)
		}
	}
	return result
}

// issueOne procesa una reserva: descuento del lote con compare-and-swap
// (reintenta si el lote cambió entre lectura y escritura), consumo, borrado.
func (uc *IssueUseCase) issueOne(ctx context.Context, res entity.Reservation, now time.Time) (*entity.Consumption, string, error) {
	var lot *entity.Lot
	var qty decimal.Decimal
	var warn string

	for attempt := 0; ; attempt++ {
		var err error
		lot, err = uc.lotRepo.GetByID(ctx, res.LotID)
		if err != nil {
			return nil, "", err
		}
		if lot == nil {
			return nil, "", domain.ErrLotNotFound
		}

		// Si el lote ya no cubre la reserva se emite lo que queda,
		// nunca una cantidad negativa.
		qty = res.Quantity
		if lot.Quantity.LessThan(qty) {
			warn = fmt.Sprintf("lote %s: reserva %s recortada de %s a %s", lot.LotNumber, res.ID, res.Quantity, lot.Quantity)
			qty = decimal.Max(decimal.Zero, lot.Quantity)
		}

		lot.Quantity = lot.Quantity.Sub(qty)
		lot.UpdatedAt = now
		err = uc.lotRepo.Update(ctx, lot)
		if err == nil {
			break
		}
		if err == domain.ErrStaleWrite && attempt < maxCASRetries {
			continue
		}
		return nil, "", err
	}

	cons := entity.Consumption{
		ID:        uuid.New().String(),
		ItemID:    res.ItemID,
		LotID:     res.LotID,
		LotNumber: res.LotNumber,
		TaskID:    res.TaskID,
		Quantity:  qty,
		UnitPrice: lot.UnitPrice, // precio vigente del lote al momento de la emisión
		IssuedAt:  now,
	}
	if err := uc.consRepo.Create(ctx, &cons); err != nil {
		return nil, "", err
	}
	if err := uc.resRepo.Delete(ctx, res.ID); err != nil {
		// El consumo ya quedó registrado; la reserva colgada se reporta para reintento.
		return &cons, "", fmt.Errorf("consumo creado pero reserva no liberada: %w", err)
	}
	return &cons, warn, nil
}
