package repository

import (
	"context"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

// ReservationRepository define el puerto del libro de reservas (lote ↔ tarea).
type ReservationRepository interface {
	ListByLot(ctx context.Context, lotID string) ([]entity.Reservation, error)
	ListByTask(ctx context.Context, taskID string) ([]entity.Reservation, error)
	ListByTaskAndItem(ctx context.Context, taskID, itemID string) ([]entity.Reservation, error)
	Create(ctx context.Context, r *entity.Reservation) error
	Update(ctx context.Context, r *entity.Reservation) error
	Delete(ctx context.Context, id string) error
}
