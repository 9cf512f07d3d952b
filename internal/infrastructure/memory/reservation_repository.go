package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

// ReservationRepo implementación en memoria de ReservationRepository.
type ReservationRepo struct {
	s *Store
}

// NewReservationRepository construye el adaptador sobre el almacén.
func NewReservationRepository(s *Store) *ReservationRepo { return &ReservationRepo{s: s} }

// ListByLot devuelve las reservas activas sobre un lote.
func (r *ReservationRepo) ListByLot(_ context.Context, lotID string) ([]entity.Reservation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []entity.Reservation
	for _, res := range r.s.reservations {
		if res.LotID == lotID {
			list = append(list, res)
		}
	}
	return list, nil
}

// ListByTask devuelve las reservas de una tarea.
func (r *ReservationRepo) ListByTask(_ context.Context, taskID string) ([]entity.Reservation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []entity.Reservation
	for _, res := range r.s.reservations {
		if res.TaskID == taskID {
			list = append(list, res)
		}
	}
	return list, nil
}

// ListByTaskAndItem devuelve las reservas del par (tarea, material).
func (r *ReservationRepo) ListByTaskAndItem(_ context.Context, taskID, itemID string) ([]entity.Reservation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []entity.Reservation
	for _, res := range r.s.reservations {
		if res.TaskID == taskID && res.ItemID == itemID {
			list = append(list, res)
		}
	}
	return list, nil
}

// Create guarda la reserva; asigna ID si falta.
func (r *ReservationRepo) Create(_ context.Context, res *entity.Reservation) error {
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.reservations[res.ID] = *res
	return nil
}

// Update reemplaza la reserva existente.
func (r *ReservationRepo) Update(_ context.Context, res *entity.Reservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reservations[res.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.reservations[res.ID] = *res
	return nil
}

// Delete elimina la reserva (liberación o conversión a consumo).
func (r *ReservationRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reservations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.reservations, id)
	return nil
}
