package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación en memoria de LotRepository.
type LotRepo struct {
	s *Store
}

// NewLotRepository construye el adaptador sobre el almacén.
func NewLotRepository(s *Store) *LotRepo { return &LotRepo{s: s} }

// GetByID devuelve una copia del lote, o (nil, nil) si no existe.
func (r *LotRepo) GetByID(_ context.Context, id string) (*entity.Lot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	lot, ok := r.s.lots[id]
	if !ok {
		return nil, nil
	}
	return &lot, nil
}

// ListByItem devuelve los lotes del ítem (orden sin garantía; el selector ordena).
func (r *LotRepo) ListByItem(_ context.Context, itemID string) ([]entity.Lot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []entity.Lot
	for _, lot := range r.s.lots {
		if lot.ItemID == itemID {
			list = append(list, lot)
		}
	}
	return list, nil
}

// Create guarda el lote; asigna ID y secuencia de recepción si faltan.
func (r *LotRepo) Create(_ context.Context, lot *entity.Lot) error {
	if lot.ID == "" {
		lot.ID = uuid.New().String()
	}
	if lot.ReceiptSequence == 0 {
		lot.ReceiptSequence = r.s.NextReceiptSequence()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lots[lot.ID] = *lot
	return nil
}

// Update escribe condicionado a la versión (compare-and-swap).
func (r *LotRepo) Update(_ context.Context, lot *entity.Lot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.lots[lot.ID]
	if !ok {
		return domain.ErrLotNotFound
	}
	if stored.Version != lot.Version {
		return domain.ErrStaleWrite
	}
	lot.Version++
	r.s.lots[lot.ID] = *lot
	return nil
}
