package memory

import (
	"context"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación en memoria de ItemRepository.
type ItemRepo struct {
	s *Store
}

// NewItemRepository construye el adaptador sobre el almacén.
func NewItemRepository(s *Store) *ItemRepo { return &ItemRepo{s: s} }

// GetByID devuelve una copia del ítem, o (nil, nil) si no existe.
func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	item, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}
