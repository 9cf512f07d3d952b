package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación en memoria de OrderRepository.
type OrderRepo struct {
	s *Store
}

// NewOrderRepository construye el adaptador sobre el almacén.
func NewOrderRepository(s *Store) *OrderRepo { return &OrderRepo{s: s} }

// GetByID devuelve una copia del pedido, o (nil, nil) si no existe.
func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	order, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return &order, nil
}

// ListReferencingTask devuelve los pedidos con alguna línea ligada a la tarea,
// en orden estable por ID.
func (r *OrderRepo) ListReferencingTask(_ context.Context, taskID string) ([]entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []entity.Order
	for _, order := range r.s.orders {
		for _, item := range order.Items {
			if item.ProductionTaskID == taskID {
				list = append(list, order)
				break
			}
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// Update reemplaza el pedido completo (cabecera + líneas + total).
func (r *OrderRepo) Update(_ context.Context, order *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[order.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	r.s.orders[order.ID] = *order
	return nil
}
