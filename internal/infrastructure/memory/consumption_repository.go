package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

var _ repository.ConsumptionRepository = (*ConsumptionRepo)(nil)

// ConsumptionRepo implementación en memoria de ConsumptionRepository.
type ConsumptionRepo struct {
	s *Store
}

// NewConsumptionRepository construye el adaptador sobre el almacén.
func NewConsumptionRepository(s *Store) *ConsumptionRepo { return &ConsumptionRepo{s: s} }

// ListByTask devuelve los consumos de una tarea.
func (r *ConsumptionRepo) ListByTask(_ context.Context, taskID string) ([]entity.Consumption, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []entity.Consumption
	for _, c := range r.s.consumptions {
		if c.TaskID == taskID {
			list = append(list, c)
		}
	}
	return list, nil
}

// ListByTaskAndItem devuelve los consumos del par (tarea, material).
func (r *ConsumptionRepo) ListByTaskAndItem(_ context.Context, taskID, itemID string) ([]entity.Consumption, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []entity.Consumption
	for _, c := range r.s.consumptions {
		if c.TaskID == taskID && c.ItemID == itemID {
			list = append(list, c)
		}
	}
	return list, nil
}

// Create guarda el consumo; asigna ID si falta.
func (r *ConsumptionRepo) Create(_ context.Context, c *entity.Consumption) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.consumptions[c.ID] = *c
	return nil
}

// UpdatePrice corrige solo el precio histórico; cantidad y referencias quedan intactas.
func (r *ConsumptionRepo) UpdatePrice(_ context.Context, id string, unitPrice decimal.Decimal, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.consumptions[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.UnitPrice = unitPrice
	c.PriceUpdatedAt = &updatedAt
	r.s.consumptions[id] = c
	return nil
}
