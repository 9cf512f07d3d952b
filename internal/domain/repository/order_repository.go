package repository

import (
	"context"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

// OrderRepository define el puerto hacia los pedidos de cliente.
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// ListReferencingTask devuelve los pedidos con al menos una línea cuya
	// ProductionTaskID coincide (objetivo de la cascada de costos).
	ListReferencingTask(ctx context.Context, taskID string) ([]entity.Order, error)
	// Update persiste cabecera y líneas (total recalculado incluido).
	Update(ctx context.Context, order *entity.Order) error
}
