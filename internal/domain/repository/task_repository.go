package repository

import (
	"context"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

// TaskRepository define el puerto hacia las tareas de producción (consumidores).
type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*entity.ProductionTask, error)
	// UpdateCosts persiste solo los campos de costo derivados y CostUpdatedAt.
	UpdateCosts(ctx context.Context, task *entity.ProductionTask) error
}
