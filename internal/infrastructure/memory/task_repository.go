package memory

import (
	"context"

	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

var _ repository.TaskRepository = (*TaskRepo)(nil)

// TaskRepo implementación en memoria de TaskRepository.
type TaskRepo struct {
	s *Store
}

// NewTaskRepository construye el adaptador sobre el almacén.
func NewTaskRepository(s *Store) *TaskRepo { return &TaskRepo{s: s} }

// GetByID devuelve una copia de la tarea, o (nil, nil) si no existe.
func (r *TaskRepo) GetByID(_ context.Context, id string) (*entity.ProductionTask, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	task, ok := r.s.tasks[id]
	if !ok {
		return nil, nil
	}
	return &task, nil
}

// UpdateCosts persiste los campos de costo derivados de la tarea.
func (r *TaskRepo) UpdateCosts(_ context.Context, task *entity.ProductionTask) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.tasks[task.ID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	stored.MaterialCost = task.MaterialCost
	stored.FullProductionCost = task.FullProductionCost
	stored.MaterialUnitCost = task.MaterialUnitCost
	stored.FullProductionUnitCost = task.FullProductionUnitCost
	stored.CostUpdatedAt = task.CostUpdatedAt
	stored.UpdatedAt = task.UpdatedAt
	r.s.tasks[task.ID] = stored
	return nil
}
