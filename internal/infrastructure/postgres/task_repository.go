package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

var _ repository.TaskRepository = (*TaskRepo)(nil)

// TaskRepo implementación de TaskRepository sobre PostgreSQL.
type TaskRepo struct {
	q Querier
}

// NewTaskRepository construye el adaptador de tareas. Pasar pool o tx (Querier).
func NewTaskRepository(q Querier) *TaskRepo {
	return &TaskRepo{q: q}
}

// GetByID obtiene la tarea con su lista de materiales. Devuelve (nil, nil) si no existe.
func (r *TaskRepo) GetByID(ctx context.Context, id string) (*entity.ProductionTask, error) {
	query := `
		SELECT id, name, output_quantity, material_cost, full_production_cost,
		       material_unit_cost, full_production_unit_cost, cost_updated_at,
		       created_at, updated_at
		FROM production_tasks WHERE id = $1`
	var task entity.ProductionTask
	err := r.q.QueryRow(ctx, query, id).Scan(
		&task.ID, &task.Name, &task.OutputQuantity, &task.MaterialCost, &task.FullProductionCost,
		&task.MaterialUnitCost, &task.FullProductionUnitCost, &task.CostUpdatedAt,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT item_id, required_quantity, included_in_cost
		FROM task_materials WHERE task_id = $1
		ORDER BY item_id`, id)
	if err != nil {
		return nil, fmt.Errorf("list task materials: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m entity.TaskMaterial
		if err := rows.Scan(&m.ItemID, &m.RequiredQuantity, &m.IncludedInCost); err != nil {
			return nil, fmt.Errorf("scan task material: %w", err)
		}
		task.Materials = append(task.Materials, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateCosts persiste solo los campos de costo derivados de la tarea.
func (r *TaskRepo) UpdateCosts(ctx context.Context, task *entity.ProductionTask) error {
	query := `
		UPDATE production_tasks
		SET material_cost = $1, full_production_cost = $2,
		    material_unit_cost = $3, full_production_unit_cost = $4,
		    cost_updated_at = $5, updated_at = now()
		WHERE id = $6`
	_, err := r.q.Exec(ctx, query,
		task.MaterialCost, task.FullProductionCost,
		task.MaterialUnitCost, task.FullProductionUnitCost,
		task.CostUpdatedAt, task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task costs: %w", err)
	}
	return nil
}
