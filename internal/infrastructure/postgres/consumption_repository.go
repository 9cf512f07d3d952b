package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

var _ repository.ConsumptionRepository = (*ConsumptionRepo)(nil)

// ConsumptionRepo implementación de ConsumptionRepository sobre PostgreSQL.
type ConsumptionRepo struct {
	q Querier
}

// NewConsumptionRepository construye el adaptador de consumos. Pasar pool o tx (Querier).
func NewConsumptionRepository(q Querier) *ConsumptionRepo {
	return &ConsumptionRepo{q: q}
}

const consumptionColumns = `
	id, item_id, lot_id, lot_number, task_id, quantity, unit_price,
	price_updated_at, issued_at`

func scanConsumptions(rows pgx.Rows) ([]entity.Consumption, error) {
	defer rows.Close()
	var list []entity.Consumption
	for rows.Next() {
		var c entity.Consumption
		if err := rows.Scan(
			&c.ID, &c.ItemID, &c.LotID, &c.LotNumber, &c.TaskID,
			&c.Quantity, &c.UnitPrice, &c.PriceUpdatedAt, &c.IssuedAt,
		); err != nil {
			return nil, fmt.Errorf("scan consumption: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// ListByTask devuelve los consumos de una tarea de producción.
func (r *ConsumptionRepo) ListByTask(ctx context.Context, taskID string) ([]entity.Consumption, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+consumptionColumns+` FROM consumptions WHERE task_id = $1`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list consumptions by task: %w", err)
	}
	return scanConsumptions(rows)
}

// ListByTaskAndItem devuelve los consumos del par (tarea, material).
func (r *ConsumptionRepo) ListByTaskAndItem(ctx context.Context, taskID, itemID string) ([]entity.Consumption, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+consumptionColumns+` FROM consumptions WHERE task_id = $1 AND item_id = $2`,
		taskID, itemID)
	if err != nil {
		return nil, fmt.Errorf("list consumptions by task and item: %w", err)
	}
	return scanConsumptions(rows)
}

// Create inserta un consumo (registro histórico de emisión).
func (r *ConsumptionRepo) Create(ctx context.Context, c *entity.Consumption) error {
	query := `
		INSERT INTO consumptions (id, item_id, lot_id, lot_number, task_id, quantity,
		                          unit_price, price_updated_at, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.ItemID, c.LotID, c.LotNumber, c.TaskID,
		c.Quantity, c.UnitPrice, c.PriceUpdatedAt, c.IssuedAt,
	)
	if err != nil {
		return fmt.Errorf("create consumption: %w", err)
	}
	return nil
}

// UpdatePrice corrige el precio histórico de un consumo; la cantidad no cambia.
func (r *ConsumptionRepo) UpdatePrice(ctx context.Context, id string, unitPrice decimal.Decimal, updatedAt time.Time) error {
	query := `
		UPDATE consumptions SET unit_price = $1, price_updated_at = $2
		WHERE id = $3`
	tag, err := r.q.Exec(ctx, query, unitPrice, updatedAt, id)
	if err != nil {
		return fmt.Errorf("update consumption price: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
