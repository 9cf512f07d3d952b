package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL. A diferencia
// del resto recibe el pool directamente: Update escribe cabecera y líneas en
// una transacción propia.
type OrderRepo struct {
	pool *pgxpool.Pool
}

// NewOrderRepository construye el adaptador de pedidos.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

// GetByID obtiene el pedido con sus líneas. Devuelve (nil, nil) si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	order, err := r.getHeader(ctx, id)
	if err != nil || order == nil {
		return order, err
	}
	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ListReferencingTask devuelve los pedidos con alguna línea ligada a la tarea,
// con sus líneas cargadas, en orden estable por ID.
func (r *OrderRepo) ListReferencingTask(ctx context.Context, taskID string) ([]entity.Order, error) {
	query := `
		SELECT DISTINCT o.id, o.customer_id, o.number, o.date, o.discount_pct,
		       o.total_value, o.created_at, o.updated_at
		FROM orders o
		JOIN order_items i ON i.order_id = o.id
		WHERE i.production_task_id = $1
		ORDER BY o.id`
	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("list orders by task: %w", err)
	}
	defer rows.Close()

	var orders []entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(
			&o.ID, &o.CustomerID, &o.Number, &o.Date, &o.DiscountPct,
			&o.TotalValue, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// Update reescribe total y descuento de la cabecera y los costos cacheados de
// cada línea, todo en una transacción.
func (r *OrderRepo) Update(ctx context.Context, order *entity.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		UPDATE orders SET discount_pct = $1, total_value = $2, updated_at = now()
		WHERE id = $3`,
		order.DiscountPct, order.TotalValue, order.ID,
	)
	if err != nil {
		return fmt.Errorf("update order header: %w", err)
	}
	for _, item := range order.Items {
		_, err = tx.Exec(ctx, `
			UPDATE order_items
			SET quantity = $1, unit_price = $2, from_price_list = $3,
			    material_cost = $4, full_production_cost = $5
			WHERE id = $6 AND order_id = $7`,
			item.Quantity, item.UnitPrice, item.FromPriceList,
			item.MaterialCost, item.FullProductionCost,
			item.ID, order.ID,
		)
		if err != nil {
			return fmt.Errorf("update order item %s: %w", item.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *OrderRepo) getHeader(ctx context.Context, id string) (*entity.Order, error) {
	query := `
		SELECT id, customer_id, number, date, discount_pct, total_value, created_at, updated_at
		FROM orders WHERE id = $1`
	var o entity.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.CustomerID, &o.Number, &o.Date, &o.DiscountPct,
		&o.TotalValue, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

func (r *OrderRepo) loadItems(ctx context.Context, order *entity.Order) error {
	rows, err := r.pool.Query(ctx, `
		SELECT id, item_id, production_task_id, quantity, unit_price,
		       from_price_list, material_cost, full_production_cost
		FROM order_items WHERE order_id = $1
		ORDER BY id`, order.ID)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.OrderLineItem
		if err := rows.Scan(
			&item.ID, &item.ItemID, &item.ProductionTaskID, &item.Quantity,
			&item.UnitPrice, &item.FromPriceList, &item.MaterialCost, &item.FullProductionCost,
		); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}
