package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

// ReservationRepo implementación de ReservationRepository sobre PostgreSQL.
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador de reservas. Pasar pool o tx (Querier).
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

const reservationColumns = `
	id, item_id, lot_id, lot_number, task_id, quantity, unit_price,
	price_updated_at, created_at, updated_at`

func scanReservations(rows pgx.Rows) ([]entity.Reservation, error) {
	defer rows.Close()
	var list []entity.Reservation
	for rows.Next() {
		var res entity.Reservation
		if err := rows.Scan(
			&res.ID, &res.ItemID, &res.LotID, &res.LotNumber, &res.TaskID,
			&res.Quantity, &res.UnitPrice, &res.PriceUpdatedAt, &res.CreatedAt, &res.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		list = append(list, res)
	}
	return list, rows.Err()
}

// ListByLot devuelve las reservas activas sobre un lote.
func (r *ReservationRepo) ListByLot(ctx context.Context, lotID string) ([]entity.Reservation, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE lot_id = $1`, lotID)
	if err != nil {
		return nil, fmt.Errorf("list reservations by lot: %w", err)
	}
	return scanReservations(rows)
}

// ListByTask devuelve las reservas de una tarea de producción.
func (r *ReservationRepo) ListByTask(ctx context.Context, taskID string) ([]entity.Reservation, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE task_id = $1`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list reservations by task: %w", err)
	}
	return scanReservations(rows)
}

// ListByTaskAndItem devuelve las reservas del par (tarea, material).
func (r *ReservationRepo) ListByTaskAndItem(ctx context.Context, taskID, itemID string) ([]entity.Reservation, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE task_id = $1 AND item_id = $2`,
		taskID, itemID)
	if err != nil {
		return nil, fmt.Errorf("list reservations by task and item: %w", err)
	}
	return scanReservations(rows)
}

// Create inserta una reserva nueva.
func (r *ReservationRepo) Create(ctx context.Context, res *entity.Reservation) error {
	query := `
		INSERT INTO reservations (id, item_id, lot_id, lot_number, task_id, quantity,
		                          unit_price, price_updated_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		RETURNING created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		res.ID, res.ItemID, res.LotID, res.LotNumber, res.TaskID,
		res.Quantity, res.UnitPrice, res.PriceUpdatedAt,
	).Scan(&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

// Update reescribe cantidad y precio de una reserva existente.
func (r *ReservationRepo) Update(ctx context.Context, res *entity.Reservation) error {
	query := `
		UPDATE reservations
		SET quantity = $1, unit_price = $2, price_updated_at = $3, updated_at = now()
		WHERE id = $4`
	tag, err := r.q.Exec(ctx, query, res.Quantity, res.UnitPrice, res.PriceUpdatedAt, res.ID)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una reserva (liberación o conversión a consumo).
func (r *ReservationRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
