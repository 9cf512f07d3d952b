package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación de LotRepository sobre PostgreSQL (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

// GetByID obtiene un lote por ID. Devuelve (nil, nil) si no existe.
func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	query := `
		SELECT id, item_id, lot_number, quantity, unit_price, expiry_date,
		       receipt_sequence, version, received_at, updated_at
		FROM lots WHERE id = $1`
	var lot entity.Lot
	err := r.q.QueryRow(ctx, query, id).Scan(
		&lot.ID, &lot.ItemID, &lot.LotNumber, &lot.Quantity, &lot.UnitPrice,
		&lot.ExpiryDate, &lot.ReceiptSequence, &lot.Version, &lot.ReceivedAt, &lot.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return &lot, nil
}

// ListByItem devuelve los lotes de un material en orden de recepción.
func (r *LotRepo) ListByItem(ctx context.Context, itemID string) ([]entity.Lot, error) {
	query := `
		SELECT id, item_id, lot_number, quantity, unit_price, expiry_date,
		       receipt_sequence, version, received_at, updated_at
		FROM lots WHERE item_id = $1
		ORDER BY receipt_sequence`
	rows, err := r.q.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()

	var lots []entity.Lot
	for rows.Next() {
		var lot entity.Lot
		if err := rows.Scan(
			&lot.ID, &lot.ItemID, &lot.LotNumber, &lot.Quantity, &lot.UnitPrice,
			&lot.ExpiryDate, &lot.ReceiptSequence, &lot.Version, &lot.ReceivedAt, &lot.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		lots = append(lots, lot)
	}
	return lots, rows.Err()
}

// Create inserta un lote nuevo. La secuencia de recepción la asigna la base.
func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	query := `
		INSERT INTO lots (id, item_id, lot_number, quantity, unit_price, expiry_date,
		                  version, received_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, now(), now())
		RETURNING receipt_sequence, version, received_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		lot.ID, lot.ItemID, lot.LotNumber, lot.Quantity, lot.UnitPrice, lot.ExpiryDate,
	).Scan(&lot.ReceiptSequence, &lot.Version, &lot.ReceivedAt, &lot.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("lote %s ya existe para el material: %w", lot.LotNumber, domain.ErrConflict)
		}
		return fmt.Errorf("create lot: %w", err)
	}
	return nil
}

// Update escribe el lote condicionado a la versión leída (compare-and-swap).
// Si otra escritura ganó la carrera devuelve domain.ErrStaleWrite.
func (r *LotRepo) Update(ctx context.Context, lot *entity.Lot) error {
	query := `
		UPDATE lots
		SET quantity = $1, unit_price = $2, expiry_date = $3,
		    version = version + 1, updated_at = now()
		WHERE id = $4 AND version = $5`
	tag, err := r.q.Exec(ctx, query,
		lot.Quantity, lot.UnitPrice, lot.ExpiryDate, lot.ID, lot.Version,
	)
	if err != nil {
		return fmt.Errorf("update lot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		current, err := r.GetByID(ctx, lot.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrLotNotFound
		}
		return domain.ErrStaleWrite
	}
	lot.Version++
	return nil
}
