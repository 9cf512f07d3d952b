package repository

import (
	"context"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

// LotRepository define el puerto hacia el almacén de lotes.
// GetByID devuelve (nil, nil) si el lote no existe: el que llama decide si eso
// es un faltante duro o un salto blando (reconciliación).
type LotRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Lot, error)
	ListByItem(ctx context.Context, itemID string) ([]entity.Lot, error)
	Create(ctx context.Context, lot *entity.Lot) error
	// Update escribe condicionado a lot.Version (compare-and-swap): si la fila
	// cambió desde la lectura devuelve domain.ErrStaleWrite y no escribe nada.
	// Incrementa Version en la escritura exitosa.
	Update(ctx context.Context, lot *entity.Lot) error
}
