package repository

import (
	"context"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

// ItemRepository define el puerto de lectura de datos maestros de ítems.
// El motor nunca escribe ítems (CRUD externo).
type ItemRepository interface {
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
}
