package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

// ConsumptionRepository define el puerto del histórico de consumos.
// Los consumos nunca se borran; UpdatePrice es la única mutación permitida
// (corrección de precio) y no toca cantidad ni referencias.
type ConsumptionRepository interface {
	ListByTask(ctx context.Context, taskID string) ([]entity.Consumption, error)
	ListByTaskAndItem(ctx context.Context, taskID, itemID string) ([]entity.Consumption, error)
	Create(ctx context.Context, c *entity.Consumption) error
	UpdatePrice(ctx context.Context, id string, unitPrice decimal.Decimal, updatedAt time.Time) error
}
